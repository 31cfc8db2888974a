package config

// Stamped at link time:
//   -ldflags "-X github.com/orbs-network/fungible-ledger-go/config.SemanticVersion=v1.2.3
//             -X github.com/orbs-network/fungible-ledger-go/config.CommitVersion=abc123"
var (
	SemanticVersion string
	CommitVersion   string
)

type Version struct {
	Semantic string
	Commit   string
}

func GetVersion() Version {
	v := Version{Semantic: SemanticVersion, Commit: CommitVersion}
	if v.Semantic == "" {
		v.Semantic = "dev"
	}
	return v
}

func (v Version) String() string {
	if v.Commit == "" {
		return v.Semantic
	}
	return v.Semantic + " (commit " + v.Commit + ")"
}
