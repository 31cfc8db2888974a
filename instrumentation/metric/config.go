package metric

import "github.com/orbs-network/fungible-ledger-go/config"

func RegisterConfigIndicators(metricRegistry Registry, cfg config.SandboxConfig) {
	version := config.GetVersion()

	metricRegistry.NewText("Version.Semantic", version.Semantic)
	metricRegistry.NewText("Version.Commit", version.Commit)
	metricRegistry.NewText("Sandbox.HttpAddress", cfg.HttpAddress())
}
