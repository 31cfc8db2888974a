package hash

import (
	"golang.org/x/crypto/ripemd160"
)

const (
	RIPEMD160_HASH_SIZE_BYTES = 20
)

func CalcRipemd160Sha256(data ...[]byte) []byte {
	r := ripemd160.New()
	r.Write(CalcSha256(data...)) // ripemd160 never returns write errors
	return r.Sum(nil)
}
