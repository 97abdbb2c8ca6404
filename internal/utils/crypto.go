package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256Hex is used to key per-client counters without storing addresses.
func SHA256Hex(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}
