package id

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
// Used for public entity ids (applications, loans, payments).
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// NewTransactionID returns a prefixed unique transaction reference,
// e.g. "TXN-1b9d6bcd...". The engine's own reference stays distinct from
// whatever the gateway assigns.
func NewTransactionID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}
