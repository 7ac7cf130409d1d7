package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainModule = "hecate/module/v1"
	DomainOutput = "hecate/output/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ModuleHash computes the content hash of a module's structure.
// Two modules with the same globals, functions, blocks and instructions
// hash identically regardless of how they were loaded.
func ModuleHash(m *Module) (string, error) {
	canonical, err := MarshalCanonical(m.Canonical())
	if err != nil {
		return "", fmt.Errorf("ModuleHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainModule, canonical), nil
}

// OutputHash computes the content hash of emitted assembly.
func OutputHash(asm []byte) string {
	return hashWithDomain(DomainOutput, asm)
}

// MustModuleHash is like ModuleHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustModuleHash(m *Module) string {
	h, err := ModuleHash(m)
	if err != nil {
		panic(err)
	}
	return h
}
