package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Entity id prefixes.
const (
	PrefixFolder  = "fld"
	PrefixMovie   = "mov"
	PrefixSession = "ssn"
)

// Generate creates a prefixed unique ID using NanoID,
// e.g. "mov-V1StGXR8_Z5jdHi6B-myT".
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics when the system cannot supply
// entropy. Fine for request-path id minting; a failure here means the host
// is broken anyway.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate id: %v", err))
	}
	return id
}
