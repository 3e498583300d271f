// Package id generates prefixed unique identifiers for stored records.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes for the record kinds that carry string IDs. Beautiful dates use
// the database rowid instead, so they have no prefix here.
const (
	PrefixEvent    = "evt"
	PrefixStrategy = "strat"
)

// Generate creates a prefixed NanoID, e.g. "evt-V1StGXR8_Z5jdHi6B-myT".
// NanoIDs are URL-safe and shorter than UUIDs at comparable entropy.
// Returns an error if secure random generation fails.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics on failure. Reserved for
// initialization paths where missing entropy should crash the program.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}
