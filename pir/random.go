package pir

import (
	"crypto/rand"
	"fmt"
)

// randomSeed draws n bytes of secure entropy, used only to mint the fresh,
// unpredictable seeds (public PRNG seeds, per-request secret-key seeds) that
// are then expanded deterministically via ring.PRNG; it is never used as a
// PRNG itself.
func randomSeed(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("pir: reading secure randomness: %w", err)
	}
	return b, nil
}
