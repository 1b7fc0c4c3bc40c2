// Package bfv implements the symmetric-key RNS-BFV engine used as the
// homomorphic substrate for LinPir: ciphertext encryption/decryption over
// Rq = Zq[X]/(X^N+1), gadget (RNS digit) decomposition, Galois-key
// generation, and automorphism-plus-key-switch, all keyed by PRNG seeds so
// that only ciphertext "b" halves ever need to travel on the wire.
package bfv

import (
	"math/big"

	"github.com/hintlesspir/hintlesspir/ring"
)

// Params describes one RNS-BFV instance, including the plaintext modulus t
// that this instance's LinPir computation is carried out modulo. Hintless
// SimplePIR runs one independent Params/instance per plaintext modulus tk,
// since BFV only supports a single plaintext modulus at a time.
type Params struct {
	LogN          int
	Qs            []uint64
	T             uint64
	GadgetLogBs   []int
	ErrorVariance int
}

// N returns the ring degree 2^LogN.
func (p Params) N() int { return 1 << uint(p.LogN) }

// NewRing builds the ciphertext ring Rq for this instance.
func (p Params) NewRing() (*ring.Ring, error) {
	return ring.NewRing(p.N(), p.Qs)
}

// DeltaModQ returns floor(Q/t) reduced modulo each qi, the per-level
// constants used to scale a plaintext polynomial into ciphertext space
// without ever materializing the full-width product.
func (p Params) DeltaModQ(r *ring.Ring) []uint64 {
	Q := r.ModulusBigInt()
	delta := new(big.Int).Quo(Q, new(big.Int).SetUint64(p.T))
	out := make([]uint64, len(r.Moduli))
	for i, m := range r.Moduli {
		out[i] = new(big.Int).Mod(delta, new(big.Int).SetUint64(m.Q)).Uint64()
	}
	return out
}
