package bfv

import "github.com/hintlesspir/hintlesspir/ring"

// EncodePlaintext lifts a raw (unscaled) vector of values, each already
// reduced modulo the instance's plaintext modulus, directly into the
// ciphertext ring's RNS representation and transforms it to NTT form. Unlike
// Encode, it does not scale by Δ: this is the "plaintext operand" of a
// ciphertext-times-plaintext multiplication (the diagonal method's database
// diagonals), where the scaling already carried by the ciphertext operand
// must not be doubled.
func EncodePlaintext(r *ring.Ring, m []uint64) *ring.Poly {
	coeff := r.NewPoly()
	for i, mod := range r.Moduli {
		row := coeff.Coeffs[i]
		for p, v := range m {
			row[p] = v % mod.Q
		}
	}
	out := r.NewPoly()
	r.NTT(coeff, out)
	return out
}
