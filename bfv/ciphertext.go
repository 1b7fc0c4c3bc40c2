package bfv

import "github.com/hintlesspir/hintlesspir/ring"

// Ciphertext is a degree-1 RNS-BFV ciphertext (B, A) in NTT form, decrypting
// to m under secret s as round(t/Q * (B + A*s)) mod t. A is always
// recomputable from a public PRNG seed, so only B ever needs to be
// serialized or transmitted.
type Ciphertext struct {
	B *ring.Poly
	A *ring.Poly
}

// Copy returns a deep copy of ct.
func (ct *Ciphertext) Copy() *Ciphertext {
	return &Ciphertext{B: ct.B.CopyNew(), A: ct.A.CopyNew()}
}

// MulPlain multiplies ct by an NTT-form plaintext polynomial (no Δ scaling,
// see EncodePlaintext), scaling both ciphertext halves identically.
func MulPlain(r *ring.Ring, ct *Ciphertext, ptNTT *ring.Poly) *Ciphertext {
	b := r.NewPoly()
	r.MulCoeffsMontgomery(ct.B, ptNTT, b)
	b.IsNTT = true
	a := r.NewPoly()
	r.MulCoeffsMontgomery(ct.A, ptNTT, a)
	a.IsNTT = true
	return &Ciphertext{B: b, A: a}
}

// AddInPlace accumulates src into dst: dst.B += src.B, dst.A += src.A.
func AddInPlace(r *ring.Ring, dst, src *Ciphertext) {
	r.Add(dst.B, src.B, dst.B)
	r.Add(dst.A, src.A, dst.A)
}
