package bfv

import "github.com/hintlesspir/hintlesspir/ring"

// Automorphism applies the Galois substitution X -> X^g to ct (encrypted
// under s) and key-switches the result back to s using gk, returning a
// ciphertext that decrypts under s to σ_g(m).
//
// Applying σ_g to both ciphertext halves gives a ciphertext that decrypts
// correctly under σ_g(s), since decryption commutes with any ring
// automorphism: σ_g(B) + σ_g(A)·σ_g(s) = σ_g(B + A·s) = σ_g(m). The rotated
// "a" half is then gadget-decomposed and folded against gk, whose digit i,j
// ciphertext encrypts g[i][j]·σ_g(s) under s, so the key-switch result
// decrypts under s to σ_g(A)·σ_g(s), leaving the combined ciphertext
// decrypting under s to σ_g(m).
func Automorphism(r *ring.Ring, gadget *Gadget, ct *Ciphertext, gk *GaloisKey) *Ciphertext {
	bSigma := r.NewPoly()
	r.AutomorphismNTT(ct.B, gk.GalEl, bSigma)

	aSigma := r.NewPoly()
	r.AutomorphismNTT(ct.A, gk.GalEl, aSigma)

	aSigmaCoeff := r.NewPoly()
	r.InvNTT(aSigma, aSigmaCoeff)

	digits := gadget.Decompose(aSigmaCoeff)

	ksB := r.NewPoly()
	ksA := r.NewPoly()
	for idx, d := range digits {
		kk := gk.Digits[idx]
		r.MulCoeffsMontgomeryAndAdd(d, kk.B, ksB)
		r.MulCoeffsMontgomeryAndAdd(d, kk.A, ksA)
	}
	ksB.IsNTT = true
	ksA.IsNTT = true

	outB := r.NewPoly()
	r.Add(bSigma, ksB, outB)
	outB.IsNTT = true

	return &Ciphertext{B: outB, A: ksA}
}
