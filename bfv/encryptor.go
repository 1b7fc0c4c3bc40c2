package bfv

import "github.com/hintlesspir/hintlesspir/ring"

// Encode scales a plaintext polynomial (coefficients in [0, t)) by
// Δ = floor(Q/t) per RNS level and returns it in NTT form, ready to be added
// into a fresh ciphertext's B half.
func Encode(r *ring.Ring, deltaModQ []uint64, m []uint64) *ring.Poly {
	scaled := r.NewPoly()
	for i, mod := range r.Moduli {
		row := scaled.Coeffs[i]
		for p, v := range m {
			row[p] = mod.Mul(v%mod.Q, deltaModQ[i])
		}
	}
	out := r.NewPoly()
	r.NTT(scaled, out)
	return out
}

// Encrypt produces a fresh symmetric RNS-BFV ciphertext encrypting m
// (already scaled and in NTT form, see Encode) under secret sNTT (NTT
// form). The "a" half is drawn directly in NTT/Montgomery representation
// from ctPadPRNG: since a uniformly random ring element has uniformly
// random NTT coefficients, this is equivalent to sampling a uniform
// polynomial and transforming it, without paying for the transform.
func Encrypt(r *ring.Ring, sNTT *ring.Poly, mScaledNTT *ring.Poly, errorVariance int, ctPadPRNG, errPRNG ring.PRNG) *Ciphertext {
	a := r.SampleUniformPolyNTT(ctPadPRNG)

	as := r.NewPoly()
	r.MulCoeffsMontgomery(a, sNTT, as)

	eCoeff := r.SampleCenteredBinomialPoly(errPRNG, errorVariance)
	eNTT := r.NewPoly()
	r.NTT(eCoeff, eNTT)

	b := r.NewPoly()
	r.Neg(as, b)
	r.Add(b, mScaledNTT, b)
	r.Add(b, eNTT, b)
	b.IsNTT = true

	return &Ciphertext{B: b, A: a}
}

// ReconstructA regenerates the public "a" half of a ciphertext from the
// ciphertext-pad PRNG seed, used by the server which never receives "a" on
// the wire.
func ReconstructA(r *ring.Ring, ctPadPRNG ring.PRNG) *ring.Poly {
	return r.SampleUniformPolyNTT(ctPadPRNG)
}
