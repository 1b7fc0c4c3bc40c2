package bfv

import "github.com/hintlesspir/hintlesspir/ring"

// GaloisKey is a gadget-decomposed key-switching key from σ_g(s) back to s,
// one ciphertext per gadget digit. Only the "b" halves of these ciphertexts
// travel on the wire; the "a" halves are re-derived from a public seed.
type GaloisKey struct {
	GalEl  uint64
	Digits []*Ciphertext
}

// GenGaloisKey produces the Galois key for automorphism exponent galEl,
// encrypting, for every gadget digit (i, j), the scaled ring element
// g[i][j] * σ_g(s) under the original secret s. The "a" halves are drawn
// from gkPadPRNG (the public prng_seed_gk_pad).
func GenGaloisKey(r *ring.Ring, gadget *Gadget, sNTT *ring.Poly, galEl uint64, errorVariance int, gkPadPRNG, errPRNG ring.PRNG) *GaloisKey {
	sigmaS := r.NewPoly()
	r.AutomorphismNTT(sNTT, galEl, sigmaS)

	digits := make([]*Ciphertext, 0, gadget.NumDigits())
	for i := range gadget.DigitsPerLevel {
		for j := 0; j < gadget.DigitsPerLevel[i]; j++ {
			scaledSecret := gadget.ScaleByBasis(i, j, sigmaS)

			a := r.SampleUniformPolyNTT(gkPadPRNG)
			as := r.NewPoly()
			r.MulCoeffsMontgomery(a, sNTT, as)

			eCoeff := r.SampleCenteredBinomialPoly(errPRNG, errorVariance)
			eNTT := r.NewPoly()
			r.NTT(eCoeff, eNTT)

			b := r.NewPoly()
			r.Neg(as, b)
			r.Add(b, scaledSecret, b)
			r.Add(b, eNTT, b)
			b.IsNTT = true

			digits = append(digits, &Ciphertext{B: b, A: a})
		}
	}
	return &GaloisKey{GalEl: galEl, Digits: digits}
}

// ReconstructGaloisKey rebuilds the "a" halves of a Galois key from the
// public gk-pad seed and the client-supplied "b" halves, in the order
// produced by GenGaloisKey/Gadget.Decompose.
func ReconstructGaloisKey(r *ring.Ring, gadget *Gadget, galEl uint64, bHalves []*ring.Poly, gkPadPRNG ring.PRNG) *GaloisKey {
	digits := make([]*Ciphertext, len(bHalves))
	for idx, b := range bHalves {
		a := r.SampleUniformPolyNTT(gkPadPRNG)
		digits[idx] = &Ciphertext{B: b, A: a}
	}
	return &GaloisKey{GalEl: galEl, Digits: digits}
}
