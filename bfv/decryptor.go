package bfv

import (
	"math/big"

	"github.com/hintlesspir/hintlesspir/ring"
)

// Decrypt decrypts ct under secret sNTT (both NTT form) and returns the
// length-N plaintext vector, each entry reduced modulo t.
func Decrypt(r *ring.Ring, sNTT *ring.Poly, ct *Ciphertext, t uint64) []uint64 {
	as := r.NewPoly()
	r.MulCoeffsMontgomery(ct.A, sNTT, as)

	sum := r.NewPoly()
	r.Add(ct.B, as, sum)

	coeffForm := r.NewPoly()
	r.InvNTT(sum, coeffForm)

	return DecodeCoeffs(r, coeffForm, t)
}

// DecodeCoeffs CRT-composes each coefficient of a polynomial held in
// coefficient (non-NTT) form and rounds it down from the ciphertext modulus
// Q to the plaintext modulus t: round(t/Q * x) mod t.
func DecodeCoeffs(r *ring.Ring, coeffForm *ring.Poly, t uint64) []uint64 {
	basis := r.CRTBasis()
	Q := r.ModulusBigInt()
	tBig := new(big.Int).SetUint64(t)
	half := new(big.Int).Rsh(Q, 1)

	N := r.N
	out := make([]uint64, N)
	residues := make([]uint64, len(r.Moduli))
	for p := 0; p < N; p++ {
		for i := range r.Moduli {
			residues[i] = coeffForm.Coeffs[i][p]
		}
		x := basis.ComposeUnsigned(residues)

		num := new(big.Int).Mul(x, tBig)
		num.Add(num, half)
		num.Quo(num, Q)
		num.Mod(num, tBig)
		out[p] = num.Uint64()
	}
	return out
}
