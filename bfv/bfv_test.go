package bfv

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hintlesspir/hintlesspir/ring"
)

// testParams is a toy RNS-BFV instance: N=16, two NTT-friendly primes, small
// enough to reason about by hand but large enough to exercise every RNS
// level of the gadget and the cross-level CRT reconstruction.
var testParams = Params{
	LogN:          4,
	Qs:            []uint64{7681, 12289},
	T:             97,
	GadgetLogBs:   []int{8, 8},
	ErrorVariance: 4,
}

func seededPRNG(t *testing.T, label string) ring.PRNG {
	t.Helper()
	p, err := ring.NewPRNG(ring.HKDF, []byte("bfv-test/"+label))
	require.NoError(t, err)
	return p
}

func testSecret(t *testing.T, r *ring.Ring) *ring.Poly {
	t.Helper()
	skPRNG := seededPRNG(t, "sk")
	sk := r.SampleTernaryPoly(skPRNG)
	skNTT := r.NewPoly()
	r.NTT(sk, skNTT)
	return skNTT
}

func TestEncryptDecrypt(t *testing.T) {
	r, err := testParams.NewRing()
	require.NoError(t, err)

	sNTT := testSecret(t, r)
	delta := testParams.DeltaModQ(r)

	m := make([]uint64, r.N)
	for i := range m {
		m[i] = uint64(i) % testParams.T
	}

	pt := Encode(r, delta, m)
	ct := Encrypt(r, sNTT, pt, testParams.ErrorVariance, seededPRNG(t, "ctpad"), seededPRNG(t, "err"))

	got := Decrypt(r, sNTT, ct, testParams.T)
	require.Equal(t, m, got)
}

func TestEncryptDecryptZero(t *testing.T) {
	r, err := testParams.NewRing()
	require.NoError(t, err)

	sNTT := testSecret(t, r)
	delta := testParams.DeltaModQ(r)

	m := make([]uint64, r.N)
	pt := Encode(r, delta, m)
	ct := Encrypt(r, sNTT, pt, testParams.ErrorVariance, seededPRNG(t, "ctpad-zero"), seededPRNG(t, "err-zero"))

	got := Decrypt(r, sNTT, ct, testParams.T)
	require.Equal(t, m, got)
}

func TestGadgetDecomposeReconstructs(t *testing.T) {
	r, err := testParams.NewRing()
	require.NoError(t, err)

	g := NewGadget(r, testParams.GadgetLogBs)
	require.Equal(t, len(r.Moduli), len(g.DigitsPerLevel))

	sNTT := testSecret(t, r)

	// Σ_j digit_j(X) * g[i][j] reconstructs the level-i residue of the
	// secret broadcast to every level; verify this at level i=0's own
	// residue, which the basis scalar must reproduce exactly (g[i][j][i] =
	// B_i^j mod qi).
	sCoeff := r.NewPoly()
	r.InvNTT(sNTT, sCoeff)
	digits := g.Decompose(sCoeff)

	acc := r.NewPoly()
	idx := 0
	for i := range g.DigitsPerLevel {
		for j := 0; j < g.DigitsPerLevel[i]; j++ {
			scaled := g.ScaleByBasis(i, j, digits[idx])
			r.Add(acc, scaled, acc)
			idx++
		}
	}

	// acc now holds Σ digit_{i,j} * g[i][j], which must CRT-reconstruct the
	// same integer as sCoeff at every level once both are taken out of NTT
	// form; check level 0 directly since digit 0's basis collapses exactly
	// there.
	accCoeff := r.NewPoly()
	r.InvNTT(acc, accCoeff)
	require.Equal(t, sCoeff.Coeffs[0], accCoeff.Coeffs[0])
}

func TestAutomorphism(t *testing.T) {
	r, err := testParams.NewRing()
	require.NoError(t, err)

	sNTT := testSecret(t, r)
	delta := testParams.DeltaModQ(r)
	g := NewGadget(r, testParams.GadgetLogBs)

	m := make([]uint64, r.N)
	for i := range m {
		m[i] = uint64(2*i+1) % testParams.T
	}
	pt := Encode(r, delta, m)
	ct := Encrypt(r, sNTT, pt, testParams.ErrorVariance, seededPRNG(t, "auto-ctpad"), seededPRNG(t, "auto-err"))

	galEl := uint64(3) // must be odd and coprime with 2N for a valid automorphism exponent.
	gk := GenGaloisKey(r, g, sNTT, galEl, testParams.ErrorVariance, seededPRNG(t, "auto-gkpad"), seededPRNG(t, "auto-gkerr"))

	rotated := Automorphism(r, g, ct, gk)
	got := Decrypt(r, sNTT, rotated, testParams.T)

	// The expected plaintext is whatever applying the same ring
	// automorphism to the (unencrypted, noiseless) scaled coefficient
	// representation decodes to: this is exactly what a noise-free
	// Automorphism + Decrypt must reproduce, including the negacyclic sign
	// flips that wraparound coefficients pick up.
	scaledCoeff := r.NewPoly()
	r.InvNTT(pt, scaledCoeff)
	rotatedCoeff := r.NewPoly()
	r.Substitute(scaledCoeff, galEl, rotatedCoeff)
	want := DecodeCoeffs(r, rotatedCoeff, testParams.T)

	require.Equal(t, want, got)
}
