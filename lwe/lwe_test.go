package lwe

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hintlesspir/hintlesspir/ring"
)

func testLweParams() Params {
	return Params{ModulusBitSize: 16, PlaintextBitSize: 6, ErrorVariance: 2}
}

func newPRNG(t *testing.T, seed []byte) ring.PRNG {
	prng, err := ring.NewPRNG(ring.HKDF, seed)
	require.NoError(t, err)
	return prng
}

func TestExpandPadIsDeterministic(t *testing.T) {
	params := testLweParams()
	seed := []byte("expand-pad-seed")
	a := ExpandPad(newPRNG(t, seed), 6, 4, params)
	b := ExpandPad(newPRNG(t, seed), 6, 4, params)
	require.Equal(t, a, b)

	other := ExpandPad(newPRNG(t, []byte("different-seed")), 6, 4, params)
	require.NotEqual(t, a, other)
}

func TestExpandPadWithinMask(t *testing.T) {
	params := testLweParams()
	a := ExpandPad(newPRNG(t, []byte("s")), 8, 5, params)
	mask := params.Mask()
	for _, v := range a {
		require.LessOrEqual(t, v, mask)
	}
}

func TestSampleKeyIsTernary(t *testing.T) {
	params := testLweParams()
	key := SampleKey(newPRNG(t, []byte("key-seed")), 32, params)
	mask := params.Mask()
	for _, v := range key.Secret {
		require.True(t, v == 0 || v == 1 || v == mask)
	}
}

func TestMatVecMul(t *testing.T) {
	params := testLweParams()
	// 2x3 matrix times a length-3 vector, checked against a hand computation.
	M := []uint64{1, 2, 3, 4, 5, 6}
	v := []uint64{1, 1, 1}
	got := MatVecMul(M, 2, 3, v, params)
	want := []uint64{(1 + 2 + 3) & params.Mask(), (4 + 5 + 6) & params.Mask()}
	require.Equal(t, want, got)
}

func TestMatVecMulWraps(t *testing.T) {
	params := Params{ModulusBitSize: 4, PlaintextBitSize: 2, ErrorVariance: 1}
	M := []uint64{15, 15}
	v := []uint64{1, 1}
	got := MatVecMul(M, 1, 2, v, params)
	require.Equal(t, []uint64{(30) % 16}, got)
}

func TestMatMatMulAgreesWithRepeatedMatVecMul(t *testing.T) {
	params := testLweParams()
	A := []uint64{1, 2, 3, 4, 5, 6} // 2x3
	B := []uint64{
		1, 0,
		0, 1,
		2, 2,
	} // 3x2
	got := MatMatMul(A, 2, 3, B, 2, params)

	// column j of B, as a vector, run through MatVecMul, should match column j of got.
	for j := 0; j < 2; j++ {
		col := []uint64{B[0*2+j], B[1*2+j], B[2*2+j]}
		wantCol := MatVecMul(A, 2, 3, col, params)
		for i := 0; i < 2; i++ {
			require.Equal(t, wantCol[i], got[i*2+j])
		}
	}
}

func TestEncryptRemoveErrorRoundTrip(t *testing.T) {
	params := testLweParams()
	cols, secretDim := 5, 4

	padPRNG := newPRNG(t, []byte("pad"))
	A := ExpandPad(padPRNG, cols, secretDim, params)

	key := SampleKey(newPRNG(t, []byte("sk")), secretDim, params)

	m := []uint64{1, 5, 0, 62, 31}
	errPRNG := newPRNG(t, []byte("err"))
	b := EncryptInPlace(A, secretDim, key, m, params, errPRNG)

	// b = A.s + delta*m + e; recover m by subtracting A.s and removing the error.
	as := MatVecMul(A, cols, secretDim, key.Secret, params)
	mask := params.Mask()
	noisy := make([]uint64, cols)
	for i := range noisy {
		noisy[i] = (b[i] + mask + 1 - as[i]) & mask
	}
	RemoveErrorInPlace(noisy, params)
	require.Equal(t, m, noisy)
}

func TestRemoveErrorInPlaceToleratesSmallNoise(t *testing.T) {
	params := Params{ModulusBitSize: 8, PlaintextBitSize: 4, ErrorVariance: 2}
	delta := params.Delta() // 16
	v := []uint64{delta*5 + 3, delta * 0, delta*15 - 2}
	RemoveErrorInPlace(v, params)
	require.Equal(t, []uint64{5, 0, 15}, v)
}
