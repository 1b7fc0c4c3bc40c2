// Package lwe implements the symmetric-key LWE layer used by SimplePIR:
// deterministic pad expansion, short-norm secret sampling, in-place
// encryption with a centered error, and the error-removal step that turns a
// noisy SimplePIR answer back into an exact plaintext.
package lwe

import (
	"encoding/binary"

	"github.com/hintlesspir/hintlesspir/ring"
)

// Params holds the LWE-specific parameters: the modulus bit size ℓ (so that
// q = 2^ℓ with ordinary wraparound arithmetic), the plaintext bit size p,
// and the error variance used by the centered-binomial error sampler.
type Params struct {
	ModulusBitSize   int
	PlaintextBitSize int
	ErrorVariance    int
}

// Mask returns 2^ModulusBitSize - 1, used to reduce every arithmetic result
// to q = 2^ModulusBitSize by ordinary wraparound.
func (p Params) Mask() uint64 {
	if p.ModulusBitSize >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(p.ModulusBitSize)) - 1
}

// Delta returns Δ = 2^(ℓ-p), the scaling factor that embeds a p-bit
// plaintext into the top bits of the q-bit ciphertext modulus.
func (p Params) Delta() uint64 {
	return uint64(1) << uint(p.ModulusBitSize-p.PlaintextBitSize)
}

// Key is a short-norm (ternary) LWE secret of a fixed dimension. Each entry
// is already reduced modulo q = 2^ℓ, with -1 represented as q-1.
type Key struct {
	Secret []uint64
	mask   uint64
}

// SampleKey draws a fresh ternary secret of the given dimension from prng.
func SampleKey(prng ring.PRNG, dim int, params Params) *Key {
	mask := params.Mask()
	s := make([]uint64, dim)
	buf := make([]byte, 1)
	for i := range s {
		var v int
		for {
			if _, err := prng.Read(buf); err != nil {
				panic(err)
			}
			v = int(buf[0] & 0x3)
			if v != 3 {
				break
			}
		}
		switch v - 1 {
		case 0:
			s[i] = 0
		case 1:
			s[i] = 1
		default:
			s[i] = mask
		}
	}
	return &Key{Secret: s, mask: mask}
}

// ExpandPad deterministically fills a rows x cols matrix (row-major) over
// q = 2^ℓ from seed. Because q is a power of two, every 8-byte PRNG read
// yields a uniform residue with no rejection needed.
func ExpandPad(prng ring.PRNG, rows, cols int, params Params) []uint64 {
	mask := params.Mask()
	out := make([]uint64, rows*cols)
	buf := make([]byte, 8)
	for i := range out {
		if _, err := prng.Read(buf); err != nil {
			panic(err)
		}
		out[i] = binary.LittleEndian.Uint64(buf) & mask
	}
	return out
}

// MatVecMul computes M (rows x cols, row-major) · v (length cols) modulo
// q = 2^ℓ, the "ordinary 32-bit wrap" multiply used both for the SimplePIR
// answer and for the hint matrices.
func MatVecMul(M []uint64, rows, cols int, v []uint64, params Params) []uint64 {
	mask := params.Mask()
	out := make([]uint64, rows)
	for i := 0; i < rows; i++ {
		var acc uint64
		row := M[i*cols : (i+1)*cols]
		for j := 0; j < cols; j++ {
			acc += row[j] * v[j]
		}
		out[i] = acc & mask
	}
	return out
}

// MatMatMul computes A (rows x inner, row-major) · B (inner x cols,
// row-major) modulo q = 2^ℓ, the same ordinary wraparound multiply as
// MatVecMul generalized to a matrix right-hand side. Used to refresh a
// SimplePIR hint (data · A) whenever the public pad A changes.
func MatMatMul(A []uint64, rows, inner int, B []uint64, cols int, params Params) []uint64 {
	mask := params.Mask()
	out := make([]uint64, rows*cols)
	for i := 0; i < rows; i++ {
		aRow := A[i*inner : (i+1)*inner]
		oRow := out[i*cols : (i+1)*cols]
		for k := 0; k < inner; k++ {
			a := aRow[k]
			if a == 0 {
				continue
			}
			bRow := B[k*cols : (k+1)*cols]
			for j := 0; j < cols; j++ {
				oRow[j] += a * bRow[j]
			}
		}
		for j := 0; j < cols; j++ {
			oRow[j] &= mask
		}
	}
	return out
}

// sampleError draws a single centered-binomial error value embedded modulo
// q = 2^ℓ (negative values wrap around, matching the rest of the LWE
// arithmetic).
func sampleError(prng ring.PRNG, params Params) uint64 {
	variance := params.ErrorVariance
	nbytes := (2*variance + 7) / 8
	if nbytes == 0 {
		nbytes = 1
	}
	buf := make([]byte, nbytes)
	if _, err := prng.Read(buf); err != nil {
		panic(err)
	}
	var a, b int
	for k := 0; k < variance; k++ {
		a += int((buf[k/8] >> uint(k%8)) & 1)
		b += int((buf[(variance+k)/8] >> uint((variance+k)%8)) & 1)
	}
	signed := a - b
	// Two's-complement wraparound at 64 bits already agrees with wraparound
	// at 2^ℓ once masked, since 2^ℓ divides 2^64.
	return uint64(signed) & params.Mask()
}

// EncryptInPlace computes b = A·s + Δ·m + e (mod q), where A is the
// db_cols x secretDim public pad (row-major), s is the LWE secret, and m is
// the plaintext vector (length = len(A)/secretDim). A fresh error is drawn
// from prng for every coordinate.
func EncryptInPlace(A []uint64, secretDim int, s *Key, m []uint64, params Params, prng ring.PRNG) []uint64 {
	rows := len(A) / secretDim
	b := MatVecMul(A, rows, secretDim, s.Secret, params)
	mask := params.Mask()
	delta := params.Delta()
	for i := range b {
		e := sampleError(prng, params)
		b[i] = (b[i] + delta*m[i] + e) & mask
	}
	return b
}

// RemoveErrorInPlace rounds every entry of v to the nearest multiple of
// Δ = 2^(ℓ-p) and divides by Δ, assuming the true error magnitude is below
// Δ/2. v is modified in place and ends up holding p-bit plaintext values.
func RemoveErrorInPlace(v []uint64, params Params) {
	delta := params.Delta()
	mask := params.Mask()
	half := delta / 2
	for i, x := range v {
		x &= mask
		rounded := (x + half) / delta
		v[i] = rounded & ((uint64(1) << uint(params.PlaintextBitSize)) - 1)
	}
}
