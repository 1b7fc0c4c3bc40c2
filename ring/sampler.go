package ring

import (
	"encoding/binary"
	"math/bits"
)

// SampleUniformUint64 draws a uniform value in [0, q) from prng via
// rejection sampling on 8-byte reads.
func SampleUniformUint64(prng PRNG, q uint64) uint64 {
	mask := uint64(1)<<uint(bits.Len64(q)) - 1
	buf := make([]byte, 8)
	for {
		if _, err := prng.Read(buf); err != nil {
			panic(err)
		}
		v := binary.LittleEndian.Uint64(buf) & mask
		if v < q {
			return v
		}
	}
}

// SampleUniformSlice fills out with independent uniform values in [0, q).
func SampleUniformSlice(prng PRNG, q uint64, out []uint64) {
	for i := range out {
		out[i] = SampleUniformUint64(prng, q)
	}
}

// SampleUniformMatrix fills a rows*cols matrix (row-major) with independent
// uniform values in [0, q) drawn with SampleUniformSlice.
func SampleUniformMatrix(prng PRNG, q uint64, rows, cols int) []uint64 {
	out := make([]uint64, rows*cols)
	SampleUniformSlice(prng, q, out)
	return out
}

// SampleUniformPoly draws a polynomial with coefficients independently
// uniform modulo each RNS modulus, in coefficient form. Ciphertext and
// Galois-key pads are drawn with SampleUniformPolyNTT instead.
func (r *Ring) SampleUniformPoly(prng PRNG) *Poly {
	p := r.NewPoly()
	for i, m := range r.Moduli {
		SampleUniformSlice(prng, m.Q, p.Coeffs[i])
	}
	return p
}

// SampleUniformPolyNTT draws a polynomial directly in NTT/Montgomery
// representation: since a uniformly random ring element has uniformly
// random NTT coefficients, and Montgomery form is a bijection on each
// residue class, sampling raw uniform values and labeling them NTT-domain
// Montgomery coefficients is indistinguishable from sampling a uniform
// polynomial and transforming it, and avoids paying for the transform on
// every ciphertext/Galois-key pad.
func (r *Ring) SampleUniformPolyNTT(prng PRNG) *Poly {
	p := r.NewPoly()
	for i, m := range r.Moduli {
		SampleUniformSlice(prng, m.Q, p.Coeffs[i])
	}
	p.IsNTT = true
	return p
}

// SampleTernaryPoly draws a polynomial whose N coefficients are each an
// independent uniform value in {-1, 0, 1}, embedded consistently across
// every RNS modulus (coefficient i must represent the same small integer
// under every qi for the CRT lift to recover it).
func (r *Ring) SampleTernaryPoly(prng PRNG) *Poly {
	p := r.NewPoly()
	buf := make([]byte, 1)
	for j := 0; j < r.N; j++ {
		var v int
		for {
			if _, err := prng.Read(buf); err != nil {
				panic(err)
			}
			// 3 equiprobable outcomes out of 4; reject the excluded one.
			v = int(buf[0] & 0x3)
			if v != 3 {
				break
			}
		}
		// v in {0,1,2} maps to {-1,0,1}.
		signed := v - 1
		for i, m := range r.Moduli {
			switch {
			case signed == 0:
				p.Coeffs[i][j] = 0
			case signed > 0:
				p.Coeffs[i][j] = 1
			default:
				p.Coeffs[i][j] = m.Q - 1
			}
		}
	}
	return p
}

// SampleCenteredBinomialPoly draws error polynomials for the centered
// binomial distribution with the given variance parameter (the sum of
// `variance` fair coin pairs, standard for LWE/RLWE error sampling),
// embedding each coefficient consistently across every RNS modulus.
func (r *Ring) SampleCenteredBinomialPoly(prng PRNG, variance int) *Poly {
	p := r.NewPoly()
	buf := make([]byte, (2*variance+7)/8*2)
	for j := 0; j < r.N; j++ {
		if _, err := prng.Read(buf); err != nil {
			panic(err)
		}
		var a, b int
		for k := 0; k < variance; k++ {
			a += int(bitAt(buf, k))
			b += int(bitAt(buf, variance+k))
		}
		signed := a - b
		for i, m := range r.Moduli {
			p.Coeffs[i][j] = centeredToModulus(signed, m)
		}
	}
	return p
}

func bitAt(buf []byte, idx int) byte {
	return (buf[idx/8] >> uint(idx%8)) & 1
}

func centeredToModulus(v int, m Modulus) uint64 {
	if v >= 0 {
		return uint64(v) % m.Q
	}
	return m.Q - uint64(-v)%m.Q
}
