// Package ring implements RNS-accelerated modular polynomial arithmetic over
// Rq = Zq[X]/(X^N+1), including Montgomery and Barrett reduction, the
// negacyclic NTT, CRT composition across an RNS basis, and the samplers
// needed by the LWE and BFV layers built on top of it.
package ring

import (
	"math/big"
	"math/bits"
)

// Modulus holds a single RNS prime qi together with its Montgomery and
// Barrett reduction constants. All arithmetic elsewhere in this package is
// expressed in terms of a Modulus rather than a bare uint64 so that the
// reduction constants travel with the prime they belong to.
type Modulus struct {
	Q      uint64
	mredQ  uint64   // q^-1 mod 2^64, used by Montgomery reduction
	bredQ  []uint64 // floor(2^128/q) as two 64-bit limbs, used by Barrett reduction
	montgU []uint64 // floor(2^128/q), a copy of bredQ; not read anywhere
}

// NewModulus precomputes the Montgomery and Barrett constants for q.
func NewModulus(q uint64) Modulus {
	m := Modulus{Q: q}
	m.mredQ = mredParams(q)
	m.bredQ = bredParams(q)
	m.montgU = m.bredQ
	return m
}

// mredParams computes qInv = q^-1 mod 2^64, the constant required by MRed.
func mredParams(q uint64) (qInv uint64) {
	qInv = 1
	x := q
	for i := 0; i < 63; i++ {
		qInv *= x
		x *= x
	}
	return qInv
}

// bredParams computes the two 64-bit limbs of floor(2^128/q) used by Barrett
// reduction.
func bredParams(q uint64) []uint64 {
	bigR := new(big.Int).Lsh(big.NewInt(1), 128)
	bigR.Quo(bigR, new(big.Int).SetUint64(q))
	mlo := bigR.Uint64()
	mhi := new(big.Int).Rsh(bigR, 64).Uint64()
	return []uint64{mhi, mlo}
}

// MForm switches a into the Montgomery domain: a*2^64 mod q.
func (m Modulus) MForm(a uint64) uint64 {
	return MRed(a, m.bredMontgomeryR2(), m.Q, m.mredQ)
}

// bredMontgomeryR2 returns 2^128 mod q, i.e. R^2 for Montgomery conversion,
// computed with math/big.
func (m Modulus) bredMontgomeryR2() uint64 {
	// 2^128 mod q is exactly the high limb product folded back down; since
	// we only need it to seed MForm, compute it directly with big.Int once.
	r2 := new(big.Int).Lsh(big.NewInt(1), 128)
	r2.Mod(r2, new(big.Int).SetUint64(m.Q))
	return r2.Uint64()
}

// InvMForm switches a out of the Montgomery domain: a*2^-64 mod q.
func (m Modulus) InvMForm(a uint64) (r uint64) {
	r, _ = bits.Mul64(a*m.mredQ, m.Q)
	r = m.Q - r
	if r >= m.Q {
		r -= m.Q
	}
	return
}

// MRed computes x*y*2^-64 mod q (Montgomery multiplication).
func MRed(x, y, q, qInv uint64) (r uint64) {
	ahi, alo := bits.Mul64(x, y)
	h, _ := bits.Mul64(alo*qInv, q)
	r = ahi - h + q
	if r >= q {
		r -= q
	}
	return
}

// BRedAdd reduces x modulo q using Barrett reduction; x may be up to 2^64-1.
func BRedAdd(x, q uint64, u []uint64) (r uint64) {
	s0, _ := bits.Mul64(x, u[0])
	r = x - s0*q
	if r >= q {
		r -= q
	}
	return
}

// BRed computes x*y mod q using Barrett reduction.
func BRed(x, y, q uint64, u []uint64) (r uint64) {
	var lhi, mhi, mlo, s0, s1, carry uint64

	ahi, alo := bits.Mul64(x, y)

	lhi, _ = bits.Mul64(alo, u[1])
	mhi, mlo = bits.Mul64(alo, u[0])
	s0, carry = bits.Add64(mlo, lhi, 0)
	s1 = mhi + carry

	mhi, mlo = bits.Mul64(ahi, u[1])
	_, carry = bits.Add64(mlo, s0, 0)
	lhi = mhi + carry

	s0 = ahi*u[0] + s1 + lhi
	r = alo - s0*q
	if r >= q {
		r -= q
	}
	return
}

// CRed reduces a that is known to lie in [0, 2q) into [0, q).
func CRed(a, q uint64) uint64 {
	if a >= q {
		return a - q
	}
	return a
}

// (m Modulus) Mul, Add, Sub operate on values already reduced mod q.

// Mul computes x*y mod q using Barrett reduction under this modulus.
func (m Modulus) Mul(x, y uint64) uint64 {
	return BRed(x, y, m.Q, m.bredQ)
}

// MulMontgomery computes x*y*2^-64 mod q using Montgomery reduction under
// this modulus; x and y are expected to already be in the Montgomery
// domain, as NTT-form polynomial coefficients always are in this package.
func (m Modulus) MulMontgomery(x, y uint64) uint64 {
	return MRed(x, y, m.Q, m.mredQ)
}

// Add computes x+y mod q.
func (m Modulus) Add(x, y uint64) uint64 {
	return CRed(x+y, m.Q)
}

// Sub computes x-y mod q.
func (m Modulus) Sub(x, y uint64) uint64 {
	return CRed(x+m.Q-y, m.Q)
}

// Neg computes -x mod q.
func (m Modulus) Neg(x uint64) uint64 {
	if x == 0 {
		return 0
	}
	return m.Q - x
}

// Exp computes x^e mod q by repeated squaring.
func (m Modulus) Exp(x, e uint64) uint64 {
	r := uint64(1)
	b := x % m.Q
	for e > 0 {
		if e&1 == 1 {
			r = BRed(r, b, m.Q, m.bredQ)
		}
		b = BRed(b, b, m.Q, m.bredQ)
		e >>= 1
	}
	return r
}

// Inverse computes the modular inverse of x modulo q (q assumed prime).
func (m Modulus) Inverse(x uint64) uint64 {
	return m.Exp(x, m.Q-2)
}
