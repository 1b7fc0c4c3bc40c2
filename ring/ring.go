package ring

import (
	"fmt"
	"math/big"
	"math/bits"
)

// Ring is the RNS representation of Rq = Zq[X]/(X^N+1) for Q = prod(Moduli).
// N must be a power of two; every modulus must be an NTT-friendly prime,
// i.e. congruent to 1 mod 2N, so that a primitive 2N-th root of unity
// exists mod qi.
type Ring struct {
	N       int
	Moduli  []Modulus
	nttPsi  [][]uint64 // powers of the primitive 2N-th root, bit-reversed, in Montgomery form
	nttPsiI [][]uint64 // powers of its inverse, bit-reversed, in Montgomery form
	nttNInv []uint64   // N^-1 mod qi, in Montgomery form

	// modulusAtLevel[i] = prod(Moduli[0:i+1]) as a big.Int, used by CRT lifting.
	modulusAtLevel []*big.Int
}

// NewRing constructs a Ring for the given degree and RNS moduli. It returns an
// error if N is not a power of two or if a modulus does not admit a primitive
// 2N-th root of unity.
func NewRing(N int, moduli []uint64) (*Ring, error) {
	if N&(N-1) != 0 || N == 0 {
		return nil, fmt.Errorf("ring: N=%d is not a power of two", N)
	}

	r := &Ring{
		N:      N,
		Moduli: make([]Modulus, len(moduli)),
	}

	r.nttPsi = make([][]uint64, len(moduli))
	r.nttPsiI = make([][]uint64, len(moduli))
	r.nttNInv = make([]uint64, len(moduli))
	r.modulusAtLevel = make([]*big.Int, len(moduli))

	acc := big.NewInt(1)
	for i, qi := range moduli {
		if qi%uint64(2*N) != 1 {
			return nil, fmt.Errorf("ring: modulus %d is not congruent to 1 mod 2N=%d", qi, 2*N)
		}

		m := NewModulus(qi)
		r.Moduli[i] = m

		psi, err := primitive2NthRoot(m, N)
		if err != nil {
			return nil, fmt.Errorf("ring: modulus %d: %w", qi, err)
		}

		r.nttPsi[i] = powersBitReversed(m, psi, N)
		r.nttPsiI[i] = powersBitReversed(m, m.Inverse(psi), N)

		nInv := m.Inverse(uint64(N))
		r.nttNInv[i] = m.MForm(nInv)

		for j := range r.nttPsi[i] {
			r.nttPsi[i][j] = m.MForm(r.nttPsi[i][j])
			r.nttPsiI[i][j] = m.MForm(r.nttPsiI[i][j])
		}

		acc = new(big.Int).Mul(acc, new(big.Int).SetUint64(qi))
		r.modulusAtLevel[i] = new(big.Int).Set(acc)
	}

	return r, nil
}

// Level returns the highest valid RNS index (len(Moduli)-1).
func (r *Ring) Level() int { return len(r.Moduli) - 1 }

// ModulusBigInt returns prod(Moduli) as a big.Int.
func (r *Ring) ModulusBigInt() *big.Int {
	return r.modulusAtLevel[r.Level()]
}

// primitive2NthRoot finds a primitive 2N-th root of unity modulo m.Q by
// picking a generator of the multiplicative group and raising it to the
// (q-1)/2N power, retrying until the order is exactly 2N.
func primitive2NthRoot(m Modulus, N int) (uint64, error) {
	qm1 := m.Q - 1
	exp := qm1 / uint64(2*N)
	for g := uint64(2); g < m.Q; g++ {
		psi := m.Exp(g, exp)
		if psi == 0 || psi == 1 {
			continue
		}
		// order of psi must be exactly 2N: psi^N == -1 mod q.
		if m.Exp(psi, uint64(N)) == m.Q-1 {
			return psi, nil
		}
	}
	return 0, fmt.Errorf("no primitive 2N-th root of unity found")
}

// powersBitReversed returns [psi^0, psi^1, ..., psi^(N-1)] permuted so that
// entry i holds psi^(bitreverse(i)), the layout the in-place NTT butterfly
// expects.
func powersBitReversed(m Modulus, psi uint64, N int) []uint64 {
	logN := bits.Len(uint(N)) - 1
	pow := make([]uint64, N)
	cur := uint64(1)
	for i := 0; i < N; i++ {
		j := bitReverse(uint(i), logN)
		pow[j] = cur
		cur = m.Mul(cur, psi)
	}
	return pow
}

func bitReverse(x uint, bitLen int) uint {
	var r uint
	for i := 0; i < bitLen; i++ {
		r = (r << 1) | (x & 1)
		x >>= 1
	}
	return r
}
