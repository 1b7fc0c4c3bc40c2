package bfv

import (
	"math/big"
	"math/bits"

	"github.com/hintlesspir/hintlesspir/ring"
)

// Gadget precomputes the RNS digit decomposition basis for key switching.
// Level i of the ciphertext modulus contributes digitsPerLevel[i] digits in
// base 2^GadgetLogBs[i]; digit (i,j) of a polynomial a carries the j-th
// balanced base-B_i digit of a's level-i residue (every digit but the top one
// lies in [-B_i/2, B_i/2)), broadcast identically across every RNS level (a
// valid representation since digits are always smaller in magnitude than
// every modulus in play). Reconstruction of the decomposed value at every
// level k is carried by the basis scalar
//
//	g[i][j][k] = (Q/qi mod qk) * ((Q/qi)^-1 mod qi) * B_i^j   (mod qk)
//
// the standard RNS-CRT gadget basis: at k=i this collapses to B_i^j mod qi,
// reconstructing the decomposed residue exactly, and at k!=i it is zero,
// since qk divides Q/qi.
type Gadget struct {
	Ring           *ring.Ring
	LogBs          []int
	DigitsPerLevel []int
	basis          [][][]uint64 // basis[i][j][k]
}

// NewGadget builds the gadget basis for the given ring and per-level digit
// bases.
func NewGadget(r *ring.Ring, logBs []int) *Gadget {
	L := len(r.Moduli)
	g := &Gadget{Ring: r, LogBs: append([]int(nil), logBs...)}
	g.DigitsPerLevel = make([]int, L)
	g.basis = make([][][]uint64, L)

	Q := r.ModulusBigInt()

	for i := 0; i < L; i++ {
		qi := r.Moduli[i].Q
		logB := logBs[i]
		nd := (bits.Len64(qi) + logB - 1) / logB
		g.DigitsPerLevel[i] = nd

		qiBig := new(big.Int).SetUint64(qi)
		qiComplement := new(big.Int).Quo(Q, qiBig)
		qiComplementModQi := new(big.Int).Mod(qiComplement, qiBig).Uint64()
		invQiComplementModQi := r.Moduli[i].Inverse(qiComplementModQi)

		g.basis[i] = make([][]uint64, nd)
		base := uint64(1) << uint(logB)
		Bij := big.NewInt(1)
		for j := 0; j < nd; j++ {
			scalar := new(big.Int).Mul(qiComplement, new(big.Int).SetUint64(invQiComplementModQi))
			scalar.Mul(scalar, Bij)

			row := make([]uint64, L)
			for k, mk := range r.Moduli {
				row[k] = new(big.Int).Mod(scalar, new(big.Int).SetUint64(mk.Q)).Uint64()
			}
			g.basis[i][j] = row

			Bij = new(big.Int).Mul(Bij, new(big.Int).SetUint64(base))
		}
	}
	return g
}

// NumDigits returns the total digit count across all RNS levels.
func (g *Gadget) NumDigits() int {
	n := 0
	for _, d := range g.DigitsPerLevel {
		n += d
	}
	return n
}

// Decompose splits a, given in coefficient (non-NTT) form, into its gadget
// digits and returns each digit transformed into NTT form, ready for a
// pointwise product against a Galois/key-switch key.
func (g *Gadget) Decompose(a *ring.Poly) []*ring.Poly {
	r := g.Ring
	out := make([]*ring.Poly, 0, g.NumDigits())

	for i := range r.Moduli {
		logB := g.LogBs[i]
		base := uint64(1) << uint(logB)
		mask := base - 1
		residues := a.Coeffs[i]

		// Copy so repeated shifting does not destroy the input.
		work := make([]uint64, len(residues))
		copy(work, residues)

		for j := 0; j < g.DigitsPerLevel[i]; j++ {
			digit := r.NewPoly()
			for p, v := range work {
				d := v & mask
				work[p] = v >> uint(logB)
				// Balanced digit: values >= B/2 become d-B, carrying one
				// into the next digit; the top digit takes the remainder.
				neg := j < g.DigitsPerLevel[i]-1 && d >= base/2
				if neg {
					d = base - d
					work[p]++
				}
				for k, mk := range r.Moduli {
					digit.Coeffs[k][p] = d % mk.Q
					if neg {
						digit.Coeffs[k][p] = mk.Neg(d % mk.Q)
					}
				}
			}
			nttDigit := r.NewPoly()
			r.NTT(digit, nttDigit)
			out = append(out, nttDigit)
		}
	}
	return out
}

// basisPoly returns the gadget basis scalars g[i][j] as one value per RNS
// level (entry k holds basis[i][j][k]); since NTT is linear, scaling a
// secret's NTT-form coefficients by these scalars is equivalent to scaling
// the underlying ring element before transforming.
func (g *Gadget) basisPoly(i, j int) []uint64 {
	return g.basis[i][j]
}

// ScaleByBasis returns secretNTT (in NTT form) scaled level-by-level by the
// gadget basis scalar for digit (i, j): every coefficient at level k is
// multiplied by basis[i][j][k] in the Montgomery domain.
func (g *Gadget) ScaleByBasis(i, j int, secretNTT *ring.Poly) *ring.Poly {
	r := g.Ring
	row := g.basisPoly(i, j)
	out := r.NewPoly()
	out.IsNTT = true
	for k, m := range r.Moduli {
		scalarMForm := m.MForm(row[k])
		src := secretNTT.Coeffs[k]
		dst := out.Coeffs[k]
		for p := range src {
			dst[p] = m.MulMontgomery(src[p], scalarMForm)
		}
	}
	return out
}
