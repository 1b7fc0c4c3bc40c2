package ring

import "math/big"

// Basis is a CRT basis over a list of pairwise-coprime moduli, used to
// compose per-modulus residues (e.g. the per-t_k LinPir outputs) into a
// single big integer and to convert values between moduli.
type Basis struct {
	Moduli   []uint64
	P        *big.Int
	pHats    []*big.Int
	pHatInvs []uint64
}

// NewBasis builds the CRT basis for the given moduli.
func NewBasis(moduli []uint64) *Basis {
	b := &Basis{Moduli: append([]uint64(nil), moduli...)}
	b.P = big.NewInt(1)
	for _, qi := range moduli {
		b.P.Mul(b.P, new(big.Int).SetUint64(qi))
	}

	b.pHats = make([]*big.Int, len(moduli))
	b.pHatInvs = make([]uint64, len(moduli))
	for i, qi := range moduli {
		pHat := new(big.Int).Div(b.P, new(big.Int).SetUint64(qi))
		b.pHats[i] = pHat

		m := NewModulus(qi)
		pHatModQi := new(big.Int).Mod(pHat, new(big.Int).SetUint64(qi)).Uint64()
		b.pHatInvs[i] = m.Inverse(pHatModQi)
	}
	return b
}

// Compose performs CRT interpolation of residues (residues[i] taken modulo
// Moduli[i]) and returns the unique representative balanced into
// [-P/2, P/2).
func (b *Basis) Compose(residues []uint64) *big.Int {
	acc := new(big.Int)
	tmp := new(big.Int)
	for i, qi := range b.Moduli {
		m := NewModulus(qi)
		coeff := m.Mul(residues[i]%qi, b.pHatInvs[i])
		tmp.Mul(b.pHats[i], new(big.Int).SetUint64(coeff))
		acc.Add(acc, tmp)
	}
	acc.Mod(acc, b.P)

	half := new(big.Int).Rsh(b.P, 1)
	if acc.Cmp(half) >= 0 {
		acc.Sub(acc, b.P)
	}
	return acc
}

// ConvertModulus performs the balanced modulus switch described in the LWE
// <-> LinPir bridge: x is interpreted as a signed value modulo `from`
// (balanced into [fromHalf-from, fromHalf)), then reduced into [0, to).
// It is used both to move the CRT-composed LinPir output from P = prod(t_k)
// into q_LWE, and to encode an LWE secret (mod q_LWE) into each t_k.
func ConvertModulus(x, from, to, fromHalf uint64) uint64 {
	signed := int64(x)
	if x >= fromHalf {
		signed = int64(x) - int64(from)
	}
	r := signed % int64(to)
	if r < 0 {
		r += int64(to)
	}
	return uint64(r)
}

// ComposeUnsigned performs the same CRT interpolation as Compose but returns
// the representative in [0, P) rather than balancing it into [-P/2, P/2).
func (b *Basis) ComposeUnsigned(residues []uint64) *big.Int {
	acc := new(big.Int)
	tmp := new(big.Int)
	for i, qi := range b.Moduli {
		m := NewModulus(qi)
		coeff := m.Mul(residues[i]%qi, b.pHatInvs[i])
		tmp.Mul(b.pHats[i], new(big.Int).SetUint64(coeff))
		acc.Add(acc, tmp)
	}
	acc.Mod(acc, b.P)
	return acc
}

// CRTBasis returns the CRT basis over this ring's RNS moduli.
func (r *Ring) CRTBasis() *Basis {
	moduli := make([]uint64, len(r.Moduli))
	for i, m := range r.Moduli {
		moduli[i] = m.Q
	}
	return NewBasis(moduli)
}

// ConvertModulusBig performs the same balanced modulus switch as
// ConvertModulus, but starting from a big.Int already balanced into
// [-from/2, from/2) (the output of Basis.Compose), reducing it into [0, to).
func ConvertModulusBig(x *big.Int, to uint64) uint64 {
	r := new(big.Int).Mod(x, new(big.Int).SetUint64(to))
	return r.Uint64()
}
