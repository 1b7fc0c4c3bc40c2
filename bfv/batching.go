package bfv

import "github.com/hintlesspir/hintlesspir/ring"

// BatchEncode maps a length-N vector of values (each reduced modulo the
// ring's single modulus) to the coefficient-domain polynomial whose
// CRT/evaluation representation holds exactly those values, one per slot.
// This is the standard BFV SIMD-batching encoding: it is what makes
// ciphertext-plaintext multiplication compute an elementwise product of
// slot vectors, rather than a coefficient-wise convolution, once both
// operands are built from slot-encoded plaintexts.
func BatchEncode(slotRing *ring.Ring, slots []uint64) *ring.Poly {
	m := slotRing.Moduli[0]
	nttPoly := slotRing.NewPoly()
	nttPoly.IsNTT = true
	for i, v := range slots {
		nttPoly.Coeffs[0][i] = m.MForm(v % m.Q)
	}
	coeff := slotRing.NewPoly()
	slotRing.InvNTT(nttPoly, coeff)
	return coeff
}

// BatchDecode inverts BatchEncode: given a coefficient-domain polynomial
// over the same single-modulus ring, it returns the length-N vector of slot
// values it encodes.
func BatchDecode(slotRing *ring.Ring, coeff *ring.Poly) []uint64 {
	m := slotRing.Moduli[0]
	nttPoly := slotRing.NewPoly()
	slotRing.NTT(coeff, nttPoly)
	out := make([]uint64, slotRing.N)
	for i, v := range nttPoly.Coeffs[0] {
		out[i] = m.InvMForm(v)
	}
	return out
}

// RotationOrbit traces the slot permutation induced by repeated application
// of the automorphism X -> X^g, starting from slot 0: entry k of the
// returned slice is the slot holding logical position 0's content after k
// applications of g. Its length is ord(g) in the slot-permutation group,
// which may be less than N when g does not generate the full group (the
// classical BFV/CKKS two-row structure, where a single Galois element only
// cycles within one row of N/2 slots).
func RotationOrbit(slotRing *ring.Ring, g uint64) []int {
	N := slotRing.N
	orbit := []int{0}
	cur := 0
	for {
		vec := make([]uint64, N)
		vec[cur] = 1
		coeff := BatchEncode(slotRing, vec)
		rotated := slotRing.NewPoly()
		slotRing.Substitute(coeff, g, rotated)
		outSlots := BatchDecode(slotRing, rotated)

		next := -1
		for i, v := range outSlots {
			if v == 1 {
				next = i
				break
			}
		}
		if next < 0 {
			panic("bfv: rotation orbit trace found no unit slot; automorphism exponent is invalid for this ring")
		}
		if next == 0 {
			return orbit
		}
		orbit = append(orbit, next)
		cur = next
		if len(orbit) > N {
			panic("bfv: rotation orbit failed to close within N steps")
		}
	}
}
