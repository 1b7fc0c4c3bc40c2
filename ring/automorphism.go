package ring

// Substitute applies the ring automorphism X -> X^galEl to a, a polynomial
// held in coefficient form, writing the result to out (a and out must be
// distinct). galEl must be odd and coprime to 2N; this is the precondition
// Galois automorphisms over Z[X]/(X^N+1) require.
func (r *Ring) Substitute(a *Poly, galEl uint64, out *Poly) {
	N := uint64(r.N)
	mask := 2*N - 1

	for i, m := range r.Moduli {
		ai, oi := a.Coeffs[i], out.Coeffs[i]
		for j := range oi {
			oi[j] = 0
		}
		for src := uint64(0); src < N; src++ {
			dst := (src * galEl) & mask
			if dst < N {
				oi[dst] = ai[src]
			} else {
				oi[dst-N] = m.Neg(ai[src])
			}
		}
	}
}

// AutomorphismNTT applies X -> X^galEl to a polynomial held in NTT form by
// round-tripping through coefficient form (one InvNTT and one NTT per call).
func (r *Ring) AutomorphismNTT(a *Poly, galEl uint64, out *Poly) {
	tmpIn := r.NewPoly()
	tmpOut := r.NewPoly()
	r.InvNTT(a, tmpIn)
	r.Substitute(tmpIn, galEl, tmpOut)
	r.NTT(tmpOut, out)
}
