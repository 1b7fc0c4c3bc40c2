package ring

// NTT transforms p1 from coefficient form to evaluation (NTT) form, writing
// the result to p2 (p1 == p2 is allowed). Coefficients are consumed in the
// standard domain and produced in the Montgomery domain, matching the
// convention that NTT-form polynomials always carry Montgomery-reduced
// coefficients so that MulCoeffsMontgomery can consume them directly.
func (r *Ring) NTT(p1, p2 *Poly) {
	for i, m := range r.Moduli {
		nttCore(p1.Coeffs[i], p2.Coeffs[i], r.N, r.nttPsi[i], m.Q, m.mredQ, m.bredQ)
		r2 := m.bredMontgomeryR2()
		for j, v := range p2.Coeffs[i] {
			p2.Coeffs[i][j] = MRed(v, r2, m.Q, m.mredQ)
		}
	}
	p2.IsNTT = true
}

// InvNTT transforms p1 from evaluation form back to coefficient form.
func (r *Ring) InvNTT(p1, p2 *Poly) {
	for i, m := range r.Moduli {
		invNTTCore(p1.Coeffs[i], p2.Coeffs[i], r.N, r.nttPsiI[i], r.nttNInv[i], m.Q, m.mredQ)
		for j, v := range p2.Coeffs[i] {
			p2.Coeffs[i][j] = m.InvMForm(v)
		}
	}
	p2.IsNTT = false
}

// butterfly computes X, Y = U + V*Psi, U - V*Psi mod 2Q (Cooley-Tukey, DIT).
func butterfly(U, V, Psi, Q, Qinv uint64) (X, Y uint64) {
	if U > 2*Q {
		U -= 2 * Q
	}
	V = MRed(V, Psi, Q, Qinv)
	X = U + V
	Y = U + 2*Q - V
	return
}

// invbutterfly computes X, Y = U + V, (U - V)*Psi mod 2Q (Gentleman-Sande, DIF).
func invbutterfly(U, V, Psi, Q, Qinv uint64) (X, Y uint64) {
	X = U + V
	if X > 2*Q {
		X -= 2 * Q
	}
	Y = MRed(U+2*Q-V, Psi, Q, Qinv)
	return
}

// nttCore runs the in-place negacyclic NTT over a single RNS level.
func nttCore(coeffsIn, coeffsOut []uint64, N int, psi []uint64, Q, Qinv uint64, bred []uint64) {
	var j1, j2, t int
	var F uint64

	t = N >> 1
	j2 = t - 1
	F = psi[1]
	for j := 0; j <= j2; j++ {
		coeffsOut[j], coeffsOut[j+t] = butterfly(coeffsIn[j], coeffsIn[j+t], F, Q, Qinv)
	}

	for m := 2; m < N; m <<= 1 {
		t >>= 1
		for i := 0; i < m; i++ {
			j1 = (i * t) << 1
			j2 = j1 + t - 1
			F = psi[m+i]
			for j := j1; j <= j2; j++ {
				coeffsOut[j], coeffsOut[j+t] = butterfly(coeffsOut[j], coeffsOut[j+t], F, Q, Qinv)
			}
		}
	}

	for i := 0; i < N; i++ {
		coeffsOut[i] = BRedAdd(coeffsOut[i], Q, bred)
	}
}

// invNTTCore runs the in-place inverse negacyclic NTT over a single RNS level.
func invNTTCore(coeffsIn, coeffsOut []uint64, N int, psiInv []uint64, nInv, Q, Qinv uint64) {
	var j1, j2, h, t int
	var F uint64

	t = 1
	j1 = 0
	h = N >> 1

	for i := 0; i < h; i++ {
		j2 = j1
		F = psiInv[h+i]
		for j := j1; j <= j2; j++ {
			coeffsOut[j], coeffsOut[j+t] = invbutterfly(coeffsIn[j], coeffsIn[j+t], F, Q, Qinv)
		}
		j1 += t << 1
	}

	t <<= 1
	for m := N >> 1; m > 1; m >>= 1 {
		j1 = 0
		h = m >> 1
		for i := 0; i < h; i++ {
			j2 = j1 + t - 1
			F = psiInv[h+i]
			for j := j1; j <= j2; j++ {
				coeffsOut[j], coeffsOut[j+t] = invbutterfly(coeffsOut[j], coeffsOut[j+t], F, Q, Qinv)
			}
			j1 += t << 1
		}
		t <<= 1
	}

	for j := 0; j < N; j++ {
		coeffsOut[j] = MRed(coeffsOut[j], nInv, Q, Qinv)
	}
}
