package ring

// Poly is a polynomial in Rq represented in RNS form: Coeffs[i] holds the
// coefficient vector reduced modulo Moduli[i]. A Poly may be held either in
// coefficient form or in NTT (evaluation) form; callers are responsible for
// tracking which domain they are in, exactly as the IsNTT flag records.
type Poly struct {
	Coeffs [][]uint64
	IsNTT  bool
}

// NewPoly allocates a zero polynomial over the given ring.
func (r *Ring) NewPoly() *Poly {
	c := make([][]uint64, len(r.Moduli))
	for i := range c {
		c[i] = make([]uint64, r.N)
	}
	return &Poly{Coeffs: c}
}

// CopyNew returns a deep copy of p.
func (p *Poly) CopyNew() *Poly {
	c := make([][]uint64, len(p.Coeffs))
	for i := range p.Coeffs {
		c[i] = make([]uint64, len(p.Coeffs[i]))
		copy(c[i], p.Coeffs[i])
	}
	return &Poly{Coeffs: c, IsNTT: p.IsNTT}
}

// Copy copies the contents of src into p.
func (p *Poly) Copy(src *Poly) {
	for i := range p.Coeffs {
		copy(p.Coeffs[i], src.Coeffs[i])
	}
	p.IsNTT = src.IsNTT
}

// Zero sets every coefficient of p to zero.
func (p *Poly) Zero() {
	for i := range p.Coeffs {
		for j := range p.Coeffs[i] {
			p.Coeffs[i][j] = 0
		}
	}
}

// Add computes p = a + b coefficient-wise (valid in either domain, since NTT
// is linear).
func (r *Ring) Add(a, b, p *Poly) {
	for i, m := range r.Moduli {
		ai, bi, pi := a.Coeffs[i], b.Coeffs[i], p.Coeffs[i]
		for j := 0; j < r.N; j++ {
			pi[j] = m.Add(ai[j], bi[j])
		}
	}
}

// Sub computes p = a - b coefficient-wise.
func (r *Ring) Sub(a, b, p *Poly) {
	for i, m := range r.Moduli {
		ai, bi, pi := a.Coeffs[i], b.Coeffs[i], p.Coeffs[i]
		for j := 0; j < r.N; j++ {
			pi[j] = m.Sub(ai[j], bi[j])
		}
	}
}

// Neg computes p = -a coefficient-wise.
func (r *Ring) Neg(a, p *Poly) {
	for i, m := range r.Moduli {
		ai, pi := a.Coeffs[i], p.Coeffs[i]
		for j := 0; j < r.N; j++ {
			pi[j] = m.Neg(ai[j])
		}
	}
}

// MulCoeffsMontgomery computes p = a*b pointwise, where a and b are both in
// NTT form and in the Montgomery domain. This is the only valid way to
// multiply two NTT-form polynomials: pointwise product in evaluation form
// corresponds to negacyclic convolution in coefficient form.
func (r *Ring) MulCoeffsMontgomery(a, b, p *Poly) {
	for i, m := range r.Moduli {
		ai, bi, pi := a.Coeffs[i], b.Coeffs[i], p.Coeffs[i]
		for j := 0; j < r.N; j++ {
			pi[j] = MRed(ai[j], bi[j], m.Q, m.mredQ)
		}
	}
}

// MulCoeffsMontgomeryAndAdd computes p += a*b pointwise (NTT domain,
// Montgomery form), used to accumulate the diagonal-method inner product.
func (r *Ring) MulCoeffsMontgomeryAndAdd(a, b, p *Poly) {
	for i, m := range r.Moduli {
		ai, bi, pi := a.Coeffs[i], b.Coeffs[i], p.Coeffs[i]
		for j := 0; j < r.N; j++ {
			pi[j] = m.Add(pi[j], MRed(ai[j], bi[j], m.Q, m.mredQ))
		}
	}
}

// MFormPoly switches every coefficient of a into the Montgomery domain,
// writing the result to p.
func (r *Ring) MFormPoly(a, p *Poly) {
	for i, m := range r.Moduli {
		ai, pi := a.Coeffs[i], p.Coeffs[i]
		for j := 0; j < r.N; j++ {
			pi[j] = m.MForm(ai[j])
		}
	}
}

// InvMFormPoly switches every coefficient of a out of the Montgomery domain.
func (r *Ring) InvMFormPoly(a, p *Poly) {
	for i, m := range r.Moduli {
		ai, pi := a.Coeffs[i], p.Coeffs[i]
		for j := 0; j < r.N; j++ {
			pi[j] = m.InvMForm(ai[j])
		}
	}
}
