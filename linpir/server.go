package linpir

import (
	"fmt"

	"github.com/hintlesspir/hintlesspir/bfv"
	"github.com/hintlesspir/hintlesspir/ring"
)

// Server is one plaintext-modulus instance of the LinPir homomorphic
// computation: it holds a preprocessed Database and, per batch element,
// reconstructs the query ciphertext and Galois key from their public pads
// and the client-supplied "b" halves, produces the C = len(Orbit) cyclic
// rotations of the query via repeated automorphism and key-switch, and
// accumulates the pointwise products against the database's diagonals.
type Server struct {
	Ring   *ring.Ring
	TRing  *ring.Ring
	Params bfv.Params
	Gadget *bfv.Gadget
	GalEl  uint64
	DB     *Database
	ctPadA []*ring.Poly // one per batch element, reconstructed once at Preprocess
	gkPadA []*ring.Poly // one per gadget digit, reconstructed once at Preprocess
}

// NewServer builds a Server for the given instance and Galois exponent; call
// Preprocess before HandleRequest.
func NewServer(params bfv.Params, galEl uint64) (*Server, error) {
	r, err := params.NewRing()
	if err != nil {
		return nil, fmt.Errorf("linpir: %w", err)
	}
	tRing, err := ring.NewRing(params.N(), []uint64{params.T})
	if err != nil {
		return nil, fmt.Errorf("linpir: %w", err)
	}
	return &Server{
		Ring:   r,
		TRing:  tRing,
		Params: params,
		Gadget: bfv.NewGadget(r, params.GadgetLogBs),
		GalEl:  galEl,
	}, nil
}

// Preprocess binds the server to a database and expands the public
// ciphertext-pad and Galois-key-pad seeds once, ahead of any request, so that
// HandleRequest never touches a PRNG.
func (s *Server) Preprocess(db *Database, batchSize int, ctPadSeed, gkPadSeed []byte) error {
	s.DB = db

	ctPadPRNG, err := ring.NewPRNG(ring.HKDF, ctPadSeed)
	if err != nil {
		return fmt.Errorf("linpir: %w", err)
	}
	s.ctPadA = make([]*ring.Poly, batchSize)
	for i := range s.ctPadA {
		s.ctPadA[i] = s.Ring.SampleUniformPolyNTT(ctPadPRNG)
	}

	gkPadPRNG, err := ring.NewPRNG(ring.HKDF, gkPadSeed)
	if err != nil {
		return fmt.Errorf("linpir: %w", err)
	}
	s.gkPadA = make([]*ring.Poly, s.Gadget.NumDigits())
	for i := range s.gkPadA {
		s.gkPadA[i] = s.Ring.SampleUniformPolyNTT(gkPadPRNG)
	}
	return nil
}

// reconstructGaloisKey rebuilds the Galois key from the cached public pad
// and this request's client-supplied "b" halves.
func (s *Server) reconstructGaloisKey(gkB []*ring.Poly) (*bfv.GaloisKey, error) {
	if len(gkB) != len(s.gkPadA) {
		return nil, fmt.Errorf("linpir: expected %d galois key digits, got %d", len(s.gkPadA), len(gkB))
	}
	digits := make([]*bfv.Ciphertext, len(gkB))
	for i := range gkB {
		digits[i] = &bfv.Ciphertext{B: gkB[i], A: s.gkPadA[i]}
	}
	return &bfv.GaloisKey{GalEl: s.GalEl, Digits: digits}, nil
}

// HandleRequest computes, for every batch element and every row block, an
// encrypted inner product between that block's hint diagonals and the
// encrypted LWE secret, returning one ciphertext per (batch element, block).
// Blocks are not packed into a single combined ciphertext: each independently
// replays all C rotations from the original query, which costs recomputation
// but sidesteps needing a coefficient-domain shift to stay consistent with
// slot-encoded diagonals. The returned ciphertexts carry both their "b" and
// "a" halves; the wire package serializes both.
func (s *Server) HandleRequest(queryB []*ring.Poly, gkB []*ring.Poly) ([][]*bfv.Ciphertext, error) {
	if s.DB == nil {
		return nil, fmt.Errorf("linpir: HandleRequest called before Preprocess")
	}
	if len(queryB) > len(s.ctPadA) {
		return nil, fmt.Errorf("linpir: expected at most %d query ciphertexts, got %d", len(s.ctPadA), len(queryB))
	}

	gk, err := s.reconstructGaloisKey(gkB)
	if err != nil {
		return nil, err
	}

	C := len(s.DB.Orbit)
	results := make([][]*bfv.Ciphertext, len(queryB))
	for qi, b := range queryB {
		query := &bfv.Ciphertext{B: b, A: s.ctPadA[qi]}

		blockResults := make([]*bfv.Ciphertext, s.DB.NumBlocks)
		for blk := 0; blk < s.DB.NumBlocks; blk++ {
			acc := &bfv.Ciphertext{B: s.Ring.NewPoly(), A: s.Ring.NewPoly()}
			acc.B.IsNTT = true
			acc.A.IsNTT = true

			diags := s.DB.Diagonals[blk]
			r := query
			for d := 0; d < C; d++ {
				prod := bfv.MulPlain(s.Ring, r, diags[d])
				bfv.AddInPlace(s.Ring, acc, prod)
				if d < C-1 {
					r = bfv.Automorphism(s.Ring, s.Gadget, r, gk)
				}
			}
			blockResults[blk] = acc
		}
		results[qi] = blockResults
	}
	return results, nil
}
