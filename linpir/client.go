package linpir

import (
	"fmt"

	"github.com/hintlesspir/hintlesspir/bfv"
	"github.com/hintlesspir/hintlesspir/ring"
)

// Client drives the client side of one plaintext-modulus LinPir instance:
// encrypting the batch of LWE secrets, producing the Galois key, and
// decrypting the server's response.
type Client struct {
	Ring   *ring.Ring
	TRing  *ring.Ring
	Params bfv.Params
	Gadget *bfv.Gadget
	GalEl  uint64
	Orbit  []int
}

// NewClient builds a Client for the given BFV instance and fixed Galois
// automorphism exponent (shared, by agreement, between client and server).
func NewClient(params bfv.Params, galEl uint64) (*Client, error) {
	r, err := params.NewRing()
	if err != nil {
		return nil, fmt.Errorf("linpir: %w", err)
	}
	tRing, err := ring.NewRing(params.N(), []uint64{params.T})
	if err != nil {
		return nil, fmt.Errorf("linpir: %w", err)
	}
	return &Client{
		Ring:   r,
		TRing:  tRing,
		Params: params,
		Gadget: bfv.NewGadget(r, params.GadgetLogBs),
		GalEl:  galEl,
		Orbit:  bfv.RotationOrbit(tRing, galEl),
	}, nil
}

func (c *Client) deriveSecretNTT(skSeed []byte) (*ring.Poly, error) {
	prng, err := ring.NewPRNG(ring.HKDF, append([]byte("hintlesspir/linpir-sk/"), skSeed...))
	if err != nil {
		return nil, err
	}
	sk := c.Ring.SampleTernaryPoly(prng)
	skNTT := c.Ring.NewPoly()
	c.Ring.NTT(sk, skNTT)
	return skNTT, nil
}

// encodeLogical slot-encodes a length-C logical vector (already reduced mod
// t) into this instance's plaintext coefficient representation, placing
// logical position k at the ring slot c.Orbit[k].
func (c *Client) encodeLogical(v []uint64) ([]uint64, error) {
	if len(v) > len(c.Orbit) {
		return nil, fmt.Errorf("linpir: vector length %d exceeds rotation width %d", len(v), len(c.Orbit))
	}
	slots := make([]uint64, c.TRing.N)
	for k, val := range v {
		slots[c.Orbit[k]] = val % c.Params.T
	}
	coeff := bfv.BatchEncode(c.TRing, slots)
	return coeff.Coeffs[0], nil
}

// EncryptQuery encrypts a batch of length-<=C secret vectors (each already
// reduced modulo t) under the BFV secret derived from skSeed, drawing
// ciphertext pads sequentially from ctPadSeed (one per batch element, in
// order, so the server's independent expansion of the same seed stays in
// lockstep). Only the "b" halves are returned; "a" is public and need not
// travel with them.
func (c *Client) EncryptQuery(secretsModT [][]uint64, skSeed, ctPadSeed []byte) ([]*ring.Poly, error) {
	sNTT, err := c.deriveSecretNTT(skSeed)
	if err != nil {
		return nil, err
	}
	ctPadPRNG, err := ring.NewPRNG(ring.HKDF, ctPadSeed)
	if err != nil {
		return nil, err
	}
	errPRNG, err := ring.NewPRNG(ring.HKDF, append([]byte("hintlesspir/linpir-err/"), skSeed...))
	if err != nil {
		return nil, err
	}

	delta := c.Params.DeltaModQ(c.Ring)
	bs := make([]*ring.Poly, len(secretsModT))
	for i, m := range secretsModT {
		slotCoeffs, err := c.encodeLogical(m)
		if err != nil {
			return nil, err
		}
		pt := bfv.Encode(c.Ring, delta, slotCoeffs)
		ct := bfv.Encrypt(c.Ring, sNTT, pt, c.Params.ErrorVariance, ctPadPRNG, errPRNG)
		bs[i] = ct.B
	}
	return bs, nil
}

// GenerateGaloisKey produces the "b" halves of the gadget-decomposed
// key-switching key from σ_g(s) back to s, using the same secret skSeed
// derives and drawing the public pad from gkPadSeed.
func (c *Client) GenerateGaloisKey(skSeed, gkPadSeed []byte) ([]*ring.Poly, error) {
	sNTT, err := c.deriveSecretNTT(skSeed)
	if err != nil {
		return nil, err
	}
	gkPadPRNG, err := ring.NewPRNG(ring.HKDF, gkPadSeed)
	if err != nil {
		return nil, err
	}
	gkErrPRNG, err := ring.NewPRNG(ring.HKDF, append([]byte("hintlesspir/linpir-gkerr/"), skSeed...))
	if err != nil {
		return nil, err
	}

	gk := bfv.GenGaloisKey(c.Ring, c.Gadget, sNTT, c.GalEl, c.Params.ErrorVariance, gkPadPRNG, gkErrPRNG)
	bs := make([]*ring.Poly, len(gk.Digits))
	for i, d := range gk.Digits {
		bs[i] = d.B
	}
	return bs, nil
}

// Recover decrypts, for each batch element, its per-block response
// ciphertexts, slot-decodes each block, and concatenates the first
// rowsPerBlock logical entries of every block (in order) into a length-R
// residue vector mod t.
func (c *Client) Recover(skSeed []byte, responses [][]*bfv.Ciphertext, rowsPerBlock, numBlocks int) ([][]uint64, error) {
	sNTT, err := c.deriveSecretNTT(skSeed)
	if err != nil {
		return nil, err
	}
	out := make([][]uint64, len(responses))
	for qi, blocks := range responses {
		if len(blocks) != numBlocks {
			return nil, fmt.Errorf("linpir: expected %d blocks, got %d", numBlocks, len(blocks))
		}
		v := make([]uint64, 0, numBlocks*rowsPerBlock)
		for _, ct := range blocks {
			plainModT := bfv.Decrypt(c.Ring, sNTT, ct, c.Params.T)
			tPoly := c.TRing.NewPoly()
			copy(tPoly.Coeffs[0], plainModT)
			slots := bfv.BatchDecode(c.TRing, tPoly)
			if rowsPerBlock > len(c.Orbit) {
				return nil, fmt.Errorf("linpir: rows_per_block %d exceeds rotation width %d", rowsPerBlock, len(c.Orbit))
			}
			for i := 0; i < rowsPerBlock; i++ {
				v = append(v, slots[c.Orbit[i]])
			}
		}
		out[qi] = v
	}
	return out, nil
}
