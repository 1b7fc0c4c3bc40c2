package ring

import (
	"fmt"
	"io"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/hkdf"
)

// PRNGType selects the deterministic byte-stream construction used to
// expand a public seed. Both variants are required to produce byte-for-byte
// identical output across platforms so that a seed published by the server
// remains interoperable with any client implementation.
type PRNGType int

const (
	// HKDF expands the seed with HKDF-Extract/Expand over BLAKE3.
	HKDF PRNGType = iota
	// ChaCha expands the seed as a ChaCha20 keystream keyed by BLAKE3(seed).
	ChaCha
)

func (t PRNGType) String() string {
	switch t {
	case HKDF:
		return "HKDF"
	case ChaCha:
		return "ChaCha"
	default:
		return "Unknown"
	}
}

// PRNG is a keyed byte stream: the same seed always yields the
// same bytes, regardless of how many bytes were read in between two reads
// from two independently-constructed PRNGs over that seed.
type PRNG interface {
	io.Reader
}

// NewPRNG constructs a PRNG of the given type, deterministically seeded.
func NewPRNG(typ PRNGType, seed []byte) (PRNG, error) {
	switch typ {
	case HKDF:
		return newHKDFPRNG(seed), nil
	case ChaCha:
		return newChaChaPRNG(seed)
	default:
		return nil, fmt.Errorf("ring: unsupported prng type %v", typ)
	}
}

// hkdfPRNG expands a seed via HKDF-Expand over BLAKE3, with a fixed info
// label so that distinct logical streams (ciphertext pads, Galois key pads,
// ...) derived from the same seed never collide when the caller salts the
// seed itself.
type hkdfPRNG struct {
	r io.Reader
}

func newHKDFPRNG(seed []byte) *hkdfPRNG {
	return &hkdfPRNG{r: hkdf.New(blake3.New, seed, nil, []byte("hintlesspir/prng"))}
}

func (p *hkdfPRNG) Read(b []byte) (int, error) {
	return io.ReadFull(p.r, b)
}

// chachaPRNG expands a seed as a ChaCha20 keystream keyed by BLAKE3(seed).
type chachaPRNG struct {
	c *chacha20.Cipher
}

func newChaChaPRNG(seed []byte) (*chachaPRNG, error) {
	key := blake3.Sum256(seed)
	nonce := make([]byte, chacha20.NonceSize)
	c, err := chacha20.NewUnauthenticatedCipher(key[:], nonce)
	if err != nil {
		return nil, fmt.Errorf("ring: chacha prng: %w", err)
	}
	return &chachaPRNG{c: c}, nil
}

func (p *chachaPRNG) Read(b []byte) (int, error) {
	for i := range b {
		b[i] = 0
	}
	p.c.XORKeyStream(b, b)
	return len(b), nil
}
