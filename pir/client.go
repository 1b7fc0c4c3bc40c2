package pir

import (
	"fmt"

	"github.com/hintlesspir/hintlesspir/bfv"
	"github.com/hintlesspir/hintlesspir/linpir"
	"github.com/hintlesspir/hintlesspir/lwe"
	"github.com/hintlesspir/hintlesspir/ring"
)

// PendingRequest is the client-held state stashed by GenerateRequest and
// consumed by RecoverRecord: which row/column each batch index maps to, and
// the seed that regenerates the BFV secret used to encrypt the LWE secrets.
// It must not be reused across requests, and a client must not interleave a
// second GenerateRequest with a pending RecoverRecord.
type PendingRequest struct {
	RowIdx []int
	ColIdx []int
	SkSeed []byte
	Keys   []*lwe.Key
}

// Client drives the client side of the full Hintless SimplePIR protocol.
type Client struct {
	Params     Params
	Public     ServerPublicParams
	linClients []*linpir.Client // one per element of Params.Ts
	crtBasis   *ring.Basis
}

// NewClient builds a Client bound to the server's published parameters.
func NewClient(params Params, public ServerPublicParams) (*Client, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	linClients := make([]*linpir.Client, len(params.Ts))
	for k, t := range params.Ts {
		c, err := linpir.NewClient(params.BFVParamsFor(t), params.GalEl)
		if err != nil {
			return nil, fmt.Errorf("pir: t[%d]: %w", k, err)
		}
		linClients[k] = c
	}
	return &Client{
		Params:     params,
		Public:     public,
		linClients: linClients,
		crtBasis:   ring.NewBasis(params.Ts),
	}, nil
}

// GenerateRequest builds a batched query for the given linear indices: one
// LWE selection-vector ciphertext per index, plus the LinPir material
// encrypting the batch of fresh LWE secrets. Returns the wire Request and
// the PendingRequest needed to recover the records from the server's
// response.
func (c *Client) GenerateRequest(indices []int) (*Request, *PendingRequest, error) {
	if len(indices) > c.Params.BatchSize {
		return nil, nil, fmt.Errorf("pir: batch of %d exceeds configured batch size %d", len(indices), c.Params.BatchSize)
	}
	lweParams := c.Params.LweParams()

	padPRNG, err := ring.NewPRNG(ring.HKDF, c.Public.LweQueryPadSeed)
	if err != nil {
		return nil, nil, fmt.Errorf("pir: %w", err)
	}
	A := lwe.ExpandPad(padPRNG, c.Params.DBCols, c.Params.LweSecretDim, lweParams)

	skSeed, err := randomSeed(32)
	if err != nil {
		return nil, nil, err
	}

	pending := &PendingRequest{
		RowIdx: make([]int, len(indices)),
		ColIdx: make([]int, len(indices)),
		SkSeed: skSeed,
		Keys:   make([]*lwe.Key, len(indices)),
	}
	ctQuery := make([]uint64, 0, len(indices)*c.Params.DBCols)
	secretsModQLwe := make([][]uint64, len(indices))

	for i, idx := range indices {
		if idx < 0 || idx >= c.Params.DBRows*c.Params.DBCols {
			return nil, nil, fmt.Errorf("pir: index %d out of range [0, %d)", idx, c.Params.DBRows*c.Params.DBCols)
		}
		pending.RowIdx[i] = idx / c.Params.DBCols
		pending.ColIdx[i] = idx % c.Params.DBCols

		keySeed, err := randomSeed(32)
		if err != nil {
			return nil, nil, err
		}
		keyPRNG, err := ring.NewPRNG(ring.HKDF, keySeed)
		if err != nil {
			return nil, nil, err
		}
		key := lwe.SampleKey(keyPRNG, c.Params.LweSecretDim, lweParams)
		pending.Keys[i] = key

		e := make([]uint64, c.Params.DBCols)
		e[pending.ColIdx[i]] = 1

		errSeed, err := randomSeed(32)
		if err != nil {
			return nil, nil, err
		}
		errPRNG, err := ring.NewPRNG(ring.HKDF, errSeed)
		if err != nil {
			return nil, nil, err
		}
		b := lwe.EncryptInPlace(A, c.Params.LweSecretDim, key, e, lweParams, errPRNG)
		ctQuery = append(ctQuery, b...)

		secretsModQLwe[i] = key.Secret
	}

	linpirCtBs := make([][]*ring.Poly, len(c.Params.Ts))
	for k, t := range c.Params.Ts {
		secretsModT := make([][]uint64, len(indices))
		for i, secret := range secretsModQLwe {
			v := make([]uint64, len(secret))
			qLwe := uint64(1) << uint(c.Params.LweModulusBitSize)
			half := qLwe / 2
			for j, s := range secret {
				v[j] = ring.ConvertModulus(s, qLwe, t, half)
			}
			secretsModT[i] = v
		}
		bs, err := c.linClients[k].EncryptQuery(secretsModT, skSeed, c.Public.CtPadSeeds[k])
		if err != nil {
			return nil, nil, fmt.Errorf("pir: t[%d]: %w", k, err)
		}
		linpirCtBs[k] = bs
	}

	linpirGkBs := make([][]*ring.Poly, len(c.Params.Ts))
	for k := range c.Params.Ts {
		gkBs, err := c.linClients[k].GenerateGaloisKey(skSeed, c.Public.GkPadSeed)
		if err != nil {
			return nil, nil, fmt.Errorf("pir: t[%d]: %w", k, err)
		}
		linpirGkBs[k] = gkBs
	}

	return &Request{
		CtQueryVector: ctQuery,
		LinpirCtBs:    linpirCtBs,
		LinpirGkBs:    linpirGkBs,
	}, pending, nil
}

// RecoverRecord decrypts the server's response against pending and returns
// the batch of recovered records, in the same order as the indices passed to
// GenerateRequest.
func (c *Client) RecoverRecord(resp *Response, pending *PendingRequest) ([][]byte, error) {
	batch := len(pending.RowIdx)
	qLwe := uint64(1) << uint(c.Params.LweModulusBitSize)
	numShards := len(resp.CtRecords[0])

	out := make([][]byte, batch)
	for i := 0; i < batch; i++ {
		row := pending.RowIdx[i]
		shards := make([]uint64, numShards)
		for sh := 0; sh < numShards; sh++ {
			residues := make([]uint64, len(c.Params.Ts))
			for k := range c.Params.Ts {
				blocks := resp.LinpirResponses[k][sh][i]
				decoded, err := c.linClients[k].Recover(pending.SkSeed, [][]*bfv.Ciphertext{blocks}, c.Params.RowsPerBlock, len(blocks))
				if err != nil {
					return nil, fmt.Errorf("pir: t[%d] shard %d: %w", k, sh, err)
				}
				residues[k] = decoded[0][row]
			}
			composed := c.crtBasis.Compose(residues)
			decryptionPart := ring.ConvertModulusBig(composed, qLwe)

			raw := resp.CtRecords[i][sh][row]
			noisy := (raw + qLwe - decryptionPart) % qLwe
			v := []uint64{noisy}
			lwe.RemoveErrorInPlace(v, c.Params.LweParams())
			shards[sh] = v[0]
		}
		out[i] = Reconstruct(shards, c.Params.LwePlaintextBitSize, c.Params.ByteLen())
	}
	return out, nil
}
