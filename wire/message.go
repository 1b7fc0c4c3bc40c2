package wire

import (
	"fmt"

	"github.com/hintlesspir/hintlesspir/bfv"
	"github.com/hintlesspir/hintlesspir/pir"
	"github.com/hintlesspir/hintlesspir/ring"
	"github.com/hintlesspir/hintlesspir/utils"
)

func marshalBytes(buf *utils.Buffer, b []byte) {
	buf.WriteBytes(b)
}

func unmarshalBytes(buf *utils.Buffer) []byte {
	return buf.ReadBytes()
}

func marshalByteSlices(buf *utils.Buffer, bs [][]byte) {
	buf.WriteUint32LE(uint32(len(bs)))
	for _, b := range bs {
		marshalBytes(buf, b)
	}
}

func unmarshalByteSlices(buf *utils.Buffer) [][]byte {
	n := int(buf.ReadUint32LE())
	out := make([][]byte, n)
	for i := range out {
		out[i] = unmarshalBytes(buf)
	}
	return out
}

func marshalCiphertext(buf *utils.Buffer, ct *bfv.Ciphertext) {
	marshalPoly(buf, ct.B)
	marshalPoly(buf, ct.A)
}

func unmarshalCiphertext(buf *utils.Buffer) *bfv.Ciphertext {
	b := unmarshalPoly(buf)
	a := unmarshalPoly(buf)
	return &bfv.Ciphertext{B: b, A: a}
}

// MarshalPublicParams encodes a ServerPublicParams.
func MarshalPublicParams(p pir.ServerPublicParams) []byte {
	buf := utils.NewBuffer(nil)
	marshalBytes(buf, p.LweQueryPadSeed)
	marshalByteSlices(buf, p.CtPadSeeds)
	marshalBytes(buf, p.GkPadSeed)
	return buf.Bytes()
}

// UnmarshalPublicParams decodes bytes produced by MarshalPublicParams.
func UnmarshalPublicParams(b []byte) (pir.ServerPublicParams, error) {
	buf := utils.NewBuffer(append([]byte(nil), b...))
	return pir.ServerPublicParams{
		LweQueryPadSeed: unmarshalBytes(buf),
		CtPadSeeds:      unmarshalByteSlices(buf),
		GkPadSeed:       unmarshalBytes(buf),
	}, nil
}

// MarshalRequest encodes a Request: the LWE query vector (batch-major,
// db_cols entries per element are the caller's concern, not this package's —
// it is encoded as one flat length-prefixed vector), and the LinPir
// ciphertext and Galois-key "b" halves, k-major.
func MarshalRequest(req *pir.Request) []byte {
	buf := utils.NewBuffer(nil)
	marshalUint64Slice(buf, req.CtQueryVector)

	buf.WriteUint32LE(uint32(len(req.LinpirCtBs)))
	for _, bs := range req.LinpirCtBs {
		marshalPolySlice(buf, bs)
	}

	buf.WriteUint32LE(uint32(len(req.LinpirGkBs)))
	for _, bs := range req.LinpirGkBs {
		marshalPolySlice(buf, bs)
	}
	return buf.Bytes()
}

// UnmarshalRequest decodes bytes produced by MarshalRequest.
func UnmarshalRequest(b []byte) (*pir.Request, error) {
	buf := utils.NewBuffer(append([]byte(nil), b...))
	req := &pir.Request{}
	req.CtQueryVector = unmarshalUint64Slice(buf)

	numT := int(buf.ReadUint32LE())
	req.LinpirCtBs = make([][]*ring.Poly, numT)
	for i := range req.LinpirCtBs {
		req.LinpirCtBs[i] = unmarshalPolySlice(buf)
	}

	numGk := int(buf.ReadUint32LE())
	req.LinpirGkBs = make([][]*ring.Poly, numGk)
	for i := range req.LinpirGkBs {
		req.LinpirGkBs[i] = unmarshalPolySlice(buf)
	}
	if len(req.LinpirGkBs) != numT {
		return nil, fmt.Errorf("wire: request has %d linpir ct groups but %d galois key groups", numT, len(req.LinpirGkBs))
	}
	return req, nil
}

// MarshalResponse encodes a Response: per-batch, per-shard raw LWE answer
// vectors, followed by the LinPir response ciphertexts, k-major then
// shard-major then batch-major then block-major.
func MarshalResponse(resp *pir.Response) []byte {
	buf := utils.NewBuffer(nil)

	buf.WriteUint32LE(uint32(len(resp.CtRecords)))
	for _, perShard := range resp.CtRecords {
		buf.WriteUint32LE(uint32(len(perShard)))
		for _, v := range perShard {
			marshalUint64Slice(buf, v)
		}
	}

	buf.WriteUint32LE(uint32(len(resp.LinpirResponses)))
	for _, perShard := range resp.LinpirResponses {
		buf.WriteUint32LE(uint32(len(perShard)))
		for _, perBatch := range perShard {
			buf.WriteUint32LE(uint32(len(perBatch)))
			for _, perBlock := range perBatch {
				buf.WriteUint32LE(uint32(len(perBlock)))
				for _, ct := range perBlock {
					marshalCiphertext(buf, ct)
				}
			}
		}
	}
	return buf.Bytes()
}

// UnmarshalResponse decodes bytes produced by MarshalResponse.
func UnmarshalResponse(b []byte) (*pir.Response, error) {
	buf := utils.NewBuffer(append([]byte(nil), b...))
	resp := &pir.Response{}

	numBatch := int(buf.ReadUint32LE())
	resp.CtRecords = make([][][]uint64, numBatch)
	for i := range resp.CtRecords {
		numShards := int(buf.ReadUint32LE())
		resp.CtRecords[i] = make([][]uint64, numShards)
		for s := range resp.CtRecords[i] {
			resp.CtRecords[i][s] = unmarshalUint64Slice(buf)
		}
	}

	numT := int(buf.ReadUint32LE())
	resp.LinpirResponses = make([][][][]*bfv.Ciphertext, numT)
	for k := range resp.LinpirResponses {
		numShards := int(buf.ReadUint32LE())
		resp.LinpirResponses[k] = make([][][]*bfv.Ciphertext, numShards)
		for s := range resp.LinpirResponses[k] {
			numBatchElems := int(buf.ReadUint32LE())
			resp.LinpirResponses[k][s] = make([][]*bfv.Ciphertext, numBatchElems)
			for i := range resp.LinpirResponses[k][s] {
				numBlocks := int(buf.ReadUint32LE())
				blocks := make([]*bfv.Ciphertext, numBlocks)
				for blk := range blocks {
					blocks[blk] = unmarshalCiphertext(buf)
				}
				resp.LinpirResponses[k][s][i] = blocks
			}
		}
	}
	return resp, nil
}
