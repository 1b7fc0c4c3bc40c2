// Package wire implements the little-endian binary encoding of the protocol's
// external messages (ServerPublicParams, Request, Response): the serialized
// RnsPolynomial and LWE-vector formats described for the system's external
// interfaces. Framing and transport (socket handshakes, length-prefixed
// streaming) are a thin demo concern left to cmd/; this package only turns
// the in-memory message structs into bytes and back.
//
// Every encoded value is self-describing (length-prefixed), so decoding never
// needs a side-channel modulus list the way a maximally compact encoding
// would — a deliberate simplification over transmitting only raw residues
// against an externally-agreed modulus count.
package wire

import (
	"github.com/hintlesspir/hintlesspir/ring"
	"github.com/hintlesspir/hintlesspir/utils"
)

func marshalPoly(buf *utils.Buffer, p *ring.Poly) {
	if p.IsNTT {
		buf.WriteUint8(1)
	} else {
		buf.WriteUint8(0)
	}
	buf.WriteUint32LE(uint32(len(p.Coeffs)))
	for _, level := range p.Coeffs {
		buf.WriteUint32LE(uint32(len(level)))
		buf.WriteUint64SliceLE(level)
	}
}

func unmarshalPoly(buf *utils.Buffer) *ring.Poly {
	isNTT := buf.ReadUint8() == 1
	numLevels := int(buf.ReadUint32LE())
	coeffs := make([][]uint64, numLevels)
	for i := range coeffs {
		n := int(buf.ReadUint32LE())
		level := make([]uint64, n)
		buf.ReadUint64SliceLE(level)
		coeffs[i] = level
	}
	return &ring.Poly{Coeffs: coeffs, IsNTT: isNTT}
}

func marshalPolySlice(buf *utils.Buffer, ps []*ring.Poly) {
	buf.WriteUint32LE(uint32(len(ps)))
	for _, p := range ps {
		marshalPoly(buf, p)
	}
}

func unmarshalPolySlice(buf *utils.Buffer) []*ring.Poly {
	n := int(buf.ReadUint32LE())
	ps := make([]*ring.Poly, n)
	for i := range ps {
		ps[i] = unmarshalPoly(buf)
	}
	return ps
}

func marshalUint64Slice(buf *utils.Buffer, v []uint64) {
	buf.WriteUint32LE(uint32(len(v)))
	buf.WriteUint64SliceLE(v)
}

func unmarshalUint64Slice(buf *utils.Buffer) []uint64 {
	n := int(buf.ReadUint32LE())
	v := make([]uint64, n)
	buf.ReadUint64SliceLE(v)
	return v
}
