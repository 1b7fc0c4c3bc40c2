// Package pir implements the SimplePIR layer and the orchestration that
// bridges it to LinPir: sharded record storage, hint computation and
// caching, raw matrix-vector answers, and the client/server protocol that
// combines a SimplePIR answer with a homomorphically-computed hint.
package pir

import (
	"fmt"

	"github.com/hintlesspir/hintlesspir/lwe"
)

// DatabaseParams fixes the shape of a PirDatabase: a db_rows x db_cols grid
// of db_record_bit_size-bit records, each split into
// ceil(db_record_bit_size/lwe_plaintext_bit_size) shards.
type DatabaseParams struct {
	Rows             int
	Cols             int
	RecordBitSize    int
	PlaintextBitSize int // p
}

// NumShards returns ceil(RecordBitSize/PlaintextBitSize).
func (p DatabaseParams) NumShards() int {
	return (p.RecordBitSize + p.PlaintextBitSize - 1) / p.PlaintextBitSize
}

// ByteLen returns ceil(RecordBitSize/8), the length of one serialized record.
func (p DatabaseParams) ByteLen() int {
	return (p.RecordBitSize + 7) / 8
}

// Database holds the sharded data matrices, the LWE public pad, and the
// derived hint matrices for one PIR instance. It is populated by Append,
// then frozen by UpdateHints; SetHint may substitute an externally-computed
// hint instead (used when the hint is precomputed out of band).
type Database struct {
	Params    DatabaseParams
	LweParams lwe.Params
	SecretDim int

	data [][]uint64
	hint [][]uint64
	A    []uint64
	next int
}

// NewDatabase allocates an empty database ready for Append.
func NewDatabase(params DatabaseParams, lweParams lwe.Params, secretDim int) *Database {
	numShards := params.NumShards()
	data := make([][]uint64, numShards)
	for s := range data {
		data[s] = make([]uint64, params.Rows*params.Cols)
	}
	return &Database{Params: params, LweParams: lweParams, SecretDim: secretDim, data: data}
}

// Append packs record's shards into the next free linear index (row-major).
func (d *Database) Append(record []byte) error {
	if len(record) != d.Params.ByteLen() {
		return fmt.Errorf("pir: record is %d bytes, want %d", len(record), d.Params.ByteLen())
	}
	if d.next >= d.Params.Rows*d.Params.Cols {
		return fmt.Errorf("pir: database is full (%d records)", d.Params.Rows*d.Params.Cols)
	}
	shards := Split(record, d.Params.NumShards(), d.Params.PlaintextBitSize)
	for s, v := range shards {
		d.data[s][d.next] = v
	}
	d.next++
	return nil
}

// UpdateLweQueryPad stores the db_cols x SecretDim public pad A.
func (d *Database) UpdateLweQueryPad(A []uint64) {
	d.A = A
}

// UpdateHints computes hint_s = data_s . A (mod 2^l) for every shard s.
func (d *Database) UpdateHints() error {
	if d.A == nil {
		return fmt.Errorf("pir: UpdateHints called before UpdateLweQueryPad")
	}
	hint := make([][]uint64, len(d.data))
	for s, data := range d.data {
		hint[s] = lwe.MatMatMul(data, d.Params.Rows, d.Params.Cols, d.A, d.SecretDim, d.LweParams)
	}
	d.hint = hint
	return nil
}

// SetHint overrides shard s's hint with an externally-computed matrix,
// accepted verbatim without recomputation.
func (d *Database) SetHint(shard int, vals []uint64) error {
	if shard < 0 || shard >= len(d.data) {
		return fmt.Errorf("pir: shard %d out of range", shard)
	}
	if len(vals) != d.Params.Rows*d.SecretDim {
		return fmt.Errorf("pir: hint has %d entries, want %d", len(vals), d.Params.Rows*d.SecretDim)
	}
	if d.hint == nil {
		d.hint = make([][]uint64, len(d.data))
	}
	d.hint[shard] = vals
	return nil
}

// Hint returns shard s's db_rows x SecretDim hint matrix.
func (d *Database) Hint(shard int) ([]uint64, error) {
	if d.hint == nil || d.hint[shard] == nil {
		return nil, fmt.Errorf("pir: hint for shard %d not available; call UpdateHints or SetHint", shard)
	}
	return d.hint[shard], nil
}

// NumShards returns the number of plaintext shards per record.
func (d *Database) NumShards() int { return len(d.data) }

// InnerProductWith returns, per shard, data_s . q (mod 2^l).
func (d *Database) InnerProductWith(q []uint64) [][]uint64 {
	out := make([][]uint64, len(d.data))
	for s, data := range d.data {
		out[s] = lwe.MatVecMul(data, d.Params.Rows, d.Params.Cols, q, d.LweParams)
	}
	return out
}

// Record reconstructs the byte string stored at linear index idx.
func (d *Database) Record(idx int) ([]byte, error) {
	if idx < 0 || idx >= d.Params.Rows*d.Params.Cols {
		return nil, fmt.Errorf("pir: index %d out of range [0, %d)", idx, d.Params.Rows*d.Params.Cols)
	}
	shards := make([]uint64, len(d.data))
	for s := range d.data {
		shards[s] = d.data[s][idx]
	}
	return Reconstruct(shards, d.Params.PlaintextBitSize, d.Params.ByteLen()), nil
}
