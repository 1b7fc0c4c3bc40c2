package pir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// testParams uses a small LWE modulus (q=2^16) and three plaintext moduli
// (97, 193, 257, all congruent to 1 mod 2N=32) whose product comfortably exceeds
// 2*q*lwe_secret_dim, the bound the CRT recomposition of the LinPir output
// needs to recover the exact hint-dot-secret value rather than an alias of
// it. lwe_secret_dim is pinned to the rotation width (8) that GalEl=3
// realizes on this ring, since this implementation does not tile a wider
// secret across multiple rotations.
func testParams() Params {
	return Params{
		DBRows:              8,
		DBCols:              8,
		RecordBitSize:       8,
		BatchSize:           4,
		LweSecretDim:        8,
		LweModulusBitSize:   16,
		LwePlaintextBitSize: 4,
		LweErrorVariance:    2,
		RowsPerBlock:        4,
		LogN:                4,
		Qs:                  []uint64{7681, 12289, 40961},
		Ts:                  []uint64{97, 193, 257},
		GadgetLogBs:         []int{8, 8, 8},
		LinPirErrorVariance: 4,
		GalEl:               3,
	}
}

func populate(t *testing.T, params Params) *Database {
	db := NewDatabase(params.DatabaseParams(), params.LweParams(), params.LweSecretDim)
	for i := 0; i < params.DBRows*params.DBCols; i++ {
		require.NoError(t, db.Append([]byte{byte((i*37 + 11) % 256)}))
	}
	return db
}

func TestSingleRecordRoundTrip(t *testing.T) {
	params := testParams()
	db := populate(t, params)

	server, err := NewServer(params)
	require.NoError(t, err)
	require.NoError(t, server.Preprocess(db))

	client, err := NewClient(params, server.Public)
	require.NoError(t, err)

	idx := 17
	req, pending, err := client.GenerateRequest([]int{idx})
	require.NoError(t, err)

	resp, err := server.HandleRequest(req)
	require.NoError(t, err)

	got, err := client.RecoverRecord(resp, pending)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, []byte{byte((idx*37 + 11) % 256)}, got[0])
}

func TestBatchedRecordRoundTrip(t *testing.T) {
	params := testParams()
	db := populate(t, params)

	server, err := NewServer(params)
	require.NoError(t, err)
	require.NoError(t, server.Preprocess(db))

	client, err := NewClient(params, server.Public)
	require.NoError(t, err)

	indices := []int{0, 63, 17, 42}
	req, pending, err := client.GenerateRequest(indices)
	require.NoError(t, err)

	resp, err := server.HandleRequest(req)
	require.NoError(t, err)

	got, err := client.RecoverRecord(resp, pending)
	require.NoError(t, err)
	require.Len(t, got, len(indices))
	for i, idx := range indices {
		require.Equal(t, []byte{byte((idx*37 + 11) % 256)}, got[i], "index %d", idx)
	}
}

func TestIndexOutOfRangeRejected(t *testing.T) {
	params := testParams()
	db := populate(t, params)

	server, err := NewServer(params)
	require.NoError(t, err)
	require.NoError(t, server.Preprocess(db))

	client, err := NewClient(params, server.Public)
	require.NoError(t, err)

	_, _, err = client.GenerateRequest([]int{params.DBRows * params.DBCols})
	require.Error(t, err)
}

func TestPreprocessIsIdempotentOnHints(t *testing.T) {
	params := testParams()
	db := populate(t, params)

	server, err := NewServer(params)
	require.NoError(t, err)
	require.NoError(t, server.Preprocess(db))
	first, err := db.Hint(0)
	require.NoError(t, err)
	firstCopy := append([]uint64(nil), first...)

	require.NoError(t, server.Preprocess(db))
	second, err := db.Hint(0)
	require.NoError(t, err)
	require.Equal(t, firstCopy, second)
}

func TestMultiShardRecord(t *testing.T) {
	params := testParams()
	params.RecordBitSize = 16 // four 4-bit shards per 2-byte record

	db := NewDatabase(params.DatabaseParams(), params.LweParams(), params.LweSecretDim)
	for i := 0; i < params.DBRows*params.DBCols; i++ {
		b0 := byte((i * 13) % 256)
		b1 := byte((i*13 + 128) % 256)
		require.NoError(t, db.Append([]byte{b0, b1}))
	}

	server, err := NewServer(params)
	require.NoError(t, err)
	require.NoError(t, server.Preprocess(db))

	client, err := NewClient(params, server.Public)
	require.NoError(t, err)

	idx := 5
	req, pending, err := client.GenerateRequest([]int{idx})
	require.NoError(t, err)
	resp, err := server.HandleRequest(req)
	require.NoError(t, err)
	got, err := client.RecoverRecord(resp, pending)
	require.NoError(t, err)

	want := []byte{byte((idx * 13) % 256), byte((idx*13 + 128) % 256)}
	require.Equal(t, want, got[0])
}
