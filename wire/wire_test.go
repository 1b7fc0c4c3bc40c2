package wire

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hintlesspir/hintlesspir/pir"
)

func testParams() pir.Params {
	return pir.Params{
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

func TestRequestResponseRoundTripThroughBytes(t *testing.T) {
	params := testParams()
	db := pir.NewDatabase(params.DatabaseParams(), params.LweParams(), params.LweSecretDim)
	for i := 0; i < params.DBRows*params.DBCols; i++ {
		require.NoError(t, db.Append([]byte{byte((i*37 + 11) % 256)}))
	}

	server, err := pir.NewServer(params)
	require.NoError(t, err)
	require.NoError(t, server.Preprocess(db))

	client, err := pir.NewClient(params, server.Public)
	require.NoError(t, err)

	idx := 17
	req, pending, err := client.GenerateRequest([]int{idx})
	require.NoError(t, err)

	reqBytes := MarshalRequest(req)
	decodedReq, err := UnmarshalRequest(reqBytes)
	require.NoError(t, err)
	require.Equal(t, req.CtQueryVector, decodedReq.CtQueryVector)

	resp, err := server.HandleRequest(decodedReq)
	require.NoError(t, err)

	respBytes := MarshalResponse(resp)
	decodedResp, err := UnmarshalResponse(respBytes)
	require.NoError(t, err)

	got, err := client.RecoverRecord(decodedResp, pending)
	require.NoError(t, err)
	require.Equal(t, []byte{byte((idx*37 + 11) % 256)}, got[0])
}

func TestPublicParamsRoundTrip(t *testing.T) {
	params := testParams()
	server, err := pir.NewServer(params)
	require.NoError(t, err)

	b := MarshalPublicParams(server.Public)
	decoded, err := UnmarshalPublicParams(b)
	require.NoError(t, err)
	require.Equal(t, server.Public, decoded)
}
