package linpir

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hintlesspir/hintlesspir/bfv"
	"github.com/hintlesspir/hintlesspir/ring"
)

var testParams = bfv.Params{
	LogN:          4,
	Qs:            []uint64{7681, 12289, 40961},
	T:             97,
	GadgetLogBs:   []int{8, 8, 8},
	ErrorVariance: 4,
}

const testGalEl = 3

// TestRotationOrbitIsAProperSubgroup documents the two-row BFV/CKKS slot
// structure: a single Galois element does not in general cycle through all N
// slots, only ord(g) of them, here a proper divisor of N.
func TestRotationOrbitIsAProperSubgroup(t *testing.T) {
	N := testParams.N()
	tRing, err := ring.NewRing(N, []uint64{testParams.T})
	require.NoError(t, err)

	orbit := bfv.RotationOrbit(tRing, testGalEl)
	require.Less(t, len(orbit), N)
	require.Greater(t, len(orbit), 0)

	seen := make(map[int]bool, len(orbit))
	for _, idx := range orbit {
		require.False(t, seen[idx], "orbit must not repeat a slot")
		seen[idx] = true
	}
}

func TestHandleRequestMatchesPlaintextProduct(t *testing.T) {
	server, err := NewServer(testParams, testGalEl)
	require.NoError(t, err)
	client, err := NewClient(testParams, testGalEl)
	require.NoError(t, err)

	tRing, err := ring.NewRing(testParams.N(), []uint64{testParams.T})
	require.NoError(t, err)
	orbit := bfv.RotationOrbit(tRing, testGalEl)
	cols := len(orbit)

	rowsPerBlock := 4
	if rowsPerBlock > cols {
		rowsPerBlock = cols
	}
	rows := 2 * rowsPerBlock // two blocks

	M := make([]uint64, rows*cols)
	for i := range M {
		M[i] = uint64(3*i+7) % testParams.T
	}
	secret := make([]uint64, cols)
	for i := range secret {
		secret[i] = uint64(5*i+1) % testParams.T
	}

	want := make([]uint64, rows)
	for row := 0; row < rows; row++ {
		var acc uint64
		for col := 0; col < cols; col++ {
			acc = (acc + M[row*cols+col]*secret[col]) % testParams.T
		}
		want[row] = acc
	}

	db, err := NewDatabase(server.Ring, server.TRing, testGalEl, rowsPerBlock, M, rows, cols)
	require.NoError(t, err)
	require.NoError(t, server.Preprocess(db, 1, []byte("ctpad-seed"), []byte("gkpad-seed")))

	skSeed := []byte("client-sk-seed")
	queryB, err := client.EncryptQuery([][]uint64{secret}, skSeed, []byte("ctpad-seed"))
	require.NoError(t, err)
	gkB, err := client.GenerateGaloisKey(skSeed, []byte("gkpad-seed"))
	require.NoError(t, err)

	responses, err := server.HandleRequest(queryB, gkB)
	require.NoError(t, err)
	require.Len(t, responses, 1)
	require.Len(t, responses[0], rows/rowsPerBlock)

	got, err := client.Recover(skSeed, responses, rowsPerBlock, rows/rowsPerBlock)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, want, got[0])
}
