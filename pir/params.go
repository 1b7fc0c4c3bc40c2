package pir

import (
	"fmt"

	"github.com/hintlesspir/hintlesspir/bfv"
	"github.com/hintlesspir/hintlesspir/lwe"
	"github.com/hintlesspir/hintlesspir/utils"
)

// Params collects every parameter needed to build a PirDatabase, its
// LinPir instances (one per plaintext modulus in Ts), and the client/server
// orchestration around them.
type Params struct {
	DBRows               int
	DBCols               int
	RecordBitSize        int
	BatchSize            int
	LweSecretDim         int
	LweModulusBitSize    int
	LwePlaintextBitSize  int
	LweErrorVariance     int
	RowsPerBlock         int
	LogN                 int
	Qs                   []uint64
	Ts                   []uint64
	GadgetLogBs          []int
	LinPirErrorVariance  int
	GalEl                uint64
}

// LweParams returns the lwe.Params view of this instance.
func (p Params) LweParams() lwe.Params {
	return lwe.Params{
		ModulusBitSize:   p.LweModulusBitSize,
		PlaintextBitSize: p.LwePlaintextBitSize,
		ErrorVariance:    p.LweErrorVariance,
	}
}

// BFVParamsFor returns the bfv.Params for the LinPir instance over plaintext
// modulus t.
func (p Params) BFVParamsFor(t uint64) bfv.Params {
	return bfv.Params{
		LogN:          p.LogN,
		Qs:            p.Qs,
		T:             t,
		GadgetLogBs:   p.GadgetLogBs,
		ErrorVariance: p.LinPirErrorVariance,
	}
}

// DatabaseParams returns the pir.DatabaseParams view of this instance.
func (p Params) DatabaseParams() DatabaseParams {
	return DatabaseParams{
		Rows:             p.DBRows,
		Cols:             p.DBCols,
		RecordBitSize:    p.RecordBitSize,
		PlaintextBitSize: p.LwePlaintextBitSize,
	}
}

// N returns the LinPir ring degree 2^LogN.
func (p Params) N() int { return 1 << uint(p.LogN) }

// ByteLen returns ceil(RecordBitSize/8).
func (p Params) ByteLen() int { return (p.RecordBitSize + 7) / 8 }

// Validate checks the structural invariants that must hold before a Server
// or Client can be built: db_rows must be a multiple of rows_per_block, the
// RNS moduli lists must be pairwise distinct, and there must be at least one
// plaintext modulus.
func (p Params) Validate() error {
	if p.DBRows <= 0 || p.DBCols <= 0 {
		return fmt.Errorf("pir: db_rows and db_cols must be positive")
	}
	if p.RowsPerBlock <= 0 || p.DBRows%p.RowsPerBlock != 0 {
		return fmt.Errorf("pir: db_rows %d is not a multiple of rows_per_block %d", p.DBRows, p.RowsPerBlock)
	}
	if len(p.Ts) == 0 {
		return fmt.Errorf("pir: at least one plaintext modulus is required")
	}
	if !utils.AllDistinct(p.Ts) {
		return fmt.Errorf("pir: plaintext moduli ts must be pairwise distinct")
	}
	if !utils.AllDistinct(p.Qs) {
		return fmt.Errorf("pir: ciphertext moduli qs must be pairwise distinct")
	}
	return nil
}
