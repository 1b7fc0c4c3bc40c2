// Package linpir implements the homomorphic "LinPir" subprotocol: given an
// encrypted LWE secret, it computes the inner product between a public hint
// matrix and that secret entirely under BFV encryption, using Galois
// rotations and gadget-decomposed key switching so the server never learns
// which rows the client cares about.
//
// The diagonal method multiplies a rotation of the query against a database
// diagonal with a plaintext-ciphertext product; that product only computes
// an elementwise product of logical vector entries if both operands are
// built with BFV's SIMD slot encoding (bfv.BatchEncode), not a raw
// coefficient embedding — a plain coefficient embedding would instead
// compute a coefficient-wise convolution under pointwise NTT multiplication,
// the wrong operation entirely. The number of independent rotations a fixed
// Galois exponent g realizes (the column count C this package can address in
// one tile) is not always N: it is ord(g) in the slot-permutation group,
// which this package discovers once per instance via bfv.RotationOrbit
// rather than assuming a textbook C=N or C=N/2 closed form. A hint matrix
// with more than C columns is rejected by NewDatabase; no tiling across
// several C-wide pieces is done here or in the pir package.
package linpir

import (
	"fmt"

	"github.com/hintlesspir/hintlesspir/bfv"
	"github.com/hintlesspir/hintlesspir/ring"
)

// Database holds one plaintext-modulus instance's preprocessed hint matrix:
// for every row block, the C generalized diagonals (C = len(Orbit)), each
// slot-encoded and lifted into the ciphertext ring in NTT form.
type Database struct {
	QRing        *ring.Ring
	TRing        *ring.Ring
	Orbit        []int
	T            uint64
	RowsPerBlock int
	NumBlocks    int
	Cols         int
	Diagonals    [][]*ring.Poly // [block][diagonal 0..C-1], Q-ring NTT form
}

// NewDatabase preprocesses the rows x cols matrix M (row-major, values
// already reduced mod t) into its block-diagonal representation. rows must
// be a multiple of rowsPerBlock; both rowsPerBlock and cols must not exceed
// C = ord(galEl), the number of rotations galEl realizes on this ring.
func NewDatabase(qRing, tRing *ring.Ring, galEl uint64, rowsPerBlock int, M []uint64, rows, cols int) (*Database, error) {
	if qRing.N != tRing.N {
		return nil, fmt.Errorf("linpir: ciphertext ring degree %d != plaintext ring degree %d", qRing.N, tRing.N)
	}
	orbit := bfv.RotationOrbit(tRing, galEl)
	C := len(orbit)

	if rowsPerBlock <= 0 || rowsPerBlock > C {
		return nil, fmt.Errorf("linpir: rows_per_block %d exceeds rotation width %d", rowsPerBlock, C)
	}
	if cols <= 0 || cols > C {
		return nil, fmt.Errorf("linpir: matrix has %d columns, exceeds rotation width %d", cols, C)
	}
	if rows%rowsPerBlock != 0 {
		return nil, fmt.Errorf("linpir: rows %d is not a multiple of rows_per_block %d", rows, rowsPerBlock)
	}
	if len(M) != rows*cols {
		return nil, fmt.Errorf("linpir: matrix has %d entries, want %d", len(M), rows*cols)
	}

	t := tRing.Moduli[0].Q
	numBlocks := rows / rowsPerBlock
	d := &Database{
		QRing:        qRing,
		TRing:        tRing,
		Orbit:        orbit,
		T:            t,
		RowsPerBlock: rowsPerBlock,
		NumBlocks:    numBlocks,
		Cols:         cols,
	}
	d.Diagonals = make([][]*ring.Poly, numBlocks)

	for b := 0; b < numBlocks; b++ {
		diags := make([]*ring.Poly, C)
		for dd := 0; dd < C; dd++ {
			// diag_dd[i] = M[row=b*rowsPerBlock+i, col=(i-dd) mod C], matching
			// the rotation convention where applying the automorphism d times
			// moves logical position k to logical position (k+d) mod C.
			logical := make([]uint64, C)
			for i := 0; i < rowsPerBlock; i++ {
				row := b*rowsPerBlock + i
				j := ((i-dd)%C + C) % C
				if j < cols {
					logical[i] = M[row*cols+j] % t
				}
			}
			slots := make([]uint64, tRing.N)
			for k := 0; k < C; k++ {
				slots[orbit[k]] = logical[k]
			}
			coeff := bfv.BatchEncode(tRing, slots)
			diags[dd] = bfv.EncodePlaintext(qRing, coeff.Coeffs[0])
		}
		d.Diagonals[b] = diags
	}
	return d, nil
}
