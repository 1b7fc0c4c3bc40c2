package pir

import "math/big"

// Split bit-packs record (interpreted as a little-endian integer) into
// numShards p-bit residues: shard i holds bits [i*p, (i+1)*p) of the record,
// counting from the least significant bit of byte 0.
func Split(record []byte, numShards, p int) []uint64 {
	v := littleEndianToBigInt(record)
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(p)), big.NewInt(1))

	shards := make([]uint64, numShards)
	tmp := new(big.Int)
	for i := range shards {
		tmp.Rsh(v, uint(i*p))
		tmp.And(tmp, mask)
		shards[i] = tmp.Uint64()
	}
	return shards
}

// Reconstruct inverts Split, given the byte length of the original record.
func Reconstruct(shards []uint64, p, byteLen int) []byte {
	v := new(big.Int)
	for i := len(shards) - 1; i >= 0; i-- {
		v.Lsh(v, uint(p))
		v.Or(v, new(big.Int).SetUint64(shards[i]))
	}
	return bigIntToLittleEndian(v, byteLen)
}

func littleEndianToBigInt(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i, c := range b {
		be[len(b)-1-i] = c
	}
	return new(big.Int).SetBytes(be)
}

func bigIntToLittleEndian(v *big.Int, byteLen int) []byte {
	be := v.FillBytes(make([]byte, byteLen))
	out := make([]byte, byteLen)
	for i, c := range be {
		out[byteLen-1-i] = c
	}
	return out
}
