// Command pirclient is the counterpart demo to pirserver: it dials the
// server's Unix socket, reads the published parameters, retrieves one
// record by index, and prints the recovered byte.
package main

import (
	"encoding/binary"
	"flag"
	"io"
	"log"
	"net"
	"os"

	"github.com/hintlesspir/hintlesspir/pir"
	"github.com/hintlesspir/hintlesspir/wire"
)

const socketPath = "/tmp/dpir_server.sock"

func check(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func demoParams() pir.Params {
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

func writeFramed(w io.Writer, payload []byte) error {
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

func readFramed(r io.Reader) ([]byte, error) {
	var lenBuf [8]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.LittleEndian.Uint64(lenBuf[:])
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func main() {
	index := flag.Int("index", 0, "linear database index to fetch")
	flag.Parse()

	params := demoParams()
	if *index < 0 || *index >= params.DBRows*params.DBCols {
		log.Fatalf("pirclient: index %d out of range [0, %d)", *index, params.DBRows*params.DBCols)
	}

	conn, err := net.Dial("unix", socketPath)
	check(err)
	defer conn.Close()

	ppBytes, err := readFramed(conn)
	check(err)
	public, err := wire.UnmarshalPublicParams(ppBytes)
	check(err)

	client, err := pir.NewClient(params, public)
	check(err)

	req, pending, err := client.GenerateRequest([]int{*index})
	check(err)

	check(writeFramed(conn, wire.MarshalRequest(req)))

	respBytes, err := readFramed(conn)
	check(err)
	resp, err := wire.UnmarshalResponse(respBytes)
	check(err)

	records, err := client.RecoverRecord(resp, pending)
	check(err)

	log.Printf("pirclient: record at index %d = %v", *index, records[0])
	os.Stdout.Write(records[0])
}
