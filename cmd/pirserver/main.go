// Command pirserver is a minimal demo server for the Hintless SimplePIR
// protocol: it builds a small in-memory database, preprocesses it, and
// serves exactly one request over a Unix domain socket before exiting.
//
// This binary and its Unix-socket framing are demo plumbing around the core
// protocol, not part of it: see the project's design ledger for why the
// socket framing itself lives here rather than in the wire package.
package main

import (
	"encoding/binary"
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

// writeFramed writes payload length-prefixed with an 8-byte little-endian
// length, the framing the demo binaries use over their Unix socket.
func writeFramed(w io.Writer, payload []byte) error {
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// readFramed reads one length-prefixed message.
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
	os.Remove(socketPath)

	params := demoParams()
	db := pir.NewDatabase(params.DatabaseParams(), params.LweParams(), params.LweSecretDim)
	for i := 0; i < params.DBRows*params.DBCols; i++ {
		check(db.Append([]byte{byte((i*37 + 11) % 256)}))
	}

	server, err := pir.NewServer(params)
	check(err)
	check(server.Preprocess(db))

	listener, err := net.Listen("unix", socketPath)
	check(err)
	defer listener.Close()
	log.Printf("pirserver: listening on %s", socketPath)

	conn, err := listener.Accept()
	check(err)
	defer conn.Close()

	check(writeFramed(conn, wire.MarshalPublicParams(server.Public)))

	reqBytes, err := readFramed(conn)
	check(err)
	req, err := wire.UnmarshalRequest(reqBytes)
	check(err)

	resp, err := server.HandleRequest(req)
	check(err)

	check(writeFramed(conn, wire.MarshalResponse(resp)))
	log.Printf("pirserver: handled one request, exiting")
}
