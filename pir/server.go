package pir

import (
	"fmt"

	"github.com/hintlesspir/hintlesspir/bfv"
	"github.com/hintlesspir/hintlesspir/linpir"
	"github.com/hintlesspir/hintlesspir/lwe"
	"github.com/hintlesspir/hintlesspir/ring"
)

// ServerPublicParams is the set of deterministic seeds the server publishes
// once: clients expand the same pads locally so that only ciphertext "b"
// halves ever need to travel on the wire.
type ServerPublicParams struct {
	LweQueryPadSeed []byte
	CtPadSeeds      [][]byte // one per element of Params.Ts
	GkPadSeed       []byte
}

// Server orchestrates the SimplePIR raw answer and, per plaintext modulus,
// a LinPir instance per shard that homomorphically reproduces hint_s . s.
//
// This implementation requires lwe_secret_dim to fit within a single
// rotation: for every t_k, ord(GalEl) modulo 2N must be >= LweSecretDim. A
// secret dimension wider than every instance can rotate through is rejected
// at Preprocess rather than silently split into multiple tiled ciphertexts
// per batch element (the tiling §4.5 describes for that case) — see the
// design ledger for the rationale.
type Server struct {
	Params     Params
	Public     ServerPublicParams
	DB         *Database
	linServers [][]*linpir.Server // [k][shard]
}

// NewServer builds a Server for the given parameters and freshly samples its
// public params from secure randomness.
func NewServer(params Params) (*Server, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	pub, err := freshPublicParams(len(params.Ts))
	if err != nil {
		return nil, err
	}
	return &Server{Params: params, Public: pub}, nil
}

func freshPublicParams(numT int) (ServerPublicParams, error) {
	lweSeed, err := randomSeed(32)
	if err != nil {
		return ServerPublicParams{}, err
	}
	gkSeed, err := randomSeed(32)
	if err != nil {
		return ServerPublicParams{}, err
	}
	ctSeeds := make([][]byte, numT)
	for i := range ctSeeds {
		s, err := randomSeed(32)
		if err != nil {
			return ServerPublicParams{}, err
		}
		ctSeeds[i] = s
	}
	return ServerPublicParams{LweQueryPadSeed: lweSeed, CtPadSeeds: ctSeeds, GkPadSeed: gkSeed}, nil
}

// Preprocess expands the LWE pad, computes the database's hints, and builds
// and preprocesses one LinPir server per (plaintext modulus, shard) pair.
// Calling it twice on the same database and public params recomputes the
// same hints and is a no-op with respect to their values.
func (s *Server) Preprocess(db *Database) error {
	lweParams := s.Params.LweParams()
	prng, err := ring.NewPRNG(ring.HKDF, s.Public.LweQueryPadSeed)
	if err != nil {
		return fmt.Errorf("pir: %w", err)
	}
	A := lwe.ExpandPad(prng, db.Params.Cols, db.SecretDim, lweParams)
	db.UpdateLweQueryPad(A)
	if err := db.UpdateHints(); err != nil {
		return fmt.Errorf("pir: %w", err)
	}

	numShards := db.NumShards()
	linServers := make([][]*linpir.Server, len(s.Params.Ts))
	for k, t := range s.Params.Ts {
		bp := s.Params.BFVParamsFor(t)
		linServers[k] = make([]*linpir.Server, numShards)
		for sh := 0; sh < numShards; sh++ {
			srv, err := linpir.NewServer(bp, s.Params.GalEl)
			if err != nil {
				return fmt.Errorf("pir: t[%d]: %w", k, err)
			}
			C := len(bfv.RotationOrbit(srv.TRing, s.Params.GalEl))
			if db.SecretDim > C {
				return fmt.Errorf("pir: lwe_secret_dim %d exceeds rotation width %d for t[%d]=%d", db.SecretDim, C, k, t)
			}
			hint, err := db.Hint(sh)
			if err != nil {
				return fmt.Errorf("pir: %w", err)
			}
			ldb, err := linpir.NewDatabase(srv.Ring, srv.TRing, s.Params.GalEl, s.Params.RowsPerBlock, hint, db.Params.Rows, db.SecretDim)
			if err != nil {
				return fmt.Errorf("pir: t[%d] shard %d: %w", k, sh, err)
			}
			if err := srv.Preprocess(ldb, s.Params.BatchSize, s.Public.CtPadSeeds[k], s.Public.GkPadSeed); err != nil {
				return fmt.Errorf("pir: t[%d] shard %d: %w", k, sh, err)
			}
			linServers[k][sh] = srv
		}
	}

	s.DB = db
	s.linServers = linServers
	return nil
}

// Request is the client-to-server message: a batch of LWE query ciphertexts
// plus the encrypted-LWE-secret and Galois-key material needed by every
// LinPir instance.
type Request struct {
	CtQueryVector []uint64    // batch-major, db_cols entries per element
	LinpirCtBs    [][]*ring.Poly // [k][batch element]
	LinpirGkBs    [][]*ring.Poly // [k][digit]
}

// Response is the server-to-client message.
type Response struct {
	CtRecords      [][][]uint64            // [batch][shard], length db_rows
	LinpirResponses [][][][]*bfv.Ciphertext // [k][shard][batch element][block]
}

// HandleRequest computes the raw SimplePIR answer for every batch element
// and shard, and the LinPir inner-product ciphertexts for every plaintext
// modulus and shard.
func (s *Server) HandleRequest(req *Request) (*Response, error) {
	if s.DB == nil {
		return nil, fmt.Errorf("pir: HandleRequest called before Preprocess")
	}
	batch := len(req.CtQueryVector) / s.DB.Params.Cols
	if batch*s.DB.Params.Cols != len(req.CtQueryVector) {
		return nil, fmt.Errorf("pir: ct_query_vector length %d is not a multiple of db_cols %d", len(req.CtQueryVector), s.DB.Params.Cols)
	}

	records := make([][][]uint64, batch)
	for i := 0; i < batch; i++ {
		q := req.CtQueryVector[i*s.DB.Params.Cols : (i+1)*s.DB.Params.Cols]
		records[i] = s.DB.InnerProductWith(q)
	}

	linResp := make([][][][]*bfv.Ciphertext, len(s.Params.Ts))
	for k := range s.Params.Ts {
		if len(req.LinpirCtBs) <= k {
			return nil, fmt.Errorf("pir: missing linpir ciphertexts for t[%d]", k)
		}
		linResp[k] = make([][][]*bfv.Ciphertext, len(s.linServers[k]))
		for sh, srv := range s.linServers[k] {
			resp, err := srv.HandleRequest(req.LinpirCtBs[k], req.LinpirGkBs[k])
			if err != nil {
				return nil, fmt.Errorf("pir: t[%d] shard %d: %w", k, sh, err)
			}
			linResp[k][sh] = resp
		}
	}

	return &Response{CtRecords: records, LinpirResponses: linResp}, nil
}
