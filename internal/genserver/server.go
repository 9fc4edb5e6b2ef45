// Package genserver serves level generation over a websocket: clients send
// schema-validated generate requests and receive the resulting layout. The
// engine stays network-free; this is the service wrapper around it.
package genserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/chunkstitch/chunkstitch/internal/config"
	"github.com/chunkstitch/chunkstitch/internal/layout"
	"github.com/chunkstitch/chunkstitch/pkg/chunk"
	"github.com/chunkstitch/chunkstitch/pkg/chunkfile"
	"github.com/chunkstitch/chunkstitch/pkg/generator"
	"github.com/chunkstitch/chunkstitch/pkg/geom"
	"github.com/chunkstitch/chunkstitch/pkg/seed"
)

// generateTimeout bounds a single generation run.
const generateTimeout = 30 * time.Second

// Server handles generation requests against one loaded chunk library.
type Server struct {
	dims     int
	lib2     *chunk.Library[geom.Vec2]
	lib3     *chunk.Library[geom.Vec3]
	cfg      config.GenerationConfig
	log      *slog.Logger
	upgrader websocket.Upgrader
	maxMsg   int64
}

// New builds a server from a parsed chunk file. The library is built once;
// a file that fails validation is rejected at startup, not per request.
func New(file *chunkfile.File, genCfg config.GenerationConfig, serveCfg config.ServeConfig, log *slog.Logger) (*Server, error) {
	s := &Server{
		dims:   file.Dims,
		cfg:    genCfg,
		log:    log,
		maxMsg: serveCfg.MaxMessageSize,
	}
	var err error
	switch file.Dims {
	case 2:
		s.lib2, err = file.Library2()
	case 3:
		s.lib3, err = file.Library3()
	}
	if err != nil {
		return nil, err
	}
	s.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return serveCfg.IsOriginAllowed(r.Header.Get("Origin"), r.Host)
		},
	}
	return s, nil
}

// Handler returns the HTTP handler exposing /generate.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/generate", s.handleGenerate)
	return mux
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()
	if s.maxMsg > 0 {
		conn.SetReadLimit(s.maxMsg)
	}
	s.log.Info("client connected", "remote", r.RemoteAddr)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Warn("read failed", "remote", r.RemoteAddr, "error", err)
			}
			return
		}

		req, err := ParseGenerateRequest(data)
		if err != nil {
			s.writeError(conn, CodeBadRequest, err.Error())
			continue
		}
		if len(req.Extents) != s.dims {
			s.writeError(conn, CodeBadRequest,
				fmt.Sprintf("extents must have %d components for this chunk library, got %d", s.dims, len(req.Extents)))
			continue
		}

		resp, err := s.generate(r.Context(), req)
		if err != nil {
			s.writeError(conn, CodeGenerationFailed, err.Error())
			continue
		}
		if err := conn.WriteJSON(resp); err != nil {
			s.log.Warn("write failed", "remote", r.RemoteAddr, "error", err)
			return
		}
	}
}

func (s *Server) generate(ctx context.Context, req *GenerateRequest) (*LevelResponse, error) {
	runSeed := req.Seed
	if req.SeedPhrase != "" {
		runSeed = seed.FromPhrase(req.SeedPhrase)
	}
	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	var built *layout.Layout
	var err error
	switch s.dims {
	case 2:
		built, err = runGeneration(ctx, s.lib2, geom.V2(req.Extents[0], req.Extents[1]), runSeed, req, s.cfg, s.log)
	case 3:
		built, err = runGeneration(ctx, s.lib3, geom.V3(req.Extents[0], req.Extents[1], req.Extents[2]), runSeed, req, s.cfg, s.log)
	}
	if err != nil {
		return nil, err
	}
	return &LevelResponse{Type: TypeLevel, Seed: runSeed, Layout: built}, nil
}

func runGeneration[V geom.Vector[V]](ctx context.Context, lib *chunk.Library[V], extents V, runSeed int64, req *GenerateRequest, genCfg config.GenerationConfig, log *slog.Logger) (*layout.Layout, error) {
	cfg := generator.Config[V]{
		Library:       lib,
		TargetExtents: extents,
		Seed:          runSeed,
		Termination:   generator.MaxChunkCount[V](req.MaxChunks),
		AttemptBudget: genCfg.AttemptBudget,
		SeedTag:       req.SeedTag,
		Logger:        log,
	}
	if req.AlignOffset > 0 {
		cfg.Policies = []generator.PostProcessingPolicy[V]{
			generator.AlignAdjacentContexts[V]{Offset: req.AlignOffset},
		}
	}
	lvl, err := generator.Generate(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return layout.Capture(lvl), nil
}

func (s *Server) writeError(conn *websocket.Conn, code, message string) {
	s.log.Debug("request rejected", "code", code, "message", message)
	_ = conn.WriteJSON(ErrorResponse{Type: TypeError, Code: code, Message: message})
}
