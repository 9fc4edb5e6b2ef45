// Command levelgend serves level generation over a websocket. Clients
// connect to /generate and send schema-validated generate requests; each
// gets the resulting layout back as JSON.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/chunkstitch/chunkstitch/internal/config"
	"github.com/chunkstitch/chunkstitch/internal/genserver"
	"github.com/chunkstitch/chunkstitch/internal/logger"
	"github.com/chunkstitch/chunkstitch/pkg/chunkfile"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to YAML config file")
	chunksPath := flag.String("chunks", "", "Path to chunk library YAML (overrides config)")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
	}
	if *chunksPath != "" {
		cfg.Generation.ChunkFile = *chunksPath
	}
	if *addr != "" {
		cfg.Serve.Addr = *addr
	}
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}
	if cfg.Generation.ChunkFile == "" {
		fatal(fmt.Errorf("no chunk library given; use -chunks or the config file"))
	}

	log := logger.New(cfg.Logging)

	file, err := chunkfile.Load(cfg.Generation.ChunkFile)
	if err != nil {
		fatal(err)
	}
	srv, err := genserver.New(file, cfg.Generation, cfg.Serve, log)
	if err != nil {
		fatal(err)
	}

	httpServer := &http.Server{
		Addr:    cfg.Serve.Addr,
		Handler: srv.Handler(),
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("levelgend listening",
			"addr", cfg.Serve.Addr,
			"chunk_file", cfg.Generation.ChunkFile,
			"dims", file.Dims)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", "error", err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "levelgend: %v\n", err)
	os.Exit(1)
}
