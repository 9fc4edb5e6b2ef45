// Command levelgen generates a level from a chunk library file and prints,
// saves, or renders the result.
//
// Usage:
//
//	levelgen -chunks dungeon.yaml -seed 42 -width 120 -height 80 -max-chunks 40 -ascii
//	levelgen -chunks dungeon.yaml -seed-phrase "the cellar" -out level.yaml
//	levelgen -chunks station.yaml -depth 30 -store-driver sqlite -store-dsn data/levels.db
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/chunkstitch/chunkstitch/internal/config"
	"github.com/chunkstitch/chunkstitch/internal/layout"
	"github.com/chunkstitch/chunkstitch/internal/logger"
	"github.com/chunkstitch/chunkstitch/internal/store"
	"github.com/chunkstitch/chunkstitch/pkg/chunk"
	"github.com/chunkstitch/chunkstitch/pkg/chunkfile"
	"github.com/chunkstitch/chunkstitch/pkg/generator"
	"github.com/chunkstitch/chunkstitch/pkg/geom"
	"github.com/chunkstitch/chunkstitch/pkg/seed"
)

func main() {
	// A missing .env is fine; explicit env still applies.
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to YAML config file")
	chunksPath := flag.String("chunks", "", "Path to chunk library YAML (overrides config)")
	seedValue := flag.Int64("seed", 0, "Generation seed")
	seedPhrase := flag.String("seed-phrase", "", "Derive the seed from a phrase (overrides -seed)")
	width := flag.Float64("width", 100, "Level width")
	height := flag.Float64("height", 100, "Level height")
	depth := flag.Float64("depth", 0, "Level depth; required for 3D chunk files")
	maxChunks := flag.Int("max-chunks", 0, "Maximum chunks to place (overrides config)")
	alignOffset := flag.Float64("align", -1, "Align open contexts within this distance (overrides config)")
	seedTag := flag.String("seed-tag", "", "Restrict the initial chunk to this template tag")
	outPath := flag.String("out", "", "Write the generated layout as YAML to this file")
	ascii := flag.Bool("ascii", false, "Render a 2D layout as an ASCII plan on stdout")
	name := flag.String("name", "", "Catalog entry name (defaults to the seed)")
	storeDriver := flag.String("store-driver", "", "Save to the level catalog: sqlite or postgres")
	storeDSN := flag.String("store-dsn", "", "Catalog DSN (file path for sqlite)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
	}
	if *chunksPath != "" {
		cfg.Generation.ChunkFile = *chunksPath
	}
	if *maxChunks > 0 {
		cfg.Generation.MaxChunks = *maxChunks
	}
	if *alignOffset >= 0 {
		cfg.Generation.AlignOffset = *alignOffset
	}
	if *storeDriver != "" {
		cfg.Store.Driver = *storeDriver
	}
	if *storeDSN != "" {
		cfg.Store.DSN = *storeDSN
	}
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}
	if cfg.Generation.ChunkFile == "" {
		fatal(fmt.Errorf("no chunk library given; use -chunks or the config file"))
	}

	log := logger.New(cfg.Logging)

	runSeed := *seedValue
	switch {
	case *seedPhrase != "":
		runSeed = seed.FromPhrase(*seedPhrase)
	case runSeed == 0 && cfg.Generation.SeedPhrase != "":
		runSeed = seed.FromPhrase(cfg.Generation.SeedPhrase)
	}

	file, err := chunkfile.Load(cfg.Generation.ChunkFile)
	if err != nil {
		fatal(err)
	}

	var built *layout.Layout
	switch file.Dims {
	case 2:
		lib, err := file.Library2()
		if err != nil {
			fatal(err)
		}
		built, err = run(lib, geom.V2(*width, *height), runSeed, *seedTag, cfg.Generation, log)
		if err != nil {
			fatal(err)
		}
	case 3:
		if *depth <= 0 {
			fatal(fmt.Errorf("chunk library %s is 3D; -depth is required", cfg.Generation.ChunkFile))
		}
		lib, err := file.Library3()
		if err != nil {
			fatal(err)
		}
		built, err = run(lib, geom.V3(*width, *height, *depth), runSeed, *seedTag, cfg.Generation, log)
		if err != nil {
			fatal(err)
		}
	}

	fmt.Printf("Generated %d chunks (%d open contexts) with seed %d\n",
		len(built.Chunks), len(built.OpenContexts), runSeed)

	if *ascii {
		if built.Dims != 2 {
			fatal(fmt.Errorf("-ascii supports 2D layouts only"))
		}
		renderASCII(os.Stdout, built)
	}

	if *outPath != "" {
		data, err := yaml.Marshal(built)
		if err != nil {
			fatal(err)
		}
		if err := os.WriteFile(*outPath, data, 0644); err != nil {
			fatal(err)
		}
		fmt.Printf("Wrote layout to %s\n", *outPath)
	}

	if cfg.Store.Driver != "" {
		entryName := *name
		if entryName == "" {
			entryName = fmt.Sprintf("seed-%d", runSeed)
		}
		st, err := store.Open(store.DialectType(cfg.Store.Driver), cfg.Store.DSN)
		if err != nil {
			fatal(err)
		}
		defer st.Close()
		id, err := st.SaveLevel(entryName, runSeed, built)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("Saved to catalog as %s\n", id)
	}
}

func run[V geom.Vector[V]](lib *chunk.Library[V], extents V, runSeed int64, seedTag string, genCfg config.GenerationConfig, log *slog.Logger) (*layout.Layout, error) {
	cfg := generator.Config[V]{
		Library:       lib,
		TargetExtents: extents,
		Seed:          runSeed,
		Termination:   generator.MaxChunkCount[V](genCfg.MaxChunks),
		AttemptBudget: genCfg.AttemptBudget,
		SeedTag:       seedTag,
		Logger:        log,
	}
	if genCfg.AlignOffset > 0 {
		cfg.Policies = []generator.PostProcessingPolicy[V]{
			generator.AlignAdjacentContexts[V]{Offset: genCfg.AlignOffset},
		}
	}
	lvl, err := generator.Generate(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	return layout.Capture(lvl), nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "levelgen: %v\n", err)
	os.Exit(1)
}

func renderASCII(w *os.File, l *layout.Layout) {
	width := int(l.Extents[0])
	height := int(l.Extents[1])
	grid := make([][]byte, height)
	for y := range grid {
		grid[y] = make([]byte, width)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}
	set := func(x, y int, ch byte) {
		if x >= 0 && x < width && y >= 0 && y < height {
			grid[y][x] = ch
		}
	}
	for _, c := range l.Chunks {
		x0, y0 := int(c.Pos[0]), int(c.Pos[1])
		x1, y1 := x0+int(c.Extents[0]), y0+int(c.Extents[1])
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				set(x, y, '.')
			}
		}
		for x := x0; x < x1; x++ {
			set(x, y0, '#')
			set(x, y1-1, '#')
		}
		for y := y0; y < y1; y++ {
			set(x0, y, '#')
			set(x1-1, y, '#')
		}
	}
	for _, ctx := range l.OpenContexts {
		set(int(ctx.Pos[0]), int(ctx.Pos[1]), 'o')
	}
	// Row 0 is the bottom of the level; print top-down.
	for y := height - 1; y >= 0; y-- {
		fmt.Fprintln(w, string(grid[y]))
	}
}
