// rendercmd CLI - runs, disassembles and traces render command streams
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/rendercmd/manifest"
	"github.com/chazu/rendercmd/pkg/rendercmd"
	"github.com/chazu/rendercmd/pkg/scene"
	"github.com/chazu/rendercmd/pkg/trace"
	"github.com/chazu/rendercmd/pkg/tracestore"
)

func main() {
	offset := flag.Int("offset", -1, "Byte offset of the first command in the stream file (default from manifest, else 0)")
	hexInput := flag.String("hex", "", "Read the stream from a hex string instead of a file")
	demo := flag.Bool("demo", false, "Run the built-in demo stream")
	dir := flag.String("C", ".", "Directory to search for "+manifest.FileName)
	disasm := flag.Bool("disasm", false, "Print a disassembly listing instead of running")
	traceOut := flag.String("trace", "", "Write the renderer call trace (CBOR) to this file")
	storePath := flag.String("store", "", "Save the run into this SQLite trace database")
	runName := flag.String("name", "", "Run name used with -store (default: input name)")
	listRuns := flag.String("runs", "", "List the runs stored in this SQLite trace database and exit")
	verbosity := flag.Int("v", 0, "Log verbosity: -4 (none) to 2 (debug); overrides the manifest")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: rendercmd [options] [stream-file]\n\n")
		fmt.Fprintf(os.Stderr, "Runs a render command stream against the reference scene renderer.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  rendercmd -demo                      # Run the demo stream\n")
		fmt.Fprintf(os.Stderr, "  rendercmd -demo -disasm              # Disassemble it\n")
		fmt.Fprintf(os.Stderr, "  rendercmd -hex '060100000502 01'     # Run a stream given as hex\n")
		fmt.Fprintf(os.Stderr, "  rendercmd -offset 64 model.bin       # Commands start at byte 64\n")
		fmt.Fprintf(os.Stderr, "  rendercmd -store runs.db -name hero  # Save the trace of the manifest's model\n")
		fmt.Fprintf(os.Stderr, "  rendercmd -runs runs.db              # List stored runs\n")
	}
	flag.Parse()

	if *listRuns != "" {
		if err := printRuns(*listRuns); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	m, err := manifest.FindAndLoad(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	configureLogging(m, *verbosity, flagSet("v"))

	in := input{
		hex:    *hexInput,
		demo:   *demo,
		file:   flag.Arg(0),
		offset: *offset,
	}
	src, err := in.load(m)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *disasm {
		listing, err := rendercmd.Disassemble(src.cursor)
		fmt.Print(listing)
		if err != nil {
			os.Exit(1)
		}
		return
	}

	if m != nil {
		if *traceOut == "" {
			*traceOut = m.Trace.Output
		}
		if *storePath == "" {
			*storePath = m.Trace.Store
		}
	}
	if *runName == "" {
		*runName = src.name
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sc := scene.New(sceneConfig(m, *demo))
	tr, runErr := run(ctx, src.cursor, sc)
	printDraws(sc)

	if *traceOut != "" {
		if err := writeTrace(*traceOut, tr); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if *storePath != "" {
		id, err := saveRun(ctx, *storePath, *runName, tr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Saved run %d to %s\n", id, *storePath)
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}

// flagSet reports whether the named flag was given on the command line.
func flagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func configureLogging(m *manifest.Manifest, verbosity int, override bool) {
	var path *string
	if m != nil {
		if !override {
			verbosity = m.Log.Verbosity
		}
		if m.Log.Path != "" {
			path = &m.Log.Path
		}
	}
	commonlog.Configure(verbosity, path)
}

// sceneConfig picks the scene for a run: the manifest's, the demo's, or
// an unchecked one where every index is valid.
func sceneConfig(m *manifest.Manifest, demo bool) scene.Config {
	switch {
	case demo:
		return demoSceneConfig()
	case m != nil:
		return m.SceneConfig()
	default:
		return permissiveSceneConfig()
	}
}

func permissiveSceneConfig() scene.Config {
	cfg := scene.Config{
		StackSize:     256,
		MeshCount:     256,
		MaterialCount: 256,
	}
	for i := 0; i < 256; i++ {
		cfg.Objects = append(cfg.Objects, scene.Identity())
		cfg.BlendMatrices = append(cfg.BlendMatrices, scene.Identity())
	}
	return cfg
}

func run(ctx context.Context, s rendercmd.Stream, sc *scene.Scene) (*trace.Trace, error) {
	rec := trace.NewRecorder(sc)
	err := rendercmd.NewInterpreter().RunContext(ctx, s, rec)
	return rec.Trace(err), err
}

func printDraws(sc *scene.Scene) {
	for i, d := range sc.Draws() {
		x, y, z := scene.TranslationOf(d.Transform)
		fmt.Printf("draw %3d  mesh=%-3d material=%-3d at (%g, %g, %g)\n", i, d.MeshID, d.MaterialID, x, y, z)
	}
}

func writeTrace(path string, tr *trace.Trace) error {
	data, err := trace.Marshal(tr)
	if err != nil {
		return fmt.Errorf("encoding trace: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing trace: %w", err)
	}
	return nil
}

func saveRun(ctx context.Context, dbPath, name string, tr *trace.Trace) (int64, error) {
	store, err := tracestore.Open(dbPath)
	if err != nil {
		return 0, err
	}
	defer store.Close()
	return store.SaveRun(ctx, name, tr)
}

func printRuns(dbPath string) error {
	store, err := tracestore.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns(context.Background())
	if err != nil {
		return err
	}
	for _, r := range runs {
		status := "ok"
		if r.Err != "" {
			status = r.Err
		}
		fmt.Printf("%4d  %-20s %s  %5d calls  %s\n", r.ID, r.Name, r.CreatedAt.Format("2006-01-02 15:04:05"), r.CallCount, status)
	}
	return nil
}
