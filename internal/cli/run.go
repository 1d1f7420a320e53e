package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dan-solli/docgraph/pkg/dictionary"
	"github.com/dan-solli/docgraph/pkg/docgraph"
	"github.com/dan-solli/docgraph/pkg/trace"
)

// demoDocument is processed when no input file is given.
const demoDocument = `The Solar System consists of the Sun and everything bound to it.
The Sun is a star.
Eight planets orbit the Sun, including Earth and Mars.
The Moon orbits Earth.
Beyond Mars lies the Asteroid Belt.
Jupiter and Saturn are gas giants.
`

func init() {
	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Stream a document through the graph builder",
		Long:  "Reads a document (file, stdin via -, or a built-in demo), ingests it line by line with a fixed delay, and writes the export JSON. Ctrl-C stops the stream and exports the partial graph.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runRun,
	}

	cmd.Flags().StringP("entities", "e", "", "Dictionary file, one 'Name[,Type]' entry per line (default: built-in solar-system dictionary)")
	cmd.Flags().DurationP("delay", "d", 800*time.Millisecond, "Pause between chunks")
	cmd.Flags().StringP("out", "o", "-", "Export destination ('-' for stdout)")
	cmd.Flags().String("trace", "", "Trace file path (JSON Lines; needs a build with -tags tracing)")

	RootCmd.AddCommand(cmd)
}

func runRun(cmd *cobra.Command, args []string) {
	document, err := readDocument(args)
	if err != nil {
		exitErr("read document", err)
	}

	entitiesPath, _ := cmd.Flags().GetString("entities")
	entities, err := loadEntities(entitiesPath)
	if err != nil {
		exitErr("load dictionary", err)
	}

	delay, _ := cmd.Flags().GetDuration("delay")
	cfg := docgraph.Config{Entities: entities, Delay: delay}

	if tracePath, _ := cmd.Flags().GetString("trace"); tracePath != "" {
		exporter, err := trace.NewFileExporter(tracePath)
		if err != nil {
			exitErr("open trace file", err)
		}
		cfg.Traces = exporter
	}

	session, err := docgraph.New(cfg)
	if err != nil {
		exitErr("create session", err)
	}
	defer session.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	n, err := session.Process(ctx, document)
	if err != nil {
		fmt.Fprintf(os.Stderr, "processing interrupted: %v\n", err)
	}
	g := session.Graph()
	fmt.Fprintf(os.Stderr, "ingested %d chunks: %d nodes, %d edges\n", n, len(g.Nodes), len(g.Edges))

	outPath, _ := cmd.Flags().GetString("out")
	if err := writeExport(cmd.Context(), session, outPath); err != nil {
		exitErr("export", err)
	}
}

func readDocument(args []string) (string, error) {
	if len(args) == 0 {
		return demoDocument, nil
	}
	if args[0] == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// loadEntities parses a dictionary file: one entity per line as "Name" or
// "Name,Type", with #-prefixed comment lines. An empty path selects the
// built-in dictionary.
func loadEntities(path string) ([]dictionary.Entity, error) {
	if path == "" {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entities []dictionary.Entity
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, typ, found := strings.Cut(line, ",")
		e := dictionary.Entity{Name: strings.TrimSpace(name)}
		if found {
			e.Type = strings.TrimSpace(typ)
		}
		entities = append(entities, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	if len(entities) == 0 {
		return nil, fmt.Errorf("dictionary file %s has no entries", path)
	}
	return entities, nil
}

func writeExport(ctx context.Context, session *docgraph.Session, path string) error {
	if path == "-" {
		return session.Export(ctx, os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := session.Export(ctx, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
