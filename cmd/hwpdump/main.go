// Command hwpdump parses an HWP 5 file and prints its text, a JSON dump of
// the parsed document, or a binary snapshot. It can also extract the
// embedded BinData items to a directory.
//
//	hwpdump [-config hwpdump.toml] [-format text|json|snapshot] [-out path] file.hwp
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/logicossoftware/go-hwp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "hwpdump: %v\n", err)
		os.Exit(1)
	}
}

var errUsage = errors.New("usage: hwpdump [flags] file.hwp")

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("hwpdump", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "TOML config file")
	format := fs.String("format", formatText, "output format: text, json or snapshot")
	compression := fs.String("compression", "zstd", "snapshot compression: none, zip, zstd, lz4 or brotli")
	concurrency := fs.Int("concurrency", 1, "sections decoded at once")
	bindataDir := fs.String("bindata", "", "directory to extract embedded BinData items into")
	policy := fs.String("policy", "at-least", "version policy: at-least, same-major or exact")
	logLevel := fs.String("log-level", "info", "log level")
	outPath := fs.String("out", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errUsage
	}

	cfg, err := loadDumpConfig(*configPath)
	if err != nil {
		return err
	}
	// Flags given on the command line win over the config file.
	var flagErr error
	fs.Visit(func(f *flag.Flag) {
		if flagErr != nil {
			return
		}
		switch f.Name {
		case "format":
			cfg.Format, flagErr = parseFormat(*format)
		case "compression":
			cfg.Compression, flagErr = hwp.ParseCompression(*compression)
		case "concurrency":
			cfg.Concurrency = *concurrency
		case "bindata":
			cfg.BinDataDir = *bindataDir
		case "policy":
			cfg.Policy, flagErr = hwp.ParseVersionPolicy(*policy)
		case "log-level":
			cfg.LogLevel, flagErr = zerolog.ParseLevel(*logLevel)
		}
	})
	if flagErr != nil {
		return flagErr
	}

	logger := newLogger(stderr, cfg.LogLevel)
	inPath := fs.Arg(0)
	data, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}

	start := time.Now()
	opts := append(cfg.readOptions(), hwp.WithLogger(logger))
	doc, err := hwp.ParseContext(ctx, data, opts...)
	if err != nil {
		return fmt.Errorf("parse %s: %w", inPath, err)
	}
	logger.Info().
		Str("file", inPath).
		Str("version", doc.Header.Version.String()).
		Int("sections", len(doc.Sections)).
		Int("bindata", len(doc.BinData)).
		Dur("elapsed", time.Since(start)).
		Msg("parsed document")

	if cfg.BinDataDir != "" {
		if err := extractBinData(cfg.BinDataDir, doc.BinData); err != nil {
			return err
		}
		logger.Info().Str("dir", cfg.BinDataDir).Int("items", len(doc.BinData)).Msg("extracted bindata")
	}

	if *outPath == "" {
		return writeDocument(stdout, doc, cfg)
	}
	f, err := os.Create(*outPath)
	if err != nil {
		return err
	}
	if err := writeDocument(f, doc, cfg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	return zerolog.New(output).Level(level).With().Timestamp().Str("app", "hwpdump").Logger()
}

func writeDocument(w io.Writer, doc *hwp.Document, cfg dumpConfig) error {
	switch cfg.Format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case formatSnapshot:
		return hwp.EncodeSnapshot(w, doc,
			hwp.WithWriteLimits(cfg.Limits),
			hwp.WithSnapshotCompression(cfg.Compression),
		)
	default:
		_, err := io.WriteString(w, doc.Text())
		return err
	}
}

func extractBinData(dir string, items []hwp.BinData) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, item := range items {
		name := filepath.Base(item.Name)
		if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("bindata %d: unsafe name %q", item.ID, item.Name)
		}
		if err := os.WriteFile(filepath.Join(dir, name), item.Data, 0o644); err != nil {
			return err
		}
	}
	return nil
}
