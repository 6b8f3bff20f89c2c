package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/logicossoftware/go-hwp"
)

// Output formats.
const (
	formatText     = "text"
	formatJSON     = "json"
	formatSnapshot = "snapshot"
)

type dumpConfig struct {
	Format      string
	Compression hwp.Compression
	Concurrency int
	BinData     bool
	BinDataDir  string
	Policy      hwp.VersionPolicy
	LogLevel    zerolog.Level
	Limits      hwp.Limits
}

func defaultDumpConfig() dumpConfig {
	return dumpConfig{
		Format:      formatText,
		Compression: hwp.CompZSTD,
		Concurrency: 1,
		Policy:      hwp.PolicyAtLeast,
		LogLevel:    zerolog.InfoLevel,
	}
}

type fileConfig struct {
	Format      string `toml:"format"`
	Compression string `toml:"compression"`
	Concurrency int    `toml:"concurrency"`
	BinData     bool   `toml:"bindata"`
	BinDataDir  string `toml:"bindata_dir"`
	Policy      string `toml:"version_policy"`
	LogLevel    string `toml:"log_level"`
	Limits      struct {
		MaxStreamSize         uint64 `toml:"max_stream_size"`
		MaxDecompressedStream uint64 `toml:"max_decompressed_stream"`
		MaxSections           int    `toml:"max_sections"`
		MaxRecordSize         uint32 `toml:"max_record_size"`
		MaxBinDataItems       int    `toml:"max_bindata_items"`
		MaxSnapshotSize       uint64 `toml:"max_snapshot_size"`
	} `toml:"limits"`
}

// loadDumpConfig reads path on top of the defaults. An empty path returns the
// defaults.
func loadDumpConfig(path string) (dumpConfig, error) {
	cfg := defaultDumpConfig()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return dumpConfig{}, fmt.Errorf("load hwpdump config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return dumpConfig{}, fmt.Errorf("load hwpdump config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("format") {
		f, err := parseFormat(raw.Format)
		if err != nil {
			return dumpConfig{}, err
		}
		cfg.Format = f
	}
	if meta.IsDefined("compression") {
		c, err := hwp.ParseCompression(strings.TrimSpace(raw.Compression))
		if err != nil {
			return dumpConfig{}, fmt.Errorf("parse compression: %w", err)
		}
		cfg.Compression = c
	}
	if meta.IsDefined("concurrency") {
		cfg.Concurrency = raw.Concurrency
	}
	if meta.IsDefined("bindata") {
		cfg.BinData = raw.BinData
	}
	if meta.IsDefined("bindata_dir") {
		cfg.BinDataDir = strings.TrimSpace(raw.BinDataDir)
	}
	if meta.IsDefined("version_policy") {
		p, err := hwp.ParseVersionPolicy(strings.TrimSpace(raw.Policy))
		if err != nil {
			return dumpConfig{}, fmt.Errorf("parse version_policy: %w", err)
		}
		cfg.Policy = p
	}
	if meta.IsDefined("log_level") {
		lvl, err := zerolog.ParseLevel(strings.TrimSpace(raw.LogLevel))
		if err != nil {
			return dumpConfig{}, fmt.Errorf("parse log_level: %w", err)
		}
		cfg.LogLevel = lvl
	}

	cfg.Limits = hwp.Limits{
		MaxStreamSize:         raw.Limits.MaxStreamSize,
		MaxDecompressedStream: raw.Limits.MaxDecompressedStream,
		MaxSections:           raw.Limits.MaxSections,
		MaxRecordSize:         raw.Limits.MaxRecordSize,
		MaxBinDataItems:       raw.Limits.MaxBinDataItems,
		MaxSnapshotSize:       raw.Limits.MaxSnapshotSize,
	}
	return cfg, nil
}

func parseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case formatText, formatJSON, formatSnapshot:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q", s)
	}
}

func (c dumpConfig) readOptions() []hwp.ReadOption {
	return []hwp.ReadOption{
		hwp.WithReadLimits(c.Limits),
		hwp.WithVersionPolicy(c.Policy),
		hwp.WithConcurrency(c.Concurrency),
		hwp.WithBinData(c.BinData || c.BinDataDir != ""),
	}
}
