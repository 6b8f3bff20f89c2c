package hwp

import "github.com/rs/zerolog"

type readConfig struct {
	limits      Limits
	policy      VersionPolicy
	concurrency int
	loadBinData bool
	logger      zerolog.Logger
}

func newReadConfig(opts []ReadOption) readConfig {
	cfg := readConfig{limits: defaultLimits(), policy: PolicyAtLeast, concurrency: 1, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.limits = cfg.limits.withDefaults()
	if cfg.concurrency < 1 {
		cfg.concurrency = 1
	}
	return cfg
}

type ReadOption func(*readConfig)

func WithReadLimits(l Limits) ReadOption {
	return func(c *readConfig) { c.limits = l }
}

// WithVersionPolicy selects how the FileHeader version is matched against
// SupportedVersion. The default is PolicyAtLeast.
func WithVersionPolicy(p VersionPolicy) ReadOption {
	return func(c *readConfig) { c.policy = p }
}

// WithConcurrency decodes up to n sections at once. Values below 2 decode
// sections one after another.
func WithConcurrency(n int) ReadOption {
	return func(c *readConfig) { c.concurrency = n }
}

// WithBinData loads the embedded items listed in DocInfo from the BinData
// storage into Document.BinData.
func WithBinData(v bool) ReadOption {
	return func(c *readConfig) { c.loadBinData = v }
}

func WithLogger(l zerolog.Logger) ReadOption {
	return func(c *readConfig) { c.logger = l }
}

type writeConfig struct {
	limits      Limits
	compression Compression
}

type WriteOption func(*writeConfig)

func WithWriteLimits(l Limits) WriteOption {
	return func(c *writeConfig) { c.limits = l }
}

// WithSnapshotCompression selects the codec for the snapshot payload. The
// default is CompZSTD.
func WithSnapshotCompression(comp Compression) WriteOption {
	return func(c *writeConfig) { c.compression = comp }
}
