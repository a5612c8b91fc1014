package usf

import (
	"log/slog"

	"github.com/gogpu/usf/internal/logx"
)

// Option configures a single Parse call.
type Option func(*parseConfig)

type parseConfig struct {
	logger  *slog.Logger
	seed    prngState
	haveLog bool
}

func newParseConfig() *parseConfig {
	return &parseConfig{seed: defaultSeed}
}

// WithLogger makes l the logger for this Parse call's own messages and
// for the returned hook object's dispatcher, instead of the
// package-global logger installed via SetLogger. The section parsers in
// package directive still log through the package-global logger.
// Passing nil selects the package-global logger current at Parse time.
func WithLogger(l *slog.Logger) Option {
	return func(c *parseConfig) {
		if l == nil {
			l = logx.Get()
		}
		c.logger = l
		c.haveLog = true
	}
}

// WithSeed overrides the hook object's initial PRNG state. Useful for
// recording deterministic golden vectors in tests; seed must not be
// all-zero.
func WithSeed(s0, s1, s2, s3 uint64) Option {
	return func(c *parseConfig) {
		c.seed = prngState{s0, s1, s2, s3}
	}
}
