package textdb

import "github.com/mwantia/textdb/log"

type Options struct {
	// Lazy disables the eager scan at construction time; files are then
	// only loaded (and cached) on first access.
	Lazy bool
	// Hidden enables access to dot-prefixed files and directories.
	Hidden bool
	// Strict makes unresolved placeholders fatal.
	Strict bool
	// CacheSize bounds the shared parsed-file cache. Zero keeps the
	// loader default.
	CacheSize int

	LogLevel      log.LogLevel
	LogFile       string
	NoTerminalLog bool
}

type Option func(*Options) error

func newDefaultOptions() *Options {
	return &Options{
		LogLevel: log.Info,
	}
}

// WithLazy skips the eager filesystem scan at construction time.
func WithLazy() Option {
	return func(opts *Options) error {
		opts.Lazy = true
		return nil
	}
}

// WithHidden makes dot-prefixed entries accessible.
func WithHidden() Option {
	return func(opts *Options) error {
		opts.Hidden = true
		return nil
	}
}

// WithStrictSubstitution fails queries on unresolved placeholders
// instead of leaving them verbatim.
func WithStrictSubstitution() Option {
	return func(opts *Options) error {
		opts.Strict = true
		return nil
	}
}

func WithCacheSize(size int) Option {
	return func(opts *Options) error {
		opts.CacheSize = size
		return nil
	}
}

func WithLogLevel(logLevel log.LogLevel) Option {
	return func(opts *Options) error {
		opts.LogLevel = logLevel
		return nil
	}
}

func WithLogFile(logFile string) Option {
	return func(opts *Options) error {
		opts.LogFile = logFile
		return nil
	}
}

func WithoutTerminalLog() Option {
	return func(opts *Options) error {
		opts.NoTerminalLog = true
		return nil
	}
}
