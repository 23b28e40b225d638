package stango

import "log/slog"

// FilterFunc reports whether a source name should be added to a manifest.
// It receives the filesystem path for directory scans and the member name
// for archive scans.
type FilterFunc func(name string) bool

// scanConfig holds configuration for directory and archive scans.
type scanConfig struct {
	strip   int
	filters []FilterFunc
	logger  *slog.Logger
	archive []ArchiveOption
}

// ScanOption configures FromDir and FromTar.
type ScanOption func(*scanConfig)

// ScanWithStrip removes the first n components of every source name before it
// is joined onto the base path. Zero, the default, keeps names unchanged.
func ScanWithStrip(n int) ScanOption {
	return func(cfg *scanConfig) {
		cfg.strip = n
	}
}

// ScanWithFilter adds predicates that decide whether a source name is kept.
// A name is skipped if any predicate returns false.
func ScanWithFilter(fns ...FilterFunc) ScanOption {
	return func(cfg *scanConfig) {
		cfg.filters = append(cfg.filters, fns...)
	}
}

// ScanWithLogger sets the logger used while scanning.
// If not set, logging is disabled.
func ScanWithLogger(logger *slog.Logger) ScanOption {
	return func(cfg *scanConfig) {
		cfg.logger = logger
	}
}

// ScanWithArchiveOptions passes options to OpenArchive when FromTar opens the archive.
func ScanWithArchiveOptions(opts ...ArchiveOption) ScanOption {
	return func(cfg *scanConfig) {
		cfg.archive = append(cfg.archive, opts...)
	}
}

func newScanConfig(opts []ScanOption) scanConfig {
	cfg := scanConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// keep reports whether name passes every filter.
func (cfg *scanConfig) keep(name string) bool {
	for _, fn := range cfg.filters {
		if fn != nil && !fn(name) {
			return false
		}
	}
	return true
}

// log returns the logger, falling back to a discard logger if nil.
func (cfg *scanConfig) log() *slog.Logger {
	if cfg.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return cfg.logger
}
