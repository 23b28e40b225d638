package main

import (
	"fmt"
	"io"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"
)

// config holds the command settings. Environment variables provide the
// defaults; flags override them.
type config struct {
	Base      string `env:"STANGO_BASE"`
	Strip     int    `env:"STANGO_STRIP" envDefault:"0"`
	Prefix    string `env:"STANGO_PREFIX"`
	IndexFile string `env:"STANGO_INDEX_FILE" envDefault:"index.html"`

	Tar     bool
	Digest  bool
	Resolve string
	Verbose bool
	Source  string
}

func loadConfig(args []string, environ map[string]string, stderr io.Writer) (config, error) {
	var cfg config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return config{}, fmt.Errorf("parse environment: %w", err)
	}

	flagSet := pflag.NewFlagSet("stango-manifest", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.Usage = func() {
		fmt.Fprintln(stderr, "usage: stango-manifest [flags] <dir-or-archive>")
		flagSet.PrintDefaults()
	}
	flagSet.StringVar(&cfg.Base, "base", cfg.Base, "base path every served path is joined onto ($STANGO_BASE)")
	flagSet.IntVarP(&cfg.Strip, "strip", "p", cfg.Strip, "leading path components removed from source names ($STANGO_STRIP)")
	flagSet.StringVar(&cfg.Prefix, "prefix", cfg.Prefix, "string prepended to every served path ($STANGO_PREFIX)")
	flagSet.StringVar(&cfg.IndexFile, "index-file", cfg.IndexFile, "file served for directory paths ($STANGO_INDEX_FILE)")
	flagSet.BoolVar(&cfg.Tar, "tar", false, "treat the source as a tar archive")
	flagSet.BoolVar(&cfg.Digest, "digest", false, "print the content digest of every entry")
	flagSet.StringVar(&cfg.Resolve, "resolve", "", "write the content served at this path to stdout")
	flagSet.BoolVarP(&cfg.Verbose, "verbose", "v", false, "log scan progress to stderr")

	if err := flagSet.Parse(args); err != nil {
		return config{}, err
	}
	if flagSet.NArg() != 1 {
		flagSet.Usage()
		return config{}, fmt.Errorf("expected one source, got %d", flagSet.NArg())
	}
	cfg.Source = flagSet.Arg(0)
	return cfg, nil
}
