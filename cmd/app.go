// Package cmd implements the pts command line application to track loyalty programs.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/etnz/points"
	"github.com/etnz/points/agent"
	"github.com/etnz/points/config"
	"github.com/etnz/points/date"
	"github.com/etnz/points/storage"
	"github.com/google/subcommands"
)

// Commands lists all the subcommands, with their group.
var Commands = map[string][]subcommands.Command{
	"reports": {
		&dashboardCmd{},
		&listCmd{},
		&showCmd{},
		&expiringCmd{},
		&watchCmd{},
	},
	"programs": {
		&addCmd{},
		&pasteCmd{},
		&updateCmd{},
		&deleteCmd{},
		&addBenefitCmd{},
		&removeBenefitCmd{},
	},
	"ai": {
		&adviseCmd{},
	},
	"data": {
		&exportCmd{},
		&importCmd{},
	},
	"help": {
		&topicCmd{},
	},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for group, cmds := range Commands {
		for _, cmd := range cmds {
			c.Register(cmd, group)
		}
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile = flag.String("config", "", "Path to a pts config file (yaml, toml or json)")
	dataDir    = flag.String("data-dir", "", "Folder of the portfolio storage, overrides the configuration")
	storeKind  = flag.String("store", "", "Storage backend (file, leveldb or memory), overrides the configuration")
	Verbose    = flag.Bool("v", false, "Log warnings and details to stderr")
)

var (
	cfg   *config.Config
	now   = time.Now
	blobs storage.Blobs
	// stores are the portfolios opened by OpenStore, closed by Close.
	stores []*points.Store

	// stdout is where reports are printed.
	stdout io.Writer = os.Stdout
	// stdin is where pasted text and advisor questions are read.
	stdin io.Reader = os.Stdin
)

// Init loads the configuration and applies the global flags.
// It must be called after flag.Parse.
func Init() error {
	c, err := config.Load(*configFile)
	if err != nil {
		return err
	}
	if *dataDir != "" {
		c.DataDir = *dataDir
	}
	if *storeKind != "" {
		c.Store = *storeKind
	}
	if *Verbose {
		c.Verbose = true
	}
	return setup(c)
}

// setup makes c the configuration of all commands.
func setup(c *config.Config) error {
	clock, err := c.Clock()
	if err != nil {
		return err
	}
	if _, err := storage.ParseKind(c.Store); err != nil {
		return err
	}
	if c.Verbose {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(io.Discard)
	}
	cfg, now = c, clock
	return nil
}

// today returns the current day.
func today() date.Date { return date.Of(now()) }

// openBlobs opens the configured storage once.
func openBlobs() (storage.Blobs, error) {
	if blobs != nil {
		return blobs, nil
	}
	kind, err := storage.ParseKind(cfg.Store)
	if err != nil {
		return nil, err
	}
	b, err := storage.Open(kind, cfg.DataDir)
	if err != nil {
		return nil, err
	}
	log.Printf("using %s storage in %q", kind, cfg.DataDir)
	blobs = b
	return blobs, nil
}

// leaseBlobs opens the configured storage for a single use, release closes
// it. The memory storage only lives in this process, so it is shared instead.
func leaseBlobs() (storage.Blobs, func() error, error) {
	kind, err := storage.ParseKind(cfg.Store)
	if err != nil {
		return nil, nil, err
	}
	if kind == storage.Memory {
		b, err := openBlobs()
		return b, func() error { return nil }, err
	}
	b, err := storage.Open(kind, cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}
	return b, b.Close, nil
}

// Close saves the opened portfolios if needed and releases the storage.
func Close() error {
	var errs []error
	for _, s := range stores {
		errs = append(errs, s.Close())
	}
	stores = nil
	if blobs != nil {
		errs = append(errs, blobs.Close())
		blobs = nil
	}
	return errors.Join(errs...)
}

// OpenStore opens the portfolio. It never fails on a missing or corrupted
// portfolio, only on storage errors.
func OpenStore() (*points.Store, error) {
	b, err := openBlobs()
	if err != nil {
		return nil, fmt.Errorf("cannot open storage: %w", err)
	}
	s := points.NewStore(b, cfg.Key, points.WithClock(now))
	s.Load()
	stores = append(stores, s)
	return s, nil
}

// newGemini creates the AI client, it is replaced in tests.
var newGemini = func(ctx context.Context) (*agent.Gemini, error) {
	return agent.NewGemini(ctx, cfg.APIKey, cfg.Model)
}
