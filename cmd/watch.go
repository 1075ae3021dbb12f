package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/etnz/points"
	"github.com/etnz/points/renderer"
	"github.com/google/subcommands"
	"github.com/robfig/cron/v3"
	"gopkg.in/natefinch/lumberjack.v2"
)

type watchCmd struct {
	schedule string
	once     bool
	logFile  string
	months   int
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "periodically remind what expires soon" }
func (*watchCmd) Usage() string {
	return `pts watch [-schedule <cron>] [-once] [-log-file <file>] [-months <n>]

  Checks the portfolio on a cron schedule and logs a reminder for every program
  and benefit expiring within the horizon. The portfolio is read again at every
  check. Stops on interrupt.

Usage Examples:
$ pts watch -schedule "@daily" -log-file ~/pts-reminders.log
$ pts watch -once
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.schedule, "schedule", "", "Cron schedule of the checks, the configured schedule by default.")
	f.BoolVar(&c.once, "once", false, "Check once and exit.")
	f.StringVar(&c.logFile, "log-file", "", "Write reminders to a rotated log file instead of stdout.")
	f.IntVar(&c.months, "months", 0, "Expiration horizon in months, the configured horizon by default.")
}

// remind logs one line per program or benefit expiring soon.
// It returns the number of reminders.
func remind(l *log.Logger, r *renderer.ExpiringReport) int {
	if r.IsEmpty() {
		l.Printf("nothing expires before %s", r.Until)
		return 0
	}
	for _, p := range r.Programs {
		l.Printf("%s: %s %s expire on %s, in %d days", p.Title(), p.Balance, p.CurrencyName, p.ExpirationDate, r.Date.DaysUntil(p.ExpirationDate))
	}
	for _, pb := range r.Benefits {
		l.Printf("%s: benefit %q expires on %s, in %d days", pb.Program.Title(), pb.Benefit.Title, pb.Benefit.ExpirationDate, r.Date.DaysUntil(pb.Benefit.ExpirationDate))
	}
	return len(r.Programs) + len(r.Benefits)
}

// check reads the portfolio and logs the reminders. The storage is only held
// during the check so that other pts commands can use it in between.
func (c *watchCmd) check(l *log.Logger) (err error) {
	b, release, err := leaseBlobs()
	if err != nil {
		return fmt.Errorf("cannot open storage: %w", err)
	}
	defer func() { err = errors.Join(err, release()) }()

	s := points.NewStore(b, cfg.Key, points.WithClock(now))
	remind(l, renderer.NewExpiringReport(s.Load(), today(), horizon(c.months)))
	return nil
}

func (c *watchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "Error: no arguments expected")
		return subcommands.ExitUsageError
	}
	var w io.Writer = stdout
	if c.logFile != "" {
		rotated := &lumberjack.Logger{
			Filename:   c.logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     90, // days
		}
		defer rotated.Close()
		w = rotated
	}
	l := log.New(w, "pts ", log.LstdFlags)

	if c.once {
		if err := c.check(l); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	schedule := c.schedule
	if schedule == "" {
		schedule = cfg.Schedule
	}
	scheduler := cron.New(cron.WithChain(cron.Recover(cron.PrintfLogger(l))))
	if _, err := scheduler.AddFunc(schedule, func() {
		if err := c.check(l); err != nil {
			l.Printf("check failed: %v", err)
		}
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid schedule %q: %v\n", schedule, err)
		return subcommands.ExitUsageError
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	l.Printf("watching the portfolio on schedule %q", schedule)
	scheduler.Start()
	<-ctx.Done()
	<-scheduler.Stop().Done()
	l.Printf("stopped")
	return subcommands.ExitSuccess
}
