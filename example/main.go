// A small but complete application showing how the apputil packages fit
// together: configuration resolution, config-bound command line flags,
// logging, input validation and a rate-limited worker pool.
//
// Run it with no arguments, then again with e.g.:
//
//	APP_WORKERS=8 ./example --targets 10.0.0.1,10.0.0.2 --debug
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/lixenwraith/apputil/app"
	"github.com/lixenwraith/apputil/appconfig"
	"github.com/lixenwraith/apputil/argutil"
	"github.com/lixenwraith/apputil/errutil"
	"github.com/lixenwraith/apputil/logutil"
	"github.com/lixenwraith/apputil/timeutil"
	"github.com/lixenwraith/apputil/typeutil"
	"github.com/lixenwraith/apputil/workpool"
)

func main() {
	a := &app.App{
		Name:  "example",
		Main:  realMain,
		Timer: true,
	}
	os.Exit(a.Run())
}

func realMain(ctx context.Context, log *logutil.Logger) error {
	// Resolve configuration: appdefaults.toml, then the user config file,
	// then APP_* environment variables.
	cfg, err := appconfig.Quick()
	if err != nil {
		return err
	}
	cfg.SetDefault("workers", 4)
	cfg.SetDefault("rate_limit", 20.0)
	cfg.SetDefault("check_timeout", "5s")

	// Flags default from the resolved configuration, so the full chain is
	// defaults file < user config < environment < command line.
	cli := argutil.New("example", "Probe a list of targets.", cfg).WithEpilog()
	workers := cli.ConfigFlag("workers", "Concurrent probes.", "workers").Int()
	targets := argutil.List(cli.Flag("targets", "Addresses to probe.").Short('t'))

	if _, err := cli.Parse(os.Args[1:]); err != nil {
		return errutil.Exit(2, err)
	}
	if *cli.Debug > 0 {
		log.ShowDebug()
	}

	if len(*targets) == 0 {
		*targets = []string{"127.0.0.1"}
	}

	// Validate user input before doing any work.
	validate := typeutil.IPv4Address()
	for _, target := range *targets {
		if _, err := validate(target); err != nil {
			return errutil.Exit(2, err)
		}
	}

	timeout, err := cfg.Duration("check_timeout")
	if err != nil {
		return err
	}
	rateLimit, err := cfg.Float64("rate_limit")
	if err != nil {
		return err
	}

	log.Infow("starting probes",
		"targets", len(*targets),
		"workers", *workers,
		"timeout", timeutil.FormatElapsed(timeout),
	)

	pool := workpool.New(*workers, workpool.WithRateLimit(rateLimit, *workers))
	defer pool.Shutdown()

	results := make(map[string]*workpool.Result, len(*targets))
	for _, target := range *targets {
		target := target
		results[target] = pool.Post(func(ctx context.Context) (any, error) {
			start := time.Now()
			if err := probe(ctx, target); err != nil {
				return nil, fmt.Errorf("probing %s: %w", target, err)
			}
			return time.Since(start), nil
		})
	}

	failed := 0
	for target, res := range results {
		elapsed, err := res.Get(timeout + time.Second)
		if err != nil {
			log.Errorw("probe failed", "target", target, "error", err)
			failed++
			continue
		}
		log.Infow("probe ok", "target", target, "elapsed", elapsed)
	}

	if failed > 0 {
		return errutil.Exit(1, fmt.Errorf("%d of %d probes failed", failed, len(*targets)))
	}
	return nil
}

// probe stands in for real per-target work.
func probe(ctx context.Context, target string) error {
	select {
	case <-time.After(10 * time.Millisecond):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
