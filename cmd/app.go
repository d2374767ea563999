package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/ess-tools/attend/internal/aggregate"
	"github.com/ess-tools/attend/internal/api"
	"github.com/ess-tools/attend/internal/cache"
	"github.com/ess-tools/attend/internal/config"
	"github.com/ess-tools/attend/internal/logging"
	"github.com/ess-tools/attend/internal/timesheet"
)

// app bundles the session-scoped collaborators the commands share: one
// cache, one aggregator, one authenticated API client per invocation.
type app struct {
	cfg   config.Config
	log   *zap.Logger
	loc   *time.Location
	clock clockwork.Clock
	api   *api.Client
	cache *cache.Cache
	sheet *timesheet.Service
	agg   *aggregate.Aggregator
}

// newApp wires the full dependency graph. It exits with code 2 on infra
// errors and code 1 when the user is not logged in, mirroring how the
// commands treat their own failures.
func newApp(ctx context.Context) *app {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	loc := time.Local
	if cfg.API.Timezone != "" {
		if l, err := time.LoadLocation(cfg.API.Timezone); err == nil {
			loc = l
		} else {
			fmt.Fprintf(os.Stderr, "Warning: unknown timezone %q, using local\n", cfg.API.Timezone)
		}
	}

	oauthCfg := api.OAuthConfig(cfg.API.BaseURL, cfg.API.ClientID)
	httpClient, err := api.AuthedHTTPClient(ctx, oauthCfg)
	if err != nil {
		if errors.Is(err, api.ErrNotLoggedIn) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	client := api.New(cfg.API.BaseURL, httpClient)
	clock := clockwork.NewRealClock()
	sessionCache := cache.New(clock)

	return &app{
		cfg:   cfg,
		log:   logger,
		loc:   loc,
		clock: clock,
		api:   client,
		cache: sessionCache,
		sheet: timesheet.NewService(client, sessionCache, logger),
		agg:   aggregate.New(client, clock, logger),
	}
}

// now returns the current time in the configured timezone.
func (a *app) now() time.Time {
	return a.clock.Now().In(a.loc)
}
