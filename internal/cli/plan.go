package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"trip-planner/internal/logger"
	"trip-planner/internal/planner"
	"trip-planner/internal/session"
)

// PlanCmd drafts an itinerary and refines it from ratings
type PlanCmd struct {
	Place     string `help:"Destination to plan. Prompted for when empty."`
	Days      int    `help:"Number of days. Required with --place."`
	Interests string `help:"Comma-separated interests."`
	Provider  string `help:"Places and distance provider (google or osm). Overrides the config file."`
	Seed      int64  `help:"Seed for activity ranking. 0 picks a new seed each run."`
	Ranking   string `help:"Ranking strategy (shuffle or none). Overrides the config file."`
	Plain     bool   `help:"Use line prompts and unstyled output. The continue prompt accepts yes or y."`
	Details   bool   `help:"Fetch place details for the final itinerary."`
}

func (c *PlanCmd) request() (*planner.TripRequest, error) {
	if strings.TrimSpace(c.Place) == "" {
		if c.Days != 0 || c.Interests != "" {
			return nil, errors.New("--days and --interests need --place")
		}
		return nil, nil
	}
	if c.Days < 1 {
		return nil, fmt.Errorf("--days must be a positive number, got %d", c.Days)
	}
	return &planner.TripRequest{
		Place:     strings.TrimSpace(c.Place),
		Days:      c.Days,
		Interests: planner.ParseInterests(c.Interests),
	}, nil
}

func (c *PlanCmd) Run(ctx *Context) error {
	cfg := ctx.Config
	if c.Provider != "" {
		cfg.Provider = c.Provider
	}
	if c.Ranking != "" {
		cfg.Ranking.Strategy = c.Ranking
	}
	if c.Seed != 0 {
		cfg.Ranking.Seed = c.Seed
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.ResolveAPIKey(); err != nil {
		return err
	}

	req, err := c.request()
	if err != nil {
		return err
	}

	cache, closeCache, err := OpenCache(ctx.Ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeCache(); err != nil {
			logger.Warn("failed to close distance cache", "component", "cli", "error", err)
		}
	}()

	var prompter session.Prompter
	plain := c.Plain || !isatty.IsTerminal(os.Stdin.Fd())
	if plain {
		prompter = session.NewLinePrompter(os.Stdin, os.Stdout)
	} else {
		prompter = session.NewFormPrompter()
	}

	s := session.New(NewPlanner(cfg, cache), prompter, os.Stdout, session.Options{
		Request: req,
		Details: c.Details,
		Plain:   plain,
	})
	logger.Debug("starting session", "component", "cli", "session", s.ID, "provider", cfg.Provider, "plain", plain)

	_, err = s.Run(ctx.Ctx)
	return err
}
