package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"trip-planner/internal/cli"
	"trip-planner/internal/config"
	"trip-planner/internal/database"
	"trip-planner/internal/logger"
)

var CLI struct {
	Config string `help:"Config file path. Defaults to ~/.trip-planner/config.yaml when present." type:"path"`
	Debug  bool   `help:"Log debug output to stderr."`

	Plan  cli.PlanCmd `cmd:"" help:"Plan a trip and refine it from your ratings. Answer yes (or y) to rate again." default:"withargs"`
	Cache struct {
		Clear cli.CacheClearCmd `cmd:"" help:"Remove all cached distances."`
	} `cmd:"" help:"Manage the distance cache."`
	Key struct {
		Set    cli.KeySetCmd    `cmd:"" help:"Store the Google API key in the OS keyring."`
		Delete cli.KeyDeleteCmd `cmd:"" help:"Remove the Google API key from the OS keyring."`
	} `cmd:"" help:"Manage the Google API key."`
	Version cli.VersionCmd `cmd:"" help:"Show version."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("planner"),
		kong.Description("Multi-day trip itinerary planner"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		cli.Fatal(err)
	}

	logDir := cfg.Log.Dir
	if logDir == "" {
		if logDir, err = database.GetLogDir(); err != nil {
			cli.Fatal(err)
		}
	}
	if err := logger.Init(logger.Config{
		Debug:      CLI.Debug,
		Level:      cfg.Log.Level,
		LogDir:     logDir,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "warning: file logging disabled: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = kctx.Run(&cli.Context{Ctx: ctx, Config: cfg})
	stop()
	cli.Fatal(err)
}
