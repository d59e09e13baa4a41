package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/soochol/toolbox/internal/api"
	"github.com/soochol/toolbox/internal/config"
	"github.com/soochol/toolbox/internal/heartbeat"
	"github.com/soochol/toolbox/internal/notify"
	"github.com/soochol/toolbox/internal/sandbox"
	"github.com/soochol/toolbox/internal/search"
	"github.com/soochol/toolbox/internal/tools"
)

const usage = `toolbox v0.1.0
Usage:
  toolbox serve                 start the HTTP tool server
  toolbox tools                 print tool declarations as JSON
  toolbox call <name> [json]    run one tool with JSON arguments`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		return
	}

	cfg, err := config.LoadDefault()
	if err != nil {
		slog.Error("config error", "err", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		err = serve(cfg)
	case "tools":
		err = printTools(cfg)
	case "call":
		err = call(cfg, os.Args[2:])
	default:
		fmt.Println(usage)
		os.Exit(2)
	}
	if err != nil {
		slog.Error(os.Args[1]+" failed", "err", err)
		os.Exit(1)
	}
}

// app holds the wired backends shared by every subcommand.
type app struct {
	registry *tools.Registry
	notifier *tools.NotifyExternalTool
}

func newApp(cfg *config.Config) *app {
	sb := sandbox.New(sandbox.Config{
		URL:          cfg.Sandbox.URL,
		APITimeout:   cfg.Sandbox.APITimeoutDuration(),
		MaxRetries:   cfg.Sandbox.MaxRetries,
		InitialDelay: cfg.Sandbox.InitialRetryDelayDuration(),
	})
	relay := &notify.NtfyClient{
		BaseURL: cfg.Ntfy.BaseURL,
		Timeout: cfg.Ntfy.TimeoutDuration(),
	}
	channels := tools.Channels{
		Commands:    cfg.Ntfy.CommandsChannel,
		Sync:        cfg.Ntfy.SyncChannel,
		TasksPrefix: cfg.Ntfy.TasksChannelPrefix,
		Emergencies: cfg.Ntfy.EmergenciesChannel,
		Private:     cfg.Ntfy.PrivateChannel,
		User:        cfg.Ntfy.UserChannel,
		Flag:        cfg.Ntfy.FlagChannel,
	}

	reg := tools.NewRegistry()
	tools.RegisterBuiltins(reg, tools.Deps{
		Sandbox:  sb,
		Relay:    relay,
		Search:   &search.SerpAPI{APIKey: cfg.Search.SerpAPIKey, Endpoint: cfg.Search.SerpAPIURL},
		Fallback: &search.DuckDuckGo{Endpoint: cfg.Search.DuckDuckGoURL},
		Channels: channels,
	})
	return &app{
		registry: reg,
		notifier: tools.NewNotifyExternalTool(relay, channels),
	}
}

func serve(cfg *config.Config) error {
	a := newApp(cfg)

	var hb *heartbeat.Heartbeat
	if cfg.Heartbeat.Schedule != "" {
		var err error
		hb, err = heartbeat.New(cfg.Heartbeat.Schedule, cfg.Heartbeat.AgentID, a.notifier)
		if err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           api.NewServer(a.registry).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("starting toolbox server", "addr", addr, "tools", len(a.registry.List()))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	if hb != nil {
		g.Go(func() error { return hb.Run(ctx) })
	}
	return g.Wait()
}

func printTools(cfg *config.Config) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(newApp(cfg).registry.Specs())
}

func call(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: toolbox call <name> [json]")
	}
	var input any
	if len(args) > 1 {
		input = json.RawMessage(args[1])
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := newApp(cfg).registry.Execute(ctx, args[0], input)
	if err != nil {
		return err
	}
	if s, ok := result.(string); ok {
		fmt.Println(s)
		return nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
