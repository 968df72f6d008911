package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"git.home.luguber.info/inful/pkgfoundry/internal/config"
	"git.home.luguber.info/inful/pkgfoundry/internal/history"
	"git.home.luguber.info/inful/pkgfoundry/internal/metrics"
	"git.home.luguber.info/inful/pkgfoundry/internal/notify"
	"git.home.luguber.info/inful/pkgfoundry/internal/observability"
	"git.home.luguber.info/inful/pkgfoundry/internal/pipeline"
	"git.home.luguber.info/inful/pkgfoundry/internal/provider"
	"git.home.luguber.info/inful/pkgfoundry/internal/stages"
	"git.home.luguber.info/inful/pkgfoundry/internal/templates"
	"git.home.luguber.info/inful/pkgfoundry/internal/version"
	"git.home.luguber.info/inful/pkgfoundry/internal/watch"
)

var CLI struct {
	Config      string `short:"c" help:"Configuration file path" default:"pkgfoundry.yaml"`
	Descriptors string `short:"d" help:"Directory with additional project descriptors" type:"path"`
	HistoryDB   string `help:"Run history database path" default:"pkgfoundry-history.db"`
	Verbose     bool   `short:"v" help:"Enable verbose logging"`

	Generate struct {
		Output string `short:"o" help:"Override the configured output directory"`
	} `cmd:"" help:"Generate a project from the configuration"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	Validate struct{} `cmd:"" help:"Validate the configuration and descriptor selection"`

	Templates struct{} `cmd:"" help:"List available descriptors and content templates"`

	History struct {
		List struct {
			Limit int `help:"Maximum runs to list" default:"20"`
		} `cmd:"" help:"List recent generation runs"`
		Show struct {
			RunID string `arg:"" help:"Run identifier"`
		} `cmd:"" help:"Print the full report of one run"`
	} `cmd:"" help:"Inspect past generation runs"`

	Watch struct {
		Interval      time.Duration `help:"Also regenerate on a fixed interval (0 disables)" default:"0"`
		MetricsListen string        `help:"Serve Prometheus metrics on this address" default:""`
	} `cmd:"" help:"Regenerate whenever the configuration or descriptors change"`

	Version struct{} `cmd:"" help:"Print version information"`
}

func main() {
	kctx := kong.Parse(&CLI)
	observability.SetupLogger(CLI.Verbose, false)

	if err := run(kctx.Command()); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func run(command string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch command {
	case "generate":
		return runGenerate(ctx, metrics.Noop{})
	case "init":
		return config.Init(CLI.Config, CLI.Init.Force)
	case "validate":
		return runValidate()
	case "templates":
		return runTemplates()
	case "history list":
		return runHistoryList(ctx)
	case "history show <run-id>":
		return runHistoryShow(ctx)
	case "watch":
		return runWatch(ctx)
	case "version":
		fmt.Printf("pkgfoundry %s (commit %s, built %s)\n", version.Version, version.GitCommit, version.BuildTime)
		return nil
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func loadStore() (*templates.Store, error) {
	store := templates.NewStore()
	if CLI.Descriptors != "" {
		if err := store.LoadDir(CLI.Descriptors); err != nil {
			return nil, err
		}
	}
	return store, nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return nil, err
	}
	if CLI.Generate.Output != "" {
		cfg.OutputDir = CLI.Generate.Output
	}
	return cfg, nil
}

// buildRegistry wires every available provider; lazy construction means
// unused capabilities cost nothing.
func buildRegistry(cfg *config.Config, log *slog.Logger, recorder metrics.Recorder) *provider.Registry {
	registry := provider.NewRegistry(log, recorder)
	registry.Register(provider.CapabilityVersionControl, "go-git", provider.NewGitRepo)
	registry.Register(provider.CapabilityTestRunner, "local-exec", provider.NewLocalTestRunner)
	if cfg.Notify.URL != "" {
		registry.Register(provider.CapabilityNotifier, "nats", notify.NewNATSNotifier)
	}
	return registry
}

func runGenerate(ctx context.Context, recorder metrics.Recorder) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := loadStore()
	if err != nil {
		return err
	}

	log := slog.Default()
	registry := buildRegistry(cfg, log, recorder)
	defer registry.Close()
	orchestrator := pipeline.NewOrchestrator(log, recorder,
		stages.All(store, templates.NewEngine(nil))...)

	run := pipeline.NewRun(cfg, registry, log, nil)
	report := orchestrator.Execute(ctx, run)

	archiveReport(ctx, report)
	publishReport(ctx, cfg, registry, run, report)
	printSummary(report)

	if !report.Succeeded() {
		checkpoint := report.RunID + ".checkpoint.json"
		if err := run.SaveCheckpoint(checkpoint); err != nil {
			slog.Warn("could not save checkpoint", "error", err)
		} else {
			slog.Info("checkpoint saved", "path", checkpoint)
		}
		return fmt.Errorf("generation failed")
	}
	return nil
}

// archiveReport records the run in the local history database. History
// problems are logged, never fatal.
func archiveReport(ctx context.Context, report *pipeline.Report) {
	store, err := history.Open(CLI.HistoryDB)
	if err != nil {
		slog.Warn("history unavailable", "error", err)
		return
	}
	defer store.Close()
	if err := store.Record(ctx, report); err != nil {
		slog.Warn("could not archive run", "error", err)
	}
}

// publishReport sends the report through the notifier capability when
// one is configured.
func publishReport(ctx context.Context, cfg *config.Config, registry *provider.Registry,
	run *pipeline.Run, report *pipeline.Report) {
	if cfg.Notify.URL == "" {
		return
	}
	payload, err := json.Marshal(report)
	if err != nil {
		slog.Warn("could not encode report", "error", err)
		return
	}
	options := map[string]string{"url": cfg.Notify.URL}
	if cfg.Notify.Subject != "" {
		options["subject"] = cfg.Notify.Subject
	}
	result, err := registry.Invoke(ctx, provider.CapabilityNotifier, provider.Request{
		Options: options,
		Payload: payload,
	}, false)
	if err != nil {
		slog.Warn("report not published", "error", err)
		return
	}
	run.RecordProviderResult(provider.CapabilityNotifier, result)
	slog.Info("report published", "summary", result.Summary)
}

func printSummary(report *pipeline.Report) {
	fmt.Printf("run %s: %s (%s)\n", report.RunID, report.Status, report.Duration().Round(time.Millisecond))
	for _, stage := range report.Stages {
		line := fmt.Sprintf("  %-14s %s", stage.Stage, stage.Status)
		if stage.Skipped != "" {
			line += " (" + stage.Skipped + ")"
		}
		if stage.Error != "" {
			line += ": " + stage.Error
		}
		fmt.Println(line)
	}
	if len(report.Files) > 0 {
		fmt.Printf("  %d files in %s\n", len(report.Files), report.OutputDir)
	}
	for _, w := range report.Warnings {
		fmt.Println("  warning:", w)
	}
}

func runValidate() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := loadStore()
	if err != nil {
		return err
	}
	descriptors, err := store.Select(cfg)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(descriptors))
	for _, d := range descriptors {
		names = append(names, d.Name)
	}
	fmt.Printf("configuration valid: package %s, descriptors %v\n", cfg.PackageName, names)
	return nil
}

func runTemplates() error {
	store, err := loadStore()
	if err != nil {
		return err
	}
	fmt.Println("descriptors:")
	for _, d := range store.All() {
		fmt.Printf("  %-10s %s\n", d.Name, d.Description)
	}
	fmt.Println("content templates:")
	for _, name := range templates.ContentTemplateNames() {
		fmt.Println("  " + name)
	}
	return nil
}

func runHistoryList(ctx context.Context) error {
	store, err := history.Open(CLI.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(ctx, CLI.History.List.Limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no recorded runs")
		return nil
	}
	for _, r := range runs {
		fmt.Printf("%s  %-9s  %-20s  %3d files  %s\n",
			r.StartedAt.Format(time.RFC3339), r.Status, r.Project, r.FileCount, r.RunID)
	}
	return nil
}

func runHistoryShow(ctx context.Context) error {
	store, err := history.Open(CLI.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	report, err := store.Get(ctx, CLI.History.Show.RunID)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runWatch(ctx context.Context) error {
	recorder, err := startMetrics(ctx)
	if err != nil {
		return err
	}

	service := watch.New(CLI.Config, CLI.Descriptors, CLI.Watch.Interval,
		func(ctx context.Context) error { return runGenerate(ctx, recorder) },
		slog.Default())

	err = service.Run(ctx)
	if err == context.Canceled {
		return nil
	}
	return err
}

// startMetrics serves /metrics when an address is configured; watch is
// the long-running mode where scraping makes sense.
func startMetrics(ctx context.Context) (metrics.Recorder, error) {
	if CLI.Watch.MetricsListen == "" {
		return metrics.Noop{}, nil
	}
	registry := prometheus.NewRegistry()
	recorder := metrics.NewPrometheus(registry)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: CLI.Watch.MetricsListen, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server failed", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
	slog.Info("metrics listening", "addr", CLI.Watch.MetricsListen)
	return recorder, nil
}
