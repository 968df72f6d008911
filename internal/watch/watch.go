// Package watch keeps a generated project in sync with its
// configuration: filesystem events on the config file and descriptor
// directory trigger regeneration, optionally alongside a fixed
// interval schedule.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/pkgfoundry/internal/errors"
)

const defaultDebounce = 500 * time.Millisecond

// Service watches inputs and invokes the regeneration callback.
type Service struct {
	configPath    string
	descriptorDir string
	interval      time.Duration
	debounce      time.Duration
	regenerate    func(ctx context.Context) error
	log           *slog.Logger
}

// New creates the service. interval 0 disables scheduled regeneration;
// descriptorDir may be empty.
func New(configPath, descriptorDir string, interval time.Duration,
	regenerate func(ctx context.Context) error, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		configPath:    filepath.Clean(configPath),
		descriptorDir: descriptorDir,
		interval:      interval,
		debounce:      defaultDebounce,
		regenerate:    regenerate,
		log:           log,
	}
}

// Run blocks until the context is cancelled. Event bursts are debounced
// into a single regeneration; regenerations run serially on this
// goroutine so a slow run can never overlap the next.
func (s *Service) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.IO(err, "create filesystem watcher")
	}
	defer watcher.Close()

	// Watch the config file's directory: editors replace the file on
	// save, which would drop a watch on the file itself.
	if err := watcher.Add(filepath.Dir(s.configPath)); err != nil {
		return errors.IO(err, "watch configuration directory").
			WithContext("dir", filepath.Dir(s.configPath))
	}
	if s.descriptorDir != "" {
		if err := watcher.Add(s.descriptorDir); err != nil {
			s.log.Warn("descriptor directory not watchable", "dir", s.descriptorDir, "error", err)
		}
	}

	ticks := make(chan struct{}, 1)
	if s.interval > 0 {
		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return errors.Wrap(err, errors.KindInternal, errors.SeverityFatal, "create scheduler")
		}
		_, err = scheduler.NewJob(
			gocron.DurationJob(s.interval),
			gocron.NewTask(func() {
				select {
				case ticks <- struct{}{}:
				default:
				}
			}),
		)
		if err != nil {
			return errors.Wrap(err, errors.KindInternal, errors.SeverityFatal, "schedule periodic regeneration")
		}
		scheduler.Start()
		defer func() { _ = scheduler.Shutdown() }()
	}

	s.log.Info("watching for changes",
		"config", s.configPath, "descriptor_dir", s.descriptorDir, "interval", s.interval)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !s.relevant(event) {
				continue
			}
			s.log.Debug("change detected", "path", event.Name, "op", event.Op.String())
			pending = time.After(s.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("watcher error", "error", err)

		case <-ticks:
			s.runOnce(ctx, "schedule")

		case <-pending:
			pending = nil
			s.runOnce(ctx, "change")
		}
	}
}

// relevant filters events down to the config file and descriptor files.
func (s *Service) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	if filepath.Clean(event.Name) == s.configPath {
		return true
	}
	if s.descriptorDir != "" && filepath.Dir(event.Name) == filepath.Clean(s.descriptorDir) {
		ext := filepath.Ext(event.Name)
		return ext == ".yaml" || ext == ".yml"
	}
	return false
}

func (s *Service) runOnce(ctx context.Context, trigger string) {
	s.log.Info("regenerating", "trigger", trigger)
	if err := s.regenerate(ctx); err != nil {
		s.log.Error("regeneration failed", "trigger", trigger, "error", err)
	}
}
