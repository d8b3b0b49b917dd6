package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/shenikar/safe_walk_system/internal/agent"
	"github.com/shenikar/safe_walk_system/internal/config"
	"github.com/shenikar/safe_walk_system/internal/models"
	"github.com/shenikar/safe_walk_system/internal/offline"
	"github.com/shenikar/safe_walk_system/internal/sos"
	"github.com/shenikar/safe_walk_system/pkg/logger"
	"github.com/sirupsen/logrus"
)

const usage = `usage: agent <command> [flags]

commands:
  report   queue an incident report and sync if online
  sos      start the SOS countdown (Ctrl+C cancels)
  flush    sync the offline queue now
  pending  print queued and rejected entries
  run      watch connectivity and sync on every reconnect
`

type app struct {
	cfg        *config.AgentConfig
	log        *logrus.Logger
	client     *agent.Client
	monitor    *agent.Monitor
	reporter   *agent.Reporter
	deadLetter *offline.DeadLetterQueue
}

func newApp(cfg *config.AgentConfig, log *logrus.Logger) (*app, error) {
	queue, err := offline.OpenQueue(cfg.QueuePath)
	if err != nil {
		return nil, err
	}
	if n := queue.Corrupt(); n > 0 {
		log.WithField("lines", n).Warn("Skipped corrupt queue lines")
	}
	deadLetter := offline.NewDeadLetterQueue(cfg.QueuePath + ".rejected")

	client := agent.NewClient(cfg.BackendURL, cfg.RequestTimeout, log)
	monitor := agent.NewMonitor(client, cfg.ProbeInterval, log)
	client.SetConnectivity(monitor)

	reconciler := offline.NewReconciler(queue, deadLetter, client, log)
	reporter := agent.NewReporter(cfg.UserID, queue, reconciler, monitor, log)
	monitor.OnOnline(func(ctx context.Context) { _, _ = reporter.Flush(ctx) })

	return &app{
		cfg:        cfg,
		log:        log,
		client:     client,
		monitor:    monitor,
		reporter:   reporter,
		deadLetter: deadLetter,
	}, nil
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.LoadAgentConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	log := logger.New(cfg.LogLevel, os.Stderr)

	a, err := newApp(cfg, log)
	if err != nil {
		log.Fatalf("Failed to open offline queue: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "report":
		err = a.report(ctx, args)
	case "sos":
		err = a.sos(ctx, args)
	case "flush":
		err = a.flush(ctx)
	case "pending":
		err = a.pending()
	case "run":
		log.Info("Watching connectivity")
		a.monitor.Run(ctx)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s failed: %v", cmd, err)
	}
}

func (a *app) report(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	incidentType := fs.String("type", "", "hazard type")
	description := fs.String("desc", "", "description")
	lat := fs.Float64("lat", 0, "latitude")
	lon := fs.Float64("lon", 0, "longitude")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *incidentType == "" {
		return fmt.Errorf("-type is required")
	}

	a.monitor.Check(ctx)
	entry, err := a.reporter.ReportIncident(ctx, models.IncidentPayload{
		Type:        *incidentType,
		Description: *description,
		Latitude:    lat,
		Longitude:   lon,
	})
	if err != nil {
		return err
	}
	return printJSON(map[string]any{"clientId": entry.ClientID, "pending": len(a.reporter.Pending())})
}

func (a *app) sos(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sos", flag.ExitOnError)
	lat := fs.Float64("lat", 0, "latitude")
	lon := fs.Float64("lon", 0, "longitude")
	reason := fs.String("reason", "", "reason")
	if err := fs.Parse(args); err != nil {
		return err
	}

	contacts, err := agent.LoadContacts(a.cfg.ContactsPath)
	if err != nil {
		return err
	}
	a.monitor.Check(ctx)

	published := make(chan struct{})
	notified := make(chan struct{})
	var closeNotified sync.Once
	publisher := &publishHook{next: a.client, done: published}

	dispatcher := sos.NewDispatcher(a.cfg.UserID, contacts, a.reporter, publisher, sos.Config{
		CountdownTicks: a.cfg.CountdownTicks,
		TickInterval:   a.cfg.TickInterval,
		NotifyInterval: a.cfg.NotifyInterval,
	}, a.log, sos.WithOnChange(func(s models.SOSSession) {
		_ = printJSON(s)
		if s.State == models.SOSStateActive && allNotified(s) {
			closeNotified.Do(func() { close(notified) })
		}
	}))

	if _, err := dispatcher.Trigger(ctx, models.RoutePoint{Latitude: *lat, Longitude: *lon}, *reason); err != nil {
		return err
	}

	// Завершаемся после публикации тревоги и оповещения всех контактов
	for _, ch := range []chan struct{}{published, notified} {
		select {
		case <-ch:
		case <-ctx.Done():
			return dispatcher.Cancel()
		}
	}
	return nil
}

// publishHook отмечает момент публикации тревоги в живой канал
type publishHook struct {
	next sos.Publisher
	done chan struct{}
	once sync.Once
}

func (p *publishHook) Publish(ctx context.Context, topic string, payload any) error {
	err := p.next.Publish(ctx, topic, payload)
	p.once.Do(func() { close(p.done) })
	return err
}

func (a *app) flush(ctx context.Context) error {
	// при восстановлении связи монитор сам запускает синхронизацию
	if !a.monitor.Check(ctx) {
		return fmt.Errorf("backend unreachable, %d entries stay queued", len(a.reporter.Pending()))
	}
	return printJSON(map[string]any{"pending": len(a.reporter.Pending())})
}

func (a *app) pending() error {
	rejected, err := a.deadLetter.List()
	if err != nil {
		return err
	}
	return printJSON(map[string]any{
		"pending":  a.reporter.Pending(),
		"rejected": rejected,
	})
}

func allNotified(s models.SOSSession) bool {
	for _, c := range s.Contacts {
		if c.Status != models.NotificationNotified {
			return false
		}
	}
	return true
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
