package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/roitop/roitop/internal/alerts"
	"github.com/roitop/roitop/internal/collector"
	"github.com/roitop/roitop/internal/config"
	"github.com/roitop/roitop/internal/events"
	"github.com/roitop/roitop/internal/productivity"
	"github.com/roitop/roitop/internal/quality"
	"github.com/roitop/roitop/internal/receiver"
	"github.com/roitop/roitop/internal/roi"
	"github.com/roitop/roitop/internal/settings"
	"github.com/roitop/roitop/internal/snapshot"
	"github.com/roitop/roitop/internal/storage"
	"github.com/roitop/roitop/internal/trend"
	"github.com/roitop/roitop/internal/tui"
)

func main() {
	setupFlag := flag.Bool("setup", false, "Write OTel env vars into the editor plugin settings and exit")
	debugFlag := flag.String("debug", "", "Write OTLP debug log (JSONL) to the specified file path")
	flag.Parse()

	if *setupFlag {
		RunSetup()
		return
	}

	loadResult, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "roitop: config error: %v\n", err)
		os.Exit(1)
	}
	cfg := loadResult.Config

	for _, w := range loadResult.Warnings {
		fmt.Fprintf(os.Stderr, "roitop: config warning: %s\n", w)
	}

	store, isPersistent, err := storage.NewStore(cfg.Storage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "roitop: storage error: %v\n", err)
		os.Exit(1)
	}

	sessions := collector.NewMemoryStore()

	var recvOpts []receiver.Option
	if *debugFlag != "" {
		debugFile, err := os.OpenFile(*debugFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "roitop: failed to open debug log %q: %v\n", *debugFlag, err)
			os.Exit(1)
		}
		defer debugFile.Close()
		recvOpts = append(recvOpts, receiver.WithLogger(receiver.NewFileLogger(debugFile)))
	}

	recv := receiver.New(cfg.Receiver, sessions, recvOpts...)

	eventBuf := events.NewRingBuffer(cfg.Display.EventBufferSize)
	sessions.OnEvent(func(sessionID string, e collector.Event) {
		eventBuf.Add(events.FormatEvent(sessionID, e))
	})

	builder := newBuilder(cfg)

	trendCalc := trend.NewCalculator(trend.Thresholds{
		GoodAbove: cfg.Display.ScoreColorGoodAbove,
		WarnAbove: cfg.Display.ScoreColorWarnAbove,
	})

	notifier := alerts.NewPlatformNotifier(cfg.Alerts.Notifications.SystemNotify)
	alertEngine := alerts.NewEngine(cfg.Alerts, notifier)

	agg := &aggregator{
		builder:  builder,
		sessions: sessions,
		store:    store,
		trends:   trendCalc,
		alerts:   alertEngine,
		interval: time.Duration(cfg.Analysis.SnapshotIntervalSeconds) * time.Second,
		stop:     make(chan struct{}),
	}

	shutdownMgr := tui.NewShutdownManager()
	shutdownMgr.StopReceiver = func(ctx context.Context) error {
		recv.Stop()
		return nil
	}
	shutdownMgr.StopAggregator = agg.Stop
	shutdownMgr.Cleanup = func() {
		_ = store.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	log.SetOutput(io.Discard)

	if err := recv.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "roitop: failed to start receivers: %v\n", err)
		os.Exit(1)
	}

	agg.Run()

	opts := []tui.ModelOption{
		tui.WithSessionProvider(sessions),
		tui.WithSnapshotProvider(store),
		tui.WithTrendProvider(trendCalc),
		tui.WithEventProvider(&eventAdapter{buf: eventBuf}),
		tui.WithAlertProvider(alertEngine),
		tui.WithSettingsWriter(&settingsAdapter{grpcPort: cfg.Receiver.GRPCPort}),
		tui.WithStartView(tui.ViewStartup),
		tui.WithPersistenceFlag(isPersistent),
		tui.WithOnRefresh(agg.BuildOnce),
		tui.WithOnExport(func() error {
			_, err := store.ExportData()
			return err
		}),
		tui.WithOnShutdown(func() {
			_ = shutdownMgr.Shutdown()
		}),
	}
	if sqlStore, ok := store.(*storage.SQLiteStore); ok {
		opts = append(opts, tui.WithDroppedWrites(sqlStore.DroppedWrites))
	}

	model := tui.NewModel(cfg, opts...)

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
	)

	go func() {
		select {
		case <-sigCh:
			_ = shutdownMgr.Shutdown()
			p.Quit()
		case <-ctx.Done():
			return
		}
	}()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "roitop: %v\n", err)
		os.Exit(1)
	}
}

// newBuilder assembles the snapshot builder for the configured analysis
// mode.
func newBuilder(cfg config.Config) *snapshot.Builder {
	if cfg.Analysis.Mode == config.ModeFixedExample {
		return snapshot.NewBuilder(
			quality.NewFixedExample(),
			productivity.NewFixedExample(),
			roi.NewFixedExample(),
		)
	}

	q := quality.NewComputed(quality.Config{
		BaselineChurnRate: cfg.Analysis.BaselineChurnRate,
	})
	p := productivity.NewComputed(productivity.Config{
		DefaultReworkRate: cfg.Analysis.DefaultReworkRate,
	})
	r := roi.NewComputed(roi.Config{
		AnnualSalaryUSD:       cfg.ROI.AnnualSalaryUSD,
		BenefitsMultiplier:    cfg.ROI.BenefitsMultiplier,
		HoursPerYear:          cfg.ROI.HoursPerYear,
		LicenseCostMonthlyUSD: cfg.ROI.LicenseCostMonthlyUSD,
	})
	return snapshot.NewBuilder(q, p, r)
}

// aggregator runs the periodic snapshot loop: build, persist, feed the
// trend window, evaluate alerts.
type aggregator struct {
	builder  *snapshot.Builder
	sessions *collector.MemoryStore
	store    storage.MetricsStore
	trends   *trend.Calculator
	alerts   *alerts.Engine
	interval time.Duration
	stop     chan struct{}
}

func (a *aggregator) Run() {
	go func() {
		a.BuildOnce()
		ticker := time.NewTicker(a.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				a.BuildOnce()
			case <-a.stop:
				return
			}
		}
	}()
}

func (a *aggregator) BuildOnce() {
	snap := a.builder.Build(a.sessions)
	a.store.StoreMetrics(snap)
	a.trends.Observe(snap)
	a.alerts.Evaluate(snap, a.sessions.ListSessions(), time.Now())
}

func (a *aggregator) Stop() {
	select {
	case <-a.stop:
	default:
		close(a.stop)
	}
}

type eventAdapter struct {
	buf *events.RingBuffer
}

func (a *eventAdapter) Recent(limit int) []events.FormattedEvent {
	all := a.buf.ListAll()
	if len(all) <= limit {
		return all
	}
	return all[len(all)-limit:]
}

func (a *eventAdapter) RecentForSession(sessionID string, limit int) []events.FormattedEvent {
	all := a.buf.ListBySession(sessionID)
	if len(all) <= limit {
		return all
	}
	return all[len(all)-limit:]
}

// settingsAdapter wires the startup view's "enable telemetry" action to
// the settings merge.
type settingsAdapter struct {
	grpcPort int
}

func (a *settingsAdapter) EnableTelemetry() error {
	output := settings.Merge(settings.MergeOptions{
		Interactive: false,
		GRPCPort:    a.grpcPort,
	})
	if output.Result == settings.MergeError {
		return output.Err
	}
	return nil
}
