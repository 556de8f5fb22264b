package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/mverett/fabula/internal/logging"
	"github.com/mverett/fabula/internal/nodes"
	"github.com/mverett/fabula/internal/scheduler"
	"github.com/mverett/fabula/internal/session"
	"github.com/mverett/fabula/internal/store"
	"github.com/mverett/fabula/internal/streaming"
	"github.com/mverett/fabula/pkg/schema"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the built-in sample story interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, _ := cmd.Flags().GetString("config")
		cfg, err := loadConfig(cfgPath)
		if err != nil {
			return err
		}
		return runPlay(cfg)
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
}

func newLogger(cfg Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	if cfg.LogFormat == "json" {
		return logging.NewJSON(level)
	}
	return logging.New(level)
}

func newSnapshotStore(cfg Config) (store.SnapshotStore, error) {
	switch cfg.Store {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return store.NewRedisStore(client, ""), nil
	case "libsql":
		s, err := store.NewLibSQLStore(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(context.Background()); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	default:
		return store.NewMemoryStore(), nil
	}
}

func runPlay(cfg Config) error {
	logger := newLogger(cfg)

	snapshots, err := newSnapshotStore(cfg)
	if err != nil {
		return err
	}
	defer snapshots.Close()

	hub := streaming.NewMemoryHub()
	metrics := session.NewMetrics(prometheus.DefaultRegisterer)
	mgr := session.NewManager(
		session.WithHub(hub),
		session.WithSnapshots(snapshots),
		session.WithMetrics(metrics),
		session.WithLogger(logger),
	)

	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			logger.Info("metrics server listening", slog.String("addr", cfg.MetricsAddr))
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				logger.Error("metrics server stopped", slog.String("error", err.Error()))
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	driver := scheduler.NewDriver(mgr, cfg.TickInterval, logger)
	if err := driver.Start(ctx); err != nil {
		return err
	}
	defer driver.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received interrupt signal, shutting down")
		mgr.Close()
		cancel()
		os.Exit(1)
	}()

	g, err := demoGraph()
	if err != nil {
		return err
	}

	t, err := mgr.Start(g)
	if err != nil {
		return err
	}

	// Print narrative events as they stream from the hub.
	events, unsubscribe, err := hub.Subscribe(ctx, streaming.EventFilter{RunID: t.RunID()})
	if err != nil {
		return err
	}
	defer unsubscribe()
	go printEvents(g, events)

	reader := bufio.NewReader(os.Stdin)
	for {
		switch t.Status() {
		case schema.RunStatusComplete:
			return nil
		case schema.RunStatusWaitingForInput:
			if err := promptInput(t, reader); err != nil {
				fmt.Println(err)
			}
		default:
			time.Sleep(20 * time.Millisecond)
		}
	}
}

// inputTarget is the part of the traversal API the prompt needs.
type inputTarget interface {
	PendingChoices() []schema.ChoiceOption
	SelectChoice(index int) error
	SendInput() error
}

func promptInput(t inputTarget, reader *bufio.Reader) error {
	choices := t.PendingChoices()
	if len(choices) == 0 {
		fmt.Print("[press enter to continue] ")
		if _, err := reader.ReadString('\n'); err != nil {
			return err
		}
		return t.SendInput()
	}

	for i, c := range choices {
		fmt.Printf("  %d) %s\n", i+1, c.Text)
	}
	fmt.Print("> ")
	line, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 1 || n > len(choices) {
		return fmt.Errorf("enter a number between 1 and %d", len(choices))
	}
	return t.SelectChoice(n - 1)
}

func printEvents(g *schema.Graph, events <-chan schema.RunEvent) {
	for ev := range events {
		switch ev.Type {
		case schema.EventNodeEntered:
			if d, ok := g.NodeByID(ev.NodeID).(*nodes.DialogueNode); ok {
				fmt.Printf("%s: %s\n", d.Speaker, d.Text)
			}
		case schema.EventChoicePresented:
			if c, ok := g.NodeByID(ev.NodeID).(*nodes.ChoiceNode); ok && c.Prompt != "" {
				fmt.Println(c.Prompt)
			}
		case schema.EventStoryEnded:
			if success, _ := ev.Payload["success"].(bool); success {
				fmt.Println("\nThe End.")
			} else {
				fmt.Println("\nStory stopped.")
			}
		}
	}
}
