// Command learner is a terminal front-end for the course engine.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"elearning_app/config"
	"elearning_app/course"
	"elearning_app/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		exitStartup("Error loading configuration", err)
	}

	log, err := logger.New(cfg.Environment)
	if err != nil {
		exitStartup("Error creating logger", err)
	}
	defer log.Sync()

	mode, err := course.ParseAdvanceMode(cfg.AdvanceMode)
	if err != nil {
		log.Fatal("Invalid ADVANCE_MODE", "error", err)
	}
	src, err := course.NewSource(cfg.ContentSource, cfg.APIBaseURL)
	if err != nil {
		log.Fatal("Invalid CONTENT_SOURCE", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var snapshots course.SnapshotStore = course.NewMemorySnapshotStore()
	if cfg.RedisAddr != "" {
		rs, err := course.NewRedisSnapshotStore(ctx, cfg.RedisAddr, cfg.SnapshotTTL)
		if err != nil {
			log.Fatal("Redis connection failed", "error", err)
		}
		defer rs.Close()
		snapshots = rs
	}

	out := newPrinter(os.Stdout)
	loadCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	session, err := course.Start(loadCtx, src, course.Options{
		Advance:    mode,
		Snapshots:  snapshots,
		SessionKey: cfg.LearnerID,
		Logger:     log,
		OnChange:   out.View,
	})
	cancel()
	if err != nil {
		log.Error("Failed to initialize application", "error", err, "source", cfg.ContentSource)
		if errors.Is(err, course.ErrContentUnavailable) {
			out.Line("Failed to load content. Please restart the learner.")
		}
		os.Exit(1)
	}
	defer session.Close()

	log.Info("Learner started", "source", cfg.ContentSource, "advance", mode.String(), "session", session.Key())
	out.Help()
	out.View(session.View())

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			quit, err := dispatch(session, line)
			if quit {
				return
			}
			if err != nil {
				out.Error(err)
			}
		}
	}
}

// exitStartup reports a failure that happens before the logger exists.
func exitStartup(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}
