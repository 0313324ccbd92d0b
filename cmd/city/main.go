// Command city runs the persistent, tick-driven City server: World State,
// the Tick Scheduler, the Session Layer, and the HTTP Query Facade wired
// together against a single SQLite-backed Persistence Repository.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tobyjaguar/thecity/internal/action"
	"github.com/tobyjaguar/thecity/internal/api"
	"github.com/tobyjaguar/thecity/internal/auth"
	"github.com/tobyjaguar/thecity/internal/config"
	"github.com/tobyjaguar/thecity/internal/engine"
	"github.com/tobyjaguar/thecity/internal/persistence"
	"github.com/tobyjaguar/thecity/internal/session"
	"github.com/tobyjaguar/thecity/internal/tilemap"
	"github.com/tobyjaguar/thecity/internal/worldstate"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("The City — persistent multi-agent world server starting")

	cfg := config.FromEnv()

	dbPath := os.Getenv("CITY_DB_PATH")
	if dbPath == "" {
		dbPath = "data/city.db"
	}
	os.MkdirAll("data", 0755)

	port := 8080
	if v := os.Getenv("CITY_PORT"); v != "" {
		fmt.Sscanf(v, "%d", &port)
	}

	adminKey := os.Getenv("CITY_ADMIN_KEY")
	if adminKey == "" {
		slog.Warn("CITY_ADMIN_KEY not set — /api/v1/intervention is disabled")
	}

	// ── Database ──────────────────────────────────────────────────────
	db, err := persistence.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", dbPath)

	// ── Map ───────────────────────────────────────────────────────────
	genCfg := tilemap.DefaultGenConfig()
	genCfg.TileSize = cfg.TileSize
	tmap := tilemap.Generate(genCfg)

	// ── World State: restore or generate fresh ───────────────────────
	var world *worldstate.World
	if db.HasResidents() {
		slog.Info("found saved world state, restoring...")
		world, err = persistence.Restore(db, tmap, cfg.TimeScale)
		if err != nil {
			slog.Error("failed to restore world state", "error", err)
			os.Exit(1)
		}
		slog.Info("world state restored", "residents", world.ResidentCount(), "game_s", world.Clock.Now())
	} else {
		slog.Info("no saved state found, seeding a fresh city...")
		world = worldstate.NewWorld(tmap, cfg.TimeScale)
		world.SeedCivicCatalog()
		world.SeedForageNodes()
		if err := db.Checkpoint(world); err != nil {
			slog.Error("initial checkpoint failed", "error", err)
		}
	}

	// ── Token Authority ───────────────────────────────────────────────
	authority, err := auth.New(cfg.TokenSecret, cfg.TokenTTL, cfg.PassportPrefix)
	if err != nil {
		slog.Error("failed to construct token authority", "error", err)
		os.Exit(1)
	}

	// ── Session Layer ─────────────────────────────────────────────────
	hub := session.NewHub(cfg.ReconnectGraceWindow)
	inbound := session.NewInbound(hub)

	// ── Durable event log: appended events flow through a bounded
	// channel so the tick worker never blocks on a database write
	// (design doc Section 5 "writes are serialized through a single-
	// writer queue drained asynchronously").
	eventCh := make(chan worldstate.Event, 256)
	dispatcher := action.NewDispatcher(world, cfg, func(e worldstate.Event) {
		select {
		case eventCh <- e:
		default:
			slog.Warn("event log channel full, dropping event", "type", e.Type)
		}
	})
	go func() {
		batch := make([]worldstate.Event, 0, 32)
		flush := time.NewTicker(2 * time.Second)
		defer flush.Stop()
		for {
			select {
			case e, ok := <-eventCh:
				if !ok {
					if len(batch) > 0 {
						db.SaveEvents(batch)
					}
					return
				}
				batch = append(batch, e)
				if len(batch) >= 32 {
					if err := db.SaveEvents(batch); err != nil {
						slog.Error("save events failed", "error", err)
					}
					batch = batch[:0]
				}
			case <-flush.C:
				if len(batch) > 0 {
					if err := db.SaveEvents(batch); err != nil {
						slog.Error("save events failed", "error", err)
					}
					batch = batch[:0]
				}
			}
		}
	}()

	// ── Tick Scheduler ────────────────────────────────────────────────
	eng := engine.NewEngine(world, cfg, dispatcher, inbound, hub.BroadcastPerception)

	// ── HTTP Query Facade + Session attach ───────────────────────────
	apiServer := &api.Server{
		World:    world,
		Config:   cfg,
		Auth:     authority,
		DB:       db,
		Port:     port,
		AdminKey: adminKey,
		Connect: &session.Attacher{
			Hub:   hub,
			Auth:  authority,
			World: world,
		},
		OnRegister: func(r *worldstate.Resident) {
			r.ID = world.NewResidentID()
			world.AddResident(r)
			world.Train.Enqueue(r.ID)
		},
	}
	apiServer.Start()

	// ── Periodic checkpoint + event retention trim ───────────────────
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(cfg.CheckpointInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := db.Checkpoint(world); err != nil {
					slog.Error("periodic checkpoint failed", "error", err)
				}
				cutoff := world.Clock.Now() - cfg.EventRetention.Seconds()
				world.TrimEvents(cutoff)
				if _, err := db.TrimOldEvents(cutoff); err != nil {
					slog.Error("trim old events failed", "error", err)
				}
			}
		}
	}()

	// ── Signal handling: cooperative shutdown ────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	slog.Info("the City is running",
		"residents", world.ResidentCount(),
		"port", port,
		"connect", fmt.Sprintf("ws://localhost:%d/connect", port),
	)

	eng.Run(ctx)

	slog.Info("final checkpoint...")
	close(eventCh)
	if err := db.Checkpoint(world); err != nil {
		slog.Error("final checkpoint failed", "error", err)
	}
	slog.Info("the City has stopped; world state saved")
}
