// Command server runs a demo arena: a handful of agents, a fixed-step
// simulation loop and the websocket inspector endpoint.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arenamind/server/internal/ai"
	"arenamind/server/internal/journal"
	"arenamind/server/internal/net/ws"
	"arenamind/server/internal/sim"
	"arenamind/server/internal/telemetry"
	"arenamind/server/internal/tuning"
	"arenamind/server/internal/world"
	"arenamind/server/logging"
	"arenamind/server/logging/sinks"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := tuning.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	router, err := buildRouter(cfg)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		router.Close(ctx)
	}()

	w, paths := buildArena()
	library, err := ai.LoadLibrary()
	if err != nil {
		log.Fatalf("archetypes: %v", err)
	}

	controller, err := ai.NewController(ai.ControllerConfig{
		World:     w,
		Paths:     paths,
		Library:   library,
		Seed:      cfg.Seed,
		Publisher: router,
	})
	if err != nil {
		log.Fatalf("controller: %v", err)
	}
	for _, attach := range []struct {
		id        world.EntityID
		archetype string
	}{
		{"npc-brawler-1", "brawler"},
		{"npc-brawler-2", "brawler"},
		{"npc-skirmisher-1", "skirmisher"},
	} {
		if _, err := controller.Attach(attach.id, attach.archetype); err != nil {
			log.Fatalf("attach: %v", err)
		}
	}

	metrics := telemetry.NewCounters()
	loop, err := sim.NewLoop(sim.Config{TickRate: cfg.TickRate, MoveSpeed: cfg.MoveSpeed}, w, controller, metrics)
	if err != nil {
		log.Fatalf("loop: %v", err)
	}

	debug := ws.NewServer(controller, loop.Tick, telemetry.WrapLogger(log.Default()), metrics)
	mux := http.NewServeMux()
	mux.Handle("/debug/agents", debug)
	httpServer := &http.Server{Addr: cfg.ListenAddr, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("inspector listening on %s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http server: %v", err)
			stop()
		}
	}()

	log.Printf("simulating %d agents at %v ticks/s (seed %q)", controller.Len(), cfg.TickRate, cfg.Seed)
	loop.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	httpServer.Shutdown(shutdownCtx)
}

// buildRouter assembles the sink set the config asks for.
func buildRouter(cfg tuning.Config) (*logging.Router, error) {
	severity, err := cfg.Logging.Severity()
	if err != nil {
		return nil, err
	}
	logCfg := logging.DefaultConfig()
	logCfg.MinimumSeverity = severity

	var named []logging.NamedSink
	if cfg.Logging.Console {
		named = append(named, logging.NamedSink{Name: "console", Sink: sinks.NewConsoleSink(os.Stdout)})
	}
	if cfg.Logging.JSONPath != "" {
		file, err := os.Create(cfg.Logging.JSONPath)
		if err != nil {
			return nil, err
		}
		named = append(named, logging.NamedSink{Name: "json", Sink: sinks.NewJSON(file, 2*time.Second)})
	}
	if cfg.JournalPath != "" {
		recorder, err := journal.Open(cfg.JournalPath)
		if err != nil {
			return nil, err
		}
		named = append(named, logging.NamedSink{Name: "journal", Sink: recorder})
	}
	return logging.NewRouter(nil, logCfg, named), nil
}

// buildArena populates the demo world: two teams of fighters, obstacles, a
// patrol route and some pickups.
func buildArena() (*world.World, *world.WaypointLoop) {
	w := world.NewWorld()
	w.Upsert(world.Entity{ID: "npc-brawler-1", Kind: world.KindFighter, Team: 1, Pos: world.Vec2{X: 100, Y: 120}, Health: 120, MaxHealth: 120})
	w.Upsert(world.Entity{ID: "npc-brawler-2", Kind: world.KindFighter, Team: 1, Pos: world.Vec2{X: 140, Y: 420}, Health: 120, MaxHealth: 120})
	w.Upsert(world.Entity{ID: "npc-skirmisher-1", Kind: world.KindFighter, Team: 1, Pos: world.Vec2{X: 480, Y: 260}, Health: 80, MaxHealth: 80})
	w.Upsert(world.Entity{ID: "raider-1", Kind: world.KindFighter, Team: 2, Pos: world.Vec2{X: 720, Y: 180}, Health: 100, MaxHealth: 100})
	w.Upsert(world.Entity{ID: "raider-2", Kind: world.KindFighter, Team: 2, Pos: world.Vec2{X: 760, Y: 360}, Health: 100, MaxHealth: 100})
	w.Upsert(world.Entity{ID: "cache-1", Kind: world.KindCollectible, Pos: world.Vec2{X: 400, Y: 400}, Value: 25})
	w.Upsert(world.Entity{ID: "cache-2", Kind: world.KindCollectible, Pos: world.Vec2{X: 260, Y: 180}, Value: 40})
	w.AddObstacle(world.Obstacle{X: 340, Y: 220, Width: 120, Height: 40})
	w.AddObstacle(world.Obstacle{X: 560, Y: 80, Width: 40, Height: 200})

	paths := world.NewWaypointLoop(14)
	route := []world.Vec2{{X: 100, Y: 120}, {X: 300, Y: 120}, {X: 300, Y: 320}, {X: 100, Y: 320}}
	paths.SetRoute("npc-brawler-1", route)
	paths.SetRoute("npc-brawler-2", []world.Vec2{{X: 140, Y: 420}, {X: 420, Y: 480}, {X: 620, Y: 420}})
	return w, paths
}
