// Command eyalet runs one Ottoman province game: a Turkish command console on
// stdin, plus the HTTP/WebSocket adapter for remote observers.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/talgya/eyalet/internal/achievements"
	"github.com/talgya/eyalet/internal/api"
	"github.com/talgya/eyalet/internal/config"
	"github.com/talgya/eyalet/internal/console"
	"github.com/talgya/eyalet/internal/engine"
	"github.com/talgya/eyalet/internal/persistence"
	"github.com/talgya/eyalet/internal/player"
	"github.com/talgya/eyalet/internal/save"
)

func main() {
	configPath := flag.String("config", "eyalet.yaml", "config file (optional)")
	slot := flag.Int("slot", 0, "load this save slot instead of starting a new game")
	seed := flag.Uint64("seed", 0, "seed for a new game (overrides config; 0 = random)")
	speed := flag.Float64("speed", 0, "unattended turns per 2 seconds (0 = console only)")
	noAPI := flag.Bool("no-api", false, "do not start the HTTP API")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Storage ───────────────────────────────────────────────────────
	db, err := persistence.Open(cfg.Paths.DB)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.Paths.DB)

	store := persistence.IndexedStore{Store: save.NewStore(cfg.Paths.Saves), DB: db}
	if err := store.Reindex(); err != nil {
		slog.Warn("slot index rebuild failed", "error", err)
	}

	tracker, err := achievements.Load(cfg.AchievementsFile())
	if err != nil {
		slog.Warn("achievements reset", "error", err)
	}

	// ── Game ──────────────────────────────────────────────────────────
	opts, err := gameOptions(cfg, tracker, store)
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	var g *engine.Game
	if *slot > 0 {
		g, err = store.LoadGame(*slot, opts)
	} else {
		g, err = engine.NewGame(opts)
	}
	if err != nil {
		slog.Error("failed to start game", "slot", *slot, "error", err)
		os.Exit(1)
	}
	slog.Info("game ready", "game_id", g.ID, "province", g.Province.Name, "turn", g.Turn)

	sess := console.NewSession(g, store, opts)
	sess.OnTurn(db.Observe)

	runner := engine.NewRunner(func() bool {
		out, err := sess.Execute("tur")
		if err != nil {
			slog.Error("unattended turn failed", "error", err)
			return false
		}
		fmt.Println(out)
		over := false
		sess.View(func(g *engine.Game) { over = g.GameOver })
		return !over
	})
	runner.SetSpeed(*speed)
	go runner.Run(ctx)

	// ── HTTP API ──────────────────────────────────────────────────────
	if !*noAPI && cfg.API.Port > 0 {
		adminKey := os.Getenv(cfg.API.AdminKeyEnv)
		if adminKey == "" {
			slog.Warn("admin key not set, POST endpoints disabled", "env", cfg.API.AdminKeyEnv)
		}
		api.New(sess, db, runner, cfg.API.Port, adminKey).Start(ctx)
		fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.API.Port)
	}

	fmt.Println()
	sess.View(func(g *engine.Game) { fmt.Println(g.Summary()) })
	fmt.Println("Komutlar için 'yardim', çıkmak için 'cikis'.")

	runConsole(ctx, sess, stop)

	if *speed > 0 || (!*noAPI && cfg.API.Port > 0) {
		<-ctx.Done()
	}
	slog.Info("shutting down")
}

func gameOptions(cfg config.Config, tracker *achievements.Tracker, saver engine.Saver) (engine.Options, error) {
	gender, ok := player.ParseGender(cfg.Player.Gender)
	if !ok {
		return engine.Options{}, fmt.Errorf("unknown player gender %q", cfg.Player.Gender)
	}
	return engine.Options{
		Seed:             cfg.Seed,
		Province:         cfg.Province,
		Player:           player.New(cfg.Player.Name, gender, cfg.Player.BirthYear),
		AutoSave:         engine.AutoSave{Enabled: cfg.AutoSave.Enabled, Interval: cfg.AutoSave.Interval},
		EventsEnabled:    cfg.EventsEnabled,
		Saver:            saver,
		Achievements:     tracker,
		AchievementsPath: cfg.AchievementsFile(),
	}, nil
}

// runConsole reads commands until stdin closes, ctx ends or the player quits.
func runConsole(ctx context.Context, sess *console.Session, quit context.CancelFunc) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	for {
		fmt.Print("> ")
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			switch console.Fold(line) {
			case "":
				continue
			case "cikis", "quit", "exit":
				quit()
				return
			}
			out, err := sess.Execute(line)
			switch {
			case errors.Is(err, console.ErrUnknownCommand):
				fmt.Println("Bilinmeyen komut. 'yardim' yazın.")
			case err != nil:
				fmt.Println("Hata:", err)
			case strings.TrimSpace(out) != "":
				fmt.Println(out)
			}
		}
	}
}
