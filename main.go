package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/milk9111/brawler/config"
	"github.com/milk9111/brawler/logging"
	"github.com/milk9111/brawler/netplay"
	"github.com/milk9111/brawler/policy"
	"github.com/milk9111/brawler/prefabs"
	"github.com/milk9111/brawler/roster"
	"github.com/milk9111/brawler/stats"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the TOML config")
	p1 := flag.String("p1", "durov:human", "player 1 as character:controller")
	p2 := flag.String("p2", "pepe:aggressive", "player 2 as character:controller")
	debug := flag.Bool("debug", false, "enable debug overlay and logging")
	relay := flag.String("relay", "", "relay address to join (overrides config)")
	flag.Parse()

	if err := run(*configPath, *p1, *p2, *relay, *debug); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, p1, p2, relay string, debug bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if debug {
		cfg.Logging.Level = "debug"
	}
	if relay != "" {
		cfg.Network.Enabled = true
		cfg.Network.RelayAddr = relay
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	r, err := roster.Load(log)
	if err != nil {
		return err
	}

	var picks [2]roster.Pick
	for i, s := range []string{p1, p2} {
		p, err := parsePick(s)
		if err != nil {
			return fmt.Errorf("-p%d: %w", i+1, err)
		}
		picks[i] = p
	}

	ctx := context.Background()
	deps := gameDeps{
		Roster: r,
		Rec:    openRecorder(ctx, cfg, log),
		Picks:  picks,
	}

	if cfg.Simulation.HotReload {
		w, err := prefabs.NewWatcher(prefabs.Dir, prefabs.Dir+"/fighters", prefabs.Dir+"/scripts")
		if err != nil {
			log.Warn("hot reload disabled", zap.Error(err))
		} else {
			deps.Watcher = w
		}
	}

	if cfg.Network.Enabled {
		dialCtx, cancel := context.WithTimeout(ctx, cfg.Network.DialTimeout)
		c, err := netplay.DialOptions(dialCtx, cfg.Network.RelayAddr, netplay.Options{
			SendQueue:    cfg.Network.SendQueue,
			RecvQueue:    cfg.Network.RecvQueue,
			WriteTimeout: cfg.Network.WriteTimeout,
		}, log)
		cancel()
		if err != nil {
			log.Warn("relay unreachable, playing offline", zap.String("addr", cfg.Network.RelayAddr), zap.Error(err))
		} else {
			log.Info("joined relay", zap.String("addr", cfg.Network.RelayAddr), zap.String("peer_id", c.ID.String()))
			deps.Net = newNetSession(c, log)
		}
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Window.Width/2, cfg.Window.Height/2)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetFullscreen(cfg.Window.Fullscreen)
	ebiten.SetTPS(cfg.Simulation.TickRate)

	game := NewGame(cfg, log, debug, deps)
	defer game.Close()

	return ebiten.RunGame(game)
}

// parsePick reads "character:controller"; the controller defaults to human.
func parsePick(s string) (roster.Pick, error) {
	char, ctrl, found := strings.Cut(s, ":")
	kind := policy.KindHuman
	if found {
		k, err := policy.ParseKind(ctrl)
		if err != nil {
			return roster.Pick{}, err
		}
		kind = k
	}
	if char == "" {
		return roster.Pick{}, fmt.Errorf("missing character in %q", s)
	}
	return roster.Pick{Character: char, Kind: kind}, nil
}

// openRecorder connects the results store. Without persistence, or when the
// database is unreachable, results are kept in memory for the session.
func openRecorder(ctx context.Context, cfg *config.Config, log *zap.Logger) stats.Recorder {
	var rec stats.Recorder = stats.NewMemoryStore()
	if cfg.Persistence.Enabled {
		pg, err := stats.NewPostgresStore(ctx, cfg.Persistence.DSN)
		if err != nil {
			log.Warn("stats database unavailable, keeping results in memory", zap.Error(err))
		} else {
			rec = pg
		}
	}
	return stats.NewAsync(rec, log)
}
