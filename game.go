package main

import (
	"fmt"
	"image/color"
	"math/rand"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/milk9111/brawler/arena"
	"github.com/milk9111/brawler/config"
	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/ecs/component"
	"github.com/milk9111/brawler/prefabs"
	"github.com/milk9111/brawler/roster"
	"github.com/milk9111/brawler/stats"
)

type screen int

const (
	screenMenu screen = iota
	screenMatch
	screenResult
)

// intermission is how long a round result stays up before the next round.
const intermission = 2 * time.Second

type Game struct {
	cfg    *config.Config
	log    *zap.Logger
	width  int
	height int
	debug  bool

	roster   *roster.Roster
	watcher  *prefabs.Watcher
	rec      stats.Recorder
	net      *netSession
	bindings [2]Binding
	sel      *selection
	status   string

	screen screen
	menu   *ebitenui.UI
	pause  *ebitenui.UI
	paused bool
	quit   bool

	sim      *ecs.Simulation
	match    *arena.Match
	renderer *Renderer
	remote   [2]bool
	hold     int
	banner   []string
	frames   int
}

type gameDeps struct {
	Roster  *roster.Roster
	Watcher *prefabs.Watcher
	Rec     stats.Recorder
	Net     *netSession
	Picks   [2]roster.Pick
}

func NewGame(cfg *config.Config, log *zap.Logger, debug bool, deps gameDeps) *Game {
	g := &Game{
		cfg:      cfg,
		log:      log,
		width:    cfg.Window.Width,
		height:   cfg.Window.Height,
		debug:    debug,
		roster:   deps.Roster,
		watcher:  deps.Watcher,
		rec:      deps.Rec,
		net:      deps.Net,
		bindings: defaultBindings(),
		renderer: NewRenderer(),
	}

	g.sel = &selection{
		characters:  g.roster.Characters(),
		controllers: controllers(g.net.Connected()),
	}
	for side, p := range deps.Picks {
		g.sel.char[side] = indexOf(g.sel.characters, p.Character, side)
		for i, c := range g.sel.controllers {
			if c.Kind == p.Kind && !c.Remote {
				g.sel.ctrl[side] = i
				break
			}
		}
	}

	g.menu = NewMenuUI(g)
	g.pause = NewPauseUI(g)
	return g
}

func indexOf(list []string, s string, fallback int) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	if len(list) == 0 {
		return 0
	}
	return fallback % len(list)
}

func (g *Game) currentRoster() *roster.Roster {
	return g.roster.WithRoundTime(g.cfg.Simulation.RoundTime)
}

func (g *Game) seed() int64 {
	if g.cfg.Simulation.Seed != 0 {
		return g.cfg.Simulation.Seed
	}
	return time.Now().UnixNano()
}

func (g *Game) startMatch() {
	var picks [2]roster.Pick
	for side := range 2 {
		c := g.sel.controller(side)
		id := fmt.Sprintf("player%d", side+1)
		if c.Kind.IsBot() {
			id = "bot-" + string(c.Kind)
		}
		if c.Remote {
			id = "peer"
		}
		picks[side] = roster.Pick{ID: id, Character: g.sel.character(side), Kind: c.Kind}
		g.remote[side] = c.Remote
	}

	// The clock only moves when the match steps, so pausing stops the
	// round timer too.
	g.sim = g.roster.Simulation(g.cfg.Simulation.TickRate, &ecs.ManualClock{}, rand.New(rand.NewSource(g.seed())))
	rules := g.roster.Rules()
	rules.RoundsToWin = g.cfg.Simulation.RoundsToWin
	rules.MaxRounds = g.cfg.Simulation.MaxRounds

	m, err := arena.NewMatch(roster.Factory(g.currentRoster, g.sim, picks[0], picks[1]), rules, g.rec, g.log)
	if err != nil {
		g.log.Error("match start failed", zap.Error(err))
		g.status = err.Error()
		g.menu = NewMenuUI(g)
		return
	}
	g.log.Info("match started",
		zap.String("match", m.ID().String()),
		zap.Stringer("left", picks[0]),
		zap.Stringer("right", picks[1]))

	g.match = m
	g.status = ""
	g.screen = screenMatch
	g.paused = false
	g.hold = 0
	g.renderer.Reset()
}

func (g *Game) toMenu() {
	if g.match != nil {
		if _, done := g.match.Result(); !done {
			g.log.Info("match abandoned", zap.String("match", g.match.ID().String()))
		}
	}
	g.match = nil
	g.paused = false
	g.screen = screenMenu
	g.menu = NewMenuUI(g)
}

// reloadSpecs drains the watcher and swaps in a fresh roster. A broken edit
// keeps the previous roster.
func (g *Game) reloadSpecs() {
	if g.watcher == nil {
		return
	}
	changed := false
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.Debug("prefab changed", zap.String("file", name))
			changed = true
			continue
		case err, ok := <-g.watcher.Errors:
			if ok {
				g.log.Warn("prefab watcher", zap.Error(err))
			}
			continue
		default:
		}
		break
	}
	if !changed {
		return
	}

	r, err := roster.Load(g.log)
	if err != nil {
		g.log.Warn("prefab reload failed, keeping previous specs", zap.Error(err))
		return
	}
	g.roster = r
	g.renderer.Forget()
	g.log.Info("prefabs reloaded; changes apply from the next round")
}

func (g *Game) Update() error {
	g.frames++
	if g.quit {
		return ebiten.Termination
	}

	g.reloadSpecs()
	g.net.Poll()

	switch g.screen {
	case screenMenu:
		g.menu.Update()
	case screenMatch:
		g.updateMatch()
	case screenResult:
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
			inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			g.toMenu()
		}
	}
	return nil
}

func (g *Game) updateMatch() {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pause.Update()
		return
	}
	if g.hold > 0 {
		g.hold--
		return
	}

	var in arena.Inputs
	for side, b := range g.bindings {
		buttons := b.Buttons()
		if g.remote[side] {
			buttons = g.net.remote
		} else if side == 0 {
			g.net.SendButtons(g.match.Arena().Ticks(), buttons)
		}
		if side == 0 {
			in.Left = buttons
		} else {
			in.Right = buttons
		}
	}

	st, err := g.match.Step(in)
	if g.frames%snapshotEvery == 0 {
		g.net.SendSnapshot(g.match.Arena().Snapshot())
	}
	if err != nil {
		g.log.Error("next round failed", zap.Error(err))
		g.status = err.Error()
		g.toMenu()
		return
	}

	switch st {
	case arena.StateRoundEnded:
		rounds := g.match.Rounds()
		o := rounds[len(rounds)-1]
		score := g.match.Score()
		g.banner = []string{roundHeadline(o), fmt.Sprintf("%d - %d", score[0], score[1])}
		g.hold = int(intermission.Seconds() * float64(g.cfg.Simulation.TickRate))
		g.renderer.Reset()
	case arena.StateMatchEnded:
		res, _ := g.match.Result()
		g.banner = []string{matchHeadline(res), fmt.Sprintf("%d - %d", res.Score[0], res.Score[1]), "press enter"}
		g.screen = screenResult
	}
}

func roundHeadline(o arena.Outcome) string {
	switch o.Winner {
	case arena.WinnerLeft:
		return fmt.Sprintf("Player 1 takes round %d (%s)", o.Round, o.Reason)
	case arena.WinnerRight:
		return fmt.Sprintf("Player 2 takes round %d (%s)", o.Round, o.Reason)
	default:
		return fmt.Sprintf("Round %d drawn (%s)", o.Round, o.Reason)
	}
}

func matchHeadline(r arena.Result) string {
	switch r.Winner {
	case arena.WinnerLeft:
		return "Player 1 wins!"
	case arena.WinnerRight:
		return "Player 2 wins!"
	default:
		return "Draw"
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	switch g.screen {
	case screenMenu:
		screen.Fill(g.roster.Arena.Background.Or(color.Black))
		g.menu.Draw(screen)
	case screenMatch, screenResult:
		a := g.match.Arena()
		g.renderer.Draw(screen, a.Snapshot(), g.roster, g.match.Score(), g.debug)
		if g.screen == screenResult || g.hold > 0 {
			drawBanner(screen, g.banner...)
		}
		if g.paused {
			g.pause.Draw(screen)
		}
		if g.debug {
			g.drawDebug(screen, a)
		}
	}
}

func (g *Game) drawDebug(screen *ebiten.Image, a *arena.Arena) {
	y := float64(g.height - 60)
	drawText(screen, fmt.Sprintf("tick %d  TPS %.1f  FPS %.1f  %s", a.Ticks(), ebiten.ActualTPS(), ebiten.ActualFPS(), a.World().CensusString()), 10, y, 1, color.White)
	for _, f := range []component.Side{component.SideLeft, component.SideRight} {
		ft := a.Fighter(f)
		drawText(screen, fmt.Sprintf("%s: %s hp %d shoot %.2fs melee %.2fs", f, ft.State, ft.Health,
			ft.Shoot.Remaining(a.Simulation().Now()).Seconds(), ft.Melee.Remaining(a.Simulation().Now()).Seconds()), 10, y+float64(16*(int(f)+1)), 1, color.White)
	}
	if g.net != nil {
		drawText(screen, g.net.Status(), 10, y-16, 1, color.White)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return float64(g.width), float64(g.height)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

// Close releases everything NewGame was handed.
func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	g.net.Close()
	if c, ok := g.rec.(interface{ Close() }); ok {
		c.Close()
	}
}
