// Command headless plays bot matches without a window, as fast as the CPU
// allows, and prints the tally. It is meant for balancing bot parameters
// and character specs.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/milk9111/brawler/arena"
	"github.com/milk9111/brawler/config"
	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/logging"
	"github.com/milk9111/brawler/policy"
	"github.com/milk9111/brawler/roster"
	"github.com/milk9111/brawler/stats"
)

type options struct {
	matches   int
	left      roster.Pick
	right     roster.Pick
	seed      int64
	roundTime time.Duration
}

func main() {
	n := flag.Int("n", 20, "number of matches")
	leftKind := flag.String("left", "aggressive", "left bot: aggressive, defensive or scripted")
	rightKind := flag.String("right", "defensive", "right bot: aggressive, defensive or scripted")
	leftChar := flag.String("left-char", "durov", "left character")
	rightChar := flag.String("right-char", "pepe", "right character")
	seed := flag.Int64("seed", 1, "random seed; each match uses seed+i")
	roundTime := flag.Duration("round-time", 0, "round limit (default from arena spec)")
	level := flag.String("log-level", "warn", "log level")
	flag.Parse()

	log, err := logging.New(config.Logging{Level: *level, Format: "console"})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	opts := options{matches: *n, seed: *seed, roundTime: *roundTime}
	for _, side := range []struct {
		dst        *roster.Pick
		kind, char string
		id         string
	}{
		{&opts.left, *leftKind, *leftChar, "left"},
		{&opts.right, *rightKind, *rightChar, "right"},
	} {
		k, err := policy.ParseKind(side.kind)
		if err != nil || !k.IsBot() {
			fmt.Fprintf(os.Stderr, "-%s: %q is not a bot kind\n", side.id, side.kind)
			os.Exit(2)
		}
		*side.dst = roster.Pick{ID: side.id, Character: side.char, Kind: k}
	}

	r, err := roster.Load(log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	t, err := run(context.Background(), r, opts, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	t.print(os.Stdout, opts)
}

type tally struct {
	results []arena.Result
	rec     *stats.MemoryStore
	ticks   int
	elapsed time.Duration
}

func run(ctx context.Context, r *roster.Roster, opts options, log *zap.Logger) (*tally, error) {
	r = r.WithRoundTime(opts.roundTime)
	t := &tally{rec: stats.NewMemoryStore()}
	start := time.Now()
	for i := 0; i < opts.matches; i++ {
		sim := r.Simulation(ecs.DefaultTickRate, &ecs.ManualClock{}, rand.New(rand.NewSource(opts.seed+int64(i))))
		m, err := arena.NewMatch(roster.Factory(func() *roster.Roster { return r }, sim, opts.left, opts.right), r.Rules(), t.rec, log)
		if err != nil {
			return nil, err
		}
		res, err := m.Run(ctx, nil, nil)
		if err != nil {
			return nil, err
		}
		t.results = append(t.results, res)
		t.ticks += int(sim.Now() / sim.TickDuration())
	}
	t.elapsed = time.Since(start)
	return t, nil
}

func (t *tally) wins() (left, right, draws int) {
	for _, res := range t.results {
		switch res.Winner {
		case arena.WinnerLeft:
			left++
		case arena.WinnerRight:
			right++
		default:
			draws++
		}
	}
	return left, right, draws
}

func (t *tally) reasons() map[arena.Reason]int {
	out := make(map[arena.Reason]int)
	for _, res := range t.results {
		for _, o := range res.Rounds {
			out[o.Reason]++
		}
	}
	return out
}

func (t *tally) print(w *os.File, opts options) {
	left, right, draws := t.wins()
	reasons := t.reasons()
	fmt.Fprintf(w, "%d matches: %s vs %s\n", len(t.results), opts.left, opts.right)
	fmt.Fprintf(w, "  left wins:  %d\n  right wins: %d\n  draws:      %d\n", left, right, draws)
	fmt.Fprintf(w, "  rounds by KO %d, double KO %d, time up %d\n",
		reasons[arena.ReasonKO], reasons[arena.ReasonDoubleKO], reasons[arena.ReasonTimeUp])
	fmt.Fprintf(w, "  simulated %d ticks in %s\n", t.ticks, t.elapsed.Round(time.Millisecond))
}
