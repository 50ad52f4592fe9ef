package preflop

import (
	"fmt"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/McDic/pokercraft-local/internal/deck"
	"github.com/McDic/pokercraft-local/internal/evaluator"
)

// BuildOptions tunes the one-shot offline population of the cache.
type BuildOptions struct {
	// Workers caps the parallelism; 0 means GOMAXPROCS.
	Workers int

	// Offset skips this many matchups from the head of the canonical
	// ordering before building. Together with Limit it carves the full
	// matchup list into shards for distributed runs.
	Offset int

	// Limit stops after this many matchups when positive. A full build
	// covers all FullRecordCount matchups and takes a long time; the limit
	// exists for sharded runs and tests.
	Limit int

	// Progress, when set, is called after each completed matchup with the
	// number done and the total. Calls happen between matchups, never
	// inside an enumeration.
	Progress func(done, total int)
}

// matchup is one canonical hero/villain pairing to evaluate.
type matchup struct {
	key           uint64
	hero, villain [2]deck.Card
}

// Build populates a cache by driving the equity engine over every canonical
// matchup. The result dumps to the same bytes on every run.
func Build(opts BuildOptions) (*Cache, error) {
	matchups := allMatchups()
	if opts.Offset > 0 {
		if opts.Offset > len(matchups) {
			opts.Offset = len(matchups)
		}
		matchups = matchups[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(matchups) {
		matchups = matchups[:opts.Limit]
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	entries := make([]entry, len(matchups))
	done := 0
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range matchups {
		i := i
		g.Go(func() error {
			m := matchups[i]
			res, err := evaluator.ComputeEquity([][2]deck.Card{m.hero, m.villain}, nil)
			if err != nil {
				return fmt.Errorf("matchup %s%s vs %s%s: %w",
					m.hero[0], m.hero[1], m.villain[0], m.villain[1], err)
			}
			wins, losses, err := res.WinLosses(0)
			if err != nil {
				return err
			}
			entries[i] = entry{
				key: m.key,
				counts: WinLose{
					Win:  uint32(wins[0]),
					Lose: uint32(losses),
					Tie:  uint32(wins[1]),
				},
			}
			if opts.Progress != nil {
				mu.Lock()
				done++
				opts.Progress(done, len(matchups))
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
	return &Cache{entries: entries}, nil
}

// allMatchups enumerates every canonical unordered heads-up matchup in
// ascending key order.
func allMatchups() []matchup {
	type pair struct {
		hi, lo int
	}
	pairs := make([]pair, 0, 1326)
	for hi := 1; hi < 52; hi++ {
		for lo := 0; lo < hi; lo++ {
			pairs = append(pairs, pair{hi: hi, lo: lo})
		}
	}

	out := make([]matchup, 0, FullRecordCount)
	for _, hero := range pairs {
		for _, villain := range pairs {
			// Canonical ordering puts the lexicographically greater pair
			// first; skip the mirrored half and overlaps.
			if villain.hi > hero.hi || (villain.hi == hero.hi && villain.lo >= hero.lo) {
				continue
			}
			if villain.hi == hero.lo || villain.lo == hero.lo || villain.hi == hero.hi || villain.lo == hero.hi {
				continue
			}
			out = append(out, matchup{
				key: uint64(hero.hi)<<18 | uint64(hero.lo)<<12 |
					uint64(villain.hi)<<6 | uint64(villain.lo),
				hero:    [2]deck.Card{deck.CardFromIndex(hero.hi), deck.CardFromIndex(hero.lo)},
				villain: [2]deck.Card{deck.CardFromIndex(villain.hi), deck.CardFromIndex(villain.lo)},
			})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out
}
