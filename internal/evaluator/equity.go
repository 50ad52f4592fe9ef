package evaluator

import (
	"errors"
	"fmt"

	"github.com/McDic/pokercraft-local/internal/deck"
)

// ErrInvalidInput is returned by ComputeEquity when hole or community cards
// collide or the community is larger than a full board.
var ErrInvalidInput = errors.New("invalid equity input")

// EquityResult holds the exhaustive win/lose/tie counts for one equity query.
// wins[i][c] counts boards where player i held the best hand together with
// exactly c other players; loses[i] counts boards where someone strictly beat
// player i; categories[i][cat] counts boards where player i's best hand fell
// in that category. The counts are exact, no sampling is involved.
type EquityResult struct {
	trials     uint64
	wins       [][]uint64
	loses      []uint64
	categories [][]uint64
}

// ComputeEquity enumerates every completion of the board given each player's
// two hole cards and 0-5 community cards, evaluating all players on every
// completed board. All cards must be distinct.
func ComputeEquity(holes [][2]deck.Card, community []deck.Card) (*EquityResult, error) {
	n := len(holes)
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 players, got %d", ErrInvalidInput, n)
	}
	if len(community) > 5 {
		return nil, fmt.Errorf("%w: at most 5 community cards, got %d", ErrInvalidInput, len(community))
	}

	var used deck.CardSet
	for _, hole := range holes {
		for _, c := range hole {
			if err := used.Add(c); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
		}
	}
	for _, c := range community {
		if err := used.Add(c); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	playerMasks := make([]Hand, n)
	for i, hole := range holes {
		playerMasks[i] = handBit(hole[0]) | handBit(hole[1])
	}
	communityMask := NewHand(community)

	remaining := used.Remaining()
	unseen := make([]Hand, len(remaining))
	for i, c := range remaining {
		unseen[i] = handBit(c)
	}
	if len(unseen) < 5-len(community) {
		return nil, fmt.Errorf("%w: %d unseen cards cannot complete the board", ErrInvalidInput, len(unseen))
	}

	res := &EquityResult{
		wins:       make([][]uint64, n),
		loses:      make([]uint64, n),
		categories: make([][]uint64, n),
	}
	for i := range res.wins {
		res.wins[i] = make([]uint64, n)
		res.categories[i] = make([]uint64, int(StraightFlush)+1)
	}

	// Enumerate all C(len(unseen), need) board completions with a fixed
	// index odometer; nothing inside the loop allocates.
	need := 5 - len(community)
	idx := make([]int, need)
	for i := range idx {
		idx[i] = i
	}
	ranks := make([]HandRank, n)
	u := len(unseen)

	for {
		board := communityMask
		for _, j := range idx {
			board |= unseen[j]
		}

		best := HandRank(0)
		for i, pm := range playerMasks {
			r := evaluateHand(pm | board)
			ranks[i] = r
			res.categories[i][r.Category()]++
			if r > best {
				best = r
			}
		}

		winners := 0
		for _, r := range ranks {
			if r == best {
				winners++
			}
		}
		for i, r := range ranks {
			if r == best {
				res.wins[i][winners-1]++
			} else {
				res.loses[i]++
			}
		}
		res.trials++

		// Advance the odometer.
		i := need - 1
		for i >= 0 && idx[i] == u-need+i {
			i--
		}
		if i < 0 {
			break
		}
		idx[i]++
		for j := i + 1; j < need; j++ {
			idx[j] = idx[j-1] + 1
		}
	}

	return res, nil
}

// TrialCount returns the number of enumerated boards.
func (e *EquityResult) TrialCount() uint64 {
	return e.trials
}

// Players returns the number of players in the query.
func (e *EquityResult) Players() int {
	return len(e.loses)
}

// Equity returns the win probability of the given player including
// proportional tie credit.
func (e *EquityResult) Equity(player int) (float64, error) {
	if player < 0 || player >= len(e.wins) {
		return 0, fmt.Errorf("%w: player index %d out of range", ErrInvalidInput, player)
	}
	total := 0.0
	for ties, count := range e.wins[player] {
		total += float64(count) / float64(ties+1)
	}
	return total / float64(e.trials), nil
}

// NeverLost reports whether the player was in the best-hand set on every
// enumerated board.
func (e *EquityResult) NeverLost(player int) (bool, error) {
	if player < 0 || player >= len(e.loses) {
		return false, fmt.Errorf("%w: player index %d out of range", ErrInvalidInput, player)
	}
	return e.loses[player] == 0, nil
}

// CategoryCounts returns, per hand category, the number of enumerated boards
// on which the player's best five cards made that category. Indexed by
// Category; the counts sum to TrialCount.
func (e *EquityResult) CategoryCounts(player int) ([]uint64, error) {
	if player < 0 || player >= len(e.categories) {
		return nil, fmt.Errorf("%w: player index %d out of range", ErrInvalidInput, player)
	}
	counts := make([]uint64, len(e.categories[player]))
	copy(counts, e.categories[player])
	return counts, nil
}

// WinLosses returns the raw tie-grouped win counts and the loss count for a
// player: wins[c] is the number of boards won while chopping with c other
// players. The preflop cache build consumes these directly.
func (e *EquityResult) WinLosses(player int) (wins []uint64, losses uint64, err error) {
	if player < 0 || player >= len(e.wins) {
		return nil, 0, fmt.Errorf("%w: player index %d out of range", ErrInvalidInput, player)
	}
	wins = make([]uint64, len(e.wins[player]))
	copy(wins, e.wins[player])
	return wins, e.loses[player], nil
}
