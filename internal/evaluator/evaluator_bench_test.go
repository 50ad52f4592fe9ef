package evaluator

import (
	"testing"

	"github.com/McDic/pokercraft-local/internal/deck"
	"github.com/McDic/pokercraft-local/internal/randutil"
)

func BenchmarkEvaluateHand_RandomSeven(b *testing.B) {
	rng := randutil.New(42)
	all := deck.All()
	hands := make([]Hand, 1000)
	for i := range hands {
		rng.Shuffle(len(all), func(x, y int) { all[x], all[y] = all[y], all[x] })
		hands[i] = NewHand(all[:7])
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = evaluateHand(hands[i%len(hands)])
	}
}

func BenchmarkComputeEquity_Flop(b *testing.B) {
	hole1 := [2]deck.Card{deck.NewCard(deck.Ace, deck.Spades), deck.NewCard(deck.King, deck.Spades)}
	hole2 := [2]deck.Card{deck.NewCard(deck.Queen, deck.Diamonds), deck.NewCard(deck.Queen, deck.Clubs)}
	board := deck.MustParseCards("JhTh2s")

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := ComputeEquity([][2]deck.Card{hole1, hole2}, board); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkComputeEquity_Preflop(b *testing.B) {
	hole1 := [2]deck.Card{deck.NewCard(deck.Ace, deck.Spades), deck.NewCard(deck.Ace, deck.Clubs)}
	hole2 := [2]deck.Card{deck.NewCard(deck.King, deck.Diamonds), deck.NewCard(deck.King, deck.Hearts)}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := ComputeEquity([][2]deck.Card{hole1, hole2}, nil); err != nil {
			b.Fatal(err)
		}
	}
}
