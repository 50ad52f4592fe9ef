//go:build js && wasm

// Binary pokercraft-wasm exposes the computational core to the browser
// worker of the single-page app. Every exported function is run-to-completion
// and returns plain JS values; the worker glue chunks its own batches.
package main

import (
	"strings"
	"syscall/js"

	"github.com/McDic/pokercraft-local/internal/bankroll"
	"github.com/McDic/pokercraft-local/internal/deck"
	"github.com/McDic/pokercraft-local/internal/evaluator"
	"github.com/McDic/pokercraft-local/internal/luck"
)

func errValue(err error) map[string]any {
	return map[string]any{"error": err.Error()}
}

// computeEquity(holes: string[], board: string) ->
// {trials, equities: number[], neverLost: bool[]} | {error}
func computeEquity(this js.Value, args []js.Value) any {
	if len(args) != 2 {
		return map[string]any{"error": "computeEquity(holes, board)"}
	}

	holes := make([][2]deck.Card, args[0].Length())
	for i := range holes {
		cards, err := deck.ParseCards(strings.ReplaceAll(args[0].Index(i).String(), " ", ""))
		if err != nil {
			return errValue(err)
		}
		if len(cards) != 2 {
			return map[string]any{"error": "each hand needs exactly 2 cards"}
		}
		holes[i] = [2]deck.Card{cards[0], cards[1]}
	}
	board, err := deck.ParseCards(strings.ReplaceAll(args[1].String(), " ", ""))
	if err != nil {
		return errValue(err)
	}

	result, err := evaluator.ComputeEquity(holes, board)
	if err != nil {
		return errValue(err)
	}

	equities := make([]any, len(holes))
	neverLost := make([]any, len(holes))
	for i := range holes {
		e, _ := result.Equity(i)
		nl, _ := result.NeverLost(i)
		equities[i] = e
		neverLost[i] = nl
	}
	return map[string]any{
		"trials":    int(result.TrialCount()),
		"equities":  equities,
		"neverLost": neverLost,
	}
}

// simulateBankroll(cfg) -> {bankruptcyRate, survivalRate, profitableRate} | {error}
func simulateBankroll(this js.Value, args []js.Value) any {
	if len(args) != 1 {
		return map[string]any{"error": "simulateBankroll(config)"}
	}
	cfgValue := args[0]

	returnsValue := cfgValue.Get("returns")
	returns := make([]float64, returnsValue.Length())
	for i := range returns {
		returns[i] = returnsValue.Index(i).Float()
	}

	cfg := bankroll.Config{
		InitialCapital:       cfgValue.Get("initialCapital").Float(),
		Returns:              returns,
		MaxSteps:             cfgValue.Get("maxSteps").Int(),
		ProfitExitMultiplier: cfgValue.Get("profitExitMultiplier").Float(),
		Simulations:          cfgValue.Get("simulations").Int(),
		Seed:                 int64(cfgValue.Get("seed").Int()),
		Workers:              1, // single worker thread in the sandbox
	}

	result, err := bankroll.Simulate(cfg)
	if err != nil {
		return errValue(err)
	}
	return map[string]any{
		"bankrupt":       result.Bankrupt,
		"survived":       result.Survived,
		"profitExited":   result.ProfitExited,
		"bankruptcyRate": result.BankruptcyRate(),
		"survivalRate":   result.SurvivalRate(),
		"profitableRate": result.ProfitableRate(),
	}
}

// luckScore(samples: [equity, actual][]) ->
// {z, upper, lower, twoSided} | {defined: false} | {error}
func luckScore(this js.Value, args []js.Value) any {
	if len(args) != 1 {
		return map[string]any{"error": "luckScore(samples)"}
	}
	samples := args[0]

	scorer := luck.NewScorer()
	for i := 0; i < samples.Length(); i++ {
		pair := samples.Index(i)
		if err := scorer.Add(pair.Index(0).Float(), pair.Index(1).Float()); err != nil {
			return errValue(err)
		}
	}

	z, ok := scorer.Score()
	if !ok {
		return map[string]any{"defined": false}
	}
	tails, _ := scorer.Tails()
	return map[string]any{
		"defined":  true,
		"z":        z,
		"upper":    tails.Upper,
		"lower":    tails.Lower,
		"twoSided": tails.TwoSided,
	}
}

func main() {
	js.Global().Set("pokercraftComputeEquity", js.FuncOf(computeEquity))
	js.Global().Set("pokercraftSimulateBankroll", js.FuncOf(simulateBankroll))
	js.Global().Set("pokercraftLuckScore", js.FuncOf(luckScore))
	select {}
}
