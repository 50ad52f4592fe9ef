package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"

	"github.com/McDic/pokercraft-local/internal/deck"
	"github.com/McDic/pokercraft-local/internal/evaluator"
)

type CLI struct {
	Hands         []string `arg:"" help:"Player hole cards, e.g. 'AsKs' 'QdQc'" required:"true"`
	Board         string   `short:"b" help:"Community cards, e.g. 'Jh Th 2s'"`
	Possibilities bool     `short:"p" help:"Show per-player hand category probabilities"`
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	handStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	tieStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))
)

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("poker-odds"),
		kong.Description("Exact multi-way equity by exhaustive board enumeration."))

	holes, err := parseHoles(cli.Hands)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing hands: %v\n", err)
		ctx.Exit(1)
	}

	var board []deck.Card
	if cli.Board != "" {
		board, err = deck.ParseCards(strings.ReplaceAll(cli.Board, " ", ""))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing board: %v\n", err)
			ctx.Exit(1)
		}
	}

	start := time.Now()
	result, err := evaluator.ComputeEquity(holes, board)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		ctx.Exit(1)
	}
	elapsed := time.Since(start)

	displayResults(holes, board, result, elapsed)
	if cli.Possibilities {
		displayPossibilities(holes, result)
	}
}

func parseHoles(handStrings []string) ([][2]deck.Card, error) {
	holes := make([][2]deck.Card, 0, len(handStrings))
	for i, handStr := range handStrings {
		cards, err := deck.ParseCards(strings.ReplaceAll(strings.TrimSpace(handStr), " ", ""))
		if err != nil {
			return nil, fmt.Errorf("hand %d: %w", i+1, err)
		}
		if len(cards) != 2 {
			return nil, fmt.Errorf("hand %d: must contain exactly 2 cards, got %d", i+1, len(cards))
		}
		holes = append(holes, [2]deck.Card{cards[0], cards[1]})
	}
	return holes, nil
}

func displayResults(holes [][2]deck.Card, board []deck.Card, result *evaluator.EquityResult, elapsed time.Duration) {
	if len(board) > 0 {
		fmt.Printf("%s %s\n\n", headerStyle.Render("Board:"), deck.CardsString(board))
	}
	fmt.Printf("%s %d boards in %v\n\n", headerStyle.Render("Enumerated:"), result.TrialCount(), elapsed)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		headerStyle.Render("Hand"),
		headerStyle.Render("Equity"),
		headerStyle.Render("Never lost"),
		"")
	for i, hole := range holes {
		equity, err := result.Equity(i)
		if err != nil {
			continue
		}
		neverLost, _ := result.NeverLost(i)
		marker := ""
		if neverLost {
			marker = tieStyle.Render("freeroll")
		}
		fmt.Fprintf(w, "%s\t%s\t%v\t%s\n",
			handStyle.Render(deck.CardsString(hole[:])),
			winStyle.Render(fmt.Sprintf("%.4f%%", equity*100)),
			neverLost,
			marker)
	}
	w.Flush()
}

func displayPossibilities(holes [][2]deck.Card, result *evaluator.EquityResult) {
	trials := float64(result.TrialCount())
	for i, hole := range holes {
		counts, err := result.CategoryCounts(i)
		if err != nil {
			continue
		}
		fmt.Printf("\n%s\n", handStyle.Render(deck.CardsString(hole[:])))

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		for cat := evaluator.StraightFlush; ; cat-- {
			if counts[cat] > 0 {
				fmt.Fprintf(w, "  %s\t%s\t%d\n",
					cat,
					winStyle.Render(fmt.Sprintf("%.4f%%", float64(counts[cat])/trials*100)),
					counts[cat])
			}
			if cat == evaluator.HighCard {
				break
			}
		}
		w.Flush()
	}
}
