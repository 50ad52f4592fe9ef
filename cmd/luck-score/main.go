package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/McDic/pokercraft-local/internal/luck"
)

type CLI struct {
	File string `arg:"" optional:"" default:"-" help:"CSV of equity,actual pairs ('-' for stdin)"`
}

// accumulateSamples feeds equity,actual CSV rows into the scorer, dropping
// unparsable and invalid rows via onDrop instead of aborting the run.
func accumulateSamples(in io.Reader, scorer *luck.Scorer, onDrop func(line int, err error)) (dropped int, err error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = 2
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return dropped, nil
		}
		if err != nil {
			return dropped, err
		}
		line++

		p, err := strconv.ParseFloat(record[0], 64)
		if err == nil {
			var a float64
			a, err = strconv.ParseFloat(record[1], 64)
			if err == nil {
				err = scorer.Add(p, a)
			}
		}
		if err != nil {
			onDrop(line, err)
			dropped++
		}
	}
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("luck-score"),
		kong.Description("Score the luck of a sequence of (equity, outcome) observations."))

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	var in io.Reader = os.Stdin
	if cli.File != "-" {
		f, err := os.Open(cli.File)
		if err != nil {
			logger.Error("open failed", "error", err)
			ctx.Exit(1)
		}
		defer f.Close()
		in = f
	}

	scorer := luck.NewScorer()
	dropped, err := accumulateSamples(in, scorer, func(line int, err error) {
		logger.Warn("dropping sample", "line", line, "error", err)
	})
	if err != nil {
		logger.Error("read failed", "error", err)
		ctx.Exit(1)
	}

	logger.Info("samples accumulated", "count", scorer.Len(), "dropped", dropped)

	z, ok := scorer.Score()
	if !ok {
		fmt.Println("No informative samples; luck score undefined.")
		return
	}
	tails, _ := scorer.Tails()
	fmt.Printf("Luck surplus: %+.4f over %d samples\n", scorer.Surplus(), scorer.Len())
	fmt.Printf("Z score:      %+.6g\n", z)
	fmt.Printf("Upper tail:   %.6f\n", tails.Upper)
	fmt.Printf("Lower tail:   %.6f\n", tails.Lower)
	fmt.Printf("Two-sided:    %.6f\n", tails.TwoSided)
}
