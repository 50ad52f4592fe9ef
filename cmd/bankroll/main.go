package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/McDic/pokercraft-local/internal/bankroll"
)

type CLI struct {
	Config string `short:"c" help:"HCL config file describing the simulation batch"`

	InitialCapital       float64   `default:"100" help:"Starting bankroll in buy-ins"`
	Returns              []float64 `help:"Relative return samples, e.g. --returns=-1,-1,2,5,-1"`
	MaxSteps             int       `default:"10000" help:"Trajectory length cap"`
	ProfitExitMultiplier float64   `default:"0" help:"Exit once capital reaches this multiple of the start (0 = never)"`
	Simulations          int       `default:"25000" help:"Number of trajectories"`
	Seed                 int64     `default:"42" help:"Batch seed for reproducible counts"`
	Workers              int       `default:"0" help:"Worker count (0 = all cores)"`
}

// fileConfig mirrors bankroll.Config for HCL decoding.
type fileConfig struct {
	InitialCapital       float64   `hcl:"initial_capital"`
	Returns              []float64 `hcl:"returns"`
	MaxSteps             int       `hcl:"max_steps,optional"`
	ProfitExitMultiplier float64   `hcl:"profit_exit_multiplier,optional"`
	Simulations          int       `hcl:"simulations,optional"`
	Seed                 int64     `hcl:"seed,optional"`
}

func loadFileConfig(path string) (bankroll.Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return bankroll.Config{}, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var fc fileConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &fc); diags.HasErrors() {
		return bankroll.Config{}, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg := bankroll.Config{
		InitialCapital:       fc.InitialCapital,
		Returns:              fc.Returns,
		MaxSteps:             fc.MaxSteps,
		ProfitExitMultiplier: fc.ProfitExitMultiplier,
		Simulations:          fc.Simulations,
		Seed:                 fc.Seed,
	}
	if cfg.MaxSteps == 0 {
		cfg.MaxSteps = 10_000
	}
	if cfg.Simulations == 0 {
		cfg.Simulations = 25_000
	}
	return cfg, nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("bankroll"),
		kong.Description("Monte-Carlo bankruptcy simulation over an empirical return distribution."))

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	var cfg bankroll.Config
	if cli.Config != "" {
		var err error
		cfg, err = loadFileConfig(cli.Config)
		if err != nil {
			logger.Error("config load failed", "error", err)
			ctx.Exit(1)
		}
	} else {
		cfg = bankroll.Config{
			InitialCapital:       cli.InitialCapital,
			Returns:              cli.Returns,
			MaxSteps:             cli.MaxSteps,
			ProfitExitMultiplier: cli.ProfitExitMultiplier,
			Simulations:          cli.Simulations,
			Seed:                 cli.Seed,
		}
	}
	cfg.Workers = cli.Workers

	result, err := bankroll.Simulate(cfg)
	if err != nil {
		logger.Error("simulation failed", "error", err)
		ctx.Exit(1)
	}

	logger.Info("batch complete",
		"simulations", result.Simulations,
		"seed", cfg.Seed)
	fmt.Printf("Bankruptcy rate: %.4f%% (%d)\n", result.BankruptcyRate()*100, result.Bankrupt)
	fmt.Printf("Survival rate:   %.4f%% (%d)\n", result.SurvivalRate()*100, result.Survived)
	fmt.Printf("Profitable rate: %.4f%% (%d)\n", result.ProfitableRate()*100, result.ProfitExited)
	if result.Bankrupt > 0 {
		fmt.Printf("Mean bust step:  %.1f\n", result.MeanBustStep())
	}
	if result.Survived+result.ProfitExited > 0 {
		fmt.Printf("Mean final multiple: %.3fx\n", result.MeanFinalMultiple())
	}
}
