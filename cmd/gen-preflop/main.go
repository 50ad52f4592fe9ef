package main

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/schollz/progressbar/v3"

	"github.com/McDic/pokercraft-local/internal/fileutil"
	"github.com/McDic/pokercraft-local/internal/preflop"
)

type CLI struct {
	Output  string `short:"o" default:"hu_preflop_cache.bin" help:"Output file for the cache dump"`
	Workers int    `short:"w" default:"0" help:"Worker count (0 = all cores)"`
	Offset  int    `default:"0" help:"Skip this many matchups (start of a shard)"`
	Limit   int    `short:"l" default:"0" help:"Stop after this many matchups (0 = rest of the list)"`
	Gzip    bool   `short:"z" help:"Wrap the dump in gzip (appends .gz to the output name)"`
	Quiet   bool   `short:"q" help:"Suppress the progress bar"`
}

// shardSize returns how many matchups an offset/limit shard of the full
// canonical list covers.
func shardSize(offset, limit int) int {
	size := preflop.FullRecordCount - offset
	if size < 0 {
		size = 0
	}
	if limit > 0 && limit < size {
		size = limit
	}
	return size
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("gen-preflop"),
		kong.Description("One-shot offline build of the heads-up preflop equity cache."))

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	total := shardSize(cli.Offset, cli.Limit)
	logger.Info("building preflop cache",
		"matchups", total, "offset", cli.Offset, "workers", cli.Workers)
	if total == preflop.FullRecordCount {
		logger.Warn("a full build enumerates C(48,5) boards per matchup; expect a very long run")
	}

	var bar *progressbar.ProgressBar
	if !cli.Quiet {
		bar = progressbar.Default(int64(total), "matchups")
	}

	cache, err := preflop.Build(preflop.BuildOptions{
		Workers: cli.Workers,
		Offset:  cli.Offset,
		Limit:   cli.Limit,
		Progress: func(done, total int) {
			if bar != nil {
				bar.Set(done)
			}
		},
	})
	if err != nil {
		logger.Error("build failed", "error", err)
		ctx.Exit(1)
	}

	data := cache.Dump()
	output := cli.Output
	if cli.Gzip {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(data); err == nil {
			err = zw.Close()
		}
		if err != nil {
			logger.Error("gzip failed", "error", err)
			ctx.Exit(1)
		}
		data = buf.Bytes()
		output += ".gz"
	}

	if err := fileutil.WriteFileAtomic(output, data, 0o644); err != nil {
		logger.Error("write failed", "error", err)
		ctx.Exit(1)
	}
	logger.Info("cache written", "path", output, "records", cache.Len(), "bytes", len(data))
	fmt.Fprintln(os.Stdout, output)
}
