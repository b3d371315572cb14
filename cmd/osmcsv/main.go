package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	golog "log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/omniscale/osmcsv"
	"github.com/omniscale/osmcsv/clean"
	"github.com/omniscale/osmcsv/config"
	"github.com/omniscale/osmcsv/log"
	"github.com/omniscale/osmcsv/pipeline"
	"github.com/omniscale/osmcsv/reader"
	"github.com/omniscale/osmcsv/stats"
	"github.com/omniscale/osmcsv/writer"
)

func PrintCmds() {
	fmt.Fprintf(os.Stderr, "Usage: %s COMMAND [args]\n\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "Available commands:")
	fmt.Fprintln(os.Stderr, "\tconvert")
	fmt.Fprintln(os.Stderr, "\tversion")
}

func main() {
	golog.SetFlags(0)

	if len(os.Args) <= 1 {
		PrintCmds()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "convert":
		opts, err := config.ParseConvert(os.Args[2:])
		if err != nil {
			os.Exit(parseError(os.Stderr, os.Args[0], err))
		}
		if opts.Httpprofile != "" {
			stats.StartHttpPProf(opts.Httpprofile)
		}
		if err := convert(opts); err != nil {
			log.Fatal("[fatal] ", err)
		}
	case "version":
		fmt.Println(osmcsv.Version)
	default:
		PrintCmds()
		log.Fatalf("[fatal] invalid command: '%s'", os.Args[1])
	}
}

// parseError reports an error of the convert arguments to w and returns the
// exit code. Invalid flags are already reported by the flag package.
func parseError(w io.Writer, cmd string, err error) int {
	if err == flag.ErrHelp {
		return 0
	}
	fmt.Fprintln(w, err)
	if _, ok := err.(config.ConfigErrors); ok {
		config.UsageConvert(w, cmd)
	}
	return 2
}

func convert(opts config.Options) error {
	switch {
	case opts.Quiet:
		log.SetMinLevel(log.LWarn)
	case opts.Debug:
		log.SetMinLevel(log.LDebug)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := reader.Open(opts.Input, opts.Format)
	if err != nil {
		return err
	}
	defer src.Close()

	files, err := writer.Create(opts.OutputDir)
	if err != nil {
		return err
	}

	step := log.Step(fmt.Sprintf("Converting %s to %s", opts.Input, filepath.Clean(opts.OutputDir)))
	p := pipeline.New(clean.NewDefault(), pipeline.Options{
		Validate:         opts.Validate,
		Workers:          opts.Workers,
		ProgressInterval: opts.Progress,
	})
	runErr := p.Run(ctx, src, files)
	if err := files.Close(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return runErr
	}
	step()

	summary := p.Summary()
	summary.Rows = files.Rows()
	log.Println("[info]", summary)
	for _, name := range []string{writer.NodesFile, writer.NodeTagsFile, writer.WaysFile, writer.WayNodesFile, writer.WayTagsFile} {
		log.Printf("[info] %s: %d rows", name, summary.Rows[name])
	}
	if d, ok := src.(*reader.DiffReader); ok && d.Skipped() > 0 {
		log.Printf("[info] skipped %d deletes and relations of the change file", d.Skipped())
	}
	return nil
}
