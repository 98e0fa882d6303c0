// Command fingerprinter is the CLI driver: build a reference index,
// identify a query clip, evaluate a query set against ground truth,
// search for good pipeline parameters, record from the microphone, or
// print catalog stats.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ben-hayes/audio-fingerprinter/internal/status"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  fingerprinter build    -dir <reference-wavs>")
	fmt.Println("  fingerprinter identify -file <query.wav>")
	fmt.Println("  fingerprinter evaluate -queries <query-wavs>")
	fmt.Println("  fingerprinter search   -train <reference-wavs> -queries <query-wavs>")
	fmt.Println("  fingerprinter record   [-duration 5s] [-out clip.wav]")
	fmt.Println("  fingerprinter stats")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg := loadConfig()
	reporter := status.Reporter(status.NewTerminalReporter())
	ctx := context.Background()

	var err error
	switch os.Args[1] {
	case "build":
		err = runBuild(ctx, cfg, reporter, os.Args[2:])
	case "identify":
		err = runIdentify(ctx, cfg, reporter, os.Args[2:])
	case "evaluate":
		err = runEvaluate(ctx, cfg, reporter, os.Args[2:])
	case "search":
		err = runSearch(ctx, cfg, reporter, os.Args[2:])
	case "record":
		err = runRecord(ctx, cfg, reporter, os.Args[2:])
	case "stats":
		err = runStats(ctx, cfg, reporter, os.Args[2:])
	default:
		fmt.Printf("unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	if err != nil {
		reporter.Track("command.failed", map[string]any{"command": os.Args[1], "error": err.Error()})
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
