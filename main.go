package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"
	"strings"
	"time"

	"github.com/hesusruiz/specmark/spec"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// processFile preprocesses inputFileName and, unless dryrun is set, writes
// the HTML to outputFileName.
func processFile(ctx context.Context, inputFileName string, outputFileName string, dryrun bool, debug bool, sugar *zap.SugaredLogger) error {

	doc, err := spec.NewDocumentFromFile(inputFileName, sugar)
	if err != nil {
		return err
	}

	if err := doc.PreprocessContext(ctx); err != nil {
		return err
	}

	// Print stats data if requested
	if debug {
		doc.PrintStats(os.Stdout)
	}

	var out bytes.Buffer
	if err := doc.Finish(&out); err != nil {
		return err
	}

	// Do nothing if flag dryrun was specified
	if dryrun {
		return nil
	}

	return os.WriteFile(outputFileName, out.Bytes(), 0664)
}

// processWatch checks periodically if an input file (inputFileName) has been modified, and if so
// it processes the file and writes the result to the output file (outputFileName).
// Errors in the document are logged and the watch goes on.
func processWatch(ctx context.Context, inputFileName string, outputFileName string, sugar *zap.SugaredLogger) error {

	var oldTimestamp time.Time

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {

		// Get the modified timestamp of the input file
		info, err := os.Stat(inputFileName)
		if err != nil {
			return err
		}

		// If current modified timestamp is newer than the previous timestamp, process the file
		if oldTimestamp.Before(info.ModTime()) {
			oldTimestamp = info.ModTime()
			fmt.Println("************Processing*************")
			if err := processFile(ctx, inputFileName, outputFileName, false, false, sugar); err != nil {
				sugar.Errorw("processing failed", "file", inputFileName, "error", err)
			}
		}

		// Check again in one second
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

	}
}

// outputName returns the input file name with extension .html
func outputName(inputFileName string) string {
	ext := path.Ext(inputFileName)
	if len(ext) == 0 {
		return inputFileName + ".html"
	}
	return strings.TrimSuffix(inputFileName, ext) + ".html"
}

// process is the main entry point of the program
func process(c *cli.Context) error {

	// Default input file name
	var inputFileName = "index.md"

	// Output file name command line parameter
	outputFileName := c.String("output")

	// Dry run
	dryrun := c.Bool("dryrun")

	debug := c.Bool("debug")

	var z *zap.Logger
	var err error

	// Setup the logging system
	if debug {
		z, err = zap.NewDevelopment()
	} else {
		z, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}

	sugar := z.Sugar()
	defer sugar.Sync()

	// Get the input file name
	if c.Args().Present() {
		inputFileName = c.Args().First()
	} else {
		fmt.Printf("no input file provided, using \"%v\"\n", inputFileName)
	}

	// Generate the output file name
	if len(outputFileName) == 0 {
		outputFileName = outputName(inputFileName)
	}

	// Print a message
	if !dryrun {
		fmt.Printf("processing %v and generating %v\n", inputFileName, outputFileName)
	} else {
		fmt.Printf("dry run: processing %v without writing output\n", inputFileName)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	// If the user specified to watch, loop processing the input file when modified
	if c.Bool("watch") {
		return processWatch(ctx, inputFileName, outputFileName, sugar)
	}

	return processFile(ctx, inputFileName, outputFileName, dryrun, debug, sugar)
}

func main() {

	app := &cli.App{
		Name:     "specmark",
		Version:  "v0.1.0",
		Compiled: time.Now(),
		Authors: []*cli.Author{
			{
				Name:  "Jesus Ruiz",
				Email: "hesus.ruiz@gmail.com",
			},
		},
		Usage:     "preprocess a specification document and produce cross-referenced HTML",
		UsageText: "specmark [options] [INPUT_FILE] (default input file is index.md)",
		Action:    process,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write html to `FILE` (default is input file name with extension .html)",
			},
			&cli.BoolFlag{
				Name:    "dryrun",
				Aliases: []string{"n"},
				Usage:   "do not generate output file, just process input file",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "run in debug mode",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "watch the file for changes",
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

}
