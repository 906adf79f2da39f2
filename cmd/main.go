// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"pii-guardian/internal/config"
	"pii-guardian/internal/core"
	"pii-guardian/internal/formatters"
	"pii-guardian/internal/help"
	"pii-guardian/internal/parallel"
	"pii-guardian/internal/preprocess"
	"pii-guardian/internal/synthetic"
	"pii-guardian/internal/version"
	"pii-guardian/internal/web"

	_ "pii-guardian/internal/formatters/csv"
	_ "pii-guardian/internal/formatters/json"
	_ "pii-guardian/internal/formatters/text"

	"golang.org/x/term"
)

// exitFoundPII is returned with -fail-on-pii when personal data was
// detected, so CI pipelines can gate on the result.
const exitFoundPII = 3

func main() {
	inputText := flag.String("text", "", "Text to analyze directly")
	inputFile := flag.String("file", "", "Path to input file (.txt, .json request file, or .pdf)")
	configFile := flag.String("config", "", "Path to configuration file (YAML)")
	mode := flag.String("mode", "", "Detection mode: strict, balanced, precise, or a custom mode from the config file")
	outputFormat := flag.String("format", "", "Output format: text, json, csv (default: text)")
	outputFile := flag.String("output", "", "Path to output file (if not specified, output to stdout)")
	verbose := flag.Bool("verbose", false, "Display detailed information for each finding")
	debug := flag.Bool("debug", false, "Enable debug logging of every pipeline stage")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	showValues := flag.Bool("show-values", false, "Display the detected values in findings (hidden by default)")
	workers := flag.Int("workers", 0, "Number of parallel workers for batch inputs (default: from config)")
	recognizerEndpoint := flag.String("recognizer-endpoint", "", "URL of the contextual recognition service")
	noRecognizer := flag.Bool("no-recognizer", false, "Disable the contextual recognition service (regex-only analysis)")
	failOnPII := flag.Bool("fail-on-pii", false, "Exit with a non-zero code when personal data is detected")
	generateCount := flag.Int("generate", 0, "Generate N synthetic labeled requests and exit")
	generateRatio := flag.Float64("pii-ratio", 0.7, "Fraction of generated requests containing personal data")
	generateSeed := flag.Int64("seed", time.Now().UnixNano(), "Seed for synthetic generation")
	serve := flag.Bool("serve", false, "Start the HTTP API instead of analyzing input")
	port := flag.Int("port", 0, "Port for the HTTP API (default: from config)")
	listTypes := flag.Bool("list-types", false, "List detection types and exit")
	helpType := flag.String("help-type", "", "Show detailed help for a detection type")
	listModes := flag.Bool("list-modes", false, "List detection modes and exit")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		return
	}

	if *listTypes || *helpType != "" || *listModes {
		helpSystem := help.NewSystem(*noColor)
		switch {
		case *listTypes:
			helpSystem.ShowTypes()
		case *helpType != "":
			helpSystem.ShowType(*helpType)
		default:
			helpSystem.ShowModes()
		}
		return
	}

	cfg := loadConfiguration(*configFile)
	applyFlagOverrides(cfg, flagOverrides{
		mode:               *mode,
		format:             *outputFormat,
		verbose:            *verbose,
		debug:              *debug,
		noColor:            *noColor,
		workers:            *workers,
		recognizerEndpoint: *recognizerEndpoint,
		noRecognizer:       *noRecognizer,
		port:               *port,
	})

	if *generateCount > 0 {
		if err := runGenerate(*generateCount, *generateRatio, *generateSeed, *outputFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *serve {
		if err := web.NewServer(cfg).Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	docs, err := collectDocuments(*inputText, *inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(docs) == 0 {
		if !isTerminal(os.Stdin) {
			flag.Usage()
			os.Exit(1)
		}
		if err := runInteractive(cfg, *showValues); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	items, err := runDetection(cfg, docs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	options := formatters.FormatterOptions{
		Verbose:    cfg.Defaults.Verbose,
		NoColor:    cfg.Defaults.NoColor || *outputFile != "",
		ShowValues: *showValues,
	}
	output, err := formatters.Export(items, cfg.Defaults.Format, options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := writeOutput(output, *outputFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *failOnPII {
		for _, item := range items {
			if item.Result.HasPII {
				os.Exit(exitFoundPII)
			}
		}
	}
}

// loadConfiguration loads the configuration file or returns default config
func loadConfiguration(configFile string) *config.Config {
	configPath := configFile
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Error loading config file: %v\n", err)
		fmt.Fprintf(os.Stderr, "Using default configuration\n")
		cfg, _ = config.LoadConfig("")
	}
	return cfg
}

type flagOverrides struct {
	mode               string
	format             string
	verbose            bool
	debug              bool
	noColor            bool
	workers            int
	recognizerEndpoint string
	noRecognizer       bool
	port               int
}

// applyFlagOverrides lets explicitly set flags win over config file values.
func applyFlagOverrides(cfg *config.Config, overrides flagOverrides) {
	if isFlagSet("mode") && overrides.mode != "" {
		cfg.Defaults.Mode = overrides.mode
	}
	if isFlagSet("format") && overrides.format != "" {
		cfg.Defaults.Format = overrides.format
	}
	if isFlagSet("verbose") {
		cfg.Defaults.Verbose = overrides.verbose
	}
	if isFlagSet("debug") {
		cfg.Defaults.Debug = overrides.debug
	}
	if isFlagSet("no-color") {
		cfg.Defaults.NoColor = overrides.noColor
	}
	if isFlagSet("workers") && overrides.workers > 0 {
		cfg.Defaults.Workers = overrides.workers
	}
	if isFlagSet("recognizer-endpoint") {
		cfg.Recognizer.Endpoint = overrides.recognizerEndpoint
	}
	if isFlagSet("no-recognizer") {
		cfg.Recognizer.Disabled = overrides.noRecognizer
	}
	if isFlagSet("port") && overrides.port > 0 {
		cfg.Server.Port = overrides.port
	}
}

// collectDocuments resolves the input source: direct text, a file, or
// piped stdin.
func collectDocuments(inputText, inputFile string) ([]preprocess.Document, error) {
	if inputText != "" && inputFile != "" {
		return nil, fmt.Errorf("use either -text or -file, not both")
	}
	if inputText != "" {
		return []preprocess.Document{{ID: "text", Text: inputText}}, nil
	}
	if inputFile != "" {
		return preprocess.Load(inputFile)
	}
	if isTerminal(os.Stdin) {
		return nil, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, nil
	}
	return []preprocess.Document{{ID: "stdin", Text: text}}, nil
}

// runDetection analyzes documents, in parallel when there is more than one.
func runDetection(cfg *config.Config, docs []preprocess.Document) ([]formatters.Item, error) {
	det, err := core.BuildDetector(cfg, cfg.Defaults.Mode, os.Stderr)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()

	if len(docs) == 1 {
		result, err := det.Detect(ctx, docs[0].Text)
		if err != nil {
			return nil, fmt.Errorf("analyzing %s: %w", docs[0].ID, err)
		}
		return []formatters.Item{{ID: docs[0].ID, Result: result}}, nil
	}

	batch := make([]parallel.Item, len(docs))
	for i, doc := range docs {
		batch[i] = parallel.Item{ID: doc.ID, Text: doc.Text}
	}
	processor := parallel.NewBatchProcessor(det, parallel.WithWorkers(cfg.Defaults.Workers))

	items := make([]formatters.Item, 0, len(docs))
	for _, res := range processor.Process(ctx, batch) {
		if res.Err != nil {
			return nil, fmt.Errorf("analyzing %s: %w", res.ID, res.Err)
		}
		items = append(items, formatters.Item{ID: res.ID, Result: res.Result})
	}
	return items, nil
}

// runInteractive reads request texts line by line from the terminal and
// prints the decision for each one. An empty line or EOF ends the session.
func runInteractive(cfg *config.Config, showValues bool) error {
	det, err := core.BuildDetector(cfg, cfg.Defaults.Mode, os.Stderr)
	if err != nil {
		return err
	}

	options := formatters.FormatterOptions{
		Verbose:    cfg.Defaults.Verbose,
		NoColor:    cfg.Defaults.NoColor,
		ShowValues: showValues,
	}

	fmt.Printf("pii-guardian %s interactive mode (mode: %s). Empty line to exit.\n",
		version.Short(), cfg.Defaults.Mode)

	scanner := bufio.NewScanner(os.Stdin)
	ctx := context.Background()
	for n := 1; ; n++ {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			break
		}

		result, err := det.Detect(ctx, text)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		items := []formatters.Item{{ID: fmt.Sprintf("entrada-%d", n), Result: result}}
		output, err := formatters.Export(items, cfg.Defaults.Format, options)
		if err != nil {
			return err
		}
		fmt.Print(output)
	}
	return scanner.Err()
}

// runGenerate emits a synthetic labeled dataset as JSON.
func runGenerate(count int, piiRatio float64, seed int64, outputFile string) error {
	if piiRatio < 0 || piiRatio > 1 {
		return fmt.Errorf("pii-ratio must be between 0 and 1, got %g", piiRatio)
	}
	records := synthetic.NewGenerator(seed).Dataset(count, piiRatio)

	doc := map[string]any{
		"metadata": map[string]any{
			"generated_at": time.Now().UTC().Format(time.RFC3339),
			"size":         len(records),
			"pii_ratio":    piiRatio,
			"seed":         seed,
		},
		"data": records,
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return writeOutput(string(out)+"\n", outputFile)
}

func writeOutput(output, outputFile string) error {
	if outputFile == "" {
		fmt.Print(output)
		return nil
	}
	if err := os.WriteFile(outputFile, []byte(output), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outputFile, err)
	}
	fmt.Fprintf(os.Stderr, "Results written to %s\n", outputFile)
	return nil
}

// isFlagSet checks if a flag was explicitly set on the command line
func isFlagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isTerminal checks if the file descriptor is a terminal
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
