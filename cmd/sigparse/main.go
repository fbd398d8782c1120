// Package main implements the sigparse CLI tool: parse medication sigs into
// FHIR dosages, render them as text, suggest completions, and project
// administration schedules.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	sig "github.com/gofhir/sig"
	"github.com/gofhir/sig/engine"
	"github.com/gofhir/sig/schedule"
)

const usage = `sigparse - medication sig parser

Usage:
  sigparse [options] <sig>...
  sigparse [options] -           (read sigs from stdin, one per line)
  echo "1 tab po bid" | sigparse -

Examples:
  sigparse "1 tab po bid"
  sigparse -output json "2 puffs inh q4h prn wheezing"
  sigparse -locale th "1x3 pc"
  sigparse -suggest "1 t"
  sigparse -next -tz America/New_York "1 tab po q6h"
  cat sigs.txt | sigparse -output json -

Options:
`

// OutputFormat specifies the output format.
type OutputFormat string

// Output format constants.
const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
)

// Config holds CLI configuration.
type Config struct {
	Output      OutputFormat
	Locale      string
	DoseForm    string
	Route       string
	Strict      bool
	SmartMeals  bool
	Suggest     bool
	Next        bool
	TimeZone    string
	Limit       int
	Workers     int
	ShowVersion bool
	Help        bool
	Sigs        []string
}

// ParseOutput is the JSON output structure for one sig.
type ParseOutput struct {
	Input     string          `json:"input"`
	ShortText string          `json:"shortText,omitempty"`
	LongText  string          `json:"longText,omitempty"`
	Dosage    json.RawMessage `json:"dosage,omitempty"`
	Warnings  []string        `json:"warnings,omitempty"`
	Leftover  []string        `json:"leftover,omitempty"`
	Error     string          `json:"error,omitempty"`
	Duration  string          `json:"duration"`
}

func main() {
	config := parseFlags()

	if config.ShowVersion {
		fmt.Printf("sigparse v%s\n", sig.Version)
		os.Exit(0)
	}
	if config.Help || len(config.Sigs) == 0 {
		flag.Usage()
		os.Exit(0)
	}

	os.Exit(run(config))
}

func parseFlags() *Config {
	config := &Config{Output: OutputText}

	var output string
	flag.StringVar(&output, "output", "text", "Output format: text, json")
	flag.StringVar(&config.Locale, "locale", "en", "Rendering language (BCP 47 tag: en, th)")
	flag.StringVar(&config.DoseForm, "form", "", "Medication dose form for inference (e.g. tablet, eye drops)")
	flag.StringVar(&config.Route, "route", "", "Default route synonym for inference (e.g. po)")
	flag.BoolVar(&config.Strict, "strict", false, "Reject discouraged abbreviations instead of warning")
	flag.BoolVar(&config.SmartMeals, "smart-meals", false, "Expand generic meal codes by daily frequency")
	flag.BoolVar(&config.Suggest, "suggest", false, "Print completions for a partial sig instead of parsing")
	flag.BoolVar(&config.Next, "next", false, "Project upcoming administration times for each sig")
	flag.StringVar(&config.TimeZone, "tz", "", "IANA time zone for -next (required with -next)")
	flag.IntVar(&config.Limit, "limit", 10, "Maximum projected times for -next")
	flag.IntVar(&config.Workers, "workers", 0, "Parallel workers for multi-sig input (0 = one per CPU)")
	flag.BoolVar(&config.ShowVersion, "v", false, "Show version")
	flag.BoolVar(&config.Help, "help", false, "Show help")

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	switch strings.ToLower(output) {
	case "json":
		config.Output = OutputJSON
	default:
		config.Output = OutputText
	}

	for _, arg := range flag.Args() {
		if arg == "-" {
			config.Sigs = append(config.Sigs, readStdinSigs()...)
			continue
		}
		config.Sigs = append(config.Sigs, arg)
	}
	return config
}

func readStdinSigs() []string {
	var sigs []string
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			sigs = append(sigs, line)
		}
	}
	return sigs
}

func run(config *Config) int {
	opts := []sig.Option{
		sig.WithLocale(config.Locale),
		sig.WithAllowDiscouraged(!config.Strict),
		sig.WithSmartMealExpansion(config.SmartMeals),
	}
	if config.DoseForm != "" || config.Route != "" {
		opts = append(opts, sig.WithContext(&sig.MedContext{
			DoseForm:     config.DoseForm,
			DefaultRoute: config.Route,
		}))
	}
	eng := engine.New(opts...)

	if config.Suggest {
		for _, s := range config.Sigs {
			for _, c := range eng.Suggest(s) {
				fmt.Println(c)
			}
		}
		return 0
	}

	hasErrors := false
	outputs := make([]ParseOutput, 0, len(config.Sigs))

	for _, item := range eng.ParseBatch(config.Sigs, config.Workers) {
		out, failed := buildOutput(config, eng, item)
		outputs = append(outputs, out)
		if failed {
			hasErrors = true
		}
	}

	if config.Output == OutputJSON {
		data, _ := json.MarshalIndent(outputs, "", "  ")
		fmt.Println(string(data))
	}
	if hasErrors {
		return 1
	}
	return 0
}

func buildOutput(config *Config, eng *engine.Engine, item engine.BatchItem) (ParseOutput, bool) {
	start := time.Now()
	out := ParseOutput{Input: item.Input}

	if item.Err != nil {
		out.Error = item.Err.Error()
		out.Duration = time.Since(start).Round(time.Microsecond).String()
		if config.Output == OutputText {
			fmt.Printf("== %s ==\nError: %v\n\n", item.Input, item.Err)
		}
		return out, true
	}

	r := item.Result
	out.ShortText = r.ShortText
	out.LongText = r.LongText
	out.Warnings = r.Warnings
	out.Leftover = r.Meta.Leftover
	if data, err := json.Marshal(r.Dosage); err == nil {
		out.Dosage = data
	}
	out.Duration = time.Since(start).Round(time.Microsecond).String()

	var times []string
	var timesErr error
	if config.Next {
		times, timesErr = eng.NextDoses(r.Dosage, schedule.Options{
			TimeZone: config.TimeZone,
			From:     time.Now(),
			Limit:    config.Limit,
		})
		if timesErr != nil {
			out.Error = timesErr.Error()
		}
	}

	if config.Output == OutputText {
		printTextResult(item.Input, r, times, timesErr)
	}
	return out, timesErr != nil
}

func printTextResult(input string, r *engine.Result, times []string, timesErr error) {
	fmt.Printf("== %s ==\n", input)
	fmt.Printf("Short: %s\n", r.ShortText)
	fmt.Printf("Long:  %s\n", r.LongText)
	for _, w := range r.Warnings {
		fmt.Printf("  WARN %s\n", w)
	}
	if len(r.Meta.Leftover) > 0 {
		fmt.Printf("  leftover: %s\n", strings.Join(r.Meta.Leftover, " "))
	}
	if timesErr != nil {
		fmt.Printf("  schedule error: %v\n", timesErr)
	}
	for _, t := range times {
		fmt.Printf("  next: %s\n", t)
	}
	fmt.Println()
}
