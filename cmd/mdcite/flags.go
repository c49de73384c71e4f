package main

import (
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"
)

// Flag parsing errors.
var (
	ErrNoDocument = errors.New("no document specified (use --doc)")
	ErrNoAction   = errors.New("nothing to do (use --passage, --search, or --find)")
	ErrAmbiguous  = errors.New("--passage, --search, and --find are mutually exclusive")
)

// cliFlags holds all parsed command-line flags.
type cliFlags struct {
	config string
	doc    string

	passages []string // full pipeline, one extraction per passage
	search   string   // lenient query highlight
	find     string   // context lookup, no rendering

	out          string
	score        float64
	scoreSet     bool
	contextChars int
	contextLines int
	viewportW    int
	viewportH    int
	workers      int

	quiet   bool
	verbose bool
	version bool
}

// parseFlags parses args (without the program name) into cliFlags.
func parseFlags(args []string) (*cliFlags, error) {
	f := &cliFlags{}

	fs := flag.NewFlagSet("mdcite", flag.ContinueOnError)
	fs.SortFlags = false

	fs.StringVarP(&f.config, "config", "c", "", "path to YAML config file")
	fs.StringVarP(&f.doc, "doc", "d", "", "path to the markdown document")
	fs.StringArrayVarP(&f.passages, "passage", "p", nil, "passage to locate and highlight (repeatable)")
	fs.StringVar(&f.search, "search", "", "short query to find and highlight leniently")
	fs.StringVar(&f.find, "find", "", "query to locate and print with context (no rendering)")
	fs.StringVarP(&f.out, "out", "o", "", "output image path (default: temp file)")
	fs.Float64Var(&f.score, "score", 0, "score to draw next to the bounding box")
	fs.IntVar(&f.contextChars, "context-chars", 0, "characters of context on each side of the passage")
	fs.IntVar(&f.contextLines, "context-lines", 0, "lines of context for --find and --search")
	fs.IntVar(&f.viewportW, "viewport-width", 0, "browser viewport width in pixels")
	fs.IntVar(&f.viewportH, "viewport-height", 0, "browser viewport height in pixels")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel extractions (0 = auto)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "log errors only")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "enable debug logging")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	f.scoreSet = fs.Changed("score")

	if len(fs.Args()) > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if f.version {
		return f, nil
	}
	return f, f.validate()
}

// validate checks flag combinations.
func (f *cliFlags) validate() error {
	if f.doc == "" {
		return ErrNoDocument
	}

	actions := 0
	if len(f.passages) > 0 {
		actions++
	}
	if f.search != "" {
		actions++
	}
	if f.find != "" {
		actions++
	}
	switch actions {
	case 0:
		return ErrNoAction
	case 1:
		return nil
	default:
		return ErrAmbiguous
	}
}

// scorePtr returns the score flag as a pointer, nil when unset.
func (f *cliFlags) scorePtr() *float64 {
	if !f.scoreSet {
		return nil
	}
	s := f.score
	return &s
}
