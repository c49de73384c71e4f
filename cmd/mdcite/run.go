package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	mdcite "github.com/kweiss/go-mdcite"
	"github.com/kweiss/go-mdcite/internal/config"
)

// run dispatches the single action selected by the flags.
func run(ctx context.Context, flags *cliFlags) error {
	cfg, err := config.Load(flags.config)
	if err != nil {
		return err
	}

	opts := buildOptions(flags, cfg)

	switch {
	case flags.find != "":
		return runFind(flags, opts)
	case flags.search != "":
		return runSearch(ctx, flags, cfg, opts)
	default:
		return runExtract(ctx, flags, cfg, opts)
	}
}

// buildOptions merges flags over config into service options.
// Flags win; zero values fall through to library defaults.
func buildOptions(flags *cliFlags, cfg config.Config) []mdcite.Option {
	var opts []mdcite.Option

	if n := firstPositive(flags.contextChars, cfg.Context.Chars); n > 0 {
		opts = append(opts, mdcite.WithContextChars(n))
	}
	if n := firstPositive(flags.contextLines, cfg.Context.Lines); n > 0 {
		opts = append(opts, mdcite.WithContextLines(n))
	}
	if cfg.Render.TimeoutSec > 0 {
		opts = append(opts, mdcite.WithTimeout(time.Duration(cfg.Render.TimeoutSec)*time.Second))
	}

	w := firstPositive(flags.viewportW, cfg.Render.ViewportWidth)
	h := firstPositive(flags.viewportH, cfg.Render.ViewportHeight)
	if w > 0 || h > 0 {
		vp := mdcite.DefaultViewport()
		if w > 0 {
			vp.Width = w
		}
		if h > 0 {
			vp.Height = h
		}
		opts = append(opts, mdcite.WithViewport(vp))
	}

	return opts
}

// runFind prints the query's context to stdout. No browser is started.
func runFind(flags *cliFlags, opts []mdcite.Option) error {
	svc := mdcite.New(opts...)
	defer func() { _ = svc.Close() }()

	text, err := svc.FindContext(flags.doc, flags.find, flags.contextLines)
	if err != nil {
		return err
	}

	fmt.Println(text)
	return nil
}

// runSearch highlights the surroundings of a short free-text query.
func runSearch(ctx context.Context, flags *cliFlags, cfg config.Config, opts []mdcite.Option) error {
	svc := mdcite.New(opts...)
	defer func() { _ = svc.Close() }()

	out := resolveOutputPath(flags.out, cfg, flags.doc, 0, 1)

	start := time.Now()
	path, err := svc.SearchAndHighlight(ctx, flags.doc, flags.search, out, flags.scorePtr())
	if err != nil {
		return err
	}

	log.Info().Str("out", path).Dur("took", time.Since(start)).Msg("wrote citation image")
	fmt.Println(path)
	return nil
}

// runExtract runs the full pipeline for each passage, in parallel over a
// service pool when more than one passage is given.
func runExtract(ctx context.Context, flags *cliFlags, cfg config.Config, opts []mdcite.Option) error {
	total := len(flags.passages)

	workers := mdcite.ResolvePoolSize(firstPositive(flags.workers, cfg.Workers))
	if workers > total {
		workers = total
	}
	log.Debug().Int("workers", workers).Int("passages", total).Msg("starting extraction")

	pool := mdcite.NewServicePool(workers, opts...)
	defer func() { _ = pool.Close() }()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for i, passage := range flags.passages {
		wg.Add(1)
		go func(i int, passage string) {
			defer wg.Done()

			svc := pool.Acquire()
			defer pool.Release(svc)

			out := resolveOutputPath(flags.out, cfg, flags.doc, i, total)

			start := time.Now()
			path, err := svc.ExtractWithHighlight(ctx, mdcite.Input{
				DocumentPath: flags.doc,
				Passage:      passage,
				OutputPath:   out,
				Score:        flags.scorePtr(),
			})
			if err != nil {
				log.Error().Err(err).Int("passage", i+1).Msg("extraction failed")
				mu.Lock()
				errs = append(errs, fmt.Errorf("passage %d: %w", i+1, err))
				mu.Unlock()
				return
			}

			log.Info().Str("out", path).Int("passage", i+1).Dur("took", time.Since(start)).Msg("wrote citation image")
			fmt.Println(path)
		}(i, passage)
	}
	wg.Wait()

	return errors.Join(errs...)
}

// resolveOutputPath picks the output image path for extraction i of total.
// Priority: explicit --out (indexed when total > 1) > config default
// directory > empty, which makes the library use a temp file.
func resolveOutputPath(out string, cfg config.Config, doc string, i, total int) string {
	if out != "" {
		if total == 1 {
			return out
		}
		ext := filepath.Ext(out)
		return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(out, ext), i+1, ext)
	}

	if cfg.Output.DefaultDir != "" {
		name := strings.TrimSuffix(filepath.Base(doc), filepath.Ext(doc))
		if total == 1 {
			return filepath.Join(cfg.Output.DefaultDir, name+"-cite.png")
		}
		return filepath.Join(cfg.Output.DefaultDir, fmt.Sprintf("%s-cite-%d.png", name, i+1))
	}

	return ""
}

// firstPositive returns the first value greater than zero, or zero.
func firstPositive(vals ...int) int {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}
