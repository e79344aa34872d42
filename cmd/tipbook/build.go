package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/nevindra/tipbook"
	"github.com/nevindra/tipbook/internal/config"
	"github.com/nevindra/tipbook/observer"
	"github.com/nevindra/tipbook/render"
	"github.com/nevindra/tipbook/store/sqlite"
)

// buildFlags are the flags shared by the catalog-reading commands.
type buildFlags struct {
	cfg     config.Config
	verbose bool
}

// parseCommon registers and applies -config/-source/-verbose plus any
// extra flags, returning the merged configuration.
func parseCommon(fs *flag.FlagSet, args []string) (buildFlags, error) {
	configPath := fs.String("config", "tipbook.toml", "TOML config file")
	source := fs.String("source", "", "content directory (overrides config)")
	verbose := fs.Bool("v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return buildFlags{}, err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return buildFlags{}, fmt.Errorf("load config: %w", err)
	}
	if *source != "" {
		cfg.Site.SourceDir = *source
	}
	return buildFlags{cfg: cfg, verbose: *verbose}, nil
}

func runBuild(args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	out := fs.String("out", "", "output directory (overrides config)")
	title := fs.String("title", "", "site title (overrides config)")
	force := fs.Bool("force", false, "rewrite pages even when unchanged")
	bf, err := parseCommon(fs, args)
	if err != nil {
		return err
	}
	cfg := bf.cfg
	if *out != "" {
		cfg.Site.OutputDir = *out
	}
	if *title != "" {
		cfg.Site.Title = *title
	}

	ctx := context.Background()
	logger := newLogger(bf.verbose)

	var tracer tipbook.Tracer
	var inst *observer.Instruments
	if cfg.Observer.Enabled {
		var shutdown func(context.Context) error
		inst, shutdown, err = observer.Init(ctx)
		if err != nil {
			return fmt.Errorf("init observer: %w", err)
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(sctx); err != nil {
				logger.Warn("observer shutdown", "err", err)
			}
		}()
		tracer = observer.NewTracer()
	}

	ctx, span := tipbook.StartSpan(ctx, tracer, "build",
		tipbook.StringAttr("source_dir", cfg.Site.SourceDir))
	defer span.End()

	loadStart := time.Now()
	catalog, toc, err := loadCatalog(cfg, logger)
	if err != nil {
		span.Error(err)
		return err
	}
	recordPhase(ctx, inst, "load", loadStart)
	if inst != nil {
		inst.EntriesLoaded.Add(ctx, int64(catalog.TotalEntries()))
	}

	if err := os.MkdirAll(cfg.Site.OutputDir, 0o755); err != nil {
		span.Error(err)
		return fmt.Errorf("create output dir: %w", err)
	}
	store := sqlite.New(filepath.Join(cfg.Site.OutputDir, ".tipbook.db"),
		sqlite.WithLogger(logger))
	defer store.Close()
	if err := store.Init(ctx); err != nil {
		span.Error(err)
		return err
	}

	opts := []render.Option{
		render.WithSiteTitle(cfg.Site.Title),
		render.WithBaseURL(cfg.Site.BaseURL),
		render.WithSourceDir(cfg.Site.SourceDir),
		render.WithLogger(logger),
		render.WithStore(store),
		render.WithTracer(tracer),
	}
	if *force {
		opts = append(opts, render.WithForce())
	}

	renderStart := time.Now()
	res, err := render.New(cfg.Site.OutputDir, opts...).Render(ctx, catalog, toc)
	if err != nil {
		span.Error(err)
		return err
	}
	recordPhase(ctx, inst, "render", renderStart)
	if inst != nil {
		inst.PagesWritten.Add(ctx, int64(res.Written))
		inst.PagesSkipped.Add(ctx, int64(res.Skipped))
	}

	fmt.Printf("built %d pages into %s (%d written, %d unchanged)\n",
		res.Pages, cfg.Site.OutputDir, res.Written, res.Skipped)
	return nil
}

func recordPhase(ctx context.Context, inst *observer.Instruments, phase string, start time.Time) {
	if inst == nil {
		return
	}
	inst.PhaseDuration.Record(ctx, float64(time.Since(start).Milliseconds()),
		metric.WithAttributes(attribute.String("phase", phase)))
}

func runCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	bf, err := parseCommon(fs, args)
	if err != nil {
		return err
	}

	catalog, toc, err := loadCatalog(bf.cfg, newLogger(bf.verbose))
	if err != nil {
		return err
	}

	fmt.Printf("ok: %d sections, %d entries, %d anchors\n",
		len(catalog.Sections), catalog.TotalEntries(), len(toc))
	return nil
}

func runTOC(args []string) error {
	fs := flag.NewFlagSet("toc", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "print the outline as JSON")
	bf, err := parseCommon(fs, args)
	if err != nil {
		return err
	}

	_, toc, err := loadCatalog(bf.cfg, newLogger(bf.verbose))
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(toc)
	}
	for _, item := range toc {
		fmt.Printf("%s%s  #%s\n", strings.Repeat("  ", item.Depth-1), item.Title, item.Anchor)
	}
	if len(toc) == 0 {
		log.Print("outline is empty")
	}
	return nil
}
