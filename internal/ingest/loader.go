package ingest

import (
	"context"
	"errors"
	"fmt"
	gosync "sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nhle/obra-tracker/internal/model"
)

// Loader runs one ingestion pass over both workbooks.
type Loader struct {
	cfg     model.SourcesConfig
	fetcher Fetcher
	log     *zap.Logger
}

// NewLoader creates a Loader. A nil fetcher uses DefaultFetcher and a nil
// logger discards output.
func NewLoader(cfg model.SourcesConfig, fetcher Fetcher, log *zap.Logger) *Loader {
	if fetcher == nil {
		fetcher = &DefaultFetcher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{cfg: cfg, fetcher: fetcher, log: log}
}

// Load reads both sources concurrently and always returns a usable
// dataset. Source failures are logged and returned as warnings; when the
// material workbook yields no projects the placeholder segments are used.
func (l *Loader) Load(ctx context.Context) (*Dataset, []error) {
	timeout := time.Duration(l.cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		mu       gosync.Mutex
		warnings []error
		projects []model.Project
		dates    StageDates
	)
	warn := func(source string, err error) {
		l.log.Warn("source load failed", zap.String("source", source), zap.Error(err))
		mu.Lock()
		warnings = append(warnings, &SourceError{Source: source, Err: err})
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := l.loadMaterial(gctx)
		if err != nil {
			warn("material", err)
			return nil
		}
		projects = p
		return nil
	})
	g.Go(func() error {
		d, err := l.loadERM(gctx)
		if err != nil {
			warn("erm", err)
			return nil
		}
		dates = d
		return nil
	})
	_ = g.Wait()

	fallback := len(projects) == 0
	if fallback {
		l.log.Info("material source empty, using placeholder segments")
		projects = FallbackSegments()
	}
	ds := NewDataset(projects, dates)
	ds.Fallback = fallback

	l.log.Info("dataset loaded",
		zap.Int("segments", len(ds.order)),
		zap.Int("projects", ds.ProjectCount()),
		zap.Int("dated_projects", ds.DatedProjectCount()),
		zap.Bool("fallback", fallback),
		zap.Int("warnings", len(warnings)))
	return ds, warnings
}

func (l *Loader) loadMaterial(ctx context.Context) ([]model.Project, error) {
	rc, err := l.fetcher.Fetch(ctx, l.cfg.Material)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return LoadMaterial(rc)
}

func (l *Loader) loadERM(ctx context.Context) (StageDates, error) {
	rc, err := l.fetcher.Fetch(ctx, l.cfg.ERM)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return LoadStageDates(rc, l.cfg.ERM.Sheet, l.log)
}

// Unavailable reports whether any warning was caused by an unreachable source.
func Unavailable(warnings []error) bool {
	for _, w := range warnings {
		if errors.Is(w, ErrSourceUnavailable) {
			return true
		}
	}
	return false
}

// Describe renders warnings as one-line messages for status bars.
func Describe(warnings []error) []string {
	out := make([]string, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, fmt.Sprint(w))
	}
	return out
}
