// Package pipeline loads a competition season: it fetches every match's
// events, extracts per-player rows and persists them. A match that cannot be
// fetched or decoded is logged and skipped; it never aborts the season.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/pable/go-scout-metrics/internal/extract"
	"github.com/pable/go-scout-metrics/internal/model"
	"github.com/pable/go-scout-metrics/internal/storage"
)

// Source provides match lists and event streams.
type Source interface {
	Matches(ctx context.Context, competitionID, seasonID int) ([]model.MatchInfo, error)
	Events(ctx context.Context, matchID int) ([]model.Event, []model.Issue, error)
}

// Store persists extracted rows. *storage.DB satisfies it.
type Store interface {
	MatchExists(matchID int) (bool, error)
	StoreMatch(info model.MatchInfo, variant model.Variant, rows []model.MatchRow, issues int) error
	InsertLoadRun(r storage.LoadRun) error
}

// Options configures a season load.
type Options struct {
	Workers int
	Variant model.Variant
	Extract extract.Options
	Refresh bool // re-extract matches the store already holds
	Logger  logrus.FieldLogger
}

// Report summarises a load. Rows holds the rows extracted in this run in
// match-list order.
type Report struct {
	RunID   string
	Matches int
	Loaded  int
	Skipped int
	Cached  int
	Issues  int
	Rows    []model.MatchRow
}

type slot struct {
	rows    []model.MatchRow
	issues  int
	skipped bool
	cached  bool
}

// Load runs the season pipeline. Store may be nil, in which case rows are
// only returned. The returned error is non-nil only when the match list
// itself cannot be obtained, the context is cancelled or the store fails.
func Load(ctx context.Context, src Source, store Store, competitionID, seasonID int, opts Options) (Report, error) {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Variant == "" {
		opts.Variant = model.VariantFull
	}
	started := time.Now()
	rep := Report{RunID: uuid.NewString()}
	log = log.WithFields(logrus.Fields{"run_id": rep.RunID, "competition_id": competitionID, "season_id": seasonID})

	matches, err := src.Matches(ctx, competitionID, seasonID)
	if err != nil {
		return rep, fmt.Errorf("list matches: %w", err)
	}
	rep.Matches = len(matches)
	log.WithField("matches", len(matches)).Info("loading season")

	slots := make([]slot, len(matches))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, m := range matches {
		g.Go(func() error {
			return loadMatch(gctx, src, store, m, opts, log, &slots[i])
		})
	}
	if err := g.Wait(); err != nil {
		return rep, err
	}

	for _, s := range slots {
		switch {
		case s.skipped:
			rep.Skipped++
		case s.cached:
			rep.Cached++
		default:
			rep.Loaded++
			rep.Issues += s.issues
			rep.Rows = append(rep.Rows, s.rows...)
		}
	}

	if store != nil {
		run := storage.LoadRun{
			ID: rep.RunID, CompetitionID: competitionID, SeasonID: seasonID,
			StartedAt: started, FinishedAt: time.Now(),
			Loaded: rep.Loaded, Skipped: rep.Skipped, Cached: rep.Cached, Issues: rep.Issues,
		}
		if err := store.InsertLoadRun(run); err != nil {
			return rep, fmt.Errorf("record load run: %w", err)
		}
	}
	log.WithFields(logrus.Fields{
		"loaded": rep.Loaded, "skipped": rep.Skipped, "cached": rep.Cached, "issues": rep.Issues,
	}).Info("season loaded")
	return rep, nil
}

func loadMatch(ctx context.Context, src Source, store Store, m model.MatchInfo, opts Options, log logrus.FieldLogger, out *slot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	mlog := log.WithField("match_id", m.MatchID)

	if store != nil && !opts.Refresh {
		exists, err := store.MatchExists(m.MatchID)
		if err != nil {
			return fmt.Errorf("check match %d: %w", m.MatchID, err)
		}
		if exists {
			mlog.Debug("match already stored")
			out.cached = true
			return nil
		}
	}

	events, issues, err := src.Events(ctx, m.MatchID)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		mlog.WithError(err).Warn("skipping match")
		out.skipped = true
		return nil
	}

	res := extract.Match(events, opts.Extract)
	issues = append(issues, res.Issues...)
	for _, is := range issues {
		mlog.WithFields(logrus.Fields{
			"event_index": is.EventIndex, "player": is.Player, "field": is.Field, "kind": is.Kind.String(),
		}).WithError(is.Err).Warn("event issue")
	}

	rows := make([]model.MatchRow, 0, len(res.Stats))
	for i := range res.Stats {
		rows = append(rows, res.Stats[i].Row(opts.Variant))
	}
	if store != nil {
		if err := store.StoreMatch(m, opts.Variant, rows, len(issues)); err != nil {
			return fmt.Errorf("store match %d: %w", m.MatchID, err)
		}
	}
	out.rows, out.issues = rows, len(issues)
	mlog.WithFields(logrus.Fields{"events": len(events), "players": len(rows)}).Debug("match extracted")
	return nil
}
