package statsbomb

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
)

// CatalogEntry names one competition+season known to be published.
type CatalogEntry struct {
	Name          string
	CompetitionID int
	SeasonID      int
}

// Catalog is the fixed list of competition+season pairs offered to users.
var Catalog = []CatalogEntry{
	{"Premier League 2015/16", 9, 1},
	{"Premier League 2016/17", 9, 2},
	{"Premier League 2017/18", 9, 3},
	{"Premier League 2018/19", 9, 4},
	{"Premier League 2003/04", 9, 27},
	{"Premier League 2020/21", 9, 42},
	{"La Liga 2015/16", 11, 1},
	{"La Liga 2016/17", 11, 2},
	{"La Liga 2018/19", 11, 21},
	{"La Liga 2020/21", 11, 90},
	{"Champions League 2015/16", 16, 1},
	{"Champions League 2016/17", 16, 2},
	{"Champions League 2017/18", 16, 3},
	{"Champions League 2018/19", 16, 4},
	{"Champions League 2020/21", 16, 41},
	{"World Cup 2018", 43, 3},
	{"World Cup 2022", 43, 106},
	{"UEFA Euro 2020", 55, 43},
	{"FA WSL 2018/19", 37, 3},
	{"FA WSL 2019/20", 37, 4},
	{"FA WSL 2020/21", 37, 42},
	{"NWSL 2018", 49, 3},
}

// LookupCatalog finds an entry by case-insensitive name.
func LookupCatalog(name string) (CatalogEntry, bool) {
	for _, e := range Catalog {
		if strings.EqualFold(e.Name, name) {
			return e, true
		}
	}
	return CatalogEntry{}, false
}

// ProbeResult is the availability of one catalog entry.
type ProbeResult struct {
	Entry   CatalogEntry
	Matches int
	Err     error
}

// Prober checks whether a competition+season has a fixture list.
type Prober interface {
	Probe(ctx context.Context, competitionID, seasonID int) (int, error)
}

// ProbeCatalog checks every entry with at most workers requests in flight.
// Results keep catalog order; a failed probe is reported, not returned.
func ProbeCatalog(ctx context.Context, p Prober, entries []CatalogEntry, workers int) []ProbeResult {
	if workers < 1 {
		workers = 1
	}
	results := make([]ProbeResult, len(entries))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, e := range entries {
		g.Go(func() error {
			n, err := p.Probe(ctx, e.CompetitionID, e.SeasonID)
			results[i] = ProbeResult{Entry: e, Matches: n, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
