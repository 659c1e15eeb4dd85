package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// LoadRun records one season load.
type LoadRun struct {
	ID            string
	CompetitionID int
	SeasonID      int
	StartedAt     time.Time
	FinishedAt    time.Time
	Loaded        int
	Skipped       int
	Cached        int // matches already stored and not re-fetched
	Issues        int
}

// InsertLoadRun stores a completed load run.
func (db *DB) InsertLoadRun(r LoadRun) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO load_runs(id, competition_id, season_id, started_at, finished_at,
			loaded, skipped, cached, issues)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.CompetitionID, r.SeasonID,
		r.StartedAt.UTC().Format(time.RFC3339), r.FinishedAt.UTC().Format(time.RFC3339),
		r.Loaded, r.Skipped, r.Cached, r.Issues,
	)
	return err
}

// ListLoadRuns returns the most recent load runs first.
func (db *DB) ListLoadRuns(limit int) ([]LoadRun, error) {
	rows, err := db.conn.Query(`
		SELECT id, competition_id, season_id, started_at, finished_at, loaded, skipped, cached, issues
		FROM load_runs ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LoadRun
	for rows.Next() {
		var r LoadRun
		var started, finished string
		if err := rows.Scan(&r.ID, &r.CompetitionID, &r.SeasonID, &started, &finished,
			&r.Loaded, &r.Skipped, &r.Cached, &r.Issues); err != nil {
			return nil, err
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		r.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Overview holds database-wide counts.
type Overview struct {
	TotalMatches  int
	UniquePlayers int
	UniqueTeams   int
	TotalValues   int
	LoadRuns      int
	EarliestMatch string
	LatestMatch   string
}

// GetDBOverview returns high-level counts across all stored matches.
func (db *DB) GetDBOverview() (Overview, error) {
	var ov Overview
	var earliest, latest sql.NullString
	err := db.conn.QueryRow(`
		SELECT COUNT(1), MIN(match_date), MAX(match_date) FROM matches`).
		Scan(&ov.TotalMatches, &earliest, &latest)
	if err != nil {
		return ov, fmt.Errorf("count matches: %w", err)
	}
	ov.EarliestMatch, ov.LatestMatch = earliest.String, latest.String
	err = db.conn.QueryRow(`
		SELECT COUNT(DISTINCT player), COUNT(DISTINCT team), COUNT(1) FROM player_match_values`).
		Scan(&ov.UniquePlayers, &ov.UniqueTeams, &ov.TotalValues)
	if err != nil {
		return ov, fmt.Errorf("count values: %w", err)
	}
	if err := db.conn.QueryRow(`SELECT COUNT(1) FROM load_runs`).Scan(&ov.LoadRuns); err != nil {
		return ov, fmt.Errorf("count load runs: %w", err)
	}
	return ov, nil
}

// SeasonCount is the number of stored matches for one competition season.
type SeasonCount struct {
	CompetitionID int
	SeasonID      int
	Matches       int
	Players       int
}

// GetSeasonCounts returns stored match and player counts per competition season.
func (db *DB) GetSeasonCounts() ([]SeasonCount, error) {
	rows, err := db.conn.Query(`
		SELECT m.competition_id, m.season_id, COUNT(DISTINCT m.match_id), COUNT(DISTINCT v.player)
		FROM matches m
		LEFT JOIN player_match_values v ON v.match_id = m.match_id
		GROUP BY m.competition_id, m.season_id
		ORDER BY m.competition_id, m.season_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SeasonCount
	for rows.Next() {
		var s SeasonCount
		if err := rows.Scan(&s.CompetitionID, &s.SeasonID, &s.Matches, &s.Players); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// PlayerCount is a player's number of stored appearances.
type PlayerCount struct {
	Player  string
	Team    string
	Matches int
}

// GetTopPlayersByMatches returns the players with the most stored appearances.
func (db *DB) GetTopPlayersByMatches(limit int) ([]PlayerCount, error) {
	rows, err := db.conn.Query(`
		SELECT player, MAX(team), COUNT(DISTINCT match_id) AS n
		FROM player_match_values
		GROUP BY player
		ORDER BY n DESC, player
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PlayerCount
	for rows.Next() {
		var p PlayerCount
		if err := rows.Scan(&p.Player, &p.Team, &p.Matches); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns column names and stringified rows.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			case float64:
				row[i] = fmt.Sprintf("%.4g", x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}
