package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/pable/go-scout-metrics/internal/model"
)

// MatchExists returns true if rows for the given match are already stored.
func (db *DB) MatchExists(matchID int) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM matches WHERE match_id = ?", matchID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// StoreMatch replaces a match and all of its player rows in one transaction,
// so re-loading a match is idempotent.
func (db *DB) StoreMatch(info model.MatchInfo, variant model.Variant, rows []model.MatchRow, issues int) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM player_match_values WHERE match_id = ?", info.MatchID); err != nil {
		return fmt.Errorf("clear match %d: %w", info.MatchID, err)
	}
	_, err = tx.Exec(`
		INSERT OR REPLACE INTO matches(match_id, competition_id, season_id, match_date,
			home_team, away_team, home_score, away_score, variant, issues, loaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		info.MatchID, info.CompetitionID, info.SeasonID, info.MatchDate,
		info.HomeTeam, info.AwayTeam, info.HomeScore, info.AwayScore,
		string(variant), issues, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert match %d: %w", info.MatchID, err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO player_match_values(
			match_id, player, team, player_ordinal, column_name, column_ordinal, value
		) VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for p, r := range rows {
		for c, col := range r.Columns {
			if _, err := stmt.Exec(info.MatchID, r.Player, r.Team, p, col.Name, c, col.Value); err != nil {
				return fmt.Errorf("insert %s/%s for match %d: %w", r.Player, col.Name, info.MatchID, err)
			}
		}
	}
	return tx.Commit()
}

// ListMatches returns stored matches ordered by date then id. Zero
// competition or season ids match everything.
func (db *DB) ListMatches(competitionID, seasonID int) ([]model.MatchInfo, error) {
	rows, err := db.conn.Query(`
		SELECT match_id, competition_id, season_id, match_date,
		       home_team, away_team, home_score, away_score
		FROM matches
		WHERE (? = 0 OR competition_id = ?) AND (? = 0 OR season_id = ?)
		ORDER BY match_date, match_id`,
		competitionID, competitionID, seasonID, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchInfo
	for rows.Next() {
		var m model.MatchInfo
		if err := rows.Scan(&m.MatchID, &m.CompetitionID, &m.SeasonID, &m.MatchDate,
			&m.HomeTeam, &m.AwayTeam, &m.HomeScore, &m.AwayScore); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// SeasonRows reloads every stored per-match row of a competition season in
// the order it was produced: matches by date, players and columns by first
// appearance.
func (db *DB) SeasonRows(competitionID, seasonID int) ([]model.MatchRow, error) {
	rows, err := db.conn.Query(`
		SELECT v.match_id, v.player, v.team, v.column_name, v.value
		FROM player_match_values v
		JOIN matches m ON m.match_id = v.match_id
		WHERE m.competition_id = ? AND m.season_id = ?
		ORDER BY m.match_date, m.match_id, v.player_ordinal, v.column_ordinal`,
		competitionID, seasonID)
	if err != nil {
		return nil, err
	}
	return scanMatchRows(rows)
}

// PlayerRows returns one player's per-match rows across all stored matches,
// oldest first.
func (db *DB) PlayerRows(player string) ([]model.MatchRow, []model.MatchInfo, error) {
	rows, err := db.conn.Query(`
		SELECT v.match_id, v.player, v.team, v.column_name, v.value
		FROM player_match_values v
		JOIN matches m ON m.match_id = v.match_id
		WHERE v.player = ?
		ORDER BY m.match_date, m.match_id, v.column_ordinal`, player)
	if err != nil {
		return nil, nil, err
	}
	out, err := scanMatchRows(rows)
	if err != nil {
		return nil, nil, err
	}
	infos := make([]model.MatchInfo, 0, len(out))
	for _, r := range out {
		info, err := db.match(r.MatchID)
		if err != nil {
			return nil, nil, err
		}
		infos = append(infos, info)
	}
	return out, infos, nil
}

func (db *DB) match(id int) (model.MatchInfo, error) {
	var m model.MatchInfo
	err := db.conn.QueryRow(`
		SELECT match_id, competition_id, season_id, match_date,
		       home_team, away_team, home_score, away_score
		FROM matches WHERE match_id = ?`, id).
		Scan(&m.MatchID, &m.CompetitionID, &m.SeasonID, &m.MatchDate,
			&m.HomeTeam, &m.AwayTeam, &m.HomeScore, &m.AwayScore)
	if err == sql.ErrNoRows {
		return model.MatchInfo{MatchID: id}, nil
	}
	return m, err
}

// scanMatchRows folds long-form value rows back into MatchRows. Input must be
// grouped by (match, player).
func scanMatchRows(rows *sql.Rows) ([]model.MatchRow, error) {
	defer rows.Close()

	var out []model.MatchRow
	for rows.Next() {
		var (
			matchID      int
			player, team string
			col          model.Column
		)
		if err := rows.Scan(&matchID, &player, &team, &col.Name, &col.Value); err != nil {
			return nil, err
		}
		n := len(out)
		if n == 0 || out[n-1].MatchID != matchID || out[n-1].Player != player {
			out = append(out, model.MatchRow{MatchID: matchID, Player: player, Team: team})
			n++
		}
		out[n-1].Columns = append(out[n-1].Columns, col)
	}
	return out, rows.Err()
}
