package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/pable/go-scout-metrics/internal/model"
	"github.com/pable/go-scout-metrics/internal/report"
	"github.com/pable/go-scout-metrics/internal/similarity"
)

const analyzeSystemPrompt = `You are a football recruitment analyst. You are given structured data
computed from StatsBomb event data and a question from a scout.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise and concrete about strengths, weaknesses and fit.
- Small samples (few matches played) make per-90 figures unreliable; say so.

Metrics glossary:
- Per-90 columns: season totals divided by matches played, times 90.
- xG: expected goals of the player's shots. xA: xG of the shots their passes set up.
- Pass completion / dribble success / shot accuracy: percentages, 0-100.
- Creativity index: weighted key passes, assists and passes per 90.
- Defensive index: weighted tackles and interceptions per 90.
- Offensive versatility: weighted goals, assists and dribbles per 90.
- Efficiency score: 0-100 composite of capped per-90 output and success rates.
- Similar players: cosine similarity of standardised per-90 profiles, 0-100.`

var (
	analyzeModel  string
	analyzeAPIKey string

	analyzeSel    seasonFlags
	analyzeMatchN int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "AI-powered grounded analysis (requires ANTHROPIC_API_KEY)",
}

var analyzePlayerCmd = &cobra.Command{
	Use:   "player <name> <question>",
	Short: "Analyze a player's season profile with AI",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnalyzePlayer,
}

var analyzeMatchCmd = &cobra.Command{
	Use:   "match <match-id> <question>",
	Short: "Analyze a single stored match with AI",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnalyzeMatch,
}

func init() {
	analyzeCmd.PersistentFlags().StringVar(&analyzeModel, "model", "claude-haiku-4-5-20251001", "Anthropic model to use")
	analyzeCmd.PersistentFlags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")

	analyzeSel.register(analyzePlayerCmd)
	analyzeMatchCmd.Flags().IntVar(&analyzeMatchN, "players", 8, "players per team to include, by touches")

	analyzeCmd.AddCommand(analyzePlayerCmd)
	analyzeCmd.AddCommand(analyzeMatchCmd)
}

func runAnalyzePlayer(cmd *cobra.Command, args []string) error {
	name, question := args[0], args[1]
	return withTable(&analyzeSel, func(t *model.SeasonTable) error {
		contextJSON, err := buildPlayerContext(t, name)
		if err != nil {
			return fmt.Errorf("build context: %w", err)
		}
		return callAnthropic(cmd.Context(), analyzeAPIKey, analyzeModel, contextJSON, question)
	})
}

func runAnalyzeMatch(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid match id %q: %w", args[0], err)
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	var info *model.MatchInfo
	matches, err := db.ListMatches(0, 0)
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	for i := range matches {
		if matches[i].MatchID == id {
			info = &matches[i]
			break
		}
	}
	if info == nil {
		return fmt.Errorf("match %d is not stored (see 'scoutmetrics matches')", id)
	}
	rows, err := db.SeasonRows(info.CompetitionID, info.SeasonID)
	if err != nil {
		return fmt.Errorf("load match rows: %w", err)
	}
	contextJSON, err := buildMatchContext(*info, rows, analyzeMatchN)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}
	return callAnthropic(cmd.Context(), analyzeAPIKey, analyzeModel, contextJSON, args[1])
}

// buildPlayerContext serialises a player's scouting report, playing styles
// and nearest neighbours into compact JSON.
func buildPlayerContext(t *model.SeasonTable, name string) (string, error) {
	s, err := report.BuildScouting(t, name)
	if err != nil {
		return "", err
	}

	type similarEntry struct {
		Player     string  `json:"player"`
		Team       string  `json:"team"`
		Similarity float64 `json:"similarity"`
	}
	opts := similarity.DefaultOptions()
	opts.TopN = 5
	var similar []similarEntry
	// Too few comparable players is not fatal for the analysis.
	if matches, err := similarity.SimilarTo(t, s.Player, opts); err == nil {
		for _, m := range matches {
			similar = append(similar, similarEntry{m.Player, m.Team, round2(m.Score)})
		}
	}

	doc := map[string]any{
		"subject":          "player",
		"player":           s.Player,
		"team":             s.Team,
		"matches_played":   s.MatchesPlayed,
		"players_in_table": len(t.Rows),
		"efficiency_score": round2(s.EfficiencyScore),
		"primary_style":    s.PrimaryStyle,
		"styles":           s.Styles,
		"report":           s.Map(),
		"similar_players":  similar,
	}
	b, err := json.Marshal(doc)
	return string(b), err
}

// matchContextColumns are the per-match columns sent for match analysis.
var matchContextColumns = []string{
	"touches", "goals", "assists", "shots", "shots_on_target", "xG", "xA_total",
	"key_passes", "passes", "passes_completed", "dribbles_completed",
	"tackles", "interceptions", "clearances", "pressures", "fouls_committed",
}

// buildMatchContext serialises one match from the season rows into compact
// JSON, keeping the perPlayer busiest players of each team.
func buildMatchContext(info model.MatchInfo, rows []model.MatchRow, perPlayer int) (string, error) {
	type playerEntry struct {
		Name  string             `json:"name"`
		Team  string             `json:"team"`
		Stats map[string]float64 `json:"stats"`
	}
	byTeam := make(map[string][]playerEntry)
	for _, r := range rows {
		if r.MatchID != info.MatchID {
			continue
		}
		stats := make(map[string]float64, len(matchContextColumns))
		for _, c := range r.Columns {
			for _, want := range matchContextColumns {
				if c.Name == want {
					stats[c.Name] = round2(c.Value)
				}
			}
		}
		byTeam[r.Team] = append(byTeam[r.Team], playerEntry{Name: r.Player, Team: r.Team, Stats: stats})
	}
	if len(byTeam) == 0 {
		return "", fmt.Errorf("no player rows for match %d", info.MatchID)
	}

	var players []playerEntry
	for _, team := range []string{info.HomeTeam, info.AwayTeam} {
		entries := byTeam[team]
		sortDesc(entries, func(e playerEntry) float64 { return e.Stats["touches"] })
		if perPlayer > 0 && len(entries) > perPlayer {
			entries = entries[:perPlayer]
		}
		players = append(players, entries...)
	}

	doc := map[string]any{
		"subject": "match",
		"date":    info.MatchDate,
		"home":    info.HomeTeam,
		"away":    info.AwayTeam,
		"score":   fmt.Sprintf("%d-%d", info.HomeScore, info.AwayScore),
		"players": players,
	}
	b, err := json.Marshal(doc)
	return string(b), err
}

// sortDesc orders entries by key descending, keeping input order on ties.
func sortDesc[T any](entries []T, key func(T) float64) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && key(entries[j]) > key(entries[j-1]); j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
}

// round2 rounds a float64 to 2 decimal places.
func round2(v float64) float64 {
	if v < 0 {
		return -round2(-v)
	}
	return float64(int(v*100+0.5)) / 100
}

// callAnthropic streams a response from the Anthropic API and prints it to stdout.
func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)
	log.WithField("bytes", len(dataJSON)).Debug("sending analysis context")

	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(os.Stdout, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")

	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed, check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}
