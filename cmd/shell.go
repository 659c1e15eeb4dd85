package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-scout-metrics/internal/model"
	"github.com/pable/go-scout-metrics/internal/report"
	"github.com/pable/go-scout-metrics/internal/similarity"
	"github.com/pable/go-scout-metrics/internal/statsbomb"
	"github.com/pable/go-scout-metrics/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

// shellSession keeps the selected season and its table between commands.
type shellSession struct {
	db    *storage.DB
	sel   seasonFlags
	table *model.SeasonTable
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	s := &shellSession{db: db}
	cGreeting.Println("scoutmetrics shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("scoutmetrics")
		if s.table != nil {
			cMuted.Printf("[%d/%d]", s.sel.competition, s.sel.season)
		}
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		cmd, args := tokens[0], tokens[1:]

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "matches":
			s.matches()
		case "use":
			s.use(args)
		case "season":
			s.season(args)
		case "player":
			s.player(strings.Join(args, " "))
		case "similar":
			s.similar(strings.Join(args, " "))
		case "role":
			s.role(args)
		case "summary":
			if err := runSummary(nil, nil); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", cmd)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"matches", "list all stored matches"},
		{"use <comp> <season> | <catalog name>", "select a season and build its table"},
		{"season [sort-column]", "print the selected season table"},
		{"player <name>", "scouting report for a player"},
		{"similar <name>", "players most similar to a player"},
		{"role <role>", "rank players for a role preset"},
		{"summary", "database overview"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-40s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func (s *shellSession) matches() {
	matches, err := s.db.ListMatches(0, 0)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(matches) == 0 {
		cMuted.Println("No matches stored yet.")
		return
	}
	report.PrintMatches(os.Stdout, matches)
}

func (s *shellSession) use(args []string) {
	var sel seasonFlags
	if len(args) == 2 {
		comp, err1 := strconv.Atoi(args[0])
		sea, err2 := strconv.Atoi(args[1])
		if err1 == nil && err2 == nil {
			sel.competition, sel.season = comp, sea
		}
	}
	if sel.competition == 0 {
		e, ok := statsbomb.LookupCatalog(strings.Join(args, " "))
		if !ok {
			cError.Fprintln(os.Stderr, "usage: use <competition-id> <season-id> | use <catalog name>")
			return
		}
		sel.competition, sel.season = e.CompetitionID, e.SeasonID
	}
	t, err := loadTable(s.db, &sel)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(t.Rows) == 0 {
		cWarn.Fprintf(os.Stderr, "no players with %d+ matches in competition %d, season %d\n", sel.min(), sel.competition, sel.season)
		return
	}
	s.sel, s.table = sel, t
	fmt.Printf("%d players in competition %d, season %d\n", len(t.Rows), sel.competition, sel.season)
}

func (s *shellSession) ready() bool {
	if s.table == nil {
		cWarn.Fprintln(os.Stderr, "no season selected, run 'use' first")
		return false
	}
	return true
}

func (s *shellSession) season(args []string) {
	if !s.ready() {
		return
	}
	sortBy := "efficiency_score"
	if len(args) > 0 {
		sortBy = args[0]
	}
	report.SortBy(s.table, sortBy)
	report.PrintSeasonTable(os.Stdout, s.table, report.DefaultSeasonColumns, 20)
}

func (s *shellSession) player(name string) {
	if !s.ready() {
		return
	}
	if name == "" {
		cError.Fprintln(os.Stderr, "usage: player <name>")
		return
	}
	sc, err := report.BuildScouting(s.table, name)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintScouting(os.Stdout, sc)
}

func (s *shellSession) similar(name string) {
	if !s.ready() {
		return
	}
	if name == "" {
		cError.Fprintln(os.Stderr, "usage: similar <name>")
		return
	}
	matches, err := similarity.SimilarTo(s.table, name, similarity.DefaultOptions())
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintSimilar(os.Stdout, "Players similar to "+name, "SIMILARITY", matches)
}

func (s *shellSession) role(args []string) {
	if !s.ready() {
		return
	}
	if len(args) != 1 {
		cError.Fprintf(os.Stderr, "usage: role <%s>\n", strings.Join(similarity.RoleNames(), "|"))
		return
	}
	opts := similarity.DefaultOptions()
	opts.MinMatches = s.sel.min()
	matches, err := similarity.MatchRole(s.table, args[0], opts)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintSimilar(os.Stdout, "Best fits for role "+args[0], "MATCH%", matches)
}
