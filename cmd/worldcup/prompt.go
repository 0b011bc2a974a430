package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/go-andiamo/splitter"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/Dosada05/worldcup/brackets"
	"github.com/Dosada05/worldcup/models"
)

type commandKind int

const (
	cmdPick commandKind = iota
	cmdUndo
	cmdRestart
	cmdStatus
	cmdHelp
	cmdQuit
)

type command struct {
	kind commandKind
	// arg is the pick target.
	arg string
	// size for restart; zero keeps the current size.
	size int
}

var (
	errEmptyCommand = errors.New("empty command")
	errNoMatch      = errors.New("no item matches")
	errAmbiguous    = errors.New("input matches both items, be more specific")
)

// Кавычки позволяют выбирать по названию с пробелами: pick "Green Tea"
var spaceSplitter, _ = splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)

func splitLine(line string) ([]string, error) {
	raw, err := spaceSplitter.Split(strings.TrimSpace(line))
	if err != nil {
		return nil, err
	}
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(strings.Trim(p, "\"“”"))
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts, nil
}

func parseCommand(line string) (command, error) {
	parts, err := splitLine(line)
	if err != nil {
		return command{}, fmt.Errorf("cannot parse input: %w", err)
	}
	if len(parts) == 0 {
		return command{}, errEmptyCommand
	}

	switch strings.ToLower(parts[0]) {
	case "undo", "u":
		return command{kind: cmdUndo}, nil
	case "restart", "r":
		cmd := command{kind: cmdRestart}
		if len(parts) > 1 {
			n, err := strconv.Atoi(parts[1])
			if err != nil || n <= 0 {
				return command{}, fmt.Errorf("invalid bracket size %q", parts[1])
			}
			cmd.size = n
		}
		return cmd, nil
	case "status", "s":
		return command{kind: cmdStatus}, nil
	case "help", "?":
		return command{kind: cmdHelp}, nil
	case "quit", "exit", "q":
		return command{kind: cmdQuit}, nil
	case "pick", "p":
		if len(parts) < 2 {
			return command{}, errors.New("pick needs an item: a, b or a title")
		}
		return command{kind: cmdPick, arg: strings.Join(parts[1:], " ")}, nil
	}
	// Всё остальное считаем выбором по названию
	return command{kind: cmdPick, arg: strings.Join(parts, " ")}, nil
}

// resolvePick maps user input to one side of m: "a"/"1", "b"/"2",
// an exact title or the closest fuzzy title match.
func resolvePick(m *models.Match, input string) (*models.Item, error) {
	if m == nil || !m.IsPlayable() {
		return nil, errors.New("no match to decide")
	}
	in := strings.ToLower(strings.TrimSpace(input))
	switch in {
	case "a", "1":
		return m.ItemA, nil
	case "b", "2":
		return m.ItemB, nil
	}

	sides := []*models.Item{m.ItemA, m.ItemB}
	for _, it := range sides {
		if strings.EqualFold(it.Title, input) || strings.EqualFold(it.ID, input) {
			return it, nil
		}
	}

	targets := []string{m.ItemA.Title, m.ItemB.Title}
	ranks := fuzzy.RankFindNormalizedFold(input, targets)
	if len(ranks) == 0 {
		return nil, fmt.Errorf("%w %q", errNoMatch, input)
	}
	sort.Sort(ranks)
	if len(ranks) > 1 && ranks[0].Distance == ranks[1].Distance {
		return nil, errAmbiguous
	}
	return sides[ranks[0].OriginalIndex], nil
}

func printMatch(w io.Writer, m *models.Match, p models.Progress) {
	fmt.Fprintf(w, "\n%s, match %d (%d/%d, %.0f%%)\n",
		brackets.RoundName(m.Round, p.TotalRounds), m.MatchNumber,
		p.CurrentMatchIndex, p.TotalMatches, p.Percentage)
	fmt.Fprintf(w, "  [a] %s\n  [b] %s\n", m.ItemA.Title, m.ItemB.Title)
}

func printStatistics(w io.Writer, stats *models.WorldcupStatistics, limit int) {
	fmt.Fprintf(w, "\nStatistics over %d plays:\n", stats.TotalPlays)
	items := append([]models.ItemStatistics(nil), stats.Items...)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Championships != items[j].Championships {
			return items[i].Championships > items[j].Championships
		}
		return items[i].WinRate > items[j].WinRate
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	for i, it := range items {
		fmt.Fprintf(w, "%2d. %-24s champion %5.1f%%  win rate %5.1f%%\n",
			i+1, it.Title, it.ChampionshipRate, it.WinRate)
	}
}

const helpText = `Commands:
  a | b | <title>     pick the winner of the current match
  undo                take back the last decision
  restart [size]      start over, optionally with another bracket size
  status              show progress
  quit                leave (pending votes are delivered first)
`
