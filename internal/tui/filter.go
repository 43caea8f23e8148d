package tui

import (
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jask/alerta/internal/api"
)

// fold lowercases s and strips combining marks so "Tráfico" matches "trafico".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// fuzzyMatchScore reports whether query's runes appear in order in label.
// Prefix and consecutive matches score higher.
func fuzzyMatchScore(label, query string) (bool, int) {
	if query == "" {
		return true, 0
	}
	l := []rune(fold(label))
	q := []rune(fold(query))
	if len(q) == 0 {
		return true, 0
	}

	matchIdx := make([]int, 0, len(q))
	from := 0
	for _, ch := range q {
		found := false
		for j := from; j < len(l); j++ {
			if l[j] == ch {
				matchIdx = append(matchIdx, j)
				from = j + 1
				found = true
				break
			}
		}
		if !found {
			return false, 0
		}
	}

	score := len(q)
	if matchIdx[0] == 0 {
		score += 10
	}
	for i := 1; i < len(matchIdx); i++ {
		if matchIdx[i] == matchIdx[i-1]+1 {
			score += 3
		}
	}
	if string(l) == string(q) {
		score += 20
	}
	return true, score
}

// filterChannels keeps channels whose name fuzzily matches query, best first.
// Equal scores fall back to edit distance, then to server order.
func filterChannels(chs []api.Channel, query string) []api.Channel {
	if strings.TrimSpace(query) == "" {
		return append([]api.Channel(nil), chs...)
	}
	type scored struct {
		ch    api.Channel
		score int
		dist  int
		index int
	}
	q := fold(query)
	rows := make([]scored, 0, len(chs))
	for i, ch := range chs {
		ok, score := fuzzyMatchScore(ch.Name, query)
		if !ok {
			continue
		}
		rows = append(rows, scored{ch: ch, score: score, dist: levenshtein.ComputeDistance(fold(ch.Name), q), index: i})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].score != rows[j].score {
			return rows[i].score > rows[j].score
		}
		if rows[i].dist != rows[j].dist {
			return rows[i].dist < rows[j].dist
		}
		return rows[i].index < rows[j].index
	})
	out := make([]api.Channel, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ch)
	}
	return out
}
