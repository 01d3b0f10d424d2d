package services

import (
	"fmt"
	"math"
	"sort"

	"github.com/dennisfurrer/rrsb-scoreboard-be/models"
)

// The functions in this file are the read-side computation over a fetched set
// of match records: top-K break ranking, career rollups, and deduplicated
// history. They never touch the database; the service layer fetches the
// scoped records and hands them in.

// rankHighBreaks builds the per-player break leaderboard from both slots of
// every match. Breaks are merged across matches per player, sorted descending
// (stable, so ties keep the order they were played in) and truncated to
// limit. Players whose name is excluded or who recorded no breaks are
// omitted. The rows themselves are ordered by each player's ranked break
// list, best first.
func rankHighBreaks(matches []models.Match, limit int, exclude func(string) bool) []models.PlayerBreaks {
	breaksByPlayer := make(map[string][]int)
	var order []string

	collect := func(name string, breaks []int) {
		if name == "" || len(breaks) == 0 {
			return
		}
		if exclude != nil && exclude(name) {
			return
		}
		if _, seen := breaksByPlayer[name]; !seen {
			order = append(order, name)
		}
		breaksByPlayer[name] = append(breaksByPlayer[name], breaks...)
	}

	for _, m := range matches {
		collect(m.Player1Name, m.BreaksPlayer1)
		collect(m.Player2Name, m.BreaksPlayer2)
	}

	rows := make([]models.PlayerBreaks, 0, len(order))
	for _, name := range order {
		rows = append(rows, models.PlayerBreaks{
			Name:       name,
			HighBreaks: topBreaks(breaksByPlayer[name], limit),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		switch cmp := compareBreakLists(rows[i].HighBreaks, rows[j].HighBreaks); {
		case cmp != 0:
			return cmp > 0
		default:
			return rows[i].Name < rows[j].Name
		}
	})
	return rows
}

// topBreaks returns a new slice holding the n highest values, descending.
// The sort is stable so equal values keep their input order.
func topBreaks(breaks []int, n int) []int {
	sorted := make([]int, len(breaks))
	copy(sorted, breaks)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i] > sorted[j] })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// compareBreakLists orders two descending break lists: elementwise first,
// then the longer list wins. Returns >0 if a ranks ahead of b.
func compareBreakLists(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] - b[i]
		}
	}
	return len(a) - len(b)
}

// playerSlots returns the named player's own and opposing values for one
// match record, or ok=false when the player is in neither slot.
func playerSlots(m models.Match, name string) (ownFrames, oppFrames int, ownBreaks []int, ownNation string, ok bool) {
	switch name {
	case m.Player1Name:
		return m.FramesPlayer1, m.FramesPlayer2, m.BreaksPlayer1, m.Player1Nation, true
	case m.Player2Name:
		return m.FramesPlayer2, m.FramesPlayer1, m.BreaksPlayer2, m.Player2Nation, true
	}
	return 0, 0, nil, "", false
}

// careerStats rolls up a player's record from their matches, which must be
// ordered newest-first (nationality is the first non-empty code found in that
// order). averageBreakPerMatch is the rounded mean of each match's highest
// own break, over matches where the player recorded at least one break;
// MatchesWithBreaks carries the denominator so callers can tell a real zero
// from no data.
func careerStats(matches []models.Match, name string) models.PlayerStats {
	stats := models.PlayerStats{Name: name, HighBreaks: []int{}}

	var allBreaks []int
	var bestBreakSum int
	for _, m := range matches {
		ownFrames, oppFrames, ownBreaks, ownNation, ok := playerSlots(m, name)
		if !ok {
			continue
		}
		stats.MatchesPlayed++
		stats.FramesWon += ownFrames
		stats.FramesLost += oppFrames
		if stats.Nationality == "" && ownNation != "" {
			stats.Nationality = ownNation
		}
		switch {
		case m.Winner == nil:
			stats.IncompleteMatches++
		case *m.Winner == name:
			stats.MatchesCompleted++
			stats.MatchesWon++
		default:
			stats.MatchesCompleted++
			stats.MatchesLost++
		}
		if len(ownBreaks) > 0 {
			allBreaks = append(allBreaks, ownBreaks...)
			stats.MatchesWithBreaks++
			best := ownBreaks[0]
			for _, b := range ownBreaks[1:] {
				if b > best {
					best = b
				}
			}
			bestBreakSum += best
		}
	}

	stats.HighBreaks = topBreaks(allBreaks, 10)
	if stats.MatchesWithBreaks > 0 {
		stats.AverageBreakPerMatch = int(math.Round(float64(bestBreakSum) / float64(stats.MatchesWithBreaks)))
	}
	return stats
}

// isPhantom reports whether a record is an idle-scoreboard submission: zero
// frames on both sides and no breaks on either side.
func isPhantom(m models.Match) bool {
	return m.FramesPlayer1 == 0 && m.FramesPlayer2 == 0 &&
		len(m.BreaksPlayer1) == 0 && len(m.BreaksPlayer2) == 0
}

// dedupeMatches collapses repeated submissions of the same logical match:
// same slot names, format and frame counts, and the same break values per
// slot compared order-independently. The first occurrence in the incoming
// order is kept, so a newest-first input stays newest-first.
func dedupeMatches(matches []models.Match) []models.Match {
	seen := make(map[string]bool, len(matches))
	out := make([]models.Match, 0, len(matches))
	for _, m := range matches {
		key := dedupeKey(m)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
	}
	return out
}

func dedupeKey(m models.Match) string {
	b1 := make([]int, len(m.BreaksPlayer1))
	copy(b1, m.BreaksPlayer1)
	sort.Ints(b1)
	b2 := make([]int, len(m.BreaksPlayer2))
	copy(b2, m.BreaksPlayer2)
	sort.Ints(b2)
	return fmt.Sprintf("%s|%s|%d|%d|%d|%v|%v",
		m.Player1Name, m.Player2Name, m.BestOf, m.FramesPlayer1, m.FramesPlayer2, b1, b2)
}

const (
	defaultPageSize = 50
	maxPageSize     = 1000
)

// clampPageSize bounds a requested page size to [1,1000], defaulting to 50
// for zero or negative requests.
func clampPageSize(limit int) int {
	switch {
	case limit <= 0:
		return defaultPageSize
	case limit > maxPageSize:
		return maxPageSize
	}
	return limit
}

// paginate computes the [start,end) window of a 1-based page over total
// items, together with the response metadata.
func paginate(total, page, pageSize int) (start, end int, meta models.Pagination) {
	if page < 1 {
		page = 1
	}
	totalPages := 0
	if total > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	start = (page - 1) * pageSize
	if start > total {
		start = total
	}
	end = start + pageSize
	if end > total {
		end = total
	}
	meta = models.Pagination{
		CurrentPage:     page,
		PageSize:        pageSize,
		TotalPages:      totalPages,
		TotalMatches:    total,
		HasNextPage:     page*pageSize < total,
		HasPreviousPage: page > 1,
	}
	return start, end, meta
}
