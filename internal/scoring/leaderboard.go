package scoring

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LeaderboardEntry is one ranked row in the organizer-facing leaderboard.
type LeaderboardEntry struct {
	Rank          int        `json:"rank"`
	ParticipantID uuid.UUID  `json:"participant_id"`
	Name          string     `json:"name"`
	TotalScore    float64    `json:"total_score"`
	MaxScore      float64    `json:"max_score"`
	Percentage    int        `json:"percentage"`
	Grade         string     `json:"grade"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	Completed     bool       `json:"completed"`
}

// RankLeaderboard sorts entries descending by percentage, breaking ties by
// earlier completion time (first to finish ranks higher) and finally by
// participant id, so repeated calls on unchanged data produce the same
// order. Ranks are assigned 1..n after sorting.
func RankLeaderboard(entries []LeaderboardEntry) []LeaderboardEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := &entries[i], &entries[j]
		if a.Percentage != b.Percentage {
			return a.Percentage > b.Percentage
		}
		switch {
		case a.CompletedAt != nil && b.CompletedAt != nil:
			if !a.CompletedAt.Equal(*b.CompletedAt) {
				return a.CompletedAt.Before(*b.CompletedAt)
			}
		case a.CompletedAt != nil:
			return true
		case b.CompletedAt != nil:
			return false
		}
		return strings.Compare(a.ParticipantID.String(), b.ParticipantID.String()) < 0
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
