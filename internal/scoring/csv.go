package scoring

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

var csvHeader = []string{"Rank", "Participant", "Score", "MaxScore", "Percentage", "Grade", "CompletedAt", "Status"}

// WriteLeaderboardCSV serializes ranked leaderboard entries as CSV with
// quoted fields. CompletedAt is RFC3339, empty while still in progress.
func WriteLeaderboardCSV(w io.Writer, entries []LeaderboardEntry) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for i := range entries {
		e := &entries[i]

		completedAt := ""
		if e.CompletedAt != nil {
			completedAt = e.CompletedAt.UTC().Format(time.RFC3339)
		}
		status := "in-progress"
		if e.Completed {
			status = "completed"
		}

		record := []string{
			strconv.Itoa(e.Rank),
			e.Name,
			formatScore(e.TotalScore),
			formatScore(e.MaxScore),
			strconv.Itoa(e.Percentage),
			e.Grade,
			completedAt,
			status,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
