package scoring

import (
	"bytes"
	"encoding/csv"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestWriteLeaderboardCSV(t *testing.T) {
	completed := time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC)

	entries := []LeaderboardEntry{
		{Rank: 1, ParticipantID: uuid.New(), Name: "Alice, A.", TotalScore: 3, MaxScore: 4, Percentage: 75, Grade: "C", CompletedAt: &completed, Completed: true},
		{Rank: 2, ParticipantID: uuid.New(), Name: "Bob", TotalScore: 1, MaxScore: 4, Percentage: 25, Grade: "F"},
	}

	var buf bytes.Buffer
	if err := WriteLeaderboardCSV(&buf, entries); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	wantHeader := []string{"Rank", "Participant", "Score", "MaxScore", "Percentage", "Grade", "CompletedAt", "Status"}
	if !reflect.DeepEqual(records[0], wantHeader) {
		t.Fatalf("unexpected header: %v", records[0])
	}
	wantAlice := []string{"1", "Alice, A.", "3", "4", "75", "C", "2026-03-10T10:30:00Z", "completed"}
	if !reflect.DeepEqual(records[1], wantAlice) {
		t.Fatalf("unexpected first row: %v", records[1])
	}
	wantBob := []string{"2", "Bob", "1", "4", "25", "F", "", "in-progress"}
	if !reflect.DeepEqual(records[2], wantBob) {
		t.Fatalf("unexpected second row: %v", records[2])
	}
}
