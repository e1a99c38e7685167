package scoring

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestRankLeaderboard_OrderAndTies(t *testing.T) {
	base := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	early := base.Add(5 * time.Minute)
	late := base.Add(30 * time.Minute)

	entries := []LeaderboardEntry{
		{ParticipantID: uuid.New(), Name: "slow-tie", Percentage: 80, CompletedAt: &late, Completed: true},
		{ParticipantID: uuid.New(), Name: "low", Percentage: 40, CompletedAt: &early, Completed: true},
		{ParticipantID: uuid.New(), Name: "fast-tie", Percentage: 80, CompletedAt: &early, Completed: true},
		{ParticipantID: uuid.New(), Name: "top", Percentage: 95, CompletedAt: &late, Completed: true},
		{ParticipantID: uuid.New(), Name: "unfinished", Percentage: 80},
	}

	ranked := RankLeaderboard(entries)

	var names []string
	for _, e := range ranked {
		names = append(names, e.Name)
	}
	want := []string{"top", "fast-tie", "slow-tie", "unfinished", "low"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("expected order %v, got %v", want, names)
	}

	for i, e := range ranked {
		if e.Rank != i+1 {
			t.Fatalf("expected rank %d at position %d, got %d", i+1, i, e.Rank)
		}
	}
}

func TestRankLeaderboard_Deterministic(t *testing.T) {
	completed := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	build := func() []LeaderboardEntry {
		return []LeaderboardEntry{
			{ParticipantID: ids[0], Percentage: 70, CompletedAt: &completed},
			{ParticipantID: ids[1], Percentage: 70, CompletedAt: &completed},
			{ParticipantID: ids[2], Percentage: 70, CompletedAt: &completed},
		}
	}

	first := RankLeaderboard(build())
	second := RankLeaderboard(build())

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("re-running produced a different order:\n%v\n%v", first, second)
	}
}
