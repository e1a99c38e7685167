package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestMoveQuestion(t *testing.T) {
	ids := make([]uuid.UUID, 5)
	for i := range ids {
		ids[i] = uuid.New()
	}

	tests := []struct {
		name     string
		moveID   uuid.UUID
		newOrder int
		want     []int // expected permutation of the original indexes
	}{
		{"move backward", ids[3], 1, []int{3, 0, 1, 2, 4}},
		{"move forward", ids[1], 4, []int{0, 2, 3, 1, 4}},
		{"same position", ids[2], 3, []int{0, 1, 2, 3, 4}},
		{"clamp below one", ids[2], 0, []int{2, 0, 1, 3, 4}},
		{"clamp past end", ids[0], 99, []int{1, 2, 3, 4, 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := make([]uuid.UUID, len(ids))
			copy(input, ids)

			got, err := moveQuestion(input, tc.moveID, tc.newOrder)
			if err != nil {
				t.Fatalf("moveQuestion: %v", err)
			}
			if len(got) != len(ids) {
				t.Fatalf("result length = %d, want %d", len(got), len(ids))
			}
			for i, wantIdx := range tc.want {
				if got[i] != ids[wantIdx] {
					t.Errorf("position %d = %s, want %s", i+1, got[i], ids[wantIdx])
				}
			}
		})
	}
}

func TestMoveQuestion_Permutation(t *testing.T) {
	ids := make([]uuid.UUID, 4)
	seen := make(map[uuid.UUID]bool, len(ids))
	for i := range ids {
		ids[i] = uuid.New()
	}

	got, err := moveQuestion(ids, ids[2], 1)
	if err != nil {
		t.Fatalf("moveQuestion: %v", err)
	}
	for _, id := range got {
		if seen[id] {
			t.Fatalf("duplicate id %s in result", id)
		}
		seen[id] = true
	}
	if len(seen) != len(ids) {
		t.Errorf("result dropped ids: got %d unique, want %d", len(seen), len(ids))
	}
}

func TestMoveQuestion_UnknownID(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	if _, err := moveQuestion(ids, uuid.New(), 1); !errors.Is(err, ErrQuestionNotFound) {
		t.Errorf("err = %v, want ErrQuestionNotFound", err)
	}
}
