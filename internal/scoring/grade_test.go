package scoring

import "testing"

func TestLetterGrade_Boundaries(t *testing.T) {
	tests := []struct {
		percentage int
		want       string
	}{
		{100, "A"},
		{90, "A"},
		{89, "B"},
		{80, "B"},
		{79, "C"},
		{70, "C"},
		{69, "D"},
		{60, "D"},
		{59, "F"},
		{0, "F"},
	}
	for _, tc := range tests {
		if got := LetterGrade(tc.percentage); got != tc.want {
			t.Errorf("LetterGrade(%d) = %s, want %s", tc.percentage, got, tc.want)
		}
	}
}
