package scoring

// LetterGrade maps a percentage to a fixed letter grade. Boundary values
// belong to the higher grade (90 is an A, not a B).
func LetterGrade(percentage int) string {
	switch {
	case percentage >= 90:
		return "A"
	case percentage >= 80:
		return "B"
	case percentage >= 70:
		return "C"
	case percentage >= 60:
		return "D"
	default:
		return "F"
	}
}
