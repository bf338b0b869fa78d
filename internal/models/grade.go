package models

import "math"

// Grade is one graded course row for a student. The client does not enforce
// any relationship between score and grade_letter; the row backend owns that.
type Grade struct {
	CourseName  string  `db:"course_name" json:"course_name"`
	Score       float64 `db:"score" json:"score"`
	MaxScore    float64 `db:"max_score" json:"max_score"`
	GradeLetter string  `db:"grade_letter" json:"grade_letter"`
}

// Percentage returns the rounded score percentage used by the results view.
func (g Grade) Percentage() int {
	if g.MaxScore == 0 {
		return 0
	}
	return int(math.Round(g.Score / g.MaxScore * 100))
}
