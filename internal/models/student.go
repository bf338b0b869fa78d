package models

import "strings"

// Department is one of the institute's three divisions.
type Department string

const (
	DepartmentAccounting Department = "ACCOUNTING"
	DepartmentBIS        Department = "BIS"
	DepartmentManagement Department = "MANAGEMENT"
)

// DisplayName returns the Arabic division name shown on the portal.
func (d Department) DisplayName() string {
	switch d {
	case DepartmentAccounting:
		return "شعبة المحاسبة"
	case DepartmentBIS:
		return "شعبة نظم معلومات الأعمال"
	case DepartmentManagement:
		return "شعبة الإدارة"
	default:
		return string(d)
	}
}

// Student is the session subject. Exactly one instance is live per
// authenticated session; only full_name (and the captured-but-unsent email)
// are editable through the profile.
type Student struct {
	ID             string     `db:"id" json:"id"`
	NationalID     string     `db:"national_id" json:"national_id"`
	FullName       string     `db:"full_name" json:"full_name"`
	Department     Department `db:"department" json:"department"`
	Level          int        `db:"level" json:"level"`
	GPA            float64    `db:"gpa" json:"gpa"`
	AttendanceRate float64    `db:"attendance_rate" json:"attendance_rate"`
	TotalCredits   int        `db:"total_credits" json:"total_credits"`
	Email          *string    `db:"email" json:"email,omitempty"`
}

// FirstName returns the leading segment of the full name, used in greetings.
func (s Student) FirstName() string {
	parts := strings.Fields(s.FullName)
	if len(parts) == 0 {
		return s.FullName
	}
	return parts[0]
}

// MaskedNationalID hides all but the last two digits, as rendered on the
// profile security card.
func (s Student) MaskedNationalID() string {
	if len(s.NationalID) < 2 {
		return s.NationalID
	}
	return strings.Repeat("*", 12) + s.NationalID[len(s.NationalID)-2:]
}
