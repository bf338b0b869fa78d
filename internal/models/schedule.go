package models

// Weekdays lists the five teaching days, in display order.
var Weekdays = []string{"الأحد", "الاثنين", "الثلاثاء", "الأربعاء", "الخميس"}

// ScheduleItem is one lecture slot, fetched per (department, level).
type ScheduleItem struct {
	Day    string `db:"day" json:"day"`
	Time   string `db:"time" json:"time"`
	Course string `db:"course" json:"course"`
	Room   string `db:"room" json:"room"`
}

// ExamItem is one exam slot, fetched per (department, level).
type ExamItem struct {
	CourseName string `db:"course_name" json:"course_name"`
	ExamDate   string `db:"exam_date" json:"exam_date"`
	ExamTime   string `db:"exam_time" json:"exam_time"`
	Room       string `db:"room" json:"room"`
}

// DaySchedule groups lecture slots under one weekday for the timetable view.
type DaySchedule struct {
	Day      string         `json:"day"`
	Lectures []ScheduleItem `json:"lectures"`
}
