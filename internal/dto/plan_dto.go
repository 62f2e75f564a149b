package dto

import "time"

type CreatePlanRequest struct {
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        *float64  `json:"price"`
	Currency     string    `json:"currency"`
	MaxStudents  int       `json:"max_students"`
	MaxExams     int       `json:"max_exams"`
	MaxQuestions int       `json:"max_questions"`
	Duration     int       `json:"duration"`
	DurationUnit string    `json:"duration_unit"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	Features     []string  `json:"features"`
}

type UpdatePlanRequest struct {
	Description  *string   `json:"description"`
	Price        *float64  `json:"price"`
	Currency     *string   `json:"currency"`
	MaxStudents  *int      `json:"max_students"`
	MaxExams     *int      `json:"max_exams"`
	MaxQuestions *int      `json:"max_questions"`
	Duration     *int      `json:"duration"`
	DurationUnit *string   `json:"duration_unit"`
	Features     *[]string `json:"features"`
}

type CreateStudentPlanRequest struct {
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Price             *float64  `json:"price"`
	Currency          string    `json:"currency"`
	MaxTeachers       int       `json:"max_teachers"`
	TeacherType       string    `json:"teacher_type"`
	FreeExtraTeachers int       `json:"free_extra_teachers"`
	FreeExtraStudents int       `json:"free_extra_students"`
	Duration          int       `json:"duration"`
	DurationUnit      string    `json:"duration_unit"`
	StartDate         time.Time `json:"start_date"`
	EndDate           time.Time `json:"end_date"`
	Features          []string  `json:"features"`
}
