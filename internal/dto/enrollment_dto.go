package dto

type EnrollRequest struct {
	TeacherID string `json:"teacher_id"`
	Type      string `json:"type"`
	Notes     string `json:"notes"`
}

type AddRosterStudentRequest struct {
	StudentID string `json:"student_id"`
}

type CreateExamRequest struct {
	Title         string `json:"title"`
	Subject       string `json:"subject"`
	QuestionCount int    `json:"question_count"`
}

type CreateQuestionRequest struct {
	Subject string `json:"subject"`
	Text    string `json:"text"`
}
