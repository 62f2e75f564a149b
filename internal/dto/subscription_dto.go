package dto

import "time"

// IssuedBy makes the state-machine entry point explicit instead of being
// inferred from an ambient role: administrator-issued subscriptions start
// pending, self-service ones start inactive until payment confirms.
const (
	IssuedBySelf          = "self"
	IssuedByAdministrator = "administrator"
)

type CreateSubscriptionRequest struct {
	TeacherID     string     `json:"teacher_id"`
	PlanID        string     `json:"plan_id"`
	PaymentMethod string     `json:"payment_method"`
	Amount        *float64   `json:"amount"`
	Currency      string     `json:"currency"`
	Notes         string     `json:"notes"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
}

type ActivateSubscriptionRequest struct {
	PaymentDate   *time.Time `json:"payment_date"`
	PaymentMethod string     `json:"payment_method"`
	Amount        *float64   `json:"amount"`
	Notes         *string    `json:"notes"`
	NewEndDate    *time.Time `json:"new_end_date"`
}

type CancelSubscriptionRequest struct {
	Reason      string `json:"reason"`
	CancelledBy string `json:"cancelled_by"`
}

type DeactivateSubscriptionRequest struct {
	Reason string  `json:"reason"`
	Notes  *string `json:"notes"`
}

type RenewSubscriptionRequest struct {
	Amount        *float64 `json:"amount"`
	PaymentMethod string   `json:"payment_method"`
}

type ChangePlanRequest struct {
	NewPlanID     string     `json:"new_plan_id"`
	CustomEndDate *time.Time `json:"custom_end_date"`
	Amount        *float64   `json:"amount"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string     `json:"payment_status"`
	PaymentDate   *time.Time `json:"payment_date"`
	PaymentMethod string     `json:"payment_method"`
	Amount        *float64   `json:"amount"`
	Notes         *string    `json:"notes"`
	NewEndDate    *time.Time `json:"new_end_date"`
}

type CreateStudentSubscriptionRequest struct {
	StudentPlanID string `json:"student_plan_id"`
	Notes         string `json:"notes"`
}

type UsageResponse struct {
	Limits struct {
		MaxStudents  int `json:"max_students"`
		MaxExams     int `json:"max_exams"`
		MaxQuestions int `json:"max_questions"`
	} `json:"current_limits"`
	Usage struct {
		StudentsCount  int `json:"students_count"`
		ExamsCount     int `json:"exams_count"`
		QuestionsCount int `json:"questions_count"`
	} `json:"current_usage"`
	Exempt bool `json:"exempt"`
}
