package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tadreeshq/tadrees-backend/internal/exempt"
	"github.com/tadreeshq/tadrees-backend/internal/models"
	"gorm.io/gorm"
)

// Sweeper expires stale subscriptions and withdraws the associated
// capacity. It is owned by process lifecycle: main starts it with a done
// channel and tests call RunOnce directly.
type Sweeper struct {
	db     *gorm.DB
	policy exempt.Policy
}

func NewSweeper(db *gorm.DB, policy exempt.Policy) *Sweeper {
	return &Sweeper{db: db, policy: policy}
}

type SweepResult struct {
	Expired    int
	Restricted int
}

// Start runs the sweep on a fixed interval until done is closed. The
// interval must not exceed the shortest plan duration unit on sale.
func (s *Sweeper) Start(interval time.Duration, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				result, err := s.RunOnce(context.Background())
				if err != nil {
					slog.Error("subscription sweep failed", "error", err)
					continue
				}
				if result.Expired > 0 {
					slog.Info("subscription sweep completed",
						"expired", result.Expired, "restricted", result.Restricted)
				}
				s.notifyUpcoming(7)
				s.notifyUpcoming(3)
			case <-done:
				return
			}
		}
	}()
}

// RunOnce expires every active or pending subscription whose end date has
// passed. Each transition is a compare-and-swap on the status column, so
// concurrent or repeated sweeps are no-ops on rows already handled.
func (s *Sweeper) RunOnce(ctx context.Context) (*SweepResult, error) {
	now := time.Now()

	var stale []models.Subscription
	err := s.db.WithContext(ctx).Preload("Plan").
		Where("status IN ? AND end_date < ?", []string{models.SubscriptionActive, models.SubscriptionPending}, now).
		Find(&stale).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query stale subscriptions: %w", err)
	}

	result := &SweepResult{}
	for i := range stale {
		sub := &stale[i]

		res := s.db.WithContext(ctx).Model(&models.Subscription{}).
			Where("id = ? AND status IN ?", sub.ID, []string{models.SubscriptionActive, models.SubscriptionPending}).
			Update("status", models.SubscriptionExpired)
		if res.Error != nil {
			slog.Error("failed to expire subscription", "subscription_id", sub.ID, "error", res.Error)
			continue
		}
		if res.RowsAffected == 0 {
			// Another sweep got here first.
			continue
		}
		result.Expired++

		// Exempt accounts keep unconditional capacity; their rows still
		// expire above for bookkeeping.
		if s.policy.IsExempt(sub.TeacherID) {
			continue
		}

		updates := map[string]interface{}{
			"max_students":  0,
			"max_exams":     0,
			"max_questions": 0,
		}
		if sub.Plan != nil && sub.Plan.IsFree() {
			// Free plan lapsed: block further creation via the gate,
			// reads stay available.
			updates["is_restricted"] = true
			result.Restricted++
		}
		if err := s.db.WithContext(ctx).Model(&models.Teacher{}).
			Where("id = ?", sub.TeacherID).
			Updates(updates).Error; err != nil {
			slog.Error("failed to reset teacher limits", "teacher_id", sub.TeacherID, "error", err)
		}
	}

	// Student subscriptions expire on the same cadence.
	res := s.db.WithContext(ctx).Model(&models.StudentSubscription{}).
		Where("status IN ? AND end_date < ?", []string{models.SubscriptionActive, models.SubscriptionPending}, now).
		Update("status", models.SubscriptionExpired)
	if res.Error != nil {
		slog.Error("failed to expire student subscriptions", "error", res.Error)
	} else if res.RowsAffected > 0 {
		slog.Info("student subscriptions expired", "count", res.RowsAffected)
	}

	return result, nil
}

// notifyUpcoming logs accounts whose subscription ends within the window.
// Hooked up to email later; the sweep itself never depends on delivery.
func (s *Sweeper) notifyUpcoming(days int) {
	now := time.Now()
	until := now.AddDate(0, 0, days)

	var upcoming []models.Subscription
	err := s.db.Preload("Teacher").
		Where("status = ? AND end_date BETWEEN ? AND ?", models.SubscriptionActive, now, until).
		Find(&upcoming).Error
	if err != nil {
		slog.Error("failed to query upcoming expirations", "error", err)
		return
	}

	for i := range upcoming {
		sub := &upcoming[i]
		slog.Info("subscription expiring soon",
			"teacher_id", sub.TeacherID,
			"end_date", sub.EndDate.Format(time.RFC3339),
			"days_window", days)
	}
}
