// Package scheduler materializes due recurrences into pending transactions
// and advances their scheduling state.
package scheduler

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "moneta/internal/errors"
	"moneta/internal/logger"
	"moneta/internal/models"
)

// PassResult summarizes one scheduler pass.
type PassResult struct {
	Due       int `json:"due"`
	Generated int `json:"generated"`
	Skipped   int `json:"skipped"` // occurrence already existed or window closed
	Failed    int `json:"failed"`
}

// Scheduler generates pending transactions from due recurrences. Passes are
// idempotent: an occurrence is keyed by (recurrence, date), so repeated or
// concurrent passes never duplicate one.
type Scheduler struct {
	db       *gorm.DB
	interval time.Duration
}

// New creates a Scheduler that ticks at the given interval when run.
func New(db *gorm.DB, interval time.Duration) *Scheduler {
	return &Scheduler{db: db, interval: interval}
}

// Run executes a pass immediately, then on every tick until the context is
// cancelled. Intended to be started as a goroutine from the server entrypoint.
func (s *Scheduler) Run(ctx context.Context) {
	log := logger.Get()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logPass(s.ProcessDue(time.Now()))

	for {
		select {
		case <-ctx.Done():
			log.Info("recurrence scheduler stopped")
			return
		case <-ticker.C:
			s.logPass(s.ProcessDue(time.Now()))
		}
	}
}

func (s *Scheduler) logPass(result *PassResult, err error) {
	if err != nil {
		logger.Get().Errorw("recurrence pass failed", "error", err.Error())
		return
	}
	if result.Due > 0 {
		logger.Get().Infow("recurrence pass",
			"due", result.Due,
			"generated", result.Generated,
			"skipped", result.Skipped,
			"failed", result.Failed,
		)
	}
}

// ProcessDue runs one scheduler pass at the given reference time. Each due
// recurrence is handled in its own database transaction; one failure is
// logged and does not block the rest of the pass. Failed recurrences remain
// due and are retried on the next pass.
func (s *Scheduler) ProcessDue(now time.Time) (*PassResult, error) {
	var due []models.Recurrence
	if err := s.db.
		Where("is_active = ? AND next_execution_date <= ?", true, now).
		Find(&due).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := &PassResult{Due: len(due)}
	for i := range due {
		generated, err := s.processOne(&due[i], now)
		switch {
		case errors.Is(err, apperrors.ErrDuplicateOccurrence):
			// Lost the insert race to another pass; the occurrence exists
			// and the schedule repair happens on the next tick.
			result.Skipped++
			logger.Get().Warnw("occurrence already generated by a concurrent pass",
				"recurrence_id", due[i].ID,
				"user_id", due[i].UserID,
			)
		case err != nil:
			result.Failed++
			logger.Get().Errorw("failed to process recurrence",
				"recurrence_id", due[i].ID,
				"user_id", due[i].UserID,
				"error", err.Error(),
			)
		case generated:
			result.Generated++
		default:
			result.Skipped++
		}
	}

	return result, nil
}

// processOne materializes a single recurrence occurrence and advances its
// schedule atomically. Returns whether a new pending transaction was created.
func (s *Scheduler) processOne(rec *models.Recurrence, now time.Time) (bool, error) {
	generated := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// A recurrence past its end window generates nothing and goes inactive.
		if rec.EndDate != nil && now.After(*rec.EndDate) {
			return s.deactivate(tx, rec)
		}

		occurrenceDate := rec.NextExecutionDate

		// Idempotency: one occurrence per (recurrence, date). A prior pass may
		// have inserted the transaction and died before advancing; in that
		// case only the schedule is repaired.
		var existing int64
		if err := tx.Model(&models.Transaction{}).
			Where("recurrence_id = ? AND date = ?", rec.ID, occurrenceDate).
			Count(&existing).Error; err != nil {
			return err
		}

		var installment *int
		if existing == 0 {
			if rec.Installments != nil {
				n, err := s.nextInstallment(tx, rec)
				if err != nil {
					return err
				}
				installment = &n
			}

			occurrence := &models.Transaction{
				UserID:             rec.UserID,
				AccountID:          rec.AccountID,
				CreditCardID:       rec.CreditCardID,
				CategoryID:         &rec.CategoryID,
				Type:               rec.Type,
				Status:             models.TransactionStatusPending,
				Amount:             rec.Amount,
				Description:        rec.Description,
				Date:               occurrenceDate,
				RecurrenceID:       &rec.ID,
				Installments:       rec.Installments,
				CurrentInstallment: installment,
			}
			if err := s.insertOccurrence(tx, occurrence); err != nil {
				return err
			}
			generated = true
		}

		next := NextExecution(occurrenceDate, rec.Frequency)
		updates := map[string]interface{}{
			"next_execution_date": next,
			"last_executed_date":  now,
		}

		// Deactivate after the final occurrence.
		if rec.EndDate != nil && next.After(*rec.EndDate) {
			updates["is_active"] = false
		}
		if installment != nil && *installment >= *rec.Installments {
			updates["is_active"] = false
		}

		if err := tx.Model(rec).Updates(updates).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return generated, nil
}

// insertOccurrence creates the pending transaction for an occurrence. A
// unique-index violation on (recurrence_id, date) means a concurrent pass
// already inserted it and surfaces as ErrDuplicateOccurrence.
func (s *Scheduler) insertOccurrence(tx *gorm.DB, occurrence *models.Transaction) error {
	if err := tx.Create(occurrence).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Wrap(apperrors.ErrDuplicateOccurrence, err)
		}
		return err
	}
	return nil
}

// nextInstallment numbers the occurrence being generated: one past the count
// of occurrences this recurrence has already produced.
func (s *Scheduler) nextInstallment(tx *gorm.DB, rec *models.Recurrence) (int, error) {
	var prior int64
	if err := tx.Model(&models.Transaction{}).
		Where("recurrence_id = ?", rec.ID).
		Count(&prior).Error; err != nil {
		return 0, err
	}
	return int(prior) + 1, nil
}

func (s *Scheduler) deactivate(tx *gorm.DB, rec *models.Recurrence) error {
	return tx.Model(rec).Update("is_active", false).Error
}
