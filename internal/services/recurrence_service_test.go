package services

import (
	"testing"
	"time"

	"moneta/internal/models"
	"moneta/internal/pagination"
	"moneta/internal/testutil"
)

func newRecurrenceService(t *testing.T) (RecurrenceServicer, *testSetup) {
	t.Helper()
	setup := newTestSetup(t)
	return NewRecurrenceService(setup.db, NewAccountService(setup.db), NewCreditCardService(setup.db)), setup
}

func TestCreateRecurrence(t *testing.T) {
	t.Run("first_occurrence_due_at_start_date", func(t *testing.T) {
		svc, setup := newRecurrenceService(t)
		defer setup.teardown()
		user := testutil.CreateTestUser(t, setup.db)
		account := testutil.CreateTestAccount(t, setup.db, user.ID)
		category := testutil.CreateTestCategory(t, setup.db, user.ID)

		start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		rec, err := svc.CreateRecurrence(user.ID, RecurrenceInput{
			AccountID:   &account.ID,
			CategoryID:  category.ID,
			Type:        models.TransactionTypeExpense,
			Amount:      9900,
			Description: "Streaming",
			Frequency:   models.FrequencyMonthly,
			StartDate:   start,
		})
		testutil.AssertNoError(t, err)

		if !rec.IsActive {
			t.Error("expected new recurrence to be active")
		}
		if !rec.NextExecutionDate.Equal(start) {
			t.Errorf("expected next execution %v, got %v", start, rec.NextExecutionDate)
		}
		if rec.LastExecutedDate != nil {
			t.Error("expected no last executed date on a new recurrence")
		}
	})

	t.Run("both_funding_sources_rejected", func(t *testing.T) {
		svc, setup := newRecurrenceService(t)
		defer setup.teardown()
		user := testutil.CreateTestUser(t, setup.db)
		account := testutil.CreateTestAccount(t, setup.db, user.ID)
		card := testutil.CreateTestCreditCard(t, setup.db, user.ID)
		category := testutil.CreateTestCategory(t, setup.db, user.ID)

		_, err := svc.CreateRecurrence(user.ID, RecurrenceInput{
			AccountID:    &account.ID,
			CreditCardID: &card.ID,
			CategoryID:   category.ID,
			Type:         models.TransactionTypeExpense,
			Amount:       1000,
			Frequency:    models.FrequencyMonthly,
			StartDate:    time.Now(),
		})
		testutil.AssertAppError(t, err, "INVALID_FUNDING_SOURCE")
	})

	t.Run("no_funding_source_rejected", func(t *testing.T) {
		svc, setup := newRecurrenceService(t)
		defer setup.teardown()
		user := testutil.CreateTestUser(t, setup.db)
		category := testutil.CreateTestCategory(t, setup.db, user.ID)

		_, err := svc.CreateRecurrence(user.ID, RecurrenceInput{
			CategoryID: category.ID,
			Type:       models.TransactionTypeExpense,
			Amount:     1000,
			Frequency:  models.FrequencyMonthly,
			StartDate:  time.Now(),
		})
		testutil.AssertAppError(t, err, "INVALID_FUNDING_SOURCE")
	})

	t.Run("end_before_start_rejected", func(t *testing.T) {
		svc, setup := newRecurrenceService(t)
		defer setup.teardown()
		user := testutil.CreateTestUser(t, setup.db)
		account := testutil.CreateTestAccount(t, setup.db, user.ID)
		category := testutil.CreateTestCategory(t, setup.db, user.ID)

		start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 0, -1)
		_, err := svc.CreateRecurrence(user.ID, RecurrenceInput{
			AccountID:  &account.ID,
			CategoryID: category.ID,
			Type:       models.TransactionTypeExpense,
			Amount:     1000,
			Frequency:  models.FrequencyMonthly,
			StartDate:  start,
			EndDate:    &end,
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("wrong_user_category", func(t *testing.T) {
		svc, setup := newRecurrenceService(t)
		defer setup.teardown()
		user1 := testutil.CreateTestUser(t, setup.db)
		user2 := testutil.CreateTestUser(t, setup.db)
		account := testutil.CreateTestAccount(t, setup.db, user2.ID)
		category := testutil.CreateTestCategory(t, setup.db, user1.ID)

		_, err := svc.CreateRecurrence(user2.ID, RecurrenceInput{
			AccountID:  &account.ID,
			CategoryID: category.ID,
			Type:       models.TransactionTypeExpense,
			Amount:     1000,
			Frequency:  models.FrequencyMonthly,
			StartDate:  time.Now(),
		})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestUpdateRecurrence(t *testing.T) {
	t.Run("start_date_change_reschedules_unrun_recurrence", func(t *testing.T) {
		svc, setup := newRecurrenceService(t)
		defer setup.teardown()
		user := testutil.CreateTestUser(t, setup.db)
		account := testutil.CreateTestAccount(t, setup.db, user.ID)
		category := testutil.CreateTestCategory(t, setup.db, user.ID)
		rec := testutil.CreateTestRecurrence(t, setup.db, user.ID, account.ID, category.ID,
			time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

		newStart := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)
		updated, err := svc.UpdateRecurrence(user.ID, rec.ID, RecurrenceUpdateFields{StartDate: &newStart})
		testutil.AssertNoError(t, err)
		if !updated.NextExecutionDate.Equal(newStart) {
			t.Errorf("expected next execution %v, got %v", newStart, updated.NextExecutionDate)
		}
	})

	t.Run("start_date_change_keeps_schedule_after_first_run", func(t *testing.T) {
		svc, setup := newRecurrenceService(t)
		defer setup.teardown()
		user := testutil.CreateTestUser(t, setup.db)
		account := testutil.CreateTestAccount(t, setup.db, user.ID)
		category := testutil.CreateTestCategory(t, setup.db, user.ID)
		rec := testutil.CreateTestRecurrence(t, setup.db, user.ID, account.ID, category.ID,
			time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

		executed := rec.StartDate
		next := rec.StartDate.AddDate(0, 1, 0)
		testutil.AssertNoError(t, setup.db.Model(rec).Updates(map[string]interface{}{
			"last_executed_date":  executed,
			"next_execution_date": next,
		}).Error)

		newStart := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
		updated, err := svc.UpdateRecurrence(user.ID, rec.ID, RecurrenceUpdateFields{StartDate: &newStart})
		testutil.AssertNoError(t, err)
		if !updated.NextExecutionDate.Equal(next) {
			t.Errorf("expected next execution unchanged at %v, got %v", next, updated.NextExecutionDate)
		}
	})

	t.Run("deactivate", func(t *testing.T) {
		svc, setup := newRecurrenceService(t)
		defer setup.teardown()
		user := testutil.CreateTestUser(t, setup.db)
		account := testutil.CreateTestAccount(t, setup.db, user.ID)
		category := testutil.CreateTestCategory(t, setup.db, user.ID)
		rec := testutil.CreateTestRecurrence(t, setup.db, user.ID, account.ID, category.ID, time.Now())

		inactive := false
		updated, err := svc.UpdateRecurrence(user.ID, rec.ID, RecurrenceUpdateFields{IsActive: &inactive})
		testutil.AssertNoError(t, err)
		if updated.IsActive {
			t.Error("expected recurrence to be inactive")
		}
	})
}

func TestDeleteRecurrence(t *testing.T) {
	t.Run("removes_pending_keeps_confirmed", func(t *testing.T) {
		svc, setup := newRecurrenceService(t)
		defer setup.teardown()
		user := testutil.CreateTestUser(t, setup.db)
		account := testutil.CreateTestAccount(t, setup.db, user.ID)
		category := testutil.CreateTestCategory(t, setup.db, user.ID)
		rec := testutil.CreateTestRecurrence(t, setup.db, user.ID, account.ID, category.ID, time.Now())

		mkOccurrence := func(status models.TransactionStatus, date time.Time) {
			occ := &models.Transaction{
				UserID:       user.ID,
				Type:         models.TransactionTypeExpense,
				Status:       status,
				Amount:       rec.Amount,
				Date:         date,
				RecurrenceID: &rec.ID,
			}
			testutil.AssertNoError(t, setup.db.Create(occ).Error)
		}
		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		mkOccurrence(models.TransactionStatusConfirmed, base)
		mkOccurrence(models.TransactionStatusPending, base.AddDate(0, 1, 0))
		mkOccurrence(models.TransactionStatusPending, base.AddDate(0, 2, 0))

		testutil.AssertNoError(t, svc.DeleteRecurrence(user.ID, rec.ID))

		_, err := svc.GetRecurrenceByID(user.ID, rec.ID)
		testutil.AssertAppError(t, err, "RECURRENCE_NOT_FOUND")

		var remaining []models.Transaction
		testutil.AssertNoError(t, setup.db.Where("recurrence_id = ?", rec.ID).Find(&remaining).Error)
		if len(remaining) != 1 {
			t.Fatalf("expected 1 surviving transaction, got %d", len(remaining))
		}
		if remaining[0].Status != models.TransactionStatusConfirmed {
			t.Errorf("expected surviving transaction to be confirmed, got %s", remaining[0].Status)
		}
	})

	t.Run("wrong_user", func(t *testing.T) {
		svc, setup := newRecurrenceService(t)
		defer setup.teardown()
		user1 := testutil.CreateTestUser(t, setup.db)
		user2 := testutil.CreateTestUser(t, setup.db)
		account := testutil.CreateTestAccount(t, setup.db, user1.ID)
		category := testutil.CreateTestCategory(t, setup.db, user1.ID)
		rec := testutil.CreateTestRecurrence(t, setup.db, user1.ID, account.ID, category.ID, time.Now())

		err := svc.DeleteRecurrence(user2.ID, rec.ID)
		testutil.AssertAppError(t, err, "RECURRENCE_NOT_FOUND")
	})
}

func TestGetUserRecurrences(t *testing.T) {
	svc, setup := newRecurrenceService(t)
	defer setup.teardown()
	user := testutil.CreateTestUser(t, setup.db)
	account := testutil.CreateTestAccount(t, setup.db, user.ID)
	category := testutil.CreateTestCategory(t, setup.db, user.ID)

	active := testutil.CreateTestRecurrence(t, setup.db, user.ID, account.ID, category.ID, time.Now())
	inactive := testutil.CreateTestRecurrence(t, setup.db, user.ID, account.ID, category.ID, time.Now())
	testutil.AssertNoError(t, setup.db.Model(inactive).Update("is_active", false).Error)

	wantActive := true
	result, err := svc.GetUserRecurrences(user.ID, &wantActive, pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if result.TotalItems != 1 {
		t.Fatalf("expected 1 active recurrence, got %d", result.TotalItems)
	}
	if result.Data[0].ID != active.ID {
		t.Errorf("expected recurrence %d, got %d", active.ID, result.Data[0].ID)
	}

	all, err := svc.GetUserRecurrences(user.ID, nil, pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if all.TotalItems != 2 {
		t.Errorf("expected 2 recurrences, got %d", all.TotalItems)
	}
}
