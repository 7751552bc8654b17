package services

import (
	"testing"
	"time"

	"moneta/internal/models"
	"moneta/internal/pagination"
	"moneta/internal/testutil"
)

func newTransactionService(t *testing.T) (TransactionServicer, AccountServicer, *testSetup) {
	t.Helper()
	setup := newTestSetup(t)
	acctSvc := NewAccountService(setup.db)
	cardSvc := NewCreditCardService(setup.db)
	return NewTransactionService(setup.db, acctSvc, cardSvc), acctSvc, setup
}

func TestCreateTransaction(t *testing.T) {
	t.Run("confirmed_income_increases_balance", func(t *testing.T) {
		txSvc, acctSvc, setup := newTransactionService(t)
		defer setup.teardown()
		user := testutil.CreateTestUser(t, setup.db)
		account := testutil.CreateTestAccount(t, setup.db, user.ID)

		tx, err := txSvc.CreateTransaction(user.ID, CreateTransactionInput{
			AccountID:   &account.ID,
			Type:        models.TransactionTypeIncome,
			Amount:      5000,
			Description: "Salary",
		})
		testutil.AssertNoError(t, err)

		if tx.ID == 0 {
			t.Fatal("expected non-zero transaction ID")
		}
		if tx.Status != models.TransactionStatusConfirmed {
			t.Errorf("expected default status confirmed, got %s", tx.Status)
		}

		updated, err := acctSvc.GetAccountByID(user.ID, account.ID)
		testutil.AssertNoError(t, err)
		if updated.Balance != 5000 {
			t.Errorf("expected balance 5000, got %d", updated.Balance)
		}
	})

	t.Run("confirmed_expense_decreases_balance", func(t *testing.T) {
		txSvc, acctSvc, setup := newTransactionService(t)
		defer setup.teardown()
		user := testutil.CreateTestUser(t, setup.db)
		account := testutil.CreateTestAccountWithBalance(t, setup.db, user.ID, 10000)

		_, err := txSvc.CreateTransaction(user.ID, CreateTransactionInput{
			AccountID:   &account.ID,
			Type:        models.TransactionTypeExpense,
			Amount:      3000,
			Description: "Lunch",
		})
		testutil.AssertNoError(t, err)

		updated, err := acctSvc.GetAccountByID(user.ID, account.ID)
		testutil.AssertNoError(t, err)
		if updated.Balance != 7000 {
			t.Errorf("expected balance 7000, got %d", updated.Balance)
		}
	})

	t.Run("pending_does_not_touch_balance", func(t *testing.T) {
		txSvc, acctSvc, setup := newTransactionService(t)
		defer setup.teardown()
		user := testutil.CreateTestUser(t, setup.db)
		account := testutil.CreateTestAccountWithBalance(t, setup.db, user.ID, 10000)

		tx, err := txSvc.CreateTransaction(user.ID, CreateTransactionInput{
			AccountID: &account.ID,
			Type:      models.TransactionTypeExpense,
			Status:    models.TransactionStatusPending,
			Amount:    3000,
		})
		testutil.AssertNoError(t, err)
		if tx.Status != models.TransactionStatusPending {
			t.Errorf("expected status pending, got %s", tx.Status)
		}

		updated, err := acctSvc.GetAccountByID(user.ID, account.ID)
		testutil.AssertNoError(t, err)
		if updated.Balance != 10000 {
			t.Errorf("expected balance unchanged at 10000, got %d", updated.Balance)
		}
	})

	t.Run("card_funded_expense", func(t *testing.T) {
		txSvc, _, setup := newTransactionService(t)
		defer setup.teardown()
		user := testutil.CreateTestUser(t, setup.db)
		card := testutil.CreateTestCreditCard(t, setup.db, user.ID)

		tx, err := txSvc.CreateTransaction(user.ID, CreateTransactionInput{
			CreditCardID: &card.ID,
			Type:         models.TransactionTypeExpense,
			Amount:       2500,
		})
		testutil.AssertNoError(t, err)
		if tx.CreditCardID == nil || *tx.CreditCardID != card.ID {
			t.Error("expected transaction bound to credit card")
		}
	})

	t.Run("installments_start_at_one", func(t *testing.T) {
		txSvc, _, setup := newTransactionService(t)
		defer setup.teardown()
		user := testutil.CreateTestUser(t, setup.db)
		card := testutil.CreateTestCreditCard(t, setup.db, user.ID)

		installments := 12
		tx, err := txSvc.CreateTransaction(user.ID, CreateTransactionInput{
			CreditCardID: &card.ID,
			Type:         models.TransactionTypeExpense,
			Amount:       120000,
			Installments: &installments,
		})
		testutil.AssertNoError(t, err)
		if tx.CurrentInstallment == nil || *tx.CurrentInstallment != 1 {
			t.Errorf("expected current installment 1, got %v", tx.CurrentInstallment)
		}
	})

	t.Run("both_funding_sources_rejected", func(t *testing.T) {
		txSvc, _, setup := newTransactionService(t)
		defer setup.teardown()
		user := testutil.CreateTestUser(t, setup.db)
		account := testutil.CreateTestAccount(t, setup.db, user.ID)
		card := testutil.CreateTestCreditCard(t, setup.db, user.ID)

		_, err := txSvc.CreateTransaction(user.ID, CreateTransactionInput{
			AccountID:    &account.ID,
			CreditCardID: &card.ID,
			Type:         models.TransactionTypeExpense,
			Amount:       1000,
		})
		testutil.AssertAppError(t, err, "INVALID_FUNDING_SOURCE")
	})

	t.Run("no_funding_source_rejected", func(t *testing.T) {
		txSvc, _, setup := newTransactionService(t)
		defer setup.teardown()
		user := testutil.CreateTestUser(t, setup.db)

		_, err := txSvc.CreateTransaction(user.ID, CreateTransactionInput{
			Type:   models.TransactionTypeExpense,
			Amount: 1000,
		})
		testutil.AssertAppError(t, err, "INVALID_FUNDING_SOURCE")
	})

	t.Run("zero_amount", func(t *testing.T) {
		txSvc, _, setup := newTransactionService(t)
		defer setup.teardown()
		user := testutil.CreateTestUser(t, setup.db)
		account := testutil.CreateTestAccount(t, setup.db, user.ID)

		_, err := txSvc.CreateTransaction(user.ID, CreateTransactionInput{
			AccountID: &account.ID,
			Type:      models.TransactionTypeIncome,
			Amount:    0,
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("transfer_type_rejected", func(t *testing.T) {
		txSvc, _, setup := newTransactionService(t)
		defer setup.teardown()
		user := testutil.CreateTestUser(t, setup.db)
		account := testutil.CreateTestAccount(t, setup.db, user.ID)

		_, err := txSvc.CreateTransaction(user.ID, CreateTransactionInput{
			AccountID: &account.ID,
			Type:      models.TransactionTypeTransfer,
			Amount:    1000,
		})
		testutil.AssertAppError(t, err, "INVALID_TRANSACTION_TYPE")
	})

	t.Run("wrong_user_account", func(t *testing.T) {
		txSvc, _, setup := newTransactionService(t)
		defer setup.teardown()
		user1 := testutil.CreateTestUser(t, setup.db)
		user2 := testutil.CreateTestUser(t, setup.db)
		account := testutil.CreateTestAccount(t, setup.db, user1.ID)

		_, err := txSvc.CreateTransaction(user2.ID, CreateTransactionInput{
			AccountID: &account.ID,
			Type:      models.TransactionTypeIncome,
			Amount:    1000,
		})
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})

	t.Run("wrong_user_category", func(t *testing.T) {
		txSvc, _, setup := newTransactionService(t)
		defer setup.teardown()
		user1 := testutil.CreateTestUser(t, setup.db)
		user2 := testutil.CreateTestUser(t, setup.db)
		account := testutil.CreateTestAccount(t, setup.db, user2.ID)
		category := testutil.CreateTestCategory(t, setup.db, user1.ID)

		_, err := txSvc.CreateTransaction(user2.ID, CreateTransactionInput{
			AccountID:  &account.ID,
			CategoryID: &category.ID,
			Type:       models.TransactionTypeExpense,
			Amount:     1000,
		})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestCreateTransfer(t *testing.T) {
	t.Run("moves_funds_between_accounts", func(t *testing.T) {
		txSvc, acctSvc, setup := newTransactionService(t)
		defer setup.teardown()
		user := testutil.CreateTestUser(t, setup.db)
		from := testutil.CreateTestAccountWithBalance(t, setup.db, user.ID, 10000)
		to := testutil.CreateTestAccount(t, setup.db, user.ID)

		tx, err := txSvc.CreateTransfer(user.ID, from.ID, to.ID, 4000, "Savings", time.Now())
		testutil.AssertNoError(t, err)
		if tx.Status != models.TransactionStatusConfirmed {
			t.Errorf("expected transfer to be confirmed, got %s", tx.Status)
		}

		fromAfter, err := acctSvc.GetAccountByID(user.ID, from.ID)
		testutil.AssertNoError(t, err)
		toAfter, err := acctSvc.GetAccountByID(user.ID, to.ID)
		testutil.AssertNoError(t, err)
		if fromAfter.Balance != 6000 {
			t.Errorf("expected source balance 6000, got %d", fromAfter.Balance)
		}
		if toAfter.Balance != 4000 {
			t.Errorf("expected destination balance 4000, got %d", toAfter.Balance)
		}
	})

	t.Run("same_account_rejected", func(t *testing.T) {
		txSvc, _, setup := newTransactionService(t)
		defer setup.teardown()
		user := testutil.CreateTestUser(t, setup.db)
		account := testutil.CreateTestAccountWithBalance(t, setup.db, user.ID, 10000)

		_, err := txSvc.CreateTransfer(user.ID, account.ID, account.ID, 1000, "", time.Now())
		testutil.AssertAppError(t, err, "SAME_ACCOUNT_TRANSFER")
	})
}

func TestConfirmTransaction(t *testing.T) {
	t.Run("applies_amount_to_chosen_account", func(t *testing.T) {
		txSvc, acctSvc, setup := newTransactionService(t)
		defer setup.teardown()
		user := testutil.CreateTestUser(t, setup.db)
		account := testutil.CreateTestAccountWithBalance(t, setup.db, user.ID, 50000)
		pending := testutil.CreateTestPendingTransaction(t, setup.db, user.ID, 10000)

		confirmed, err := txSvc.ConfirmTransaction(user.ID, pending.ID, account.ID)
		testutil.AssertNoError(t, err)
		if confirmed.Status != models.TransactionStatusConfirmed {
			t.Errorf("expected status confirmed, got %s", confirmed.Status)
		}
		if confirmed.AccountID == nil || *confirmed.AccountID != account.ID {
			t.Error("expected transaction bound to the confirming account")
		}

		updated, err := acctSvc.GetAccountByID(user.ID, account.ID)
		testutil.AssertNoError(t, err)
		if updated.Balance != 40000 {
			t.Errorf("expected balance 40000, got %d", updated.Balance)
		}
	})

	t.Run("second_confirm_conflicts", func(t *testing.T) {
		txSvc, acctSvc, setup := newTransactionService(t)
		defer setup.teardown()
		user := testutil.CreateTestUser(t, setup.db)
		account := testutil.CreateTestAccountWithBalance(t, setup.db, user.ID, 50000)
		pending := testutil.CreateTestPendingTransaction(t, setup.db, user.ID, 10000)

		_, err := txSvc.ConfirmTransaction(user.ID, pending.ID, account.ID)
		testutil.AssertNoError(t, err)

		_, err = txSvc.ConfirmTransaction(user.ID, pending.ID, account.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_ALREADY_CONFIRMED")

		// Balance applied exactly once.
		updated, err := acctSvc.GetAccountByID(user.ID, account.ID)
		testutil.AssertNoError(t, err)
		if updated.Balance != 40000 {
			t.Errorf("expected balance 40000, got %d", updated.Balance)
		}
	})

	t.Run("account_required", func(t *testing.T) {
		txSvc, _, setup := newTransactionService(t)
		defer setup.teardown()
		user := testutil.CreateTestUser(t, setup.db)
		pending := testutil.CreateTestPendingTransaction(t, setup.db, user.ID, 10000)

		_, err := txSvc.ConfirmTransaction(user.ID, pending.ID, 0)
		testutil.AssertAppError(t, err, "CONFIRM_ACCOUNT_REQUIRED")
	})

	t.Run("wrong_user", func(t *testing.T) {
		txSvc, _, setup := newTransactionService(t)
		defer setup.teardown()
		user1 := testutil.CreateTestUser(t, setup.db)
		user2 := testutil.CreateTestUser(t, setup.db)
		account := testutil.CreateTestAccount(t, setup.db, user2.ID)
		pending := testutil.CreateTestPendingTransaction(t, setup.db, user1.ID, 10000)

		_, err := txSvc.ConfirmTransaction(user2.ID, pending.ID, account.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestUpdateTransaction(t *testing.T) {
	t.Run("pending_accepts_updates", func(t *testing.T) {
		txSvc, acctSvc, setup := newTransactionService(t)
		defer setup.teardown()
		user := testutil.CreateTestUser(t, setup.db)
		account := testutil.CreateTestAccountWithBalance(t, setup.db, user.ID, 10000)
		pending := testutil.CreateTestPendingTransaction(t, setup.db, user.ID, 5000)

		amount := int64(7500)
		description := "Adjusted"
		updated, err := txSvc.UpdateTransaction(user.ID, pending.ID, TransactionUpdateFields{
			Amount:      &amount,
			Description: &description,
		})
		testutil.AssertNoError(t, err)
		if updated.Amount != 7500 {
			t.Errorf("expected amount 7500, got %d", updated.Amount)
		}
		if updated.Description != "Adjusted" {
			t.Errorf("expected updated description, got %q", updated.Description)
		}

		// Editing a pending transaction never touches balances.
		acct, err := acctSvc.GetAccountByID(user.ID, account.ID)
		testutil.AssertNoError(t, err)
		if acct.Balance != 10000 {
			t.Errorf("expected balance unchanged at 10000, got %d", acct.Balance)
		}
	})

	t.Run("switching_to_account_clears_card", func(t *testing.T) {
		txSvc, _, setup := newTransactionService(t)
		defer setup.teardown()
		user := testutil.CreateTestUser(t, setup.db)
		card := testutil.CreateTestCreditCard(t, setup.db, user.ID)
		account := testutil.CreateTestAccount(t, setup.db, user.ID)

		pending, err := txSvc.CreateTransaction(user.ID, CreateTransactionInput{
			CreditCardID: &card.ID,
			Type:         models.TransactionTypeExpense,
			Status:       models.TransactionStatusPending,
			Amount:       3000,
		})
		testutil.AssertNoError(t, err)

		updated, err := txSvc.UpdateTransaction(user.ID, pending.ID, TransactionUpdateFields{
			AccountID: &account.ID,
		})
		testutil.AssertNoError(t, err)
		if updated.AccountID == nil || *updated.AccountID != account.ID {
			t.Error("expected account to be set")
		}
		if updated.CreditCardID != nil {
			t.Error("expected credit card to be cleared")
		}
	})

	t.Run("confirmed_is_immutable", func(t *testing.T) {
		txSvc, _, setup := newTransactionService(t)
		defer setup.teardown()
		user := testutil.CreateTestUser(t, setup.db)
		account := testutil.CreateTestAccount(t, setup.db, user.ID)
		confirmed := testutil.CreateTestTransaction(t, setup.db, user.ID, account.ID, 3000)

		amount := int64(9999)
		_, err := txSvc.UpdateTransaction(user.ID, confirmed.ID, TransactionUpdateFields{Amount: &amount})
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_PENDING")
	})
}

func TestDeleteTransaction(t *testing.T) {
	t.Run("pending_delete_has_no_balance_effect", func(t *testing.T) {
		txSvc, acctSvc, setup := newTransactionService(t)
		defer setup.teardown()
		user := testutil.CreateTestUser(t, setup.db)
		account := testutil.CreateTestAccountWithBalance(t, setup.db, user.ID, 10000)
		pending := testutil.CreateTestPendingTransaction(t, setup.db, user.ID, 5000)

		testutil.AssertNoError(t, txSvc.DeleteTransaction(user.ID, pending.ID))

		_, err := txSvc.GetTransactionByID(user.ID, pending.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")

		acct, err := acctSvc.GetAccountByID(user.ID, account.ID)
		testutil.AssertNoError(t, err)
		if acct.Balance != 10000 {
			t.Errorf("expected balance unchanged at 10000, got %d", acct.Balance)
		}
	})

	t.Run("confirmed_expense_delete_restores_balance", func(t *testing.T) {
		txSvc, acctSvc, setup := newTransactionService(t)
		defer setup.teardown()
		user := testutil.CreateTestUser(t, setup.db)
		account := testutil.CreateTestAccountWithBalance(t, setup.db, user.ID, 10000)

		tx, err := txSvc.CreateTransaction(user.ID, CreateTransactionInput{
			AccountID: &account.ID,
			Type:      models.TransactionTypeExpense,
			Amount:    3000,
		})
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, txSvc.DeleteTransaction(user.ID, tx.ID))

		acct, err := acctSvc.GetAccountByID(user.ID, account.ID)
		testutil.AssertNoError(t, err)
		if acct.Balance != 10000 {
			t.Errorf("expected balance restored to 10000, got %d", acct.Balance)
		}
	})

	t.Run("transfer_delete_reverses_both_sides", func(t *testing.T) {
		txSvc, acctSvc, setup := newTransactionService(t)
		defer setup.teardown()
		user := testutil.CreateTestUser(t, setup.db)
		from := testutil.CreateTestAccountWithBalance(t, setup.db, user.ID, 10000)
		to := testutil.CreateTestAccount(t, setup.db, user.ID)

		tx, err := txSvc.CreateTransfer(user.ID, from.ID, to.ID, 4000, "", time.Now())
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, txSvc.DeleteTransaction(user.ID, tx.ID))

		fromAfter, err := acctSvc.GetAccountByID(user.ID, from.ID)
		testutil.AssertNoError(t, err)
		toAfter, err := acctSvc.GetAccountByID(user.ID, to.ID)
		testutil.AssertNoError(t, err)
		if fromAfter.Balance != 10000 || toAfter.Balance != 0 {
			t.Errorf("expected balances restored to 10000/0, got %d/%d", fromAfter.Balance, toAfter.Balance)
		}
	})

	t.Run("card_funded_delete_skips_balances", func(t *testing.T) {
		txSvc, _, setup := newTransactionService(t)
		defer setup.teardown()
		user := testutil.CreateTestUser(t, setup.db)
		card := testutil.CreateTestCreditCard(t, setup.db, user.ID)

		tx, err := txSvc.CreateTransaction(user.ID, CreateTransactionInput{
			CreditCardID: &card.ID,
			Type:         models.TransactionTypeExpense,
			Amount:       2500,
		})
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, txSvc.DeleteTransaction(user.ID, tx.ID))
	})
}

func TestGetPendingTransactions(t *testing.T) {
	txSvc, _, setup := newTransactionService(t)
	defer setup.teardown()
	user := testutil.CreateTestUser(t, setup.db)
	account := testutil.CreateTestAccount(t, setup.db, user.ID)

	testutil.CreateTestTransaction(t, setup.db, user.ID, account.ID, 1000)
	testutil.CreateTestPendingTransaction(t, setup.db, user.ID, 2000)
	testutil.CreateTestPendingTransaction(t, setup.db, user.ID, 3000)

	result, err := txSvc.GetPendingTransactions(user.ID, pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if result.TotalItems != 2 {
		t.Errorf("expected 2 pending transactions, got %d", result.TotalItems)
	}
	for _, tx := range result.Data {
		if tx.Status != models.TransactionStatusPending {
			t.Errorf("expected only pending transactions, got %s", tx.Status)
		}
	}
}
