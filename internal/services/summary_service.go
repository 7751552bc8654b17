package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
)

// summaryService aggregates confirmed transactions into the 50/30/20
// dashboard. Pending transactions never contribute.
type summaryService struct {
	db *gorm.DB
}

// NewSummaryService creates a new SummaryServicer.
func NewSummaryService(db *gorm.DB) SummaryServicer {
	return &summaryService{db: db}
}

// 50/30/20 allocation of monthly income.
const (
	necessitiesShare = 50
	wantsShare       = 30
	savingsShare     = 20
)

// GetBudgetSummary computes the 50/30/20 dashboard for the calendar month
// containing the given time.
func (s *summaryService) GetBudgetSummary(userID uint, month time.Time) (*BudgetSummary, error) {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	end := start.AddDate(0, 1, 0)

	// Predicates stay table-qualified: the expense query below joins
	// categories, which carries its own user_id column.
	base := s.db.Model(&models.Transaction{}).
		Where("transactions.user_id = ? AND transactions.status = ? AND transactions.date >= ? AND transactions.date < ?",
			userID, models.TransactionStatusConfirmed, start, end)

	var income int64
	if err := base.Session(&gorm.Session{}).
		Where("transactions.type = ?", models.TransactionTypeIncome).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&income).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	type bucketRow struct {
		Classification models.Classification
		Total          int64
	}
	var rows []bucketRow
	if err := base.Session(&gorm.Session{}).
		Where("transactions.type = ?", models.TransactionTypeExpense).
		Joins("LEFT JOIN categories ON categories.id = transactions.category_id").
		Select("COALESCE(categories.classification, '') AS classification, SUM(transactions.amount) AS total").
		Group("categories.classification").
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	spent := make(map[models.Classification]int64, len(rows))
	for _, row := range rows {
		spent[row.Classification] += row.Total
	}

	summary := &BudgetSummary{
		Month:        start.Format("2006-01"),
		Income:       income,
		Necessities:  bucket(spent[models.ClassificationNecessities], income, necessitiesShare),
		Wants:        bucket(spent[models.ClassificationWants], income, wantsShare),
		Savings:      bucket(spent[models.ClassificationSavings], income, savingsShare),
		Unclassified: spent[models.ClassificationNone],
	}
	return summary, nil
}

func bucket(spent, income int64, share int64) BucketSummary {
	target := income * share / 100
	return BucketSummary{
		Spent:     spent,
		Target:    target,
		Remaining: target - spent,
	}
}
