package services

import (
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
	"moneta/internal/pagination"
)

// goalService handles savings-goal business logic.
type goalService struct {
	db *gorm.DB
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(db *gorm.DB) GoalServicer {
	return &goalService{db: db}
}

// CreateGoal creates a new savings goal.
func (s *goalService) CreateGoal(userID uint, name string, targetAmount int64, targetDate *time.Time, monthlyContribution int64) (*models.Goal, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "goal name is required")
	}
	if targetAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target_amount must be greater than zero")
	}
	if monthlyContribution < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "monthly_contribution must not be negative")
	}

	goal := &models.Goal{
		UserID:              userID,
		Name:                name,
		TargetAmount:        targetAmount,
		TargetDate:          targetDate,
		MonthlyContribution: monthlyContribution,
		IsActive:            true,
	}

	if err := s.db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}

// GetUserGoals retrieves a paginated list of the user's goals.
func (s *goalService) GetUserGoals(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Goal], error) {
	page.Defaults()

	base := s.db.Model(&models.Goal{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var goals []models.Goal
	if err := base.Scopes(pagination.Paginate(page)).Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(goals, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetGoalByID retrieves a goal by ID for a specific user.
func (s *goalService) GetGoalByID(userID, goalID uint) (*models.Goal, error) {
	var goal models.Goal
	if err := s.db.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// UpdateGoal applies a partial update to a goal.
func (s *goalService) UpdateGoal(userID, goalID uint, fields GoalUpdateFields) (*models.Goal, error) {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Name != nil && *fields.Name != "" {
		updates["name"] = *fields.Name
	}
	if fields.TargetAmount != nil {
		if *fields.TargetAmount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target_amount must be greater than zero")
		}
		updates["target_amount"] = *fields.TargetAmount
	}
	if fields.TargetDate != nil {
		updates["target_date"] = *fields.TargetDate
	}
	if fields.MonthlyContribution != nil {
		if *fields.MonthlyContribution < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "monthly_contribution must not be negative")
		}
		updates["monthly_contribution"] = *fields.MonthlyContribution
	}
	if fields.IsActive != nil {
		updates["is_active"] = *fields.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(goal).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return goal, nil
}

// DeleteGoal soft-deletes a goal.
func (s *goalService) DeleteGoal(userID, goalID uint) error {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(goal).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// AddContribution records a contribution toward a goal.
func (s *goalService) AddContribution(userID, goalID uint, amount int64) (*models.Goal, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	goal.CurrentAmount += amount
	if err := s.db.Model(goal).Update("current_amount", goal.CurrentAmount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}

// GetGoalProgress computes progress and, when a monthly contribution is set,
// a projected completion date at the current pace.
func (s *goalService) GetGoalProgress(userID, goalID uint) (*GoalProgress, error) {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	remaining := goal.TargetAmount - goal.CurrentAmount
	if remaining < 0 {
		remaining = 0
	}

	progress := &GoalProgress{
		GoalID:     goal.ID,
		Target:     goal.TargetAmount,
		Current:    goal.CurrentAmount,
		Remaining:  remaining,
		Percentage: math.Min(100, float64(goal.CurrentAmount)/float64(goal.TargetAmount)*100),
	}

	if remaining > 0 && goal.MonthlyContribution > 0 {
		months := int(math.Ceil(float64(remaining) / float64(goal.MonthlyContribution)))
		projected := time.Now().AddDate(0, months, 0)
		progress.ProjectedCompletion = &projected
	}

	return progress, nil
}
