package repository

import (
	"context"

	"github.com/lshigami/quizgate/internal/model"
	"gorm.io/gorm"
)

type TestAttemptRepository interface {
	WithTx(tx *gorm.DB) TestAttemptRepository
	Create(ctx context.Context, attempt *model.TestAttempt) error
	FindByID(ctx context.Context, id uint) (*model.TestAttempt, error)
	FindByIDWithDetails(ctx context.Context, id uint) (*model.TestAttempt, error)
	FindAllByTest(ctx context.Context, testID uint) ([]model.TestAttempt, error)
	CountCompletedByCandidate(ctx context.Context, testID uint, email string) (int64, error)
	// Complete stores the grading outcome if the attempt is still in
	// progress. It reports false when another submission got there first.
	Complete(ctx context.Context, attempt *model.TestAttempt) (bool, error)
}

type testAttemptRepository struct {
	db *gorm.DB
}

func NewTestAttemptRepository(db *gorm.DB) TestAttemptRepository {
	return &testAttemptRepository{db: db}
}

func (r *testAttemptRepository) WithTx(tx *gorm.DB) TestAttemptRepository {
	return &testAttemptRepository{db: tx}
}

func (r *testAttemptRepository) Create(ctx context.Context, attempt *model.TestAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

func (r *testAttemptRepository) FindByID(ctx context.Context, id uint) (*model.TestAttempt, error) {
	var attempt model.TestAttempt
	if err := r.db.WithContext(ctx).First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

// FindByIDWithDetails loads the test even if it has since been soft-deleted,
// so historical results stay readable.
func (r *testAttemptRepository) FindByIDWithDetails(ctx context.Context, id uint) (*model.TestAttempt, error) {
	var attempt model.TestAttempt
	err := r.db.WithContext(ctx).
		Preload("Test", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Responses", func(db *gorm.DB) *gorm.DB { return db.Order("responses.id ASC") }).
		First(&attempt, id).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *testAttemptRepository) FindAllByTest(ctx context.Context, testID uint) ([]model.TestAttempt, error) {
	var attempts []model.TestAttempt
	err := r.db.WithContext(ctx).Where("test_id = ?", testID).Order("started_at DESC").Find(&attempts).Error
	return attempts, err
}

func (r *testAttemptRepository) CountCompletedByCandidate(ctx context.Context, testID uint, email string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.TestAttempt{}).
		Where("test_id = ? AND candidate_email = ? AND status = ?", testID, email, model.AttemptStatusCompleted).
		Count(&n).Error
	return n, err
}

func (r *testAttemptRepository) Complete(ctx context.Context, attempt *model.TestAttempt) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.TestAttempt{}).
		Where("id = ? AND status = ?", attempt.ID, model.AttemptStatusInProgress).
		Updates(map[string]interface{}{
			"status":         model.AttemptStatusCompleted,
			"submitted_at":   attempt.SubmittedAt,
			"correct_count":  attempt.CorrectCount,
			"question_count": attempt.QuestionCount,
			"score_percent":  attempt.ScorePercent,
			"late":           attempt.Late,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	attempt.Status = model.AttemptStatusCompleted
	return true, nil
}
