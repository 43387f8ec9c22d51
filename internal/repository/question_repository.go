package repository

import (
	"context"
	"time"

	"github.com/lshigami/quizgate/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	WithTx(tx *gorm.DB) QuestionRepository
	Create(ctx context.Context, question *model.Question) error
	FindByID(ctx context.Context, id uint) (*model.Question, error)
	FindByTestID(ctx context.Context, testID uint) ([]model.Question, error)
	// FindByTestIDAsOf returns the questions the test had at the given time,
	// including ones deleted since.
	FindByTestIDAsOf(ctx context.Context, testID uint, at time.Time) ([]model.Question, error)
	Delete(ctx context.Context, id uint) error
	DeleteByTestID(ctx context.Context, testID uint) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) WithTx(tx *gorm.DB) QuestionRepository {
	return &questionRepository{db: tx}
}

func (r *questionRepository) Create(ctx context.Context, question *model.Question) error {
	return r.db.WithContext(ctx).Create(question).Error
}

func (r *questionRepository) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	var question model.Question
	if err := r.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

// FindByTestID returns live questions in creation order.
func (r *questionRepository) FindByTestID(ctx context.Context, testID uint) ([]model.Question, error) {
	var questions []model.Question
	if err := r.db.WithContext(ctx).Where("test_id = ?", testID).Order("id ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) FindByTestIDAsOf(ctx context.Context, testID uint, at time.Time) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.WithContext(ctx).Unscoped().
		Where("test_id = ? AND created_at <= ? AND (deleted_at IS NULL OR deleted_at > ?)", testID, at, at).
		Order("id ASC").
		Find(&questions).Error
	return questions, err
}

func (r *questionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Question{}, id).Error
}

func (r *questionRepository) DeleteByTestID(ctx context.Context, testID uint) error {
	return r.db.WithContext(ctx).Where("test_id = ?", testID).Delete(&model.Question{}).Error
}
