package repository

import (
	"context"

	"github.com/lshigami/quizgate/internal/model"
	"gorm.io/gorm"
)

type ResponseRepository interface {
	WithTx(tx *gorm.DB) ResponseRepository
	Create(ctx context.Context, response *model.Response) error
	CreateBatch(ctx context.Context, responses []model.Response) error
	// FindByAttemptID returns the current selections of an attempt. Superseded
	// rows are left out.
	FindByAttemptID(ctx context.Context, attemptID uint) ([]model.Response, error)
	// FindAllByAttemptID also returns superseded rows.
	FindAllByAttemptID(ctx context.Context, attemptID uint) ([]model.Response, error)
	// CountByQuestionID counts every row ever recorded for a question,
	// superseded ones included.
	CountByQuestionID(ctx context.Context, questionID uint) (int64, error)
	SupersedeByAttemptAndQuestion(ctx context.Context, attemptID, questionID uint) error
}

type responseRepository struct {
	db *gorm.DB
}

func NewResponseRepository(db *gorm.DB) ResponseRepository {
	return &responseRepository{db: db}
}

func (r *responseRepository) WithTx(tx *gorm.DB) ResponseRepository {
	return &responseRepository{db: tx}
}

func (r *responseRepository) Create(ctx context.Context, response *model.Response) error {
	return r.db.WithContext(ctx).Create(response).Error
}

func (r *responseRepository) CreateBatch(ctx context.Context, responses []model.Response) error {
	if len(responses) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&responses).Error
}

func (r *responseRepository) FindByAttemptID(ctx context.Context, attemptID uint) ([]model.Response, error) {
	var responses []model.Response
	err := r.db.WithContext(ctx).Where("attempt_id = ?", attemptID).Order("id ASC").Find(&responses).Error
	return responses, err
}

func (r *responseRepository) FindAllByAttemptID(ctx context.Context, attemptID uint) ([]model.Response, error) {
	var responses []model.Response
	err := r.db.WithContext(ctx).Unscoped().Where("attempt_id = ?", attemptID).Order("id ASC").Find(&responses).Error
	return responses, err
}

func (r *responseRepository) CountByQuestionID(ctx context.Context, questionID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Unscoped().Model(&model.Response{}).Where("question_id = ?", questionID).Count(&n).Error
	return n, err
}

// SupersedeByAttemptAndQuestion soft-deletes the current selection of a
// question so a replacement can be recorded.
func (r *responseRepository) SupersedeByAttemptAndQuestion(ctx context.Context, attemptID, questionID uint) error {
	return r.db.WithContext(ctx).Where("attempt_id = ? AND question_id = ?", attemptID, questionID).Delete(&model.Response{}).Error
}
