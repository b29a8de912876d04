package repository

import (
	"github.com/lshigami/Quokkas/internal/model"
	"gorm.io/gorm"
)

type AnswerRepository interface {
	Create(answer *model.Answer) error
	FindByQuestionID(questionID uint) (*model.Answer, error)
	ExistsByQuestionID(questionID uint) (bool, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) Create(answer *model.Answer) error {
	return r.db.Create(answer).Error
}

func (r *answerRepository) FindByQuestionID(questionID uint) (*model.Answer, error) {
	var answer model.Answer
	if err := r.db.Where("question_id = ?", questionID).First(&answer).Error; err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *answerRepository) ExistsByQuestionID(questionID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&model.Answer{}).Where("question_id = ?", questionID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
