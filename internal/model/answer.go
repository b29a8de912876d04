package model

import "time"

// Answer rows are write-once. Zero-or-one per question; duplicate worker
// deliveries are filtered before creation, not by a uniqueness constraint.
type Answer struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	QuestionID uint      `json:"question_id" gorm:"not null;index"`
	Question   Question  `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	Text       string    `json:"answer_text" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at"`
}
