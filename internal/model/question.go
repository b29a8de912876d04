package model

import "time"

// Question rows are write-once: created on submission, never updated or deleted.
type Question struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Text      string    `json:"question_text" gorm:"type:text;not null"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
	CreatedAt time.Time `json:"created_at"`
}
