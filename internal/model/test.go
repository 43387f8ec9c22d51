package model

import (
	"time"

	"gorm.io/gorm"
)

type Category string
type Mode string
type Level string

const (
	CategoryGeneral   Category = "general"
	CategoryTechnical Category = "technical"
	CategoryAptitude  Category = "aptitude"
	CategoryLanguage  Category = "language"

	ModePractice Mode = "practice"
	ModeExam     Mode = "exam"

	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryGeneral, CategoryTechnical, CategoryAptitude, CategoryLanguage:
		return true
	}
	return false
}

func (m Mode) Valid() bool {
	return m == ModePractice || m == ModeExam
}

func (l Level) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

const MaxTestTitleLength = 200

type Test struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Title     string         `json:"title" gorm:"size:200;not null"`
	Category  Category       `json:"category" gorm:"size:32;not null"`
	Mode      Mode           `json:"mode" gorm:"size:32;not null"`
	Level     Level          `json:"level" gorm:"size:32;not null"`
	TryAgain  bool           `json:"try_again"`
	ShowTimer bool           `json:"show_timer"`
	Duration  int            `json:"duration" gorm:"not null"` // minutes
	IsActive  bool           `json:"is_active" gorm:"not null;default:false"`
	Questions []Question     `json:"questions,omitempty" gorm:"foreignKey:TestID"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
