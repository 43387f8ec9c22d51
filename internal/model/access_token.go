package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TokenStatus string

const (
	TokenUnused  TokenStatus = "unused"
	TokenUsed    TokenStatus = "used"
	TokenExpired TokenStatus = "expired"
)

// TestAccessToken grants one candidate a single entry into one test.
// Rows are never deleted so attempts keep a valid audit trail.
type TestAccessToken struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	Token          string    `json:"token" gorm:"size:36;not null;uniqueIndex"`
	CandidateEmail string    `json:"candidate_email" gorm:"size:320;not null;index:idx_token_candidate_test"`
	TestID         uint      `json:"test_id" gorm:"not null;index:idx_token_candidate_test"`
	ExpirationTime time.Time `json:"expiration_time" gorm:"not null"`
	IsUsed         bool      `json:"is_used" gorm:"not null;default:false"`
	AttemptID      *uint     `json:"attempt_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BeforeCreate assigns a random v4 token when none was set.
func (t *TestAccessToken) BeforeCreate(tx *gorm.DB) error {
	if t.Token == "" {
		t.Token = uuid.NewString()
	}
	return nil
}

// Status reports the token state at now. Used takes precedence over expired.
func (t *TestAccessToken) Status(now time.Time) TokenStatus {
	if t.IsUsed {
		return TokenUsed
	}
	if !now.Before(t.ExpirationTime) {
		return TokenExpired
	}
	return TokenUnused
}
