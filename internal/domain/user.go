package domain

import (
	"strings"
)

// User is the backend's profile record. The client only ever holds a cached
// snapshot; the backend stays authoritative.
type User struct {
	ID               ID       `json:"id"`
	Name             string   `json:"name"`
	Email            string   `json:"email,omitempty"`
	Gender           string   `json:"gender,omitempty"`
	ApproximateAge   int      `json:"approximate_age,omitempty"`
	DetectedGender   string   `json:"detected_gender,omitempty"`
	DetectedAge      *int     `json:"detected_age,omitempty"`
	GenderConfidence *float64 `json:"gender_confidence,omitempty"`
	AgeConfidence    *float64 `json:"age_confidence,omitempty"`
	IsGuest          bool     `json:"is_guest"`
	IsActive         bool     `json:"is_active"`
	CreatedAt        string   `json:"created_at,omitempty"`
	LastSeen         string   `json:"last_seen,omitempty"`
}

// HasAge reports whether any age is known for the user.
func (u *User) HasAge() bool {
	return u.ApproximateAge > 0 || (u.DetectedAge != nil && *u.DetectedAge > 0)
}

// HasGender reports whether any gender is known for the user.
func (u *User) HasGender() bool {
	return u.Gender != "" || u.DetectedGender != ""
}

// NewUser is the payload for creating a user from a message sender.
type NewUser struct {
	Name           string `json:"name"`
	Gender         string `json:"gender,omitempty"`
	ApproximateAge int    `json:"approximate_age,omitempty"`
}

func (u NewUser) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrValidationFailed.WithMessage("name is required", 422)
	}
	if u.ApproximateAge < 0 || u.ApproximateAge > 150 {
		return ErrValidationFailed.WithMessage("approximate_age must be between 0 and 150", 422)
	}
	return nil
}

// Registration is the payload for the register endpoint.
type Registration struct {
	Name             string   `json:"name"`
	Email            string   `json:"email,omitempty"`
	Password         string   `json:"password,omitempty"`
	DetectedGender   string   `json:"detected_gender,omitempty"`
	DetectedAge      *int     `json:"detected_age,omitempty"`
	GenderConfidence *float64 `json:"gender_confidence,omitempty"`
	AgeConfidence    *float64 `json:"age_confidence,omitempty"`
}

// UserUpdate carries the mutable profile fields. Nil fields are left untouched.
type UserUpdate struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Gender   *string `json:"gender,omitempty"`
	Age      *int    `json:"age,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func (u UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.Gender == nil && u.Age == nil && u.IsActive == nil
}

// Session is a server-tracked span bounding a sequence of emotion snapshots.
type Session struct {
	ID             ID     `json:"id"`
	SessionID      string `json:"session_id,omitempty"`
	UserID         ID     `json:"user_id,omitempty"`
	StartTime      string `json:"start_time,omitempty"`
	EndTime        string `json:"end_time,omitempty"`
	IsActive       bool   `json:"is_active"`
	TotalSnapshots int    `json:"total_snapshots,omitempty"`
}
