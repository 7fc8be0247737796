package model

import "time"

type GPAPair struct {
	Overall float64 `json:"overall"`
	Major   float64 `json:"major"`
}

type RetakeSlot struct {
	Index    int    `json:"index"`
	CourseID string `json:"course_id"`
	Grade    string `json:"grade"`
}

type RetakeState struct {
	Tier     string       `json:"tier"`
	MaxSlots int          `json:"max_slots"`
	Slots    []RetakeSlot `json:"slots"`
	Eligible []Course     `json:"eligible"`
}

type SessionResponse struct {
	ID          string       `json:"id"`
	Premium     bool         `json:"premium"`
	Courses     []Course     `json:"courses"`
	Skipped     []SkippedRow `json:"skipped,omitempty"`
	Baseline    GPAPair      `json:"baseline"`
	Simulated   GPAPair      `json:"simulated"`
	IsSimulated bool         `json:"is_simulated"`
	Retake      RetakeState  `json:"retake"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type MajorToggleRequest struct {
	IsMajor *bool `json:"is_major" binding:"required"`
}

type PremiumRequest struct {
	Premium *bool `json:"premium" binding:"required"`
}

// SlotRequest updates one retake slot. Nil fields are left unchanged.
type SlotRequest struct {
	CourseID *string `json:"course_id"`
	Grade    *string `json:"grade"`
}

type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}
