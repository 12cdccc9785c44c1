package model

import (
	"encoding/json"
	"time"
)

// Application review statuses.
const (
	ApplicationPending  = "pending"
	ApplicationAccepted = "accepted"
	ApplicationDeclined = "declined"
)

// Application is a whitelist application awaiting staff review. Once
// accepted or declined it is final; the transition out of pending
// happens at most once per row.
type Application struct {
	ID            string          `json:"id"`
	IdentityID    string          `json:"identity_id"`
	DisplayName   string          `json:"display_name"`
	CharacterName string          `json:"character_name"`
	Answers       json.RawMessage `json:"answers"`
	Status        string          `json:"status"`
	DeclineReason *string         `json:"decline_reason,omitempty"`
	ReviewedBy    *string         `json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time      `json:"reviewed_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
