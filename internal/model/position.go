package model

import (
	"time"

	"github.com/lib/pq"
)

var (
	// PositionOpen means the position accepts matching
	PositionOpen = "OPEN"
	// PositionClosed keeps the position listed but inactive
	PositionClosed = "CLOSED"

	// MatchModeAny scores candidates hitting at least one keyword
	MatchModeAny = "any"
	// MatchModeAll only scores candidates hitting every keyword
	MatchModeAll = "all"
)

// EditablePositionInfo is part of position that can be edited
type EditablePositionInfo struct {
	Title            string         `gorm:"type:text" json:"title"`
	Department       string         `gorm:"type:text" json:"department"`
	Category         string         `gorm:"type:text" json:"category"`
	Status           string         `gorm:"type:text;default:'OPEN'" json:"status"`
	MatchMode        string         `gorm:"type:text;default:'any'" json:"match_mode"`
	RequiredKeywords pq.StringArray `gorm:"type:text[]" json:"required_keywords"`
	Description      string         `gorm:"type:text" json:"description"`
}

// Position is gorm model for a job opening whose candidate matching is
// computed on demand by the match_candidates_for_position SQL function.
type Position struct {
	ID uint `gorm:"primaryKey;autoIncrement;->" json:"id"`
	EditablePositionInfo
	CreatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp;index" json:"updated_at"`
}
