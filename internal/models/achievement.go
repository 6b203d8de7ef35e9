// ABOUTME: Achievement represents a per-user milestone with a monotonic pending -> completed state
// ABOUTME: Also defines achievement statistics and the known achievement type keys
package models

import (
	"errors"
	"math"
	"time"
)

// AchievementType is a key into the rule registry
type AchievementType string

const (
	AchievementFirstPlant    AchievementType = "first_plant"
	AchievementHydrationHero AchievementType = "hydration_hero"
	AchievementSunWorshipper AchievementType = "sun_worshipper"
	AchievementPestPro       AchievementType = "pest_pro"
	AchievementGrowthSpurt   AchievementType = "growth_spurt"
	AchievementCollector     AchievementType = "collector"
)

// Achievement is one (user, achievement_type) milestone row
type Achievement struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	AchievementType AchievementType `json:"achievement_type"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Icon            string          `json:"icon"`
	Color           string          `json:"color"`
	Completed       bool            `json:"completed"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Validate checks the achievement fields and the completed/completed_at pairing
func (a *Achievement) Validate() error {
	if a.UserID == "" {
		return errors.New("user ID cannot be empty")
	}
	if a.AchievementType == "" {
		return errors.New("achievement type cannot be empty")
	}
	if a.Title == "" {
		return errors.New("title cannot be empty")
	}
	if a.Completed != (a.CompletedAt != nil) {
		return errors.New("completed_at must be set exactly when completed is true")
	}
	return nil
}

// AchievementUpdate edits presentation fields only; completion state is owned by Complete
type AchievementUpdate struct {
	Title       *string
	Description *string
	Icon        *string
	Color       *string
}

// AchievementStats summarizes a user's progress
type AchievementStats struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	Pending        int `json:"pending"`
	CompletionRate int `json:"completion_rate"`
}

// NewAchievementStats derives pending count and the rounded completion percentage
func NewAchievementStats(total, completed int) AchievementStats {
	stats := AchievementStats{
		Total:     total,
		Completed: completed,
		Pending:   total - completed,
	}
	if total > 0 {
		stats.CompletionRate = int(math.Round(float64(completed) / float64(total) * 100))
	}
	return stats
}

// AchievementStatus narrows achievement listings
type AchievementStatus int

const (
	AchievementsAll AchievementStatus = iota
	AchievementsPending
	AchievementsCompleted
)

// AchievementQuery filters achievement listings at the repository level.
// Listings are ordered by creation, or by completed_at descending when RecentFirst is set.
type AchievementQuery struct {
	UserID      string
	Status      AchievementStatus
	RecentFirst bool
	// Limit <= 0 returns every matching row
	Limit int
}
