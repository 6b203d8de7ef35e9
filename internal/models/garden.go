// ABOUTME: Plant and care-log records read by achievement predicates
// ABOUTME: Only aggregate counts are needed by the core; inserts support local bookkeeping
package models

import (
	"strings"
	"time"
)

// CareAction is the kind of care recorded in a care log
type CareAction string

const (
	CareWatering    CareAction = "watering"
	CareFertilizing CareAction = "fertilizing"
	CarePruning     CareAction = "pruning"
	CarePestControl CareAction = "pest_control"
	CareRepotting   CareAction = "repotting"
	CareMisting     CareAction = "misting"
)

// IsValid reports whether the action is a known care action
func (a CareAction) IsValid() bool {
	switch a {
	case CareWatering, CareFertilizing, CarePruning, CarePestControl, CareRepotting, CareMisting:
		return true
	}
	return false
}

// ParseCareAction converts user input into a CareAction
func ParseCareAction(s string) (CareAction, error) {
	a := CareAction(strings.ToLower(strings.TrimSpace(s)))
	if !a.IsValid() {
		return "", &ValidationError{Field: "action", Reason: "unknown care action"}
	}
	return a, nil
}

// Plant is a user's plant as seen by the achievement predicates
type Plant struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Species   string    `json:"species,omitempty"`
	Sunlight  int       `json:"sunlight"`
	Level     int       `json:"level"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
}

// CareLog is one recorded care action
type CareLog struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	PlantID   string     `json:"plant_id"`
	Action    CareAction `json:"action"`
	CreatedAt time.Time  `json:"created_at"`
}

// PlantFilter narrows a count of non-archived plants; zero values disable a bound
type PlantFilter struct {
	MinSunlight int
	MinLevel    int
}
