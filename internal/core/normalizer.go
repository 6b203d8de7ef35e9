// ABOUTME: Response normalizer turning raw provider JSON into exactly one typed response variant
// ABOUTME: Missing required fields fail, confidence is clamped, closed enumerations are enforced
package core

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/raajvamsy/plantopia/internal/models"
)

// Normalize validates a raw provider payload for the given interaction type.
// Required fields are never defaulted: a missing or wrong-typed one yields a
// *models.MalformedResponseError. An unknown kind yields a *models.ValidationError.
func Normalize(kind models.InteractionType, raw map[string]any) (models.Response, error) {
	if !kind.IsValid() {
		return nil, &models.ValidationError{Field: "interaction_type", Reason: "unknown interaction type " + strconv.Quote(string(kind))}
	}
	if raw == nil {
		return nil, &models.MalformedResponseError{Kind: kind, Reason: "payload is empty"}
	}

	f := fields{kind: kind, raw: raw}
	switch kind {
	case models.InteractionPlantIdentification:
		return f.identification()
	case models.InteractionCareAdvice:
		return f.careAdvice()
	case models.InteractionDiseaseDiagnosis:
		return f.diagnosis()
	default:
		return f.chat()
	}
}

// fields reads typed values out of a raw payload, remembering the first failure
type fields struct {
	kind models.InteractionType
	raw  map[string]any
	err  error
}

func (f *fields) fail(field, reason string) {
	if f.err == nil {
		f.err = &models.MalformedResponseError{Kind: f.kind, Field: field, Reason: reason}
	}
}

func (f *fields) identification() (models.Response, error) {
	r := &models.PlantIdentification{
		Species:          f.text("species"),
		ScientificName:   f.text("scientific_name"),
		Family:           f.text("family"),
		ConfidenceScore:  f.confidence("confidence"),
		DifficultyLevel:  models.DifficultyLevel(f.enum("difficulty_level", difficultyLevels)),
		CommonNames:      f.list("common_names"),
		CareInstructions: f.list("care_instructions"),
		AdditionalNotes:  f.optionalText("additional_notes"),
	}
	if f.err != nil {
		return nil, f.err
	}
	return r, nil
}

func (f *fields) careAdvice() (models.Response, error) {
	r := &models.CareAdvice{
		Advice:             f.text("advice"),
		Priority:           models.Priority(f.enum("priority", priorities)),
		Timeline:           f.text("timeline"),
		ConfidenceScore:    f.confidence("confidence"),
		RecommendedActions: f.list("recommended_actions"),
		PreventiveMeasures: f.list("preventive_measures"),
		WarningSigns:       f.list("warning_signs"),
	}
	if f.err != nil {
		return nil, f.err
	}
	return r, nil
}

func (f *fields) diagnosis() (models.Response, error) {
	r := &models.DiseaseDiagnosis{
		DiseaseName:            f.text("disease_name"),
		Severity:               models.Severity(f.enum("severity", severities)),
		IsContagious:           f.boolean("is_contagious"),
		ConfidenceScore:        f.confidence("confidence"),
		TreatmentSteps:         f.list("treatment_steps"),
		PreventionTips:         f.list("prevention_tips"),
		ExpectedRecoveryTime:   f.optionalText("expected_recovery_time"),
		ProfessionalHelpNeeded: f.optionalBoolean("professional_help_needed"),
	}
	if f.err != nil {
		return nil, f.err
	}
	return r, nil
}

func (f *fields) chat() (models.Response, error) {
	r := &models.ChatReply{
		Response:         f.text("response"),
		SuggestedActions: f.list("suggested_actions"),
	}
	if f.err != nil {
		return nil, f.err
	}
	return r, nil
}

var (
	difficultyLevels = []string{string(models.DifficultyEasy), string(models.DifficultyMedium), string(models.DifficultyHard)}
	priorities       = []string{string(models.PriorityLow), string(models.PriorityMedium), string(models.PriorityHigh), string(models.PriorityUrgent)}
	severities       = []string{string(models.SeverityMild), string(models.SeverityModerate), string(models.SeveritySevere)}
)

// text reads a required, non-blank string
func (f *fields) text(key string) string {
	v, ok := f.raw[key]
	if !ok || v == nil {
		f.fail(key, "is required")
		return ""
	}
	s, ok := v.(string)
	if !ok {
		f.fail(key, "must be a string")
		return ""
	}
	s = strings.TrimSpace(s)
	if s == "" {
		f.fail(key, "cannot be empty")
	}
	return s
}

func (f *fields) optionalText(key string) string {
	v, ok := f.raw[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		f.fail(key, "must be a string")
		return ""
	}
	return strings.TrimSpace(s)
}

// enum reads a required string and checks it against a closed set
func (f *fields) enum(key string, allowed []string) string {
	s := strings.ToLower(f.text(key))
	if s == "" {
		return ""
	}
	for _, a := range allowed {
		if s == a {
			return s
		}
	}
	f.fail(key, "must be one of "+strings.Join(allowed, ", ")+", got "+strconv.Quote(s))
	return ""
}

// confidence reads a required number and clamps it into [0,1]
func (f *fields) confidence(key string) float64 {
	v, ok := f.raw[key]
	if !ok || v == nil {
		f.fail(key, "is required")
		return 0
	}
	n, ok := number(v)
	if !ok {
		f.fail(key, "must be a finite number")
		return 0
	}
	return models.ClampConfidence(n)
}

func (f *fields) boolean(key string) bool {
	v, ok := f.raw[key]
	if !ok || v == nil {
		f.fail(key, "is required")
		return false
	}
	b, ok := v.(bool)
	if !ok {
		f.fail(key, "must be a boolean")
	}
	return b
}

func (f *fields) optionalBoolean(key string) bool {
	v, ok := f.raw[key]
	if !ok || v == nil {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		f.fail(key, "must be a boolean")
	}
	return b
}

// list reads an optional string list, dropping blank and non-string entries
func (f *fields) list(key string) []string {
	v, ok := f.raw[key]
	if !ok || v == nil {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		if strs, isStrs := v.([]string); isStrs {
			items = make([]any, len(strs))
			for i, s := range strs {
				items[i] = s
			}
		} else {
			f.fail(key, "must be a list")
			return nil
		}
	}

	var out []string
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// number accepts the numeric shapes a decoded payload can carry
func number(v any) (float64, bool) {
	var n float64
	switch x := v.(type) {
	case float64:
		n = x
	case float32:
		n = float64(x)
	case int:
		n = float64(x)
	case int64:
		n = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		n = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
