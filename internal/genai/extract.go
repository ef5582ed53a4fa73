package genai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/markusj17/Dynamic-Curriculum-AI/internal/models"
)

var fencedJSONRe = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// ExtractJSONArray isolates the JSON array inside a raw model response.
// The upstream contract demands bare JSON but in practice the output
// arrives wrapped in markdown fences or surrounded by prose. Strategy:
// take the contents of a ```json fence if one exists, otherwise slice
// from the first '[' to its depth-matched ']'.
func ExtractJSONArray(raw string) (string, error) {
	s := strings.TrimSpace(raw)

	if m := fencedJSONRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1]), nil
	}

	start := strings.IndexByte(s, '[')
	if start == -1 {
		return "", fmt.Errorf("no JSON array start found in response: %w", ErrMalformedResponse)
	}

	end, ok := matchBracket(s, start)
	if !ok {
		return "", fmt.Errorf("unbalanced JSON array in response: %w", ErrMalformedResponse)
	}
	return s[start : end+1], nil
}

// matchBracket returns the index of the ']' matching the '[' at start,
// counting depth while skipping string literals and escapes.
func matchBracket(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

type rawStep struct {
	ID                       string      `json:"id"`
	Title                    interface{} `json:"title"`
	StepType                 interface{} `json:"step_type"`
	EstimatedDurationMinutes *float64    `json:"estimated_duration_minutes"`
	Details                  interface{} `json:"details"`
	Completed                *bool       `json:"completed"`
}

// ParseSteps parses an extracted JSON array and validates every element
// against the step schema. A schema violation aborts the whole parse;
// partially valid paths are never returned.
func ParseSteps(jsonText string) ([]models.PathStep, error) {
	var raw []rawStep
	if err := json.Unmarshal([]byte(jsonText), &raw); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrMalformedResponse)
	}
	if len(raw) == 0 {
		return nil, &StepSchemaError{Index: -1, Reason: "step list is empty"}
	}

	steps := make([]models.PathStep, 0, len(raw))
	for i, r := range raw {
		title, ok := r.Title.(string)
		if !ok || title == "" {
			return nil, &StepSchemaError{Index: i, Reason: "missing or non-string title"}
		}
		stepType, ok := r.StepType.(string)
		if !ok || !models.ValidStepType(stepType) {
			return nil, &StepSchemaError{Index: i, Reason: "missing or unknown step_type"}
		}
		details, ok := r.Details.(map[string]interface{})
		if !ok {
			return nil, &StepSchemaError{Index: i, Reason: "details must be an object"}
		}

		step := models.PathStep{
			ID:       r.ID,
			Title:    title,
			StepType: stepType,
			Details:  details,
		}
		if r.EstimatedDurationMinutes != nil {
			d := int(*r.EstimatedDurationMinutes)
			step.EstimatedDurationMinutes = &d
		}
		if r.Completed != nil {
			step.Completed = *r.Completed
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// NormalizeSteps assigns a synthetic id to any step lacking one.
// Completion flags are left as parsed; callers that must not trust
// upstream completion state clear them before calling.
func NormalizeSteps(steps []models.PathStep) []models.PathStep {
	now := time.Now().UnixMilli()
	for i := range steps {
		if steps[i].ID == "" {
			steps[i].ID = fmt.Sprintf("step_%d_%d", now, i)
		}
		if steps[i].Details == nil {
			steps[i].Details = map[string]interface{}{}
		}
	}
	return steps
}
