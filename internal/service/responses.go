package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gdg-garage/camp-registration-api/internal/models"
)

const dateLayout = "2006-01-02"

// validateResponses checks answers keyed by custom field id against the
// camp's fields and returns them normalized. Unknown keys are rejected.
func validateResponses(fields []models.CustomField, responses map[string]any) (map[string]any, error) {
	byID := make(map[string]models.CustomField, len(fields))
	for _, f := range fields {
		byID[f.ID] = f
	}
	for key := range responses {
		if _, ok := byID[key]; !ok {
			return nil, models.Invalid("custom_field_responses."+key, "is not a field of this camp")
		}
	}

	out := make(map[string]any, len(responses))
	for _, field := range fields {
		location := "custom_field_responses." + field.ID
		value, present := responses[field.ID]
		if !present || isBlank(value) {
			if field.IsRequired {
				return nil, models.Invalid(location, "%s is required", field.FieldName)
			}
			continue
		}

		normalized, err := normalizeAnswer(field, value)
		if err != nil {
			return nil, models.Invalid(location, "%s %s", field.FieldName, err)
		}
		out[field.ID] = normalized
	}
	return out, nil
}

func normalizeAnswer(field models.CustomField, value any) (any, error) {
	switch field.FieldType {
	case models.FieldText:
		s, ok := value.(string)
		if !ok {
			return nil, errors.New("must be text")
		}
		return strings.TrimSpace(s), nil

	case models.FieldNumber:
		n, ok := asNumber(value)
		if !ok {
			return nil, errors.New("must be a number")
		}
		return n, nil

	case models.FieldDate:
		s, ok := value.(string)
		if !ok {
			return nil, errors.New("must be a date (YYYY-MM-DD)")
		}
		if _, err := time.Parse(dateLayout, strings.TrimSpace(s)); err != nil {
			return nil, errors.New("must be a date (YYYY-MM-DD)")
		}
		return strings.TrimSpace(s), nil

	case models.FieldDropdown:
		s, ok := value.(string)
		if !ok || !slices.Contains(field.Options, s) {
			return nil, fmt.Errorf("must be one of %s", strings.Join(field.Options, ", "))
		}
		return s, nil

	case models.FieldCheckbox:
		choices, ok := asStrings(value)
		if !ok {
			return nil, errors.New("must be a list of options")
		}
		for _, c := range choices {
			if !slices.Contains(field.Options, c) {
				return nil, fmt.Errorf("has unknown option %q", c)
			}
		}
		return choices, nil
	}
	return nil, fmt.Errorf("has unsupported type %q", field.FieldType)
}

func isBlank(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	}
	return false
}

func asNumber(value any) (float64, bool) {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	// NaN and infinities have no JSON encoding.
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func asStrings(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case string:
		return []string{v}, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
