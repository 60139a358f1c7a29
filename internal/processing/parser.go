// Package processing implements the asynchronous resume scoring pipeline:
// batch selection, per-resume model invocation, result persistence, and the
// counter transitions that keep job description aggregates consistent.
package processing

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Dimension is one scored evaluation axis from the model output.
type Dimension struct {
	Score *float64
	Note  *string
}

// ParsedOutput is the extracted view of one model reply. Every
// field is optional: a reply that is not even JSON still yields a usable
// ParsedOutput with RawJSON wrapping the original text.
type ParsedOutput struct {
	// RawJSON is what gets stored as analysis_json: the original reply when it
	// was valid JSON, otherwise {"raw": <original text>}.
	RawJSON string

	MatchScore *float64
	Summary    *string
	Issues     *string
	Skills     []string

	// Dimensions is keyed by the entries of model.DimensionKeys. Keys the
	// model omitted are absent.
	Dimensions map[string]Dimension

	CandidateName  *string
	CandidateEmail *string
	CandidatePhone *string
}

// ParseModelOutput never fails: extraction is best effort and anything that
// does not cast cleanly is simply left nil. Scores outside their valid range
// ([0,100] for match_score, [0,10] for dimensions) are dropped, not clamped.
func ParseModelOutput(raw string, dimensionKeys []string) ParsedOutput {
	out := ParsedOutput{Dimensions: map[string]Dimension{}}

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil || parsed == nil {
		wrapped, _ := json.Marshal(map[string]string{"raw": raw})
		out.RawJSON = string(wrapped)
		return out
	}
	out.RawJSON = raw

	out.MatchScore = numberInRange(parsed["match_score"], 0, 100)
	out.Summary = stringField(parsed["summary"])
	out.Issues = serializeIssues(parsed["issues"])
	out.Skills = stringSlice(parsed["skills"])

	if dims, ok := parsed["dimensions"].(map[string]interface{}); ok {
		for _, key := range dimensionKeys {
			entry, ok := dims[key].(map[string]interface{})
			if !ok {
				continue
			}
			out.Dimensions[key] = Dimension{
				Score: numberInRange(entry["score"], 0, 10),
				Note:  stringField(entry["note"]),
			}
		}
	}

	out.CandidateName = contactField(parsed, "candidate_name", "name")
	out.CandidateEmail = contactField(parsed, "candidate_email", "email")
	out.CandidatePhone = contactField(parsed, "candidate_phone", "phone")

	return out
}

// numberInRange casts v to float64, accepting numeric strings, and rejects
// values outside [min, max].
func numberInRange(v interface{}, min, max float64) *float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if f < min || f > max {
		return nil
	}
	return &f
}

func stringField(v interface{}) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

// serializeIssues stores whatever shape the model used for "issues" as a JSON
// string, falling back to plain stringification.
func serializeIssues(v interface{}) *string {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		s := fmt.Sprintf("%v", v)
		return &s
	}
	s := string(data)
	return &s
}

func stringSlice(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// contactField reads a contact value under its primary key, then a fallback
// key. Empty and non-string values are treated as absent so existing contact
// data is never overwritten with blanks.
func contactField(parsed map[string]interface{}, primary, fallback string) *string {
	for _, key := range []string{primary, fallback} {
		if s, ok := parsed[key].(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return &trimmed
			}
		}
	}
	return nil
}
