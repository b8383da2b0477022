package remote

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tohpitoh/portal-gateway/internal/core/domain"
)

// The backend does not guarantee a consistent response envelope: the user
// record may arrive bare, nested under "user", or nested under "data", and
// lists may arrive bare or nested under "records" or "data". The functions
// here are the one place that instability is absorbed.

// userEnvelopes are the candidate wrapper fields for the user record, tried
// in priority order.
var userEnvelopes = []string{"user", "data"}

// listEnvelopes are the candidate wrapper fields for list payloads.
var listEnvelopes = []string{"records", "data"}

// normalizeUser extracts the canonical User from a profile payload of any of
// the known shapes and guarantees the role field is populated.
func normalizeUser(raw []byte) (domain.User, error) {
	rec, err := unwrapUser(raw)
	if err != nil {
		return domain.User{}, err
	}

	role := inferRole(rec)

	buf, err := json.Marshal(rec)
	if err != nil {
		return domain.User{}, fmt.Errorf("normalize user: %w", err)
	}
	var user domain.User
	if err := json.Unmarshal(buf, &user); err != nil {
		return domain.User{}, fmt.Errorf("normalize user: %w", err)
	}
	user.Role = role
	return user, nil
}

// unwrapUser returns the user record as a field map, preferring a nested
// "user" object, then a nested "data" object, then the payload itself.
func unwrapUser(raw []byte) (map[string]json.RawMessage, error) {
	var outer map[string]json.RawMessage
	if err := json.Unmarshal(raw, &outer); err != nil {
		return nil, fmt.Errorf("unwrap user: %w", err)
	}

	for _, key := range userEnvelopes {
		nested, ok := outer[key]
		if !ok {
			continue
		}
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(nested, &inner); err != nil || inner == nil {
			// Null or non-object under this key; try the next candidate.
			continue
		}
		return inner, nil
	}
	return outer, nil
}

// inferRole resolves the role for a raw user record. It is total: every
// input maps to some role, so an absent role never reaches the session core.
//
//	role present and non-empty      -> that role, verbatim
//	is_superuser or is_staff set    -> admin
//	user_type present and non-empty -> that value, verbatim
//	otherwise                       -> generic user
func inferRole(rec map[string]json.RawMessage) domain.Role {
	if s := stringField(rec, "role"); s != "" {
		return domain.Role(s)
	}
	if boolField(rec, "is_superuser") || boolField(rec, "is_staff") {
		return domain.RoleAdmin
	}
	if s := stringField(rec, "user_type"); s != "" {
		return domain.Role(s)
	}
	return domain.RoleGenericUser
}

// unwrapList accepts a bare array, or an array nested under "records" or
// "data". Anything else normalizes to an empty slice so backend shape drift
// degrades to "no data shown" rather than a failure.
func unwrapList[T any](raw []byte) []T {
	var items []T
	if err := json.Unmarshal(raw, &items); err == nil && items != nil {
		return items
	}

	var outer map[string]json.RawMessage
	if err := json.Unmarshal(raw, &outer); err != nil {
		return []T{}
	}
	for _, key := range listEnvelopes {
		nested, ok := outer[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(nested, &items); err == nil && items != nil {
			return items
		}
	}
	return []T{}
}

func stringField(rec map[string]json.RawMessage, key string) string {
	raw, ok := rec[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func boolField(rec map[string]json.RawMessage, key string) bool {
	raw, ok := rec[key]
	if !ok {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false
	}
	return b
}

// apiMessage extracts a human-readable failure message from an error body:
// a JSON "message" or "error" field, then the raw text, then a generic
// HTTP status line.
func apiMessage(body []byte, status int) string {
	var env struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Message != "" {
			return env.Message
		}
		if env.Error != "" {
			return env.Error
		}
	}
	if s := trimmed(body); s != "" {
		return s
	}
	return fmt.Sprintf("HTTP %d", status)
}

func trimmed(body []byte) string {
	const max = 512
	s := string(body)
	if len(s) > max {
		s = s[:max]
	}
	return strings.TrimSpace(s)
}
