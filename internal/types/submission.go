// Package types provides type definitions for the data exchanged by the resume upload widget.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// SelectedFile describes the file currently chosen in the widget.
type SelectedFile struct {
	Name      string `json:"name" validate:"required"`
	SizeBytes int64  `json:"size_bytes" validate:"gte=0"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validate validates the SelectedFile using the validator.
func (f *SelectedFile) Validate() error {
	validateOnce.Do(func() {
		validate = validator.New()
	})

	err := validate.Struct(f)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	fe := fieldErrs[0]
	return fmt.Errorf("selected file %s failed %s validation", strings.ToLower(fe.Field()), fe.Tag())
}

// SubmissionResult is the JSON body returned by POST /api/resumes.
// Decoding is lenient: success is read by truthiness, message and error
// accept any scalar, and a data or ai_data of the wrong type is tolerated.
type SubmissionResult struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    *SubmissionData `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// SubmissionData carries what the server stored plus the extracted profile.
type SubmissionData struct {
	ID     string            `json:"id,omitempty"`
	Name   Text              `json:"name,omitempty"`
	Email  Text              `json:"email,omitempty"`
	AIData *ExtractedProfile `json:"ai_data,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler. Only a non-object body is an
// error.
func (r *SubmissionResult) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return errors.New("response body is null")
	}

	*r = SubmissionResult{
		Success: truthy(decodeAny(raw["success"])),
		Message: displayString(decodeAny(raw["message"])),
		Error:   displayString(decodeAny(raw["error"])),
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw["data"], &fields); err != nil || fields == nil {
		return nil
	}
	r.Data = &SubmissionData{
		ID:    scalarString(decodeAny(fields["id"])),
		Name:  Text(displayString(decodeAny(fields["name"]))),
		Email: Text(displayString(decodeAny(fields["email"]))),
	}

	aiData := decodeAny(fields["ai_data"])
	if !truthy(aiData) {
		return nil
	}
	// Any truthy ai_data shows the results panel; only an object has fields.
	r.Data.AIData = &ExtractedProfile{}
	if _, ok := aiData.(map[string]any); ok {
		if err := json.Unmarshal(fields["ai_data"], r.Data.AIData); err != nil {
			return err
		}
	}
	return nil
}

// Profile returns the extracted profile, or nil when the server sent none.
func (r *SubmissionResult) Profile() *ExtractedProfile {
	if r == nil || r.Data == nil {
		return nil
	}
	return r.Data.AIData
}

// ExtractedProfile holds the fields the server extracted from the resume.
// Every field is optional.
type ExtractedProfile struct {
	FullName        Text    `json:"nome_completo,omitempty"`
	Email           Text    `json:"email,omitempty"`
	Phone           Text    `json:"telefone,omitempty"`
	Skills          *Skills `json:"principais_habilidades,omitempty"`
	DesiredRole     Text    `json:"cargo_desejado,omitempty"`
	ExperienceYears Text    `json:"experiencia_anos,omitempty"`
	Education       Text    `json:"formacao_academica,omitempty"`
}

// Text is an optional display value. The empty string means absent.
// It decodes any JSON scalar; null, "", false and 0 decode as absent.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*t = Text(displayString(v))
	return nil
}

// Value returns the text and whether it is present.
func (t Text) Value() (string, bool) {
	return string(t), t != ""
}

// Or returns the text, or def when absent.
func (t Text) Or(def string) string {
	if t == "" {
		return def
	}
	return string(t)
}

// Skills holds principais_habilidades, which servers send either as a
// list or as a single string.
type Skills struct {
	Items []string
	Text  string
	List  bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Skills) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	*s = Skills{}
	if items, ok := v.([]any); ok {
		s.List = true
		s.Items = make([]string, 0, len(items))
		for _, item := range items {
			s.Items = append(s.Items, scalarString(item))
		}
		return nil
	}
	s.Text = displayString(v)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s Skills) MarshalJSON() ([]byte, error) {
	if s.List {
		items := s.Items
		if items == nil {
			items = []string{}
		}
		return json.Marshal(items)
	}
	return json.Marshal(s.Text)
}

// Present reports whether the skills line should be shown at all.
// An empty list is present; an empty string is not.
func (s *Skills) Present() bool {
	return s != nil && (s.List || s.Text != "")
}

// String renders the skills, joining list items with ", ".
func (s *Skills) String() string {
	if s == nil {
		return ""
	}
	if s.List {
		return strings.Join(s.Items, ", ")
	}
	return s.Text
}

// NewSkillList builds a list-valued Skills.
func NewSkillList(items ...string) *Skills {
	return &Skills{Items: items, List: true}
}

// decodeAny decodes raw into a generic value. Missing or malformed input
// decodes as nil.
func decodeAny(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

// truthy reports whether a decoded JSON value counts as set: null, false,
// 0 and "" do not; objects and arrays always do.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != ""
	default:
		return true
	}
}

// displayString converts a decoded JSON value to its display form.
// Falsy scalars become "".
func displayString(v any) string {
	switch val := v.(type) {
	case bool:
		if !val {
			return ""
		}
	case float64:
		if val == 0 {
			return ""
		}
	}
	return scalarString(v)
}

// scalarString stringifies a decoded JSON value the way a list join does:
// null becomes "", everything else keeps its value.
func scalarString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, scalarString(item))
		}
		return strings.Join(parts, ",")
	default:
		encoded, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}
