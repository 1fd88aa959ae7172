package plan

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// planRecord mirrors the plan store's document. The store keeps sets, reps
// and duration as strings, so the numeric fields accept either form.
type planRecord struct {
	ID          string           `json:"_id" yaml:"id"`
	Title       string           `json:"title" yaml:"title"`
	Difficulty  string           `json:"difficulty" yaml:"difficulty"`
	Focus       string           `json:"focus" yaml:"focus"`
	Description string           `json:"description" yaml:"description"`
	CreatedBy   string           `json:"createdBy" yaml:"created_by"`
	Exercises   []exerciseRecord `json:"exercises" yaml:"exercises"`
}

type exerciseRecord struct {
	Name     string     `json:"name" yaml:"name"`
	Sets     flexInt    `json:"sets" yaml:"sets"`
	Reps     flexString `json:"reps" yaml:"reps"`
	Duration flexInt    `json:"duration" yaml:"duration"`
}

func (r planRecord) toPlan() *WorkoutPlan {
	p := &WorkoutPlan{
		ID:          r.ID,
		Title:       r.Title,
		Difficulty:  r.Difficulty,
		Focus:       r.Focus,
		Description: r.Description,
		CreatedBy:   r.CreatedBy,
		Exercises:   make([]Exercise, len(r.Exercises)),
	}
	for i, e := range r.Exercises {
		p.Exercises[i] = Exercise{
			Name:     strings.TrimSpace(e.Name),
			Sets:     int(e.Sets),
			Reps:     strings.TrimSpace(string(e.Reps)),
			Duration: int(e.Duration),
		}
	}
	return p
}

// DecodeJSON parses a plan store JSON document. It does not validate.
func DecodeJSON(data []byte) (*WorkoutPlan, error) {
	var rec planRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding plan: %w", err)
	}
	return rec.toPlan(), nil
}

// DecodeYAML parses a YAML plan file. It does not validate.
func DecodeYAML(data []byte) (*WorkoutPlan, error) {
	var rec planRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding plan: %w", err)
	}
	return rec.toPlan(), nil
}

// flexInt decodes 30, "30" and "" (absent).
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*f = 0
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	return f.parse(s)
}

func (f *flexInt) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number", node.Line)
	}
	if node.Tag == "!!null" {
		*f = 0
		return nil
	}
	return f.parse(node.Value)
}

func (f *flexInt) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("%q is not a whole number", s)
	}
	*f = flexInt(n)
	return nil
}

// flexString decodes "10", 10 and null.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch {
	case s == "null":
		*f = ""
	case strings.HasPrefix(s, `"`):
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*f = flexString(v)
	default:
		*f = flexString(s)
	}
	return nil
}

func (f *flexString) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar", node.Line)
	}
	if node.Tag == "!!null" {
		*f = ""
		return nil
	}
	*f = flexString(node.Value)
	return nil
}
