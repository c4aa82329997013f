// Package report assembles detector findings into a stable, ordered
// accessibility report.
//
// Categories appear in the order their first issue was detected, and
// every serialization (JSON and YAML) preserves that order along with
// the diagnostic field order inside each issue.
package report

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/screenlint/screenlint/pkg/detect"
	"github.com/screenlint/screenlint/pkg/errors"
	"github.com/screenlint/screenlint/pkg/layout"
)

// Issue is the serialized view of a single detector finding.
type Issue struct {
	Severity      string             `json:"severity" yaml:"severity"`
	Description   string             `json:"description" yaml:"description"`
	FixSuggestion string             `json:"fix_suggestion" yaml:"fix_suggestion"`
	ElementInfo   detect.ElementInfo `json:"element_info" yaml:"element_info"`
	Bounds        *layout.Bounds     `json:"bounds" yaml:"bounds"`
}

// Summary counts the issues of one category by severity.
type Summary struct {
	Count          int `json:"count" yaml:"count"`
	HighSeverity   int `json:"high_severity" yaml:"high_severity"`
	MediumSeverity int `json:"medium_severity" yaml:"medium_severity"`
}

// Category groups the issues of one defect class.
type Category struct {
	Name    string
	Issues  []Issue
	Summary Summary
}

// Report is the complete result of one analysis run.
type Report struct {
	ID              uuid.UUID
	Timestamp       time.Time
	ImageDimensions [2]int
	TotalIssues     int
	Categories      []Category
}

// Build groups issues into a report. Categories keep the order in
// which their first issue appeared.
func Build(issues []detect.Issue, width, height int) *Report {
	r := &Report{
		ID:              uuid.New(),
		Timestamp:       time.Now().UTC(),
		ImageDimensions: [2]int{width, height},
		TotalIssues:     len(issues),
	}
	index := make(map[string]int)
	for _, found := range issues {
		i, ok := index[found.Category]
		if !ok {
			i = len(r.Categories)
			index[found.Category] = i
			r.Categories = append(r.Categories, Category{Name: found.Category})
		}
		cat := &r.Categories[i]
		cat.Issues = append(cat.Issues, Issue{
			Severity:      found.Severity,
			Description:   found.Description,
			FixSuggestion: found.FixSuggestion,
			ElementInfo:   found.ElementInfo,
			Bounds:        found.Bounds,
		})
		cat.Summary.Count++
		switch found.Severity {
		case detect.SeverityHigh:
			cat.Summary.HighSeverity++
		case detect.SeverityMedium:
			cat.Summary.MediumSeverity++
		}
	}
	return r
}

// Category returns the named category, or nil when absent.
func (r *Report) Category(name string) *Category {
	for i := range r.Categories {
		if r.Categories[i].Name == name {
			return &r.Categories[i]
		}
	}
	return nil
}

// SeverityTotals sums issue counts by severity across all categories.
func (r *Report) SeverityTotals() (high, medium int) {
	for _, cat := range r.Categories {
		high += cat.Summary.HighSeverity
		medium += cat.Summary.MediumSeverity
	}
	return high, medium
}

// MarshalJSON encodes the report with a fixed key order and categories
// in detection order.
func (r *Report) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := writeField(&buf, "id", r.ID.String()); err != nil {
		return nil, err
	}
	buf.WriteByte(',')
	if err := writeField(&buf, "timestamp", r.Timestamp.UTC().Format(time.RFC3339)); err != nil {
		return nil, err
	}
	buf.WriteByte(',')
	if err := writeField(&buf, "image_dimensions", r.ImageDimensions); err != nil {
		return nil, err
	}
	buf.WriteByte(',')
	if err := writeField(&buf, "total_issues", r.TotalIssues); err != nil {
		return nil, err
	}
	buf.WriteString(`,"issues_by_category":{`)
	for i, cat := range r.Categories {
		if i > 0 {
			buf.WriteByte(',')
		}
		issues := cat.Issues
		if issues == nil {
			issues = []Issue{}
		}
		if err := writeField(&buf, cat.Name, issues); err != nil {
			return nil, err
		}
	}
	buf.WriteString(`},"summary":{`)
	for i, cat := range r.Categories {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeField(&buf, cat.Name, cat.Summary); err != nil {
			return nil, err
		}
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

func writeField(buf *bytes.Buffer, key string, value any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}

// UnmarshalJSON decodes a report produced by MarshalJSON, preserving
// category order.
func (r *Report) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse report")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New(errors.ErrCodeInvalidFormat, "report must be a JSON object")
	}

	*r = Report{}
	summaries := make(map[string]Summary)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse report")
		}
		key, ok := tok.(string)
		if !ok {
			return errors.New(errors.ErrCodeInvalidFormat, "report keys must be strings")
		}
		switch key {
		case "id":
			var raw string
			if err := dec.Decode(&raw); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse report id")
			}
			id, err := uuid.Parse(raw)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse report id %q", raw)
			}
			r.ID = id
		case "timestamp":
			var raw string
			if err := dec.Decode(&raw); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse report timestamp")
			}
			ts, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse report timestamp %q", raw)
			}
			r.Timestamp = ts
		case "image_dimensions":
			var dims []int
			if err := dec.Decode(&dims); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse image dimensions")
			}
			if len(dims) != 2 {
				return errors.New(errors.ErrCodeInvalidFormat, "image_dimensions must have 2 entries, got %d", len(dims))
			}
			r.ImageDimensions = [2]int{dims[0], dims[1]}
		case "total_issues":
			if err := dec.Decode(&r.TotalIssues); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse total issues")
			}
		case "issues_by_category":
			if err := r.decodeCategories(dec); err != nil {
				return err
			}
		case "summary":
			if err := dec.Decode(&summaries); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse summary")
			}
		default:
			if err := skipValue(dec); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse report")
			}
		}
	}
	if _, err := dec.Token(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse report")
	}

	for i := range r.Categories {
		if s, ok := summaries[r.Categories[i].Name]; ok {
			r.Categories[i].Summary = s
		}
	}
	return nil
}

// decodeCategories walks the issues_by_category object in document
// order so category ordering survives a round trip.
func (r *Report) decodeCategories(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse categories")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New(errors.ErrCodeInvalidFormat, "issues_by_category must be a JSON object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse categories")
		}
		name, ok := tok.(string)
		if !ok {
			return errors.New(errors.ErrCodeInvalidFormat, "category names must be strings")
		}
		var issues []Issue
		if err := dec.Decode(&issues); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse category %q", name)
		}
		r.Categories = append(r.Categories, Category{Name: name, Issues: issues})
	}
	if _, err := dec.Token(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse categories")
	}
	return nil
}

// skipValue consumes one JSON value of any shape.
func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); ok && (delim == '{' || delim == '[') {
		for dec.More() {
			if err := skipValue(dec); err != nil {
				return err
			}
		}
		_, err = dec.Token()
		return err
	}
	return nil
}

// MarshalYAML encodes the report as a mapping with the same key and
// category order as the JSON form.
func (r *Report) MarshalYAML() (any, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	appendEntry := func(key string, value any) error {
		valNode := &yaml.Node{}
		if err := valNode.Encode(value); err != nil {
			return err
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key},
			valNode,
		)
		return nil
	}
	if err := appendEntry("id", r.ID.String()); err != nil {
		return nil, err
	}
	if err := appendEntry("timestamp", r.Timestamp.UTC().Format(time.RFC3339)); err != nil {
		return nil, err
	}
	if err := appendEntry("image_dimensions", []int{r.ImageDimensions[0], r.ImageDimensions[1]}); err != nil {
		return nil, err
	}
	if err := appendEntry("total_issues", r.TotalIssues); err != nil {
		return nil, err
	}

	byCategory := &yaml.Node{Kind: yaml.MappingNode}
	summary := &yaml.Node{Kind: yaml.MappingNode}
	for _, cat := range r.Categories {
		issuesNode := &yaml.Node{}
		if err := issuesNode.Encode(cat.Issues); err != nil {
			return nil, err
		}
		byCategory.Content = append(byCategory.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: cat.Name},
			issuesNode,
		)
		summaryNode := &yaml.Node{}
		if err := summaryNode.Encode(cat.Summary); err != nil {
			return nil, err
		}
		summary.Content = append(summary.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: cat.Name},
			summaryNode,
		)
	}
	root.Content = append(root.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: "issues_by_category"}, byCategory,
		&yaml.Node{Kind: yaml.ScalarNode, Value: "summary"}, summary,
	)
	return root, nil
}
