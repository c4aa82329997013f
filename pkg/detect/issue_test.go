package detect

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/screenlint/screenlint/pkg/contrast"
	"gopkg.in/yaml.v3"
)

func TestElementInfoJSONOrder(t *testing.T) {
	info := ElementInfo{
		{Key: "type", Value: "android.widget.Button"},
		{Key: "resource_id", Value: ""},
		{Key: "class_name", Value: "MaterialButton"},
	}
	data, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"type":"android.widget.Button","resource_id":"","class_name":"MaterialButton"}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}

func TestElementInfoJSONRoundTrip(t *testing.T) {
	info := ElementInfo{
		{Key: "type", Value: "android.widget.TextView"},
		{Key: "text", Value: "faint label"},
		{Key: "contrast_ratio", Value: 1.43},
		{Key: "colors", Value: ElementInfo{
			{Key: "foreground", Value: contrast.RGB{R: 150, G: 150, B: 150}},
			{Key: "background", Value: contrast.RGB{R: 180, G: 180, B: 180}},
		}},
		{Key: "current_level", Value: 3},
	}
	first, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded ElementInfo
	if err := json.Unmarshal(first, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	second, err := json.Marshal(decoded)
	if err != nil {
		t.Fatalf("remarshal: %v", err)
	}
	if string(first) != string(second) {
		t.Errorf("round trip changed encoding:\n first = %s\nsecond = %s", first, second)
	}

	ratio, ok := decoded.Get("contrast_ratio").(float64)
	if !ok || ratio != 1.43 {
		t.Errorf("contrast_ratio = %v, want 1.43", decoded.Get("contrast_ratio"))
	}
	level, ok := decoded.Get("current_level").(int64)
	if !ok || level != 3 {
		t.Errorf("current_level = %v, want int64 3", decoded.Get("current_level"))
	}
	colors, ok := decoded.Get("colors").(ElementInfo)
	if !ok {
		t.Fatalf("colors = %T, want nested ElementInfo", decoded.Get("colors"))
	}
	if colors[0].Key != "foreground" || colors[1].Key != "background" {
		t.Errorf("nested key order = %q, %q", colors[0].Key, colors[1].Key)
	}
}

func TestElementInfoGet(t *testing.T) {
	info := ElementInfo{{Key: "type", Value: "x"}}
	if got := info.Get("type"); got != "x" {
		t.Errorf("Get(type) = %v", got)
	}
	if got := info.Get("missing"); got != nil {
		t.Errorf("Get(missing) = %v, want nil", got)
	}
}

func TestElementInfoYAMLOrder(t *testing.T) {
	info := ElementInfo{
		{Key: "type", Value: "android.widget.Button"},
		{Key: "resource_id", Value: "btn_save"},
		{Key: "size", Value: "30x50dp"},
	}
	data, err := yaml.Marshal(info)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := string(data)
	for _, key := range []string{"type:", "resource_id:", "size:"} {
		if !strings.Contains(out, key) {
			t.Fatalf("yaml missing %q:\n%s", key, out)
		}
	}
	if !(strings.Index(out, "type:") < strings.Index(out, "resource_id:") &&
		strings.Index(out, "resource_id:") < strings.Index(out, "size:")) {
		t.Errorf("yaml keys out of order:\n%s", out)
	}
}

func TestIssueJSON(t *testing.T) {
	issue := Issue{
		Category:      CategoryTouchTarget,
		Severity:      SeverityHigh,
		ElementInfo:   ElementInfo{{Key: "type", Value: "android.widget.Button"}},
		Description:   "Touch target size (30x50dp) smaller than recommended 44dp",
		FixSuggestion: "Increase touch target size to at least 44x44dp",
	}
	data, err := json.Marshal(issue)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Issue
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Category != issue.Category || decoded.Severity != issue.Severity {
		t.Errorf("decoded = %+v", decoded)
	}
	if decoded.Description != issue.Description {
		t.Errorf("description = %q", decoded.Description)
	}
}
