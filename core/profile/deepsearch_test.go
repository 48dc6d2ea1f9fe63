package profile

import (
	"encoding/json"
	"testing"
)

func decode(t *testing.T, raw string) interface{} {
	t.Helper()
	var v interface{}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("decode() failed: %v", err)
	}
	return v
}

func TestExtractClassStd(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   int
		wantOK bool
	}{
		{name: "class_std", raw: `{"class_std": 8}`, want: 8, wantOK: true},
		{name: "classStd", raw: `{"classStd": 9}`, want: 9, wantOK: true},
		{name: "class", raw: `{"class": 10}`, want: 10, wantOK: true},
		{name: "known key beats regex key", raw: `{"std_level": 5, "class_std": 6}`, want: 6, wantOK: true},
		{name: "regex key match", raw: `{"student_std": 7}`, want: 7, wantOK: true},
		{name: "case-insensitive regex", raw: `{"ClassLevel": 4}`, want: 4, wantOK: true},
		{name: "digit string value", raw: `{"class_std": "11"}`, want: 11, wantOK: true},
		{name: "nested object", raw: `{"user": {"profile": {"class_std": 3}}}`, want: 3, wantOK: true},
		{name: "inside array", raw: `{"students": [{"name": "a"}, {"class_std": 2}]}`, want: 2, wantOK: true},
		{name: "out of range rejected", raw: `{"class_std": 42}`, wantOK: false},
		{name: "zero rejected", raw: `{"class_std": 0}`, wantOK: false},
		{name: "fractional rejected", raw: `{"class_std": 7.5}`, wantOK: false},
		{name: "non-digit string rejected", raw: `{"class_std": "7th"}`, wantOK: false},
		{name: "no match", raw: `{"name": "a", "email": "a@b.c"}`, wantOK: false},
		{name: "out-of-range skipped for deeper match", raw: `{"class_std": 99, "nested": {"class": 6}}`, want: 6, wantOK: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractClassStd(decode(t, tt.raw), 1, 12)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ExtractClassStd() = (%d, %t), want (%d, %t)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestExtractClassStd_nilAndScalars(t *testing.T) {
	for _, v := range []interface{}{nil, "8", 8.0, true} {
		if _, ok := ExtractClassStd(v, 1, 12); ok {
			t.Errorf("ExtractClassStd(%#v) matched, want no match", v)
		}
	}
}

func TestExtractClassStd_cycleSafe(t *testing.T) {
	inner := map[string]interface{}{"name": "loop"}
	inner["self"] = inner
	outer := map[string]interface{}{"a": inner, "b": map[string]interface{}{"class_std": 5.0}}

	got, ok := ExtractClassStd(outer, 1, 12)
	if !ok || got != 5 {
		t.Errorf("ExtractClassStd() = (%d, %t), want (5, true)", got, ok)
	}
}

func TestExtractClassStd_depthBound(t *testing.T) {
	leaf := map[string]interface{}{"class_std": 5.0}
	v := interface{}(leaf)
	for i := 0; i < maxSearchDepth+2; i++ {
		v = map[string]interface{}{"wrap": v}
	}
	if _, ok := ExtractClassStd(v, 1, 12); ok {
		t.Error("ExtractClassStd() matched beyond the depth bound")
	}
}
