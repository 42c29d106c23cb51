package models

import (
	"reflect"
	"testing"
)

func TestStepResultIntValue(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  int
		ok    bool
	}{
		{"int", 6, 6, true},
		{"int64", int64(8), 8, true},
		{"json number", float64(12), 12, true},
		{"fractional", 1.5, 0, false},
		{"string", "6", 0, false},
		{"nil", nil, 0, false},
	}
	for _, tc := range cases {
		r := &StepResult{Value: tc.value}
		got, ok := r.IntValue()
		if got != tc.want || ok != tc.ok {
			t.Errorf("%s: IntValue() = %d, %v; want %d, %v", tc.name, got, ok, tc.want, tc.ok)
		}
	}

	var nilResult *StepResult
	if _, ok := nilResult.IntValue(); ok {
		t.Error("nil receiver must report no value")
	}
}

func TestStepResultStringList(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  []string
	}{
		{"bare string", "2025-06-09", []string{"2025-06-09"}},
		{"empty string", "", nil},
		{"string slice", []string{"a", "b"}, []string{"a", "b"}},
		{"json array", []any{"a", 3, "b"}, []string{"a", "b"}},
		{"number", 7, nil},
	}
	for _, tc := range cases {
		r := &StepResult{Value: tc.value}
		if got := r.StringList(); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("%s: StringList() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestSessionID(t *testing.T) {
	if got := SessionID("ch1", "u1"); got != "ch1_u1" {
		t.Errorf("SessionID = %q", got)
	}
}
