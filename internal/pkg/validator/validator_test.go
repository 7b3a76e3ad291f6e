package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2024-03-15", "2000-01-01", "2024-02-29"}
	invalid := []string{"", "2024-3-15", "15-03-2024", "2024-03-32", "2023-02-29", "2024/03/15", "today"}
	for _, d := range valid {
		if _, ok := IsValidDate(d); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", d)
		}
	}
	for _, d := range invalid {
		if _, ok := IsValidDate(d); ok {
			t.Errorf("IsValidDate(%q) = true, want false", d)
		}
	}
}

func TestIsValidMonth(t *testing.T) {
	valid := []string{"2024-03", "2000-12"}
	invalid := []string{"", "2024-13", "2024-3", "03-2024", "2024"}
	for _, m := range valid {
		if _, ok := IsValidMonth(m); !ok {
			t.Errorf("IsValidMonth(%q) = false, want true", m)
		}
	}
	for _, m := range invalid {
		if _, ok := IsValidMonth(m); ok {
			t.Errorf("IsValidMonth(%q) = true, want false", m)
		}
	}
}

func TestIsValidEmployeeCode(t *testing.T) {
	valid := []string{"1000-0001", "9999-9999", "0000-0000"}
	invalid := []string{"", "1000-001", "10000-0001", "abcd-0001", "1000_0001", "1000-00011"}
	for _, c := range valid {
		if !IsValidEmployeeCode(c) {
			t.Errorf("IsValidEmployeeCode(%q) = false, want true", c)
		}
	}
	for _, c := range invalid {
		if IsValidEmployeeCode(c) {
			t.Errorf("IsValidEmployeeCode(%q) = true, want false", c)
		}
	}
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "employee_id", Message: "employee_id is required"},
		{Field: "action", Message: "action must be 'in' or 'out'"},
	}

	msg := errs.Error()
	if msg != "employee_id: employee_id is required; action: action must be 'in' or 'out'" {
		t.Errorf("unexpected Error() output: %q", msg)
	}

	m := errs.ToMap()
	if len(m) != 2 || m["employee_id"] == "" || m["action"] == "" {
		t.Errorf("unexpected ToMap() output: %v", m)
	}
}
