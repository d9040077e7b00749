package normalize

import (
	"reflect"
	"testing"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Admin@Example.COM", "admin@example.com"},
		{"  admin@example.com  ", "admin@example.com"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Email(tt.in); got != tt.want {
			t.Errorf("Email(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHobbies(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   []string
	}{
		{"nil yields empty non-nil slice", nil, []string{}},
		{"single value", []string{"reading"}, []string{"reading"}},
		{"list passes through in order", []string{"reading", "chess", "hiking"}, []string{"reading", "chess", "hiking"}},
		{"blanks dropped", []string{"reading", "", "  ", "chess"}, []string{"reading", "chess"}},
		{"values trimmed", []string{" reading "}, []string{"reading"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Hobbies(tt.values)
			if got == nil {
				t.Fatal("Hobbies() returned nil; want non-nil slice")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Hobbies(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}
