package buildinfo

import (
	"strings"
	"testing"
)

func stamp(t *testing.T, v, c, d string) {
	t.Helper()
	oldV, oldC, oldD := Version, Commit, Date
	Version, Commit, Date = v, c, d
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })
}

func TestString(t *testing.T) {
	tests := []struct {
		name          string
		v, c, d, want string
		dev           bool
	}{
		{"unstamped", "dev", "none", "unknown", "tetris development build (commit none)", true},
		{"release", "v0.3.0", "abc1234", "2026-10-18T09:00:00Z", "tetris v0.3.0 (abc1234, 2026-10-18T09:00:00Z)", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stamp(t, tt.v, tt.c, tt.d)
			if got := String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			if Dev() != tt.dev {
				t.Errorf("Dev() = %v, want %v", Dev(), tt.dev)
			}
		})
	}
}

func TestTemplateNamesTool(t *testing.T) {
	stamp(t, "v1.0.0", "abc", "today")
	got := Template()
	if !strings.HasPrefix(got, "tetris v1.0.0") || !strings.HasSuffix(got, "\n") {
		t.Errorf("Template() = %q", got)
	}
	if strings.Contains(got, "{{") {
		t.Errorf("Template() should not need cobra fields: %q", got)
	}
}
