package topic

import (
	"slices"
	"testing"
)

func TestTopic_Segments(t *testing.T) {
	tests := []struct {
		topic    Topic
		expected []string
	}{
		{"component.theme.applied", []string{"component", "theme", "applied"}},
		{"component.added", []string{"component", "added"}},
		{"single", []string{"single"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.topic.String(), func(t *testing.T) {
			if got := tt.topic.Segments(); !slices.Equal(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestTopic_ParentBaseChild(t *testing.T) {
	tp := Topic("component.theme.applied")
	if tp.Parent() != "component.theme" {
		t.Errorf("expected parent component.theme, got %q", tp.Parent())
	}
	if tp.Base() != "applied" {
		t.Errorf("expected base applied, got %q", tp.Base())
	}
	if Topic("single").Parent() != "" {
		t.Errorf("expected empty parent, got %q", Topic("single").Parent())
	}
	if Topic("single").Base() != "single" {
		t.Errorf("expected base single, got %q", Topic("single").Base())
	}
	if got := Topic("component").Child("added"); got != "component.added" {
		t.Errorf("expected component.added, got %q", got)
	}
	if got := Topic("").Child("added"); got != "added" {
		t.Errorf("expected added, got %q", got)
	}
	if got := Join("a", "b", "c"); got != "a.b.c" {
		t.Errorf("expected a.b.c, got %q", got)
	}
}

func TestTopic_IsValid(t *testing.T) {
	tests := []struct {
		topic Topic
		valid bool
	}{
		{"component.added", true},
		{"component.**", true},
		{"", false},
		{".component", false},
		{"component.", false},
		{"component..added", false},
	}
	for _, tt := range tests {
		if got := tt.topic.IsValid(); got != tt.valid {
			t.Errorf("IsValid(%q): expected %v, got %v", tt.topic, tt.valid, got)
		}
	}
}

func TestTopic_IsPattern(t *testing.T) {
	if Topic("component.added").IsPattern() {
		t.Error("expected plain topic not to be a pattern")
	}
	if !Topic("component.*").IsPattern() || !Topic("**").IsPattern() {
		t.Error("expected wildcard topics to be patterns")
	}
	if Topic("a*b.c").IsPattern() {
		t.Error("expected embedded star not to count as a wildcard segment")
	}
}

func TestTopic_Matches(t *testing.T) {
	tests := []struct {
		topic   Topic
		pattern Topic
		match   bool
	}{
		{"component.added", "component.added", true},
		{"component.added", "component.removed", false},
		{"component.added", "component.*", true},
		{"component.theme.applied", "component.*", false},
		{"component.theme.applied", "component.**", true},
		{"component", "component.**", true},
		{"component.theme.applied", "*.*.applied", true},
		{"component.theme.applied", "**.applied", true},
		{"component.theme.applied", "**", true},
		{"config.theme.reloaded", "component.**", false},
		{"component.added", "component.added.extra", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.topic)+"~"+string(tt.pattern), func(t *testing.T) {
			if got := tt.topic.Matches(tt.pattern); got != tt.match {
				t.Errorf("expected %v, got %v", tt.match, got)
			}
		})
	}
}
