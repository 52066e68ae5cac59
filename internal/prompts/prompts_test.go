package prompts

import (
	"strings"
	"testing"
)

func TestBuild(t *testing.T) {
	t.Run("base prompt only", func(t *testing.T) {
		got := Build("", "")
		if got != System {
			t.Error("expected unmodified system prompt")
		}
	})

	t.Run("selected text appended", func(t *testing.T) {
		got := Build("a reflex agent", "")
		if !strings.Contains(got, "a reflex agent") {
			t.Errorf("selected text missing: %q", got)
		}
		if !strings.HasPrefix(got, System) {
			t.Error("system prompt must come first")
		}
	})

	t.Run("quick action appended", func(t *testing.T) {
		for action, suffix := range QuickActions {
			got := Build("", action)
			if !strings.HasSuffix(got, suffix) {
				t.Errorf("action %q: suffix missing", action)
			}
		}
	})

	t.Run("unknown quick action ignored", func(t *testing.T) {
		if got := Build("", "translate"); got != System {
			t.Error("unknown action must not modify the prompt")
		}
	})

	t.Run("selected text and action combined", func(t *testing.T) {
		got := Build("some passage", "summarize")
		if !strings.Contains(got, "some passage") {
			t.Error("selected text missing")
		}
		if !strings.HasSuffix(got, QuickActions["summarize"]) {
			t.Error("action suffix must come last")
		}
	})
}

func TestOffTopic(t *testing.T) {
	t.Run("with reason and suggestions", func(t *testing.T) {
		got := OffTopic("cooking question", []string{"robot kinematics", "sensor fusion"})
		if !strings.Contains(got, "cooking question") {
			t.Error("reason missing")
		}
		if !strings.Contains(got, "- robot kinematics") {
			t.Error("suggestions missing")
		}
	})

	t.Run("without reason", func(t *testing.T) {
		got := OffTopic("", nil)
		if !strings.Contains(got, "outside the scope of this textbook.") {
			t.Errorf("expected generic refusal, got %q", got)
		}
	})
}
