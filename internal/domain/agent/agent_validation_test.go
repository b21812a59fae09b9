package agent

import (
	"strings"
	"testing"
)

func TestValidateAgentRequiresName(t *testing.T) {
	v := NewAgentValidator(nil)

	a := &Agent{MaxSteps: 5}
	if err := v.ValidateAgent(a); err == nil {
		t.Fatalf("expected error for agent without name or display name")
	}

	a.DisplayName = "Research Helper"
	if err := v.ValidateAgent(a); err != nil {
		t.Fatalf("unexpected error with display name only: %v", err)
	}

	a.DisplayName = ""
	a.Name = "research_helper"
	if err := v.ValidateAgent(a); err != nil {
		t.Fatalf("unexpected error with name only: %v", err)
	}
}

func TestValidateAgentNameRules(t *testing.T) {
	v := NewAgentValidator(nil)

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"simple", "my_agent", false},
		{"unicode", "研究アシスタント", false},
		{"whitespace only", "   ", true},
		{"control character", "bad\x00name", true},
		{"too long", strings.Repeat("a", 121), true},
		{"max length", strings.Repeat("a", 120), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateAgentName(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateAgentName(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAgentMaxSteps(t *testing.T) {
	v := NewAgentValidator(nil)

	tests := []struct {
		name    string
		steps   int
		wantErr bool
	}{
		{"minimum", 1, false},
		{"maximum", 100, false},
		{"zero", 0, true},
		{"negative", -1, true},
		{"over maximum", 101, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Agent{Name: "stepper", MaxSteps: tt.steps}
			err := v.ValidateAgent(a)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateAgent with %d steps error = %v, wantErr %v", tt.steps, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAgentTextFields(t *testing.T) {
	v := NewAgentValidator(nil)

	longDescription := strings.Repeat("d", 4097)
	longPrompt := strings.Repeat("p", 32769)
	empty := ""

	a := &Agent{Name: "texty", MaxSteps: 5, Description: &longDescription}
	if err := v.ValidateAgent(a); err == nil {
		t.Fatalf("expected error for oversized description")
	}

	a = &Agent{Name: "texty", MaxSteps: 5, DutyPrompt: &longPrompt}
	if err := v.ValidateAgent(a); err == nil {
		t.Fatalf("expected error for oversized duty prompt")
	}

	// Optional fields may be present but empty.
	a = &Agent{Name: "texty", MaxSteps: 5, Description: &empty, DutyPrompt: &empty}
	if err := v.ValidateAgent(a); err != nil {
		t.Fatalf("unexpected error for empty optional fields: %v", err)
	}
}

func TestValidateAgentCustomConfig(t *testing.T) {
	v := NewAgentValidator(&AgentValidationConfig{
		MaxNameLength:        10,
		MaxDisplayNameLength: 10,
		MaxDescriptionLength: 10,
		MaxPromptLength:      10,
		MaxAuthorLength:      10,
		MinSteps:             2,
		MaxSteps:             4,
	})

	a := &Agent{Name: "short", MaxSteps: 3}
	if err := v.ValidateAgent(a); err != nil {
		t.Fatalf("unexpected error within custom limits: %v", err)
	}

	a.MaxSteps = 5
	if err := v.ValidateAgent(a); err == nil {
		t.Fatalf("expected error for steps above custom maximum")
	}

	a.MaxSteps = 3
	a.Name = "name_over_limit"
	if err := v.ValidateAgent(a); err == nil {
		t.Fatalf("expected error for name above custom length")
	}
}

func TestRevisionNumbering(t *testing.T) {
	draft := DraftRevision()
	if !draft.IsDraft() || draft.Number() != 0 {
		t.Fatalf("draft revision: IsDraft=%v Number=%d", draft.IsDraft(), draft.Number())
	}
	if draft.String() != "draft" {
		t.Fatalf("expected draft string, got %q", draft.String())
	}

	snap := SnapshotRevision(3)
	if snap.IsDraft() || snap.Number() != 3 {
		t.Fatalf("snapshot revision: IsDraft=%v Number=%d", snap.IsDraft(), snap.Number())
	}
	if snap.String() != "v3" {
		t.Fatalf("expected v3 string, got %q", snap.String())
	}

	if RevisionFromNumber(0) != DraftRevision() {
		t.Fatalf("expected wire 0 to map to the draft")
	}
	if RevisionFromNumber(-1) != DraftRevision() {
		t.Fatalf("expected negative wire value to map to the draft")
	}
	if RevisionFromNumber(7) != SnapshotRevision(7) {
		t.Fatalf("expected wire 7 to map to snapshot 7")
	}
}
