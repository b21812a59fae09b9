package inference

import (
	"strings"
	"testing"
)

func TestParseNameList(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "json array",
			content: `["Ledger Scout", "Invoice Triager", "Billing Sentry"]`,
			want:    []string{"Ledger Scout", "Invoice Triager", "Billing Sentry"},
		},
		{
			name:    "fenced json array",
			content: "```json\n[\"Doc Harvester\", \"Page Weaver\"]\n```",
			want:    []string{"Doc Harvester", "Page Weaver"},
		},
		{
			name:    "json with surrounding prose",
			content: "Here are some ideas: [\"Query Pilot\", \"Schema Whisperer\"] hope that helps",
			want:    []string{"Query Pilot", "Schema Whisperer"},
		},
		{
			name:    "numbered lines",
			content: "1. Ticket Wrangler\n2. Queue Medic\n3) Escalation Scout",
			want:    []string{"Ticket Wrangler", "Queue Medic", "Escalation Scout"},
		},
		{
			name:    "bulleted quoted lines",
			content: "- \"Crawler One\"\n* 'Crawler Two'",
			want:    []string{"Crawler One", "Crawler Two"},
		},
		{
			name:    "duplicates collapse case insensitively",
			content: `["Helper", "helper", "HELPER", "Other"]`,
			want:    []string{"Helper", "Other"},
		},
		{
			name:    "blank and overlong entries dropped",
			content: "[\"\", \"" + strings.Repeat("x", 60) + "\", \"Keeper\"]",
			want:    []string{"Keeper"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseNameList(tt.content)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("name %d: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestStripListOrdinal(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1. Research Agent", "Research Agent"},
		{"12) Sweeper", "Sweeper"},
		{"Research Agent", "Research Agent"},
		{"2025 Planner", "2025 Planner"},
		{"42", "42"},
	}

	for _, tt := range tests {
		if got := stripListOrdinal(tt.in); got != tt.want {
			t.Errorf("stripListOrdinal(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
