package idgen

import (
	"fmt"
	"strings"
	"testing"
)

func TestGenerateSecureID(t *testing.T) {
	tests := []struct {
		name       string
		prefix     string
		length     int
		wantErr    bool
		wantPrefix string
	}{
		{name: "agent id", prefix: "agent", length: 16, wantPrefix: "agent_"},
		{name: "model config id", prefix: "model", length: 16, wantPrefix: "model_"},
		{name: "short suffix", prefix: "agent", length: 6, wantPrefix: "agent_"},
		{name: "long suffix", prefix: "agent", length: 32, wantPrefix: "agent_"},
		{name: "empty prefix", prefix: "", length: 16, wantErr: true},
		{name: "zero length", prefix: "agent", length: 0, wantErr: true},
		{name: "negative length", prefix: "agent", length: -4, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateSecureID(tt.prefix, tt.length)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GenerateSecureID() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !strings.HasPrefix(got, tt.wantPrefix) {
				t.Errorf("GenerateSecureID() = %v, want prefix %v", got, tt.wantPrefix)
			}
			if want := len(tt.prefix) + 1 + tt.length; len(got) != want {
				t.Errorf("GenerateSecureID() length = %v, want %v", len(got), want)
			}
			for _, ch := range got[len(tt.prefix)+1:] {
				if (ch < 'a' || ch > 'z') && (ch < '0' || ch > '9') {
					t.Errorf("GenerateSecureID() contains invalid character: %c", ch)
				}
			}
		})
	}
}

func TestGenerateSecureIDUniqueness(t *testing.T) {
	const iterations = 10000
	seen := make(map[string]bool, iterations)

	for i := 0; i < iterations; i++ {
		id, err := GenerateSecureID("agent", 16)
		if err != nil {
			t.Fatalf("GenerateSecureID() error = %v", err)
		}
		if seen[id] {
			t.Fatalf("GenerateSecureID() generated duplicate ID: %v", id)
		}
		seen[id] = true
	}
}

func TestValidateIDFormat(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		expectedPrefix string
		want           bool
	}{
		{name: "valid agent id", id: "agent_a3f8d2k9p1m4n7q2", expectedPrefix: "agent", want: true},
		{name: "valid model id", id: "model_x7y2z5w8r3t6u9v1", expectedPrefix: "model", want: true},
		{name: "wrong prefix", id: "agent_a3f8d2k9p1m4n7q2", expectedPrefix: "model", want: false},
		{name: "missing underscore", id: "agenta3f8d2k9p1m4n7q2", expectedPrefix: "agent", want: false},
		{name: "empty suffix", id: "agent_", expectedPrefix: "agent", want: false},
		{name: "uppercase suffix", id: "agent_A3F8D2K9", expectedPrefix: "agent", want: false},
		{name: "dashes in suffix", id: "agent_a3f8-d2k9", expectedPrefix: "agent", want: false},
		{name: "underscore in suffix", id: "agent_a3f8_d2k9", expectedPrefix: "agent", want: false},
		{name: "empty id", id: "", expectedPrefix: "agent", want: false},
		{name: "prefix only", id: "agent", expectedPrefix: "agent", want: false},
		{name: "digits only suffix", id: "agent_123456", expectedPrefix: "agent", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateIDFormat(tt.id, tt.expectedPrefix); got != tt.want {
				t.Errorf("ValidateIDFormat(%q, %q) = %v, want %v", tt.id, tt.expectedPrefix, got, tt.want)
			}
		})
	}
}

func TestValidateIDFormatGeneratedIDs(t *testing.T) {
	prefixes := []string{"agent", "model"}
	lengths := []int{6, 16, 24, 32}

	for _, prefix := range prefixes {
		for _, length := range lengths {
			t.Run(fmt.Sprintf("%s_%d", prefix, length), func(t *testing.T) {
				id, err := GenerateSecureID(prefix, length)
				if err != nil {
					t.Fatalf("GenerateSecureID() error = %v", err)
				}
				if !ValidateIDFormat(id, prefix) {
					t.Errorf("generated ID %q failed validation with prefix %q", id, prefix)
				}
			})
		}
	}
}

func BenchmarkGenerateSecureID(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := GenerateSecureID("agent", 16); err != nil {
			b.Fatal(err)
		}
	}
}
