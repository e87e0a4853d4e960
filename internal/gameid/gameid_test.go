package gameid

import (
	"strings"
	"testing"

	"github.com/fermigames/fermi/internal/randutil"
)

func TestGenerate(t *testing.T) {
	id := Generate()

	if len(id) != Length {
		t.Errorf("expected %d characters, got %d", Length, len(id))
	}
	if err := Validate(id); err != nil {
		t.Errorf("generated ID failed validation: %v", err)
	}
}

func TestGenerateDrawsWithoutReplacement(t *testing.T) {
	for i := 0; i < 100; i++ {
		id := Generate()
		seen := make(map[byte]bool)
		for j := 0; j < len(id); j++ {
			if seen[id[j]] {
				t.Fatalf("ID %s repeats letter %c", id, id[j])
			}
			seen[id[j]] = true
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	gen1 := NewGenerator(randutil.New(42))
	gen2 := NewGenerator(randutil.New(42))

	for i := 0; i < 10; i++ {
		id1, id2 := gen1.Generate(), gen2.Generate()
		if id1 != id2 {
			t.Errorf("same seed produced %s and %s", id1, id2)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid ID", "ABCDE", false},
		{"valid mixed letters", "QXZJM", false},
		{"too short", "ABCD", true},
		{"too long", "ABCDEF", true},
		{"empty", "", true},
		{"lowercase not allowed", "abcde", true},
		{"digits not allowed", "ABC1E", true},
		{"punctuation not allowed", "AB-DE", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestAlphabet(t *testing.T) {
	if len(alphabet) != 26 {
		t.Errorf("alphabet should have 26 characters, got %d", len(alphabet))
	}
	seen := make(map[rune]bool)
	for _, char := range alphabet {
		if seen[char] {
			t.Errorf("duplicate character in alphabet: %c", char)
		}
		seen[char] = true
	}
	if strings.ToUpper(alphabet) != alphabet {
		t.Error("alphabet should be uppercase")
	}
}
