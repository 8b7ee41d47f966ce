package telegram

import (
	"strings"
	"testing"
)

func TestEscapeMarkdown(t *testing.T) {
	b := &Bot{}

	tests := []struct {
		input    string
		expected string
	}{
		{"plain text", "plain text"},
		{"$25-$50/hr", "$25\\-$50/hr"},
		{"C++ dev (remote)", "C\\+\\+ dev \\(remote\\)"},
		{"a_b*c[d]", "a\\_b\\*c\\[d\\]"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := b.escapeMarkdown(tt.input); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestEscapeMarkdown_NoUnescapedSpecials(t *testing.T) {
	b := &Bot{}
	out := b.escapeMarkdown("Fix my site! Budget: $1,000. Details > here.")
	for _, ch := range []string{"!", ".", ">"} {
		if strings.Contains(out, ch) && !strings.Contains(out, "\\"+ch) {
			t.Errorf("special %q left unescaped in %q", ch, out)
		}
	}
}
