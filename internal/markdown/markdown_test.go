package markdown

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "paragraph",
			source: "Heavyweight 400gsm fleece.",
			want:   "<p>Heavyweight 400gsm fleece.</p>",
		},
		{
			name:   "emphasis",
			source: "**Limited** run",
			want:   "<strong>Limited</strong>",
		},
		{
			name:   "list",
			source: "- pre-shrunk\n- garment dyed",
			want:   "<li>pre-shrunk</li>",
		},
		{
			name:   "gfm strikethrough",
			source: "~~sold out~~ restocked",
			want:   "<del>sold out</del>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToHTML(tt.source)
			if err != nil {
				t.Fatalf("ToHTML(%q): %v", tt.source, err)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("ToHTML(%q) = %q, want it to contain %q", tt.source, got, tt.want)
			}
		})
	}
}

// TestToHTML_EscapesRawHTML verifies that author-supplied HTML is escaped
// rather than passed through to the storefront.
func TestToHTML_EscapesRawHTML(t *testing.T) {
	got, err := ToHTML(`<script>alert("x")</script>`)
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if strings.Contains(got, "<script>") {
		t.Errorf("raw HTML passed through: %q", got)
	}
}
