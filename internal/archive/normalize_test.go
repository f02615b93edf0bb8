package archive

import (
	"strings"
	"testing"
)

func TestFlattenMarkdown(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "empty",
			content: "",
			want:    "",
		},
		{
			name:    "heading becomes its own block",
			content: "# CHAPTER I\n\nText one.",
			want:    "CHAPTER I\n\nText one.",
		},
		{
			name:    "inline formatting stripped",
			content: "Some *emphasized* and **bold** words.",
			want:    "Some emphasized and bold words.",
		},
		{
			name:    "paragraphs separated by blank line",
			content: "First paragraph.\n\nSecond paragraph.",
			want:    "First paragraph.\n\nSecond paragraph.",
		},
		{
			name:    "list items on separate lines",
			content: "- one\n- two",
			want:    "one\ntwo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FlattenMarkdown([]byte(tt.content))
			if got != tt.want {
				t.Errorf("FlattenMarkdown() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFlattenMarkdown_KeepsChapterMarkersLineAnchored(t *testing.T) {
	content := "## CHAPTER I\n\nText one.\n\n## CHAPTER II\n\nText two."

	got := FlattenMarkdown([]byte(content))

	for _, marker := range []string{"CHAPTER I", "CHAPTER II"} {
		found := false
		for _, line := range strings.Split(got, "\n") {
			if line == marker {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("FlattenMarkdown() output missing line-anchored marker %q:\n%s", marker, got)
		}
	}
}

func TestFlattenHTML(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "headings and paragraphs",
			content: "<html><body><h2>CHAPTER I</h2><p>Text one.</p></body></html>",
			want:    "CHAPTER I\n\nText one.",
		},
		{
			name:    "script and chrome dropped",
			content: "<html><head><style>p{}</style></head><body><nav>menu</nav><p>Kept.</p><script>x()</script></body></html>",
			want:    "Kept.",
		},
		{
			name:    "bare text without block markup",
			content: "just text",
			want:    "just text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FlattenHTML(strings.NewReader(tt.content))
			if err != nil {
				t.Fatalf("FlattenHTML() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("FlattenHTML() = %q, want %q", got, tt.want)
			}
		})
	}
}
