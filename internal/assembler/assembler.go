// Package assembler produces the single text blob the AI collaborator is
// allowed to see. It enforces the spoiler boundary: assembled context never
// includes chapters or fragments beyond the reader's current position.
package assembler

import (
	"sort"
	"strings"

	"github.com/Camekazi/ReadingCompanion/internal/segmenter"
)

// Fragment is a discrete, page-stamped passage captured independently of
// chapter segmentation (e.g. a manually scanned excerpt). A Page of 0 means
// the passage was never placed; unplaced content sorts to the start of the
// book and is always visible.
type Fragment struct {
	Page int
	Text string
}

// BuildContext assembles the spoiler-bounded context. Document-derived
// content always wins: if doc is non-nil and its text through the current
// chapter is non-empty, that text is returned verbatim. Only otherwise are
// fragments used: those at or before currentPage, sorted ascending by page
// and joined with a blank line. The two sources are never concatenated, so
// duplicate or conflicting narrative stays out of the downstream prompt.
// The result may be empty but is never an error.
func BuildContext(doc *segmenter.Document, currentChapter int, fragments []Fragment, currentPage int) string {
	if doc != nil {
		if currentChapter < 0 {
			currentChapter = 0
		}
		if text := doc.TextThrough(currentChapter); text != "" {
			return text
		}
	}

	visible := make([]Fragment, 0, len(fragments))
	for _, f := range fragments {
		if f.Page <= currentPage {
			visible = append(visible, f)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Page < visible[j].Page
	})

	parts := make([]string, 0, len(visible))
	for _, f := range visible {
		parts = append(parts, f.Text)
	}
	return strings.Join(parts, "\n\n")
}
