package segmenter

import "strings"

// Chapter is a titled, ordered span of a document's text. Chapters are
// created in bulk by Segment and are immutable afterwards; the whole set is
// replaced wholesale if the source text changes.
type Chapter struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	OrderIndex int    `json:"order_index"`
	WordCount  int    `json:"word_count"`
}

// Document is the complete segmented result for one book: the ordered
// chapter list plus the precomputed total word count. Title and Author are
// caller-supplied metadata passed through untouched.
type Document struct {
	Title      string    `json:"title,omitempty"`
	Author     string    `json:"author,omitempty"`
	Chapters   []Chapter `json:"chapters"`
	TotalWords int       `json:"total_words"`
}

// NewDocument builds a Document from chapters, re-indexing them so order
// indices are contiguous from zero and summing word counts. Used both by
// Segment and when rebuilding a Document from persisted chapters.
func NewDocument(chapters []Chapter) Document {
	total := 0
	for i := range chapters {
		chapters[i].OrderIndex = i
		total += chapters[i].WordCount
	}
	return Document{
		Chapters:   chapters,
		TotalWords: total,
	}
}

// TextThrough returns the concatenated content of all chapters whose order
// index is at most maxIndex, in reading order, joined with a blank line.
// This is the primitive the context assembler uses to bound spoilers.
// Out-of-range thresholds are clamped: negative yields the empty string,
// beyond the last index yields the full document.
func (d Document) TextThrough(maxIndex int) string {
	if maxIndex < 0 || len(d.Chapters) == 0 {
		return ""
	}
	if maxIndex >= len(d.Chapters) {
		maxIndex = len(d.Chapters) - 1
	}

	parts := make([]string, 0, maxIndex+1)
	for _, ch := range d.Chapters[:maxIndex+1] {
		parts = append(parts, ch.Content)
	}
	return strings.Join(parts, "\n\n")
}

// LastIndex returns the order index of the final chapter, or -1 for an
// empty document.
func (d Document) LastIndex() int {
	return len(d.Chapters) - 1
}
