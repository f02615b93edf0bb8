// Package position translates a linear reading position (current page out
// of a total page count) into a best-guess chapter ordinal. Word count is a
// proxy for reading position, not page layout, so the estimate is
// approximate. It is deterministic, always a valid index, and monotone in
// the current page.
package position

import "github.com/Camekazi/ReadingCompanion/internal/segmenter"

// ChapterIndex estimates which chapter covers the given page. Progress is
// the clamped ratio currentPage/totalPages; the target word position is
// progress times the document's total word count, and the result is the
// first chapter whose cumulative word count reaches it. A zero totalPages
// or an empty document returns 0 rather than dividing by zero.
func ChapterIndex(doc segmenter.Document, currentPage, totalPages int) int {
	if len(doc.Chapters) == 0 || totalPages <= 0 {
		return 0
	}
	if currentPage < 0 {
		currentPage = 0
	}

	progress := float64(currentPage) / float64(totalPages)
	if progress > 1 {
		progress = 1
	}
	targetWords := progress * float64(doc.TotalWords)

	cumulative := 0
	for _, ch := range doc.Chapters {
		cumulative += ch.WordCount
		if float64(cumulative) >= targetWords {
			return ch.OrderIndex
		}
	}
	// Rounding at the very end can leave the target just past the last
	// cumulative count.
	return doc.Chapters[len(doc.Chapters)-1].OrderIndex
}
