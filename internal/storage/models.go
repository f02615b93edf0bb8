package storage

import "time"

// BookRecord represents a tracked book in the database.
type BookRecord struct {
	ID             string // UUID
	Title          string
	Author         string
	ArchiveID      string // Public archive book id, empty for manual imports
	CurrentPage    int
	TotalPages     int
	CurrentChapter int // Reader-set chapter ordinal; -1 means derive from page
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ChapterRecord is the persisted form of a segmented chapter. The chapter
// set is the round-trippable encoding of a book's Document and is always
// replaced wholesale when the source text changes.
type ChapterRecord struct {
	ID         string // Deterministic segmenter id, namespaced by book
	BookID     string
	OrderIndex int
	Title      string
	Content    string
	WordCount  int
}

// FragmentRecord is a manually captured passage. Page 0 means the passage
// was never placed; unplaced fragments are treated as earliest-available.
type FragmentRecord struct {
	ID        string // UUID
	BookID    string
	Page      int
	Text      string
	CreatedAt time.Time
}
