// Package segmenter converts raw book text into an ordered sequence of
// chapters. Input is messy by nature (OCR output, public-domain plain-text
// transcriptions) with no reliable structural markers, so segmentation works
// through layered fallback tiers: explicit chapter markers, blank-line runs,
// fixed-size word chunks, and finally the whole text as a single chapter.
// Segmentation never fails; an unsegmentable input degrades to the weakest
// tier rather than returning an error.
package segmenter

import (
	"fmt"
	"regexp"
	"strings"
)

// chunkWords is the chapter size used by the fixed-size chunking tier.
const chunkWords = 5000

const (
	// minRunSegments is the number of qualifying blank-run segments required
	// before the blank-run tier is considered a successful split.
	minRunSegments = 6
	// minSegmentChars is the trimmed length a blank-run segment must exceed
	// to count as non-trivial.
	minSegmentChars = 100
)

// markerPatterns is the ordered table of line-anchored chapter openings.
// Patterns are tried one at a time; the first pattern with at least one
// match anywhere in the text is used exclusively, and matches from
// lower-priority patterns are never mixed in. New markers go here, not in
// control flow.
var markerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^CHAPTER\s+[IVXLCDM0-9]+.*$`),
	regexp.MustCompile(`(?mi)^chapter\s+[ivxlcdm0-9]+.*$`),
	regexp.MustCompile(`(?m)^BOOK\s+[IVXLCDM0-9]+.*$`),
	regexp.MustCompile(`(?m)^\*\*\*\s*$`),
}

// blankRun matches runs of three or more consecutive newlines, the divider
// convention used by many plain-text transcriptions.
var blankRun = regexp.MustCompile(`\n{3,}`)

// draft is a chapter candidate produced by a tier, before IDs, order
// indices, and word counts are assigned.
type draft struct {
	title   string
	content string
}

// strategy is one segmentation tier. A nil result means the tier did not
// apply and the next tier should be tried.
type strategy func(text string) []draft

// strategies lists the tiers in strict priority order. The first non-empty
// result wins.
var strategies = []strategy{
	segmentByMarkers,
	segmentByBlankRuns,
	segmentByWordCount,
}

// Segment splits raw text into a Document. The docID namespaces the
// generated chapter IDs so chapters from different books never collide.
// Segmentation is a pure function of its input: identical text always
// yields an identical Document.
func Segment(raw, docID string) Document {
	// Carriage returns are transcription noise; strip them before any
	// pattern sees the text.
	text := strings.ReplaceAll(raw, "\r", "")

	var drafts []draft
	for _, tier := range strategies {
		if drafts = tier(text); len(drafts) > 0 {
			break
		}
	}
	if len(drafts) == 0 {
		drafts = []draft{{title: "Full Text", content: text}}
	}

	chapters := make([]Chapter, len(drafts))
	for i, d := range drafts {
		chapters[i] = Chapter{
			ID:         fmt.Sprintf("%s/ch/%d", docID, i),
			Title:      d.title,
			Content:    d.content,
			OrderIndex: i,
			WordCount:  countWords(d.content),
		}
	}
	return NewDocument(chapters)
}

// segmentByMarkers implements the marker tier. Every match position of the
// winning pattern becomes a chapter boundary; the matched marker line is
// the title and the content runs from just after the marker to just before
// the next boundary. Leading material before the first match is discarded.
func segmentByMarkers(text string) []draft {
	for _, pattern := range markerPatterns {
		locs := pattern.FindAllStringIndex(text, -1)
		if len(locs) == 0 {
			continue
		}

		drafts := make([]draft, 0, len(locs))
		for i, loc := range locs {
			end := len(text)
			if i+1 < len(locs) {
				end = locs[i+1][0]
			}
			// An empty span between adjacent markers still yields a chapter;
			// dropping it would break order-index contiguity.
			drafts = append(drafts, draft{
				title:   strings.TrimSpace(text[loc[0]:loc[1]]),
				content: strings.TrimSpace(text[loc[1]:end]),
			})
		}
		return drafts
	}
	return nil
}

// segmentByBlankRuns implements the blank-run tier: split on runs of three
// or more newlines and keep the non-trivial segments. The tier only applies
// when it finds more than five of them; fewer means the text has no usable
// blank-line structure and the fixed-size tier takes over.
func segmentByBlankRuns(text string) []draft {
	var qualifying []string
	for _, seg := range blankRun.Split(text, -1) {
		trimmed := strings.TrimSpace(seg)
		if len(trimmed) > minSegmentChars {
			qualifying = append(qualifying, trimmed)
		}
	}
	if len(qualifying) < minRunSegments {
		return nil
	}

	drafts := make([]draft, len(qualifying))
	for i, seg := range qualifying {
		drafts[i] = draft{
			title:   fmt.Sprintf("Section %d", i+1),
			content: seg,
		}
	}
	return drafts
}

// segmentByWordCount implements the fixed-size tier: consecutive chunks of
// chunkWords whitespace-delimited words, rejoined with single spaces. The
// final chunk may be shorter. Empty input yields no drafts, which falls
// through to the single-chapter fallback.
func segmentByWordCount(text string) []draft {
	words := strings.Fields(text)

	var drafts []draft
	for start := 0; start < len(words); start += chunkWords {
		end := start + chunkWords
		if end > len(words) {
			end = len(words)
		}
		drafts = append(drafts, draft{
			title:   fmt.Sprintf("Part %d", len(drafts)+1),
			content: strings.Join(words[start:end], " "),
		})
	}
	return drafts
}

// countWords counts whitespace-delimited tokens.
func countWords(s string) int {
	return len(strings.Fields(s))
}
