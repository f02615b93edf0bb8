// Package explain answers "what does this passage mean?" questions about a
// book using only content the reader has already seen. It rebuilds the
// book's Document from stored chapters, maps the reading position to a
// chapter ordinal, assembles the spoiler-bounded context, and prompts the
// chat-completion API with it.
package explain

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_explainer.go -package=mocks github.com/Camekazi/ReadingCompanion/internal/explain Explainer

import (
	"context"
	"errors"
	"fmt"

	"github.com/Camekazi/ReadingCompanion/internal/assembler"
	"github.com/Camekazi/ReadingCompanion/internal/contextutil"
	"github.com/Camekazi/ReadingCompanion/internal/library"
	"github.com/Camekazi/ReadingCompanion/internal/llm"
	"github.com/Camekazi/ReadingCompanion/internal/position"
	"github.com/Camekazi/ReadingCompanion/internal/segmenter"
	"github.com/Camekazi/ReadingCompanion/internal/storage"
)

var (
	// ErrBookNotFound is returned when the requested book does not exist.
	ErrBookNotFound = errors.New("book not found")
	// ErrEmptyPassage is returned when the request carries no passage text.
	ErrEmptyPassage = errors.New("passage is required")
	// ErrExternalService is returned when the chat-completion call fails.
	ErrExternalService = errors.New("external service error")
)

// Request asks for an explanation of a passage the reader just encountered.
type Request struct {
	BookID  string
	Passage string
}

// Response carries the explanation plus the position bookkeeping that
// bounded the context.
type Response struct {
	Explanation  string
	ChapterIndex int
	ContextChars int
}

// Explainer is the service interface the HTTP layer depends on.
type Explainer interface {
	Explain(ctx context.Context, req Request) (Response, error)
}

// Service implements Explainer over the storage repos and a chat client.
type Service struct {
	books     storage.BookStore
	chapters  storage.ChapterStore
	fragments storage.FragmentStore
	chat      llm.ChatClient
}

// NewService creates an explanation service.
func NewService(books storage.BookStore, chapters storage.ChapterStore, fragments storage.FragmentStore, chat llm.ChatClient) *Service {
	return &Service{
		books:     books,
		chapters:  chapters,
		fragments: fragments,
		chat:      chat,
	}
}

const systemPrompt = "You are a reading companion. Explain the passage the reader asks about " +
	"using only the excerpt of the book provided as context. The excerpt covers everything " +
	"the reader has seen so far; do not speculate about or reveal anything beyond it. " +
	"If the context is too thin to explain the passage, say so plainly."

// Explain builds the spoiler-bounded context for the book and asks the
// chat-completion API to explain the passage against it.
func (s *Service) Explain(ctx context.Context, req Request) (Response, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if req.Passage == "" {
		return Response{}, ErrEmptyPassage
	}

	book, err := s.books.GetByID(ctx, req.BookID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Response{}, ErrBookNotFound
		}
		return Response{}, fmt.Errorf("failed to load book: %w", err)
	}

	records, err := s.chapters.ListByBook(ctx, req.BookID)
	if err != nil {
		return Response{}, fmt.Errorf("failed to load chapters: %w", err)
	}

	// The book may have no downloaded text; the assembler then falls back
	// to scanned fragments.
	var doc *segmenter.Document
	if len(records) > 0 {
		d := library.DocumentFromRecords(records, book.Title, book.Author)
		doc = &d
	}

	ordinal := book.CurrentChapter
	if ordinal < 0 && doc != nil {
		ordinal = position.ChapterIndex(*doc, book.CurrentPage, book.TotalPages)
	}
	if ordinal < 0 {
		ordinal = 0
	}

	fragmentRecords, err := s.fragments.ListByBook(ctx, req.BookID)
	if err != nil {
		return Response{}, fmt.Errorf("failed to load fragments: %w", err)
	}
	fragments := make([]assembler.Fragment, len(fragmentRecords))
	for i, f := range fragmentRecords {
		fragments[i] = assembler.Fragment{Page: f.Page, Text: f.Text}
	}

	contextText := assembler.BuildContext(doc, ordinal, fragments, book.CurrentPage)
	logger.InfoContext(ctx, "context assembled",
		"book_id", req.BookID,
		"chapter_index", ordinal,
		"context_length", len(contextText),
		"fragments", len(fragments),
	)

	user := buildUserMessage(book.Title, book.Author, req.Passage, contextText)
	explanation, err := s.chat.Chat(ctx, systemPrompt, user)
	if err != nil {
		logger.ErrorContext(ctx, "chat completion failed", "error", err)
		return Response{}, fmt.Errorf("%w: %v", ErrExternalService, err)
	}

	return Response{
		Explanation:  explanation,
		ChapterIndex: ordinal,
		ContextChars: len(contextText),
	}, nil
}

func buildUserMessage(title, author, passage, contextText string) string {
	header := "Book: " + title
	if author != "" {
		header += " by " + author
	}
	if contextText == "" {
		contextText = "(no prior content available)"
	}
	return fmt.Sprintf("%s\n\nPassage to explain:\n%s\n\n--- Content read so far ---\n%s\n--- End content ---",
		header, passage, contextText)
}
