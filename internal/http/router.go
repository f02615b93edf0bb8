package http

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Camekazi/ReadingCompanion/internal/explain"
	"github.com/Camekazi/ReadingCompanion/internal/handlers"
	"github.com/Camekazi/ReadingCompanion/internal/library"
	"github.com/Camekazi/ReadingCompanion/internal/storage"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	DB        *sql.DB
	Books     storage.BookStore
	Chapters  storage.ChapterStore
	Fragments storage.FragmentStore
	Pipeline  *library.Pipeline
	Explainer explain.Explainer
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)
	r.Use(LoggerMiddleware)

	booksHandler := handlers.NewBooksHandler(deps.Books, deps.Chapters)
	ingestHandler := handlers.NewIngestHandler(deps.Pipeline)
	fragmentsHandler := handlers.NewFragmentsHandler(deps.Books, deps.Fragments)
	explainHandler := handlers.NewExplainHandler(deps.Explainer)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Check)

		r.Route("/books", func(r chi.Router) {
			r.Post("/", booksHandler.Create)
			r.Get("/", booksHandler.List)

			r.Route("/{bookID}", func(r chi.Router) {
				r.Post("/download", ingestHandler.Download)
				r.Post("/text", ingestHandler.ImportText)
				r.Get("/chapters", booksHandler.ListChapters)
				r.Put("/progress", booksHandler.UpdateProgress)
				r.Post("/fragments", fragmentsHandler.Create)
				r.Get("/fragments", fragmentsHandler.List)
				r.Post("/explain", explainHandler.Explain)
			})
		})
	})

	return r
}
