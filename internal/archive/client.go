// Package archive fetches raw book text from a Gutendex-compatible public
// archive and normalizes it to plain text. The segmentation engine itself
// never does I/O; it receives the text this package produces.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
)

// ErrNoTextFormat is returned when the archive lists a book but offers no
// downloadable text version of it. This is the one failure the surrounding
// system surfaces to the user; it is not retried automatically. The caller
// decides whether to retry or offer manual entry instead.
var ErrNoTextFormat = errors.New("no downloadable text version")

// Client talks to a Gutendex-style archive API.
type Client struct {
	BaseURL string
	client  *http.Client
}

// NewClient creates an archive client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		client:  http.DefaultClient,
	}
}

// Book is a fetched archive book: metadata plus the full normalized text.
type Book struct {
	Title  string
	Author string
	Text   string
}

// bookMetadata mirrors the fields of the archive's book resource we use.
type bookMetadata struct {
	Title   string `json:"title"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
	Formats map[string]string `json:"formats"`
}

// FetchBook retrieves a book's metadata and text by archive ID. Plain-text
// formats are preferred; HTML is accepted as a fallback and flattened. If
// neither exists the book is not downloadable and ErrNoTextFormat is
// returned.
func (c *Client) FetchBook(ctx context.Context, archiveID string) (*Book, error) {
	meta, err := c.fetchMetadata(ctx, archiveID)
	if err != nil {
		return nil, err
	}

	assetURL, isHTML := pickTextFormat(meta.Formats)
	if assetURL == "" {
		return nil, fmt.Errorf("archive book %s: %w", archiveID, ErrNoTextFormat)
	}

	raw, err := c.fetchAsset(ctx, assetURL)
	if err != nil {
		return nil, err
	}

	text := string(raw)
	if isHTML {
		text, err = FlattenHTML(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to flatten html text: %w", err)
		}
	}

	book := &Book{
		Title: meta.Title,
		Text:  text,
	}
	if len(meta.Authors) > 0 {
		book.Author = meta.Authors[0].Name
	}
	return book, nil
}

func (c *Client) fetchMetadata(ctx context.Context, archiveID string) (*bookMetadata, error) {
	url := fmt.Sprintf("%s/books/%s", c.BaseURL, archiveID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch book metadata: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bad status %d fetching metadata: %s", resp.StatusCode, string(raw))
	}

	var meta bookMetadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("failed to decode book metadata: %w", err)
	}
	return &meta, nil
}

func (c *Client) fetchAsset(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch book text: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status %d fetching book text", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read book text: %w", err)
	}
	return raw, nil
}

// pickTextFormat chooses a downloadable format from the archive's format
// map: any text/plain variant first, then text/html. Zipped assets are
// skipped. Keys are visited in sorted order so the choice is deterministic.
func pickTextFormat(formats map[string]string) (url string, isHTML bool) {
	mimes := make([]string, 0, len(formats))
	for mime := range formats {
		mimes = append(mimes, mime)
	}
	sort.Strings(mimes)

	for _, mime := range mimes {
		if strings.HasPrefix(mime, "text/plain") && !strings.HasSuffix(formats[mime], ".zip") {
			return formats[mime], false
		}
	}
	for _, mime := range mimes {
		if strings.HasPrefix(mime, "text/html") && !strings.HasSuffix(formats[mime], ".zip") {
			return formats[mime], true
		}
	}
	return "", false
}
