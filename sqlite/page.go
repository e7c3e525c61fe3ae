package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/sdkdoc"
)

// Compile-time interface verification.
var _ sdkdoc.PageService = (*PageService)(nil)

// PageService implements sdkdoc.PageService using SQLite.
type PageService struct {
	db *DB

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewPageService creates a new PageService.
func NewPageService(db *DB) *PageService {
	return &PageService{db: db, Now: time.Now}
}

const pageColumns = "url, title, description, category, markdown, fingerprint, signatures, examples, cross_references, processed_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanPage(row scanner) (*sdkdoc.Page, error) {
	var (
		page                          sdkdoc.Page
		fingerprint, processedAt      string
		signatures, examples, xrefRaw string
	)
	if err := row.Scan(&page.URL, &page.Title, &page.Description, &page.Category, &page.Markdown,
		&fingerprint, &signatures, &examples, &xrefRaw, &processedAt); err != nil {
		return nil, err
	}

	if fingerprint != "" {
		d, err := sdkdoc.ParseDigest(fingerprint)
		if err != nil {
			return nil, fmt.Errorf("failed to parse fingerprint: %w", err)
		}
		page.Fingerprint = d
	}
	if err := json.Unmarshal([]byte(signatures), &page.Signatures); err != nil {
		return nil, fmt.Errorf("failed to parse signatures: %w", err)
	}
	if err := json.Unmarshal([]byte(examples), &page.Examples); err != nil {
		return nil, fmt.Errorf("failed to parse examples: %w", err)
	}
	if err := json.Unmarshal([]byte(xrefRaw), &page.CrossReferences); err != nil {
		return nil, fmt.Errorf("failed to parse cross_references: %w", err)
	}
	var err error
	if page.ProcessedAt, err = parseRFC3339(processedAt, "processed_at"); err != nil {
		return nil, err
	}
	return &page, nil
}

// FindPageByURL retrieves a page by URL.
func (s *PageService) FindPageByURL(ctx context.Context, url string) (*sdkdoc.Page, error) {
	page, err := scanPage(s.db.QueryRowContext(ctx,
		"SELECT "+pageColumns+" FROM pages WHERE url = ?", url))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sdkdoc.Errorf(sdkdoc.ENOTFOUND, "page not found")
	}
	return page, err
}

// FindPages retrieves pages matching the filter, ordered by URL.
func (s *PageService) FindPages(ctx context.Context, filter sdkdoc.PageFilter) ([]*sdkdoc.Page, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + pageColumns + " FROM pages WHERE 1=1")
	if filter.Category != nil {
		query.WriteString(" AND category = ?")
		args = append(args, *filter.Category)
	}
	query.WriteString(" ORDER BY url ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pages := []*sdkdoc.Page{}
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}

// SavePage inserts or replaces a page. When an existing page's content
// changes, its old Markdown is kept as a revision.
func (s *PageService) SavePage(ctx context.Context, page *sdkdoc.Page) error {
	if err := page.Validate(); err != nil {
		return err
	}
	if page.ProcessedAt.IsZero() {
		page.ProcessedAt = s.Now().UTC()
	}

	signatures, err := marshalJSON(page.Signatures)
	if err != nil {
		return err
	}
	examples, err := marshalJSON(page.Examples)
	if err != nil {
		return err
	}
	xrefs, err := marshalJSON(page.CrossReferences)
	if err != nil {
		return err
	}
	hash := hashContent(page.Markdown)
	var fingerprint string
	if page.Fingerprint.Known() {
		fingerprint = page.Fingerprint.Hex()
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var oldMarkdown, oldHash string
	err = tx.QueryRowContext(ctx, "SELECT markdown, content_hash FROM pages WHERE url = ?", page.URL).
		Scan(&oldMarkdown, &oldHash)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return err
	case oldHash != hash:
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO page_revisions (url, markdown, content_hash, replaced_at)
			VALUES (?, ?, ?, ?)
		`, page.URL, oldMarkdown, oldHash, formatTime(s.Now())); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO pages (url, title, description, category, markdown, content_hash, fingerprint,
			signatures, examples, cross_references, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			category = excluded.category,
			markdown = excluded.markdown,
			content_hash = excluded.content_hash,
			fingerprint = excluded.fingerprint,
			signatures = excluded.signatures,
			examples = excluded.examples,
			cross_references = excluded.cross_references,
			processed_at = excluded.processed_at
	`, page.URL, page.Title, page.Description, page.Category, page.Markdown, hash, fingerprint,
		signatures, examples, xrefs, formatTime(page.ProcessedAt)); err != nil {
		return err
	}

	return tx.Commit()
}

// PreviousMarkdown returns the content a page had before its last change.
func (s *PageService) PreviousMarkdown(ctx context.Context, url string) (string, error) {
	var markdown string
	err := s.db.QueryRowContext(ctx, `
		SELECT markdown FROM page_revisions
		WHERE url = ?
		ORDER BY id DESC
		LIMIT 1
	`, url).Scan(&markdown)
	if errors.Is(err, sql.ErrNoRows) {
		return "", sdkdoc.Errorf(sdkdoc.ENOTFOUND, "no earlier revision of %s", url)
	}
	return markdown, err
}

// DeletePage permanently removes a page and its revisions.
func (s *PageService) DeletePage(ctx context.Context, url string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM pages WHERE url = ?", url)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return sdkdoc.Errorf(sdkdoc.ENOTFOUND, "page not found")
	}

	return nil
}
