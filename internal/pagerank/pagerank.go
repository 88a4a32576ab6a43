// Package pagerank ranks the HTML pages of a crawled corpus by the number of
// words in their visible text.
package pagerank

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/ranking"
	apperrors "github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/pkg/tracing"
)

const (
	DefaultTopK = 10
	maxParallel = 8
)

// CountWords parses an HTML document and counts the words in its text,
// ignoring script and style content. A word is a run of letters, digits or
// underscores.
func CountWords(r io.Reader) (int, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return 0, fmt.Errorf("parsing html: %w", err)
	}
	doc.Find("script, style, noscript, template").Remove()
	words := strings.FieldsFunc(doc.Text(), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	return len(words), nil
}

// Discover returns every .html file under root, matched case-insensitively,
// as slash-separated paths relative to root in lexical order.
func Discover(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("pages directory %s: %w", root, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("reading pages directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory: %w", root, apperrors.ErrInvalidInput)
	}

	var pages []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".html") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		pages = append(pages, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return pages, nil
}

// RankDirectory counts the words of every page under root and returns the
// top k by count, ties kept in path order. k <= 0 uses DefaultTopK. Pages
// that cannot be read or parsed are logged and left out.
func RankDirectory(ctx context.Context, root string, k int) ([]ranking.Entry, error) {
	logger := slog.Default().With("component", "pagerank")
	if k <= 0 {
		k = DefaultTopK
	}

	_, discover := tracing.Start(ctx, "pagerank.discover")
	pages, err := Discover(root)
	discover.End()
	if err != nil {
		return nil, err
	}

	ctx, span := tracing.Start(ctx, "pagerank.count")
	defer span.End()
	span.SetAttr("pages", len(pages))

	counts := make([]int, len(pages))
	ok := make([]bool, len(pages))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for i, page := range pages {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			n, err := countFile(filepath.Join(root, filepath.FromSlash(page)))
			if err != nil {
				logger.Warn("skipping page", "page", page, "error", err)
				return nil
			}
			counts[i], ok[i] = n, true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := make([]ranking.Entry, 0, len(pages))
	for i, page := range pages {
		if ok[i] {
			entries = append(entries, ranking.Entry{Key: page, Score: int64(counts[i])})
		}
	}
	logger.Debug("pages ranked", "root", root, "pages", len(entries))
	return ranking.TopK(entries, k), nil
}

func countFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return CountWords(f)
}
