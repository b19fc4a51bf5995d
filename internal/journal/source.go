package journal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoDreams is returned when a journal holds no dreams
var ErrNoDreams = errors.New("no dreams found")

// Load reads dreams from a .txt or .html file, or from an http(s) URL.
// fetcher may be nil when source is a local file.
func Load(ctx context.Context, source string, fetcher *Fetcher) ([]string, error) {
	var (
		dreams []string
		err    error
	)

	switch {
	case isURL(source):
		if fetcher == nil {
			return nil, fmt.Errorf("%s: remote journals need a fetcher", source)
		}
		dreams, err = loadRemote(ctx, source, fetcher)
	default:
		dreams, err = ReadFile(source)
	}
	if err != nil {
		return nil, err
	}

	if len(dreams) == 0 {
		return nil, fmt.Errorf("%s: %w", source, ErrNoDreams)
	}
	return dreams, nil
}

// ReadFile reads a local journal, choosing the parser by extension
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		dreams, err := ParseHTML(f)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return dreams, nil
	default:
		dreams, err := ParseText(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return dreams, nil
	}
}

func loadRemote(ctx context.Context, rawURL string, fetcher *Fetcher) ([]string, error) {
	result, err := fetcher.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if strings.HasPrefix(result.ContentType, "text/plain") {
		return ParseText(strings.NewReader(result.HTML))
	}

	dreams, err := ParseHTML(strings.NewReader(result.HTML))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", result.FinalURL, err)
	}
	return dreams, nil
}

func isURL(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
