package s0_coordinator

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/earnings-analyzer/backend/pkg/httputil"
)

// DocumentSource loads a report body from a path or URL
type DocumentSource interface {
	Load(ctx context.Context, path string) (string, error)
}

// FileSource reads local files and, when a fetcher is set, http(s) URLs.
// HTML 문서는 goquery로 본문 텍스트만 남김
type FileSource struct {
	fetcher  *httputil.Client
	maxBytes int64
}

// NewFileSource creates a source. fetcher may be nil (URLs are then rejected).
func NewFileSource(fetcher *httputil.Client) *FileSource {
	return &FileSource{
		fetcher:  fetcher,
		maxBytes: httputil.DefaultMaxBodyBytes,
	}
}

// Load returns the UTF-8 text of the document at path
func (s *FileSource) Load(ctx context.Context, path string) (string, error) {
	if IsURL(path) {
		return s.loadURL(ctx, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".html" || ext == ".htm" || looksLikeHTML(data) {
		return htmlToText(data)
	}
	return toUTF8(data), nil
}

func (s *FileSource) loadURL(ctx context.Context, url string) (string, error) {
	if s.fetcher == nil {
		return "", fmt.Errorf("remote reports are not enabled: %s", url)
	}

	doc, err := s.fetcher.Fetch(ctx, url, s.maxBytes)
	if err != nil {
		return "", err
	}

	if strings.Contains(strings.ToLower(doc.ContentType), "text/html") || looksLikeHTML(doc.Body) {
		return htmlToText(doc.Body)
	}
	return toUTF8(doc.Body), nil
}

// IsURL reports whether path names an http(s) document
func IsURL(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func looksLikeHTML(data []byte) bool {
	head := bytes.ToLower(bytes.TrimSpace(data))
	if len(head) > 512 {
		head = head[:512]
	}
	return bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html"))
}

var blankLines = regexp.MustCompile(`\n\s*\n+`)

// htmlToText strips markup, scripts and styles, keeping paragraph breaks
func htmlToText(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript").Remove()

	var parts []string
	doc.Find("h1, h2, h3, h4, p, li, td, pre").Each(func(_ int, sel *goquery.Selection) {
		// 중첩 블록은 가장 바깥 요소 하나로만 수집
		if sel.ParentsFiltered("p, li, td, pre").Length() > 0 {
			return
		}
		if text := strings.TrimSpace(sel.Text()); text != "" {
			parts = append(parts, text)
		}
	})

	text := strings.Join(parts, "\n\n")
	if text == "" {
		text = strings.TrimSpace(doc.Find("body").Text())
	}
	return blankLines.ReplaceAllString(toUTF8([]byte(text)), "\n\n"), nil
}

// toUTF8 replaces invalid byte sequences
func toUTF8(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), "�")
}
