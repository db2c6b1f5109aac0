package legacy

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nguyentantai21042004/transcript-flow/internal/transcript"
)

// ErrNoContent is returned when a document holds no text at all.
var ErrNoContent = errors.New("document has no text content")

// Extractor pulls the plain text out of a rendered transcript document.
type Extractor interface {
	Extract(r io.Reader) (string, error)
}

// SupportedExtensions lists the document types Load understands.
var SupportedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
	".docx":     true,
	".pdf":      true,
	".html":     true,
	".htm":      true,
}

// ForFile returns the extractor for a filename.
func ForFile(filename string) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".md", ".markdown":
		return &MarkdownExtractor{}, nil
	case ".txt":
		return &TextExtractor{}, nil
	case ".docx":
		return &DOCXExtractor{}, nil
	case ".pdf":
		return &PDFExtractor{}, nil
	case ".html", ".htm":
		return &HTMLExtractor{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupported reports whether Load can read the file.
func IsSupported(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Load extracts the text of a document and splits it into fragments.
func Load(r io.Reader, filename string) ([]transcript.Fragment, error) {
	ex, err := ForFile(filename)
	if err != nil {
		return nil, err
	}
	text, err := ex.Extract(r)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", filepath.Base(filename), err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoContent
	}
	return ParseFragments(text), nil
}

// LoadFile is Load for a path.
func LoadFile(path string) ([]transcript.Fragment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()
	return Load(f, path)
}

var reClock = regexp.MustCompile(`\[(\d{2}:\d{2}:\d{2})\]`)

// ParseFragments splits text on "[HH:MM:SS]" markers. Text before the first
// marker and markers with no text after them are ignored.
func ParseFragments(text string) []transcript.Fragment {
	matches := reClock.FindAllStringSubmatchIndex(text, -1)
	out := []transcript.Fragment{}
	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		body := strings.Join(strings.Fields(strings.Trim(text[m[1]:end], " \t\r\n*")), " ")
		if body == "" {
			continue
		}
		secs, err := transcript.ParseClock(text[m[2]:m[3]])
		if err != nil {
			continue
		}
		out = append(out, transcript.Fragment{Timestamp: float64(secs), Text: body})
	}
	return out
}

// TextExtractor reads plain text files as is.
type TextExtractor struct{}

func (e *TextExtractor) Extract(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
