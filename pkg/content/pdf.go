package content

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

const (
	// MaxPDFPages limits the number of pages to process
	MaxPDFPages = 100

	// MaxExtractedTextSize limits the extracted text size (1MB)
	MaxExtractedTextSize = 1024 * 1024
)

var pdfMagic = []byte("%PDF-")

func isPDF(data []byte) bool {
	return bytes.HasPrefix(data, pdfMagic)
}

// extractPDFText returns page-delimited plain text and the page count.
func extractPDFText(data []byte) (string, int, error) {
	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("failed to open PDF: %w", err)
	}

	totalPages := pdfReader.NumPage()
	if totalPages == 0 {
		return "", 0, fmt.Errorf("PDF has no pages")
	}
	if totalPages > MaxPDFPages {
		return "", totalPages, fmt.Errorf("PDF has too many pages (%d), max allowed is %d", totalPages, MaxPDFPages)
	}

	var sb strings.Builder
	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// a single unreadable slide should not sink the deck
			continue
		}

		if cleaned := cleanText(text); cleaned != "" {
			fmt.Fprintf(&sb, "\n--- Page %d ---\n%s\n", pageNum, cleaned)
		}

		if sb.Len() > MaxExtractedTextSize {
			break
		}
	}

	out := sb.String()
	if len(out) > MaxExtractedTextSize {
		out = out[:MaxExtractedTextSize] + "\n... [Content truncated]"
	}
	if strings.TrimSpace(out) == "" {
		return "", totalPages, fmt.Errorf("PDF contains no extractable text")
	}
	return out, totalPages, nil
}

func cleanText(text string) string {
	text = strings.ReplaceAll(text, "\x00", "")
	return strings.TrimSpace(normalizeWhitespace(text))
}

// normalizeWhitespace collapses runs of spaces but keeps newlines.
func normalizeWhitespace(text string) string {
	var result strings.Builder
	lastWasSpace := false

	for _, r := range text {
		if unicode.IsSpace(r) {
			if r == '\n' {
				result.WriteRune('\n')
				lastWasSpace = false
			} else if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
			continue
		}
		result.WriteRune(r)
		lastWasSpace = false
	}

	return result.String()
}
