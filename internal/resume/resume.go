// Package resume validates uploaded resumes, extracts their text and finds
// known skill keywords in it.
package resume

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"io"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const MaxSize = 10 << 20

const (
	MimeText = "text/plain"
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeDOC  = "application/msword"
)

var (
	ErrTooLarge    = fmt.Errorf("resume exceeds %d MB", MaxSize>>20)
	ErrUnsupported = errors.New("unsupported resume format")
	ErrEmpty       = errors.New("empty resume")
)

var extMimes = map[string]string{
	".txt":  MimeText,
	".pdf":  MimePDF,
	".docx": MimeDOCX,
	".doc":  MimeDOC,
}

// MimeFor maps an allowed file name to its mime type.
func MimeFor(filename string) (string, error) {
	mime, ok := extMimes[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, filename)
	}
	return mime, nil
}

// Validate checks name and size of an upload and returns its mime type.
func Validate(filename string, size int64) (string, error) {
	if size <= 0 {
		return "", ErrEmpty
	}
	if size > MaxSize {
		return "", ErrTooLarge
	}
	return MimeFor(filename)
}

func ExtractText(mime string, data []byte) (string, error) {
	switch mime {
	case MimeText:
		return strings.ToValidUTF8(string(data), ""), nil

	case MimePDF:
		return extractPDFText(bytes.NewReader(data))

	case MimeDOCX, MimeDOC:
		return extractDocxText(data)

	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, mime)
	}
}

func extractPDFText(reader *bytes.Reader) (string, error) {
	pdfReader, err := pdf.NewReader(reader, reader.Size())
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}
	var textBuilder strings.Builder
	for i := 1; i <= pdfReader.NumPage(); i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, _ := page.GetPlainText(nil)
		textBuilder.WriteString(text)
	}
	return textBuilder.String(), nil
}

var (
	paragraphEnd = regexp.MustCompile(`</w:p>|<w:br/>|</w:tr>`)
	xmlTag       = regexp.MustCompile(`<[^>]+>`)
)

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	// content is the raw document.xml
	content := doc.Editable().GetContent()
	content = paragraphEnd.ReplaceAllString(content, "\n")
	content = xmlTag.ReplaceAllString(content, "")
	return strings.TrimSpace(html.UnescapeString(content)), nil
}

// ReadUpload reads at most MaxSize bytes and fails when r holds more.
func ReadUpload(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxSize {
		return nil, ErrTooLarge
	}
	return data, nil
}

var commonSkills = []string{
	"python", "java", "javascript", "typescript", "sql", "react", "angular", "vue",
	"nodejs", "django", "flask", "spring", "aws", "azure", "gcp", "docker",
	"kubernetes", "git", "ci/cd", "ml", "ai", "data science", "machine learning",
	"deep learning", "tensorflow", "pytorch", "pandas", "numpy", "power bi",
	"tableau", "excel", "salesforce", "sap", "linux", "windows", "agile", "scrum", "jira",
}

var skillPatterns = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(commonSkills))
	for _, s := range commonSkills {
		m[s] = regexp.MustCompile(`(^|[^a-z0-9])` + regexp.QuoteMeta(s) + `($|[^a-z0-9])`)
	}
	return m
}()

// ExtractSkills returns the known skills mentioned in text as whole words,
// sorted.
func ExtractSkills(text string) []string {
	lower := strings.ToLower(text)
	found := []string{}
	for skill, re := range skillPatterns {
		if re.MatchString(lower) {
			found = append(found, skill)
		}
	}
	sort.Strings(found)
	return found
}
