package util

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"image"
	"image/png"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"go.uber.org/zap"
)

var (
	ErrUnsupportedFormat  = errors.New("unsupported document format")
	ErrUnreadableDocument = errors.New("document cannot be read")
	ErrEmptyDocument      = errors.New("no text extracted from document")
)

const (
	formatPDF  = "pdf"
	formatDOCX = "docx"
	formatText = "txt"
)

// TextExtractor turns an uploaded document into plain text. Failures are
// returned as errors wrapping one of the Err* values above, never as text.
type TextExtractor struct {
	ocr    bool
	logger *zap.Logger
}

func NewTextExtractor(ocr bool, logger *zap.Logger) *TextExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TextExtractor{ocr: ocr, logger: logger}
}

// Extract returns the text of the document at path, pages concatenated in order.
func (e *TextExtractor) Extract(path string) (string, error) {
	format, err := detectFormat(path)
	if err != nil {
		return "", err
	}

	switch format {
	case formatPDF:
		return e.extractPDF(path)
	case formatDOCX:
		return extractDOCX(path)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
		}
		return requireText(string(data))
	}
}

func detectFormat(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		return formatPDF, nil
	case ".docx":
		return formatDOCX, nil
	case ".txt":
		return formatText, nil
	case "":
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	// No extension: sniff the leading bytes.
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}
	defer f.Close()

	head := make([]byte, 5)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}
	head = head[:n]

	switch {
	case bytes.HasPrefix(head, []byte("%PDF-")):
		return formatPDF, nil
	case bytes.HasPrefix(head, []byte("PK")):
		return formatDOCX, nil
	}
	return "", fmt.Errorf("%w: unrecognised content", ErrUnsupportedFormat)
}

func (e *TextExtractor) extractPDF(path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		e.logger.Debug("mupdf could not open document, trying fallback parser",
			zap.String("path", path), zap.Error(err))

		text, fbErr := extractPDFFallback(path)
		if fbErr != nil {
			return "", fmt.Errorf("%w: %v (fallback: %v)", ErrUnreadableDocument, err, fbErr)
		}
		return requireText(text)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return "", fmt.Errorf("%w: document has no pages", ErrUnreadableDocument)
	}

	var fullText strings.Builder
	for n := 0; n < doc.NumPage(); n++ {
		pageText, err := doc.Text(n)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", ErrUnreadableDocument, n+1, err)
		}
		fullText.WriteString(pageText)
	}

	text := fullText.String()
	if strings.TrimSpace(text) == "" && e.ocr {
		e.logger.Info("no text layer found, running OCR", zap.String("path", path), zap.Int("pages", doc.NumPage()))
		return e.extractPDFOCR(doc)
	}
	return requireText(text)
}

func extractPDFFallback(path string) (text string, err error) {
	// The pure Go parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var textBuilder strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		textBuilder.WriteString(pageText)
	}
	return textBuilder.String(), nil
}

// extractPDFOCR renders every page and runs it through tesseract.
func (e *TextExtractor) extractPDFOCR(doc *fitz.Document) (string, error) {
	if err := checkTesseract(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEmptyDocument, err)
	}

	var fullText bytes.Buffer
	var lastErr error

	for n := 0; n < doc.NumPage(); n++ {
		pageText, err := ocrPage(doc, n)
		if err != nil {
			lastErr = fmt.Errorf("page %d: %w", n+1, err)
			e.logger.Warn("ocr page failed", zap.Error(lastErr))
			continue
		}
		e.logger.Debug("ocr page done", zap.Int("page", n+1), zap.Int("chars", len(pageText)))

		if len(pageText) > 0 {
			fullText.WriteString(pageText)
			fullText.WriteString("\n\n")
		}
	}

	result := strings.TrimSpace(fullText.String())
	if result == "" {
		if lastErr != nil {
			return "", fmt.Errorf("%w: ocr: %v", ErrEmptyDocument, lastErr)
		}
		return "", ErrEmptyDocument
	}
	return result, nil
}

func ocrPage(doc *fitz.Document, n int) (string, error) {
	img, err := doc.Image(n)
	if err != nil {
		return "", fmt.Errorf("failed to render page: %w", err)
	}

	tmpFile, err := os.CreateTemp("", "page-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	err = png.Encode(tmpFile, image.Image(img))
	tmpFile.Close()
	if err != nil {
		return "", fmt.Errorf("failed to encode PNG: %w", err)
	}

	cmd := exec.Command("tesseract", tmpPath, "stdout", "-l", "eng")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("tesseract error: %w, output: %s", err, string(out))
	}
	return strings.TrimSpace(string(out)), nil
}

func checkTesseract() error {
	out, err := exec.Command("tesseract", "-v").CombinedOutput()
	if err != nil {
		return fmt.Errorf("tesseract not found or not executable: %w\nOutput: %s", err, string(out))
	}
	return nil
}

func extractDOCX(path string) (string, error) {
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}
	defer r.Close()

	return requireText(stripDocxMarkup(r.Editable().GetContent()))
}

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>`)
	docxTab          = regexp.MustCompile(`<w:tab/>`)
	docxTag          = regexp.MustCompile(`<[^>]+>`)
)

// stripDocxMarkup reduces word/document.xml to its visible text, one line per paragraph.
func stripDocxMarkup(content string) string {
	content = docxParagraphEnd.ReplaceAllString(content, "\n")
	content = docxTab.ReplaceAllString(content, "\t")
	content = docxTag.ReplaceAllString(content, "")
	return strings.TrimSpace(html.UnescapeString(content))
}

func requireText(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}
