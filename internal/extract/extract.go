// Package extract converts stored JD and resume files into plain text.
// Supported formats: txt, pdf, docx. Legacy .doc has no native Go reader and
// is reported as unsupported.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
	pdfextractor "github.com/unidoc/unipdf/v3/extractor"
	pdfmodel "github.com/unidoc/unipdf/v3/model"
)

var (
	// ErrUnsupportedFormat indicates the file extension has no registered reader.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrDecode indicates the file exists but its content could not be decoded.
	ErrDecode = errors.New("failed to decode file content")
)

// ReadFileToText reads a JD or resume file (txt, pdf, docx) into plain text.
//
// Missing files surface as fs.ErrNotExist wrapped errors; unsupported
// extensions as ErrUnsupportedFormat; undecodable content as ErrDecode.
func ReadFileToText(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))

	switch ext {
	case "txt":
		return readTxt(path)
	case "pdf":
		return readPdf(path)
	case "docx":
		return readDocx(path)
	case "doc":
		return "", fmt.Errorf("%w: legacy .doc is not readable, convert to docx or pdf", ErrUnsupportedFormat)
	default:
		return "", fmt.Errorf("%w: .%s", ErrUnsupportedFormat, ext)
	}
}

func readTxt(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func readPdf(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	reader, err := pdfmodel.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	numPages, err := reader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	var sb strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := reader.GetPage(i)
		if err != nil {
			continue
		}
		ex, err := pdfextractor.New(page)
		if err != nil {
			continue
		}
		pageText, err := ex.ExtractText()
		if err != nil {
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("%w: no text could be extracted from any page", ErrDecode)
	}
	return text, nil
}

var (
	docxParagraph = regexp.MustCompile(`</w:p>`)
	docxTag       = regexp.MustCompile(`<[^>]+>`)
	docxEntities  = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&apos;", "'",
	)
)

func readDocx(path string) (string, error) {
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer r.Close()

	// GetContent returns the raw document.xml; paragraph closings become
	// newlines before the remaining tags are stripped.
	content := r.Editable().GetContent()
	content = docxParagraph.ReplaceAllString(content, "\n")
	content = docxTag.ReplaceAllString(content, "")
	content = docxEntities.Replace(content)

	return strings.TrimSpace(content), nil
}
