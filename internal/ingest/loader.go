package ingest

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/otiai10/gosseract/v2"

	"github.com/genmind-ai/backend/internal/domain"
)

// Recognized upload extensions and the extractor each one maps to.
var extractors = map[string]func(string) (string, error){
	".txt":  extractPlainText,
	".pdf":  extractPDF,
	".doc":  extractWord,
	".docx": extractWord,
	".png":  extractImage,
	".jpg":  extractImage,
	".jpeg": extractImage,
}

// SupportedExtension reports whether the file name carries a recognized
// upload extension.
func SupportedExtension(name string) bool {
	_, ok := extractors[strings.ToLower(filepath.Ext(name))]
	return ok
}

// SupportedExtensions lists the recognized extensions without the dot,
// sorted, for error messages.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(extractors))
	for ext := range extractors {
		exts = append(exts, strings.TrimPrefix(ext, "."))
	}
	sort.Strings(exts)
	return exts
}

// ExtractText selects the extension-matching extractor and returns the
// file's plain-text content. Unsupported extensions are rejected before
// any file or network access.
func ExtractText(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	extract, ok := extractors[ext]
	if !ok {
		return "", fmt.Errorf("unsupported file type %q, allowed types: %s: %w",
			ext, strings.Join(SupportedExtensions(), ", "), domain.ErrInvalidInput)
	}
	text, err := extract(path)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from %s: %w", path, err)
	}
	return text, nil
}

func extractPlainText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func extractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	content, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// extractWord reads the main document part of a Word file. A .docx is a
// zip container holding word/document.xml; paragraph text lives in w:t
// elements.
func extractWord(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("not a readable Word document: %w", err)
	}
	defer archive.Close()

	var docFile *zip.File
	for _, file := range archive.File {
		if file.Name == "word/document.xml" {
			docFile = file
			break
		}
	}
	if docFile == nil {
		return "", fmt.Errorf("word/document.xml not found in %s", path)
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	var text strings.Builder
	decoder := xml.NewDecoder(rc)
	inText := false
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("malformed document XML: %w", err)
		}
		switch tok := token.(type) {
		case xml.StartElement:
			if tok.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch tok.Name.Local {
			case "t":
				inText = false
			case "p":
				text.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				text.Write(tok)
			}
		}
	}
	return text.String(), nil
}

func extractImage(path string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetImage(path); err != nil {
		return "", err
	}
	return client.Text()
}
