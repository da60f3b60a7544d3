// Package extract reads the text back out of exported documents.
package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"resume-builder/internal/markup"
)

// Kind is a detected document type.
type Kind string

const (
	KindPDF     Kind = "pdf"
	KindDOCX    Kind = "docx"
	KindHTML    Kind = "html"
	KindUnknown Kind = ""
)

// Detect sniffs data, using fileName's extension only to break ties.
func Detect(data []byte, fileName string) Kind {
	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return KindPDF
	}
	if bytes.HasPrefix(data, []byte("PK\x03\x04")) {
		if hasZipEntry(data, "word/document.xml") {
			return KindDOCX
		}
		return KindUnknown
	}
	if strings.HasPrefix(http.DetectContentType(data), "text/html") {
		return KindHTML
	}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".html", ".htm":
		return KindHTML
	}
	return KindUnknown
}

// Text returns the readable text of a PDF, DOCX or HTML document.
func Text(data []byte, fileName string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty document")
	}
	switch kind := Detect(data, fileName); kind {
	case KindPDF:
		return pdfText(data)
	case KindDOCX:
		return docxText(data)
	case KindHTML:
		return markup.Text(string(data)), nil
	default:
		return "", fmt.Errorf("unsupported document %q", fileName)
	}
}

func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func docxText(data []byte) (string, error) {
	raw, err := zipEntry(data, "word/document.xml")
	if err != nil {
		return "", err
	}
	decoder := xml.NewDecoder(bytes.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.StartElement:
			if t.Name.Local == "tab" {
				buf.WriteString("\t")
			}
		case xml.EndElement:
			if (t.Name.Local == "p" || t.Name.Local == "br") && buf.Len() > 0 {
				buf.WriteString("\n")
			}
		}
	}
	return strings.TrimSpace(buf.String()), nil
}

func zipEntry(data []byte, name string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%s not found", name)
}

func hasZipEntry(data []byte, name string) bool {
	_, err := zipEntry(data, name)
	return err == nil
}
