package export

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"resume-builder/internal/markup"
	"resume-builder/internal/shared/apperr"
	"resume-builder/internal/shared/metrics"
)

// Format is an output document format.
type Format string

const (
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// DefaultTimeout bounds a single DOCX conversion.
const DefaultTimeout = 30 * time.Second

const (
	mimeHTML = "text/html; charset=utf-8"
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var (
	ErrConversionTimeout = apperr.New(apperr.KindConversionTimeout, "document conversion timed out")
	ErrConversionFailure = apperr.New(apperr.KindConversionFailure, "document conversion produced no output")
)

// ParseFormat accepts a format name or one of its aliases.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "html", "htm", "native":
		return FormatHTML, nil
	case "pdf", "portable-document":
		return FormatPDF, nil
	case "docx", "word", "word-processor":
		return FormatDOCX, nil
	default:
		return "", apperr.Validation(fmt.Sprintf("unsupported format %q", raw))
	}
}

// Extension returns the filename extension without a dot.
func (f Format) Extension() string {
	return string(f)
}

// MimeType returns the content type of documents in this format.
func (f Format) MimeType() string {
	switch f {
	case FormatPDF:
		return mimePDF
	case FormatDOCX:
		return mimeDOCX
	default:
		return mimeHTML
	}
}

// Options tune a single conversion.
type Options struct {
	Title string
}

// Output is a rendered document ready to download.
type Output struct {
	Bytes    []byte
	MimeType string
	Filename string
}

// Converter renders assembled documents. Timeout bounds the DOCX path; a
// zero Timeout is an already spent budget.
type Converter struct {
	Timeout time.Duration
	Metrics *metrics.Registry
}

// NewConverter returns a converter with the given DOCX budget. Negative
// values select DefaultTimeout.
func NewConverter(timeout time.Duration) *Converter {
	if timeout < 0 {
		timeout = DefaultTimeout
	}
	return &Converter{Timeout: timeout}
}

// Convert renders document in the requested format.
func (c *Converter) Convert(ctx context.Context, document string, format Format, style StyleDescription, opts Options) (out Output, err error) {
	start := time.Now()
	defer func() { c.Metrics.ObserveConversion(string(format), err, time.Since(start)) }()

	var data []byte
	switch format {
	case FormatHTML:
		data = []byte(document)
	case FormatDOCX:
		data, err = c.docx(ctx, document, style, opts.Title)
	case FormatPDF:
		data, err = TextPDF(markup.Text(document), opts.Title)
	default:
		return Output{}, apperr.Validation(fmt.Sprintf("unsupported format %q", format))
	}
	if err != nil {
		return Output{}, err
	}
	if len(data) == 0 {
		return Output{}, ErrConversionFailure
	}
	return Output{
		Bytes:    data,
		MimeType: format.MimeType(),
		Filename: Filename(opts.Title, format),
	}, nil
}

type docxResult struct {
	data []byte
	err  error
}

func (c *Converter) docx(ctx context.Context, document string, style StyleDescription, title string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()
	if err := ctx.Err(); err != nil {
		return nil, conversionErr(err)
	}

	done := make(chan docxResult, 1)
	go func() {
		data, err := buildDOCX(ctx, document, style, title)
		done <- docxResult{data: data, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, conversionErr(ctx.Err())
	case res := <-done:
		if res.err != nil {
			if ctx.Err() != nil {
				return nil, conversionErr(ctx.Err())
			}
			return nil, apperr.Wrap(apperr.KindConversionFailure, "docx conversion failed", res.err)
		}
		return res.data, nil
	}
}

func conversionErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrConversionTimeout
	}
	return err
}

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

// Filename derives a download name from title.
func Filename(title string, format Format) string {
	slug := strings.Trim(slugUnsafe.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if len(slug) > 60 {
		slug = strings.TrimRight(slug[:60], "-")
	}
	if slug == "" {
		slug = "resume"
	}
	return slug + "." + format.Extension()
}
