// Package share renders a resume and mails it as an attachment.
package share

import (
	"context"
	"fmt"
	"strings"

	"resume-builder/internal/email"
	"resume-builder/internal/export"
	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/apperr"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/shared/validate"
)

// Renderer produces the documents that get attached.
type Renderer interface {
	Assemble(ctx context.Context, userID, resumeID string, in resumes.ExportInput) (resumes.Assembled, error)
	Export(ctx context.Context, userID, resumeID string, in resumes.ExportInput) (export.Output, error)
}

// PDFRenderer prints an assembled HTML document to PDF.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, document string) ([]byte, error)
}

// Service sends resumes by email. A nil Sender runs in mock mode: the
// attachment is still rendered but nothing is delivered. A nil Browser
// attaches the plain-text PDF.
type Service struct {
	Renderer Renderer
	Sender   email.Sender
	Browser  PDFRenderer
}

func NewService(renderer Renderer, sender email.Sender, browser PDFRenderer) *Service {
	return &Service{Renderer: renderer, Sender: sender, Browser: browser}
}

type Input struct {
	ResumeID       string `json:"resumeId" validate:"required"`
	RecipientEmail string `json:"recipientEmail" validate:"required,email,max=254"`
	Subject        string `json:"subject" validate:"max=200"`
	Message        string `json:"message" validate:"max=5000"`
	Format         string `json:"format"`
}

type Result struct {
	Mock     bool   `json:"mock"`
	Filename string `json:"filename"`
	Format   string `json:"format"`
}

// Email renders the resume in the requested format (pdf by default) and
// mails it to the recipient.
func (s *Service) Email(ctx context.Context, userID string, in Input) (Result, error) {
	if strings.TrimSpace(userID) == "" {
		return Result{}, apperr.ErrUnauthenticated
	}
	in.ResumeID = strings.TrimSpace(in.ResumeID)
	in.RecipientEmail = strings.TrimSpace(in.RecipientEmail)
	if err := validate.Struct(in); err != nil {
		return Result{}, err
	}
	rawFormat := in.Format
	if strings.TrimSpace(rawFormat) == "" {
		rawFormat = string(export.FormatPDF)
	}
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return Result{}, err
	}

	out, title, err := s.render(ctx, userID, in.ResumeID, format)
	if err != nil {
		return Result{}, err
	}

	msg := email.Message{
		To:      in.RecipientEmail,
		Subject: subjectLine(in.Subject, title),
		Body:    bodyText(in.Message, title),
		Attachments: []email.Attachment{{
			Filename:    out.Filename,
			ContentType: out.MimeType,
			Data:        out.Bytes,
		}},
	}
	fields := map[string]any{
		"user_id":   userID,
		"resume_id": in.ResumeID,
		"format":    string(format),
		"bytes":     len(out.Bytes),
	}
	if s.Sender == nil {
		telemetry.Info("share.email.mock", fields)
		return Result{Mock: true, Filename: out.Filename, Format: string(format)}, nil
	}
	if err := s.Sender.Send(ctx, msg); err != nil {
		fields["error"] = err.Error()
		telemetry.Error("share.email.failed", fields)
		return Result{}, apperr.Wrap(apperr.KindUpstreamUnavailable, "email delivery failed", err)
	}
	telemetry.Info("share.email.sent", fields)
	return Result{Filename: out.Filename, Format: string(format)}, nil
}

func (s *Service) render(ctx context.Context, userID, resumeID string, format export.Format) (export.Output, string, error) {
	doc, err := s.Renderer.Assemble(ctx, userID, resumeID, resumes.ExportInput{})
	if err != nil {
		return export.Output{}, "", err
	}
	if format == export.FormatPDF && s.Browser != nil {
		pdf, err := s.Browser.RenderPDF(ctx, doc.Document)
		if err == nil && len(pdf) > 0 {
			return export.Output{
				Bytes:    pdf,
				MimeType: format.MimeType(),
				Filename: export.Filename(doc.Title, format),
			}, doc.Title, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return export.Output{}, "", ctxErr
		}
		fields := map[string]any{"resume_id": resumeID}
		if err != nil {
			fields["error"] = err.Error()
		}
		telemetry.Warn("share.browser_pdf.fallback", fields)
	}
	out, err := s.Renderer.Export(ctx, userID, resumeID, resumes.ExportInput{Format: string(format)})
	if err != nil {
		return export.Output{}, "", err
	}
	return out, doc.Title, nil
}

func subjectLine(subject, title string) string {
	subject = strings.Join(strings.Fields(subject), " ")
	if subject == "" {
		return fmt.Sprintf("Resume: %s", title)
	}
	return subject
}

func bodyText(message, title string) string {
	message = strings.TrimSpace(message)
	if message == "" {
		return fmt.Sprintf("Please find the resume \"%s\" attached.", title)
	}
	return message
}
