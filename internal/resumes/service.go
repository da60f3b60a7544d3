package resumes

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"resume-builder/internal/export"
	"resume-builder/internal/markup"
	"resume-builder/internal/shared/apperr"
	"resume-builder/internal/shared/validate"
)

const defaultTitle = "Untitled Resume"

type Service struct {
	Repo      Repo
	Converter *export.Converter
}

func NewService(repo Repo, converter *export.Converter) *Service {
	if converter == nil {
		converter = export.NewConverter(export.DefaultTimeout)
	}
	return &Service{Repo: repo, Converter: converter}
}

type CreateInput struct {
	Title          string `json:"title" validate:"max=200"`
	Content        string `json:"content" validate:"required"`
	Template       string `json:"template" validate:"max=40"`
	JobTitle       string `json:"jobTitle" validate:"max=200"`
	TargetCompany  string `json:"targetCompany" validate:"max=200"`
	TargetIndustry string `json:"targetIndustry" validate:"max=200"`
}

// UpdateInput changes only the fields that are set.
type UpdateInput struct {
	Title          *string `json:"title" validate:"omitempty,max=200"`
	Content        *string `json:"content"`
	Template       *string `json:"template" validate:"omitempty,max=40"`
	JobTitle       *string `json:"jobTitle" validate:"omitempty,max=200"`
	TargetCompany  *string `json:"targetCompany" validate:"omitempty,max=200"`
	TargetIndustry *string `json:"targetIndustry" validate:"omitempty,max=200"`
}

// ExportInput overrides the stored content, template or title for one export.
type ExportInput struct {
	Content  string `json:"content"`
	Template string `json:"template"`
	Format   string `json:"format"`
	Title    string `json:"title"`
}

// Assembled is a resume laid out as a full HTML document.
type Assembled struct {
	Resume   Resume
	Document string
	Style    export.StyleDescription
	Title    string
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Resume, error) {
	if err := requireUser(userID); err != nil {
		return Resume{}, err
	}
	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" {
		return Resume{}, apperr.Validation("content is required")
	}
	if err := validate.Struct(in); err != nil {
		return Resume{}, err
	}

	resume := Resume{
		ID:             uuid.NewString(),
		UserID:         userID,
		Title:          titleOrDefault(in.Title),
		Content:        in.Content,
		Template:       templateID(in.Template),
		JobTitle:       strings.TrimSpace(in.JobTitle),
		TargetCompany:  strings.TrimSpace(in.TargetCompany),
		TargetIndustry: strings.TrimSpace(in.TargetIndustry),
	}
	if err := s.Repo.Create(ctx, resume); err != nil {
		return Resume{}, err
	}
	return s.Repo.Get(ctx, userID, resume.ID)
}

// Get returns the resume when userID owns it.
func (s *Service) Get(ctx context.Context, userID, resumeID string) (Resume, error) {
	if err := requireUser(userID); err != nil {
		return Resume{}, err
	}
	if !validID(resumeID) {
		return Resume{}, ErrNotFound
	}
	return s.Repo.Get(ctx, userID, resumeID)
}

func (s *Service) List(ctx context.Context, userID string) ([]Summary, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.Repo.List(ctx, userID)
}

func (s *Service) Update(ctx context.Context, userID, resumeID string, in UpdateInput) (Resume, error) {
	if err := validate.Struct(in); err != nil {
		return Resume{}, err
	}
	resume, err := s.Get(ctx, userID, resumeID)
	if err != nil {
		return Resume{}, err
	}
	if in.Content != nil {
		content := strings.TrimSpace(*in.Content)
		if content == "" {
			return Resume{}, apperr.Validation("content must not be empty")
		}
		resume.Content = content
	}
	if in.Title != nil {
		resume.Title = titleOrDefault(*in.Title)
	}
	if in.Template != nil {
		resume.Template = templateID(*in.Template)
	}
	if in.JobTitle != nil {
		resume.JobTitle = strings.TrimSpace(*in.JobTitle)
	}
	if in.TargetCompany != nil {
		resume.TargetCompany = strings.TrimSpace(*in.TargetCompany)
	}
	if in.TargetIndustry != nil {
		resume.TargetIndustry = strings.TrimSpace(*in.TargetIndustry)
	}
	return s.Repo.Update(ctx, resume)
}

// Delete removes the resume permanently.
func (s *Service) Delete(ctx context.Context, userID, resumeID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if !validID(resumeID) {
		return ErrNotFound
	}
	return s.Repo.Delete(ctx, userID, resumeID)
}

// SetScore overwrites one score field, clamped to the valid range.
func (s *Service) SetScore(ctx context.Context, userID, resumeID string, field ScoreField, score int) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if !validID(resumeID) {
		return ErrNotFound
	}
	return s.Repo.SetScore(ctx, userID, resumeID, field, ClampScore(score))
}

// Assemble repairs the resume's markup and wraps it in its template.
func (s *Service) Assemble(ctx context.Context, userID, resumeID string, in ExportInput) (Assembled, error) {
	resume, err := s.Get(ctx, userID, resumeID)
	if err != nil {
		return Assembled{}, err
	}
	content := resume.Content
	if strings.TrimSpace(in.Content) != "" {
		content = in.Content
	}
	template := resume.Template
	if strings.TrimSpace(in.Template) != "" {
		template = in.Template
	}
	title := resume.Title
	if strings.TrimSpace(in.Title) != "" {
		title = strings.TrimSpace(in.Title)
	}

	style := export.ResolveStyle(template)
	return Assembled{
		Resume:   resume,
		Document: export.Assemble(markup.Repair(content), style, title),
		Style:    style,
		Title:    title,
	}, nil
}

// Export renders the resume as html, docx or the plain-text pdf.
func (s *Service) Export(ctx context.Context, userID, resumeID string, in ExportInput) (export.Output, error) {
	raw := in.Format
	if strings.TrimSpace(raw) == "" {
		raw = string(export.FormatHTML)
	}
	format, err := export.ParseFormat(raw)
	if err != nil {
		return export.Output{}, err
	}
	doc, err := s.Assemble(ctx, userID, resumeID, in)
	if err != nil {
		return export.Output{}, err
	}
	return s.Converter.Convert(ctx, doc.Document, format, doc.Style, export.Options{Title: doc.Title})
}

// PDF renders the stored content through the degraded text pdf path.
func (s *Service) PDF(ctx context.Context, userID, resumeID string) (export.Output, error) {
	return s.Export(ctx, userID, resumeID, ExportInput{Format: string(export.FormatPDF)})
}

func requireUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return apperr.ErrUnauthenticated
	}
	return nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func titleOrDefault(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return defaultTitle
	}
	return title
}

func templateID(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	if !export.IsKnownTemplate(id) {
		return export.DefaultTemplate
	}
	return id
}
