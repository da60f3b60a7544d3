package ai

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"resume-builder/internal/markup"
	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/apperr"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/retry"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/shared/validate"
	"resume-builder/internal/users"
)

// ResumeStore reads owned resumes and writes their scores.
type ResumeStore interface {
	Get(ctx context.Context, userID, resumeID string) (resumes.Resume, error)
	ScoreWriter
}

// ScoreWriter persists one score field on an owned resume.
type ScoreWriter interface {
	SetScore(ctx context.Context, userID, resumeID string, field resumes.ScoreField, score int) error
}

// ProfileSource loads the caller's account and profile.
type ProfileSource interface {
	GetByID(ctx context.Context, userID string) (users.User, error)
}

// Service runs the scoring checks and resume generation. A nil Model means
// no credential is configured and canned results are served.
type Service struct {
	Model    Model
	Resumes  ResumeStore
	Profiles ProfileSource
	Policy   retry.Policy
	Metrics  *metrics.Registry
}

func NewService(model Model, store ResumeStore, profiles ProfileSource) *Service {
	return &Service{
		Model:    model,
		Resumes:  store,
		Profiles: profiles,
		Policy:   DefaultPolicy(),
	}
}

// DefaultPolicy makes three attempts with a linear 500ms backoff and only
// retries transient failures.
func DefaultPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: 3,
		Backoff:     retry.Linear(500 * time.Millisecond),
		Retryable:   Transient,
	}
}

// CheckInput names a stored resume, raw content, or both; content wins
// when both are present.
type CheckInput struct {
	ResumeID       string `json:"resumeId"`
	Content        string `json:"content"`
	JobDescription string `json:"jobDescription" validate:"max=20000"`
}

// GenerateInput optionally seeds generation with an existing resume or raw
// content; empty targeting fields are taken from the seed resume.
type GenerateInput struct {
	ResumeID       string `json:"resumeId"`
	Content        string `json:"content" validate:"max=100000"`
	JobTitle       string `json:"jobTitle" validate:"max=200"`
	TargetCompany  string `json:"targetCompany" validate:"max=200"`
	TargetIndustry string `json:"targetIndustry" validate:"max=200"`
	Instructions   string `json:"instructions" validate:"max=2000"`
}

type check struct {
	name   string
	prompt string
	schema *gojsonschema.Schema
	field  resumes.ScoreField
}

var (
	atsCheck        = check{name: "ats", prompt: promptATS, schema: atsResultSchema, field: resumes.ScoreATS}
	grammarCheck    = check{name: "grammar", prompt: promptGrammar, schema: grammarResultSchema, field: resumes.ScoreGrammar}
	plagiarismCheck = check{name: "plagiarism", prompt: promptPlagiarism, schema: plagiarismResultSchema, field: resumes.ScoreOriginality}
)

// AnalyzeATS scores the resume against an optional job description.
func (s *Service) AnalyzeATS(ctx context.Context, userID string, in CheckInput) (ATSResult, error) {
	var out ATSResult
	canned, err := s.run(ctx, userID, atsCheck, in, &out)
	if err != nil {
		return ATSResult{}, err
	}
	if canned {
		return cannedATS(), nil
	}
	return out, nil
}

func (s *Service) CheckGrammar(ctx context.Context, userID string, in CheckInput) (GrammarResult, error) {
	in.JobDescription = ""
	var out GrammarResult
	canned, err := s.run(ctx, userID, grammarCheck, in, &out)
	if err != nil {
		return GrammarResult{}, err
	}
	if canned {
		return cannedGrammar(), nil
	}
	return out, nil
}

func (s *Service) CheckPlagiarism(ctx context.Context, userID string, in CheckInput) (PlagiarismResult, error) {
	in.JobDescription = ""
	var out PlagiarismResult
	canned, err := s.run(ctx, userID, plagiarismCheck, in, &out)
	if err != nil {
		return PlagiarismResult{}, err
	}
	if canned {
		return cannedPlagiarism(), nil
	}
	return out, nil
}

// run resolves the resume text, calls the model and persists the score.
// It reports canned=true when no model is configured; nothing is written then.
func (s *Service) run(ctx context.Context, userID string, c check, in CheckInput, out scored) (bool, error) {
	if strings.TrimSpace(userID) == "" {
		return false, apperr.ErrUnauthenticated
	}
	if err := validate.Struct(in); err != nil {
		return false, err
	}
	text, err := s.resumeText(ctx, userID, in)
	if err != nil {
		return false, err
	}
	if s.Model == nil {
		telemetry.Info("ai.check.canned", map[string]any{"check": c.name, "user_id": userID})
		return true, nil
	}

	prompt, err := renderPrompt(c.prompt, checkPrompt{Text: text, JobDescription: strings.TrimSpace(in.JobDescription)})
	if err != nil {
		return false, err
	}
	start := time.Now()
	raw, err := s.call(ctx, c.name, prompt)
	if err != nil {
		return false, err
	}
	if err := parseResponse(raw, c.schema, out); err != nil {
		telemetry.Warn("ai.check.malformed", map[string]any{"check": c.name, "user_id": userID, "error": err.Error()})
		return false, err
	}
	out.normalize()

	// A caller that went away must not leave a score behind.
	if err := ctx.Err(); err != nil {
		return false, err
	}
	resumeID := strings.TrimSpace(in.ResumeID)
	if resumeID != "" {
		if err := s.Resumes.SetScore(ctx, userID, resumeID, c.field, out.scoreValue()); err != nil {
			return false, err
		}
	}
	telemetry.Info("ai.check.complete", map[string]any{
		"check":       c.name,
		"user_id":     userID,
		"resume_id":   resumeID,
		"score":       out.scoreValue(),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return false, nil
}

func (s *Service) resumeText(ctx context.Context, userID string, in CheckInput) (string, error) {
	content := in.Content
	if resumeID := strings.TrimSpace(in.ResumeID); resumeID != "" {
		resume, err := s.Resumes.Get(ctx, userID, resumeID)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(content) == "" {
			content = resume.Content
		}
	} else if strings.TrimSpace(content) == "" {
		return "", apperr.Validation("resumeId or content is required")
	}
	text := markup.Text(content)
	if text == "" {
		return "", apperr.Validation("resume has no text to analyze")
	}
	return text, nil
}

// call runs the prompt under the retry policy. Failures other than the
// caller's own cancellation surface as UpstreamUnavailable.
func (s *Service) call(ctx context.Context, name, prompt string) (string, error) {
	policy := s.Policy
	if policy.Retryable == nil {
		policy.Retryable = Transient
	}
	policy.OnRetry = func(attempt int, err error) {
		telemetry.Warn("ai.retry", map[string]any{"check": name, "attempt": attempt, "error": err.Error()})
	}
	start := time.Now()
	raw, err := retry.Do(ctx, policy, func(ctx context.Context) (string, error) {
		out, err := s.Model.Generate(ctx, prompt)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(out) == "" {
			return "", errEmptyResponse
		}
		return out, nil
	})
	s.Metrics.ObserveModelCall(name, err, time.Since(start))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", apperr.Wrap(apperr.KindUpstreamUnavailable, "AI service unavailable", err)
	}
	return raw, nil
}

// GenerateResume writes a resume fragment from the caller's profile. When no
// model is configured, or the model cannot produce a usable answer, the
// fragment is laid out locally instead.
func (s *Service) GenerateResume(ctx context.Context, userID string, in GenerateInput) (GenerateResult, error) {
	if strings.TrimSpace(userID) == "" {
		return GenerateResult{}, apperr.ErrUnauthenticated
	}
	if err := validate.Struct(in); err != nil {
		return GenerateResult{}, err
	}
	user, err := s.Profiles.GetByID(ctx, userID)
	if err != nil {
		return GenerateResult{}, err
	}
	seed, in, err := s.generationSeed(ctx, userID, in)
	if err != nil {
		return GenerateResult{}, err
	}

	if s.Model != nil {
		content, err := s.generateWithModel(ctx, user, in, seed)
		if err == nil {
			return GenerateResult{Content: markup.Repair(content), Source: SourceModel}, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return GenerateResult{}, ctxErr
		}
		telemetry.Warn("ai.generate.fallback", map[string]any{"user_id": userID, "error": err.Error()})
	}

	content, err := localResume(user, in)
	if err != nil {
		return GenerateResult{}, err
	}
	return GenerateResult{Content: markup.Repair(content), Source: SourceLocal}, nil
}

// generationSeed resolves the optional seed into plain text. A stored resume
// must belong to the caller; raw content wins over the stored content.
func (s *Service) generationSeed(ctx context.Context, userID string, in GenerateInput) (string, GenerateInput, error) {
	content := in.Content
	if resumeID := strings.TrimSpace(in.ResumeID); resumeID != "" {
		resume, err := s.Resumes.Get(ctx, userID, resumeID)
		if err != nil {
			return "", in, err
		}
		if strings.TrimSpace(content) == "" {
			content = resume.Content
		}
		in.JobTitle = firstNonBlank(in.JobTitle, resume.JobTitle)
		in.TargetCompany = firstNonBlank(in.TargetCompany, resume.TargetCompany)
		in.TargetIndustry = firstNonBlank(in.TargetIndustry, resume.TargetIndustry)
	}
	return markup.Text(content), in, nil
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func (s *Service) generateWithModel(ctx context.Context, user users.User, in GenerateInput, seed string) (string, error) {
	profileJSON, err := json.MarshalIndent(user.Profile, "", "  ")
	if err != nil {
		return "", err
	}
	prompt, err := renderPrompt(promptGenerate, generatePrompt{
		Name:           user.Name,
		Email:          user.Email,
		ProfileJSON:    string(profileJSON),
		JobTitle:       strings.TrimSpace(in.JobTitle),
		TargetCompany:  strings.TrimSpace(in.TargetCompany),
		TargetIndustry: strings.TrimSpace(in.TargetIndustry),
		Instructions:   strings.TrimSpace(in.Instructions),
		Seed:           seed,
	})
	if err != nil {
		return "", err
	}
	raw, err := s.call(ctx, "generate", prompt)
	if err != nil {
		return "", err
	}
	var out struct {
		Content string `json:"content"`
	}
	if err := parseResponse(raw, generateResultSchema, &out); err != nil {
		return "", err
	}
	return out.Content, nil
}
