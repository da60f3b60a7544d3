package ai

import "resume-builder/internal/resumes"

// ATSResult rates keyword and format compatibility with applicant tracking systems.
type ATSResult struct {
	Score           Score    `json:"score"`
	Keywords        []string `json:"keywords"`
	MissingKeywords []string `json:"missingKeywords"`
	Suggestions     []string `json:"suggestions"`
	Mock            bool     `json:"-"`
}

// GrammarIssue is one problem found in the resume text.
type GrammarIssue struct {
	Text        string `json:"text"`
	Correction  string `json:"correction"`
	Explanation string `json:"explanation"`
}

type GrammarResult struct {
	Score       Score          `json:"score"`
	Errors      []GrammarIssue `json:"errors"`
	Suggestions []string       `json:"suggestions"`
	Mock        bool           `json:"-"`
}

// PlagiarismResult rates originality; a higher score is more original.
type PlagiarismResult struct {
	Score           Score    `json:"score"`
	FlaggedSections []string `json:"flaggedSections"`
	Suggestions     []string `json:"suggestions"`
	Mock            bool     `json:"-"`
}

// Generation sources.
const (
	SourceModel = "model"
	SourceLocal = "local"
)

// GenerateResult is a resume fragment ready to be saved or exported.
type GenerateResult struct {
	Content string `json:"content"`
	Source  string `json:"source"`
}

type scored interface {
	normalize()
	scoreValue() int
}

func (r *ATSResult) normalize() {
	r.Score = clamp(r.Score)
	r.Keywords = nonNil(r.Keywords)
	r.MissingKeywords = nonNil(r.MissingKeywords)
	r.Suggestions = nonNil(r.Suggestions)
}

func (r *ATSResult) scoreValue() int { return int(r.Score) }

func (r *GrammarResult) normalize() {
	r.Score = clamp(r.Score)
	if r.Errors == nil {
		r.Errors = []GrammarIssue{}
	}
	r.Suggestions = nonNil(r.Suggestions)
}

func (r *GrammarResult) scoreValue() int { return int(r.Score) }

func (r *PlagiarismResult) normalize() {
	r.Score = clamp(r.Score)
	r.FlaggedSections = nonNil(r.FlaggedSections)
	r.Suggestions = nonNil(r.Suggestions)
}

func (r *PlagiarismResult) scoreValue() int { return int(r.Score) }

func clamp(s Score) Score {
	return Score(resumes.ClampScore(int(s)))
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
