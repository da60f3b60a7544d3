package resumes

import "time"

// Resume is a user's resume document. Content is an HTML fragment.
type Resume struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	Title            string    `json:"title"`
	Content          string    `json:"content"`
	Template         string    `json:"template"`
	ATSScore         int       `json:"atsScore"`
	GrammarScore     int       `json:"grammarScore"`
	OriginalityScore int       `json:"originalityScore"`
	JobTitle         string    `json:"jobTitle,omitempty"`
	TargetCompany    string    `json:"targetCompany,omitempty"`
	TargetIndustry   string    `json:"targetIndustry,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Summary is the list view of a resume.
type Summary struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Template         string    `json:"template"`
	ATSScore         int       `json:"atsScore"`
	GrammarScore     int       `json:"grammarScore"`
	OriginalityScore int       `json:"originalityScore"`
	JobTitle         string    `json:"jobTitle,omitempty"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ScoreField names one of the three scores on a resume.
type ScoreField string

const (
	ScoreATS         ScoreField = "ats"
	ScoreGrammar     ScoreField = "grammar"
	ScoreOriginality ScoreField = "originality"
)

const (
	MinScore = 0
	MaxScore = 100
)

// ClampScore bounds a score to [MinScore, MaxScore].
func ClampScore(v int) int {
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}

func (r Resume) summary() Summary {
	return Summary{
		ID:               r.ID,
		Title:            r.Title,
		Template:         r.Template,
		ATSScore:         r.ATSScore,
		GrammarScore:     r.GrammarScore,
		OriginalityScore: r.OriginalityScore,
		JobTitle:         r.JobTitle,
		UpdatedAt:        r.UpdatedAt,
	}
}
