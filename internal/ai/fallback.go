package ai

import (
	"html/template"
	"strings"

	"resume-builder/internal/users"
)

// Canned results are served when no model credential is configured.
const (
	CannedATSScore         = 75
	CannedGrammarScore     = 85
	CannedOriginalityScore = 90
)

func cannedATS() ATSResult {
	return ATSResult{
		Score:           CannedATSScore,
		Keywords:        []string{"communication", "teamwork", "problem solving"},
		MissingKeywords: []string{},
		Suggestions: []string{
			"Mirror the exact job title from the posting in your summary.",
			"Quantify achievements with numbers where possible.",
			"Use standard section headings such as Experience, Education and Skills.",
		},
		Mock: true,
	}
}

func cannedGrammar() GrammarResult {
	return GrammarResult{
		Score:  CannedGrammarScore,
		Errors: []GrammarIssue{},
		Suggestions: []string{
			"Start bullet points with strong action verbs.",
			"Keep verb tense consistent within each role.",
		},
		Mock: true,
	}
}

func cannedPlagiarism() PlagiarismResult {
	return PlagiarismResult{
		Score:           CannedOriginalityScore,
		FlaggedSections: []string{},
		Suggestions: []string{
			"Replace generic phrases like \"results-driven professional\" with specific accomplishments.",
		},
		Mock: true,
	}
}

const localResumeHTML = `<h1>{{.Name}}</h1>
{{- if .Contact}}<p>{{.Contact}}</p>{{end}}
{{- if .Headline}}<p><strong>{{.Headline}}</strong></p>{{end}}
{{- with .Profile.Summary}}<h2>Summary</h2><p>{{.}}</p>{{end}}
{{- if .Profile.Experience}}<h2>Experience</h2>
{{- range .Profile.Experience}}<h3>{{.Position}}, {{.Company}}</h3>
{{- if or .StartDate .EndDate .Current}}<p><em>{{.StartDate}} - {{if .Current}}Present{{else}}{{.EndDate}}{{end}}{{with .Location}} | {{.}}{{end}}</em></p>{{end}}
{{- with .Description}}<p>{{.}}</p>{{end}}
{{- if .Highlights}}<ul>{{range .Highlights}}<li>{{.}}</li>{{end}}</ul>{{end}}
{{- end}}{{end}}
{{- if .Profile.Education}}<h2>Education</h2>
{{- range .Profile.Education}}<h3>{{.Institution}}</h3>
{{- if or .Degree .Field}}<p>{{.Degree}}{{if and .Degree .Field}}, {{end}}{{.Field}}{{with .EndDate}} ({{.}}){{end}}</p>{{end}}
{{- with .Description}}<p>{{.}}</p>{{end}}
{{- end}}{{end}}
{{- if .Profile.Skills}}<h2>Skills</h2><p>{{join .Profile.Skills ", "}}</p>{{end}}
{{- if .Profile.Certifications}}<h2>Certifications</h2><ul>
{{- range .Profile.Certifications}}<li>{{.Name}}{{with .Issuer}}, {{.}}{{end}}{{with .Date}} ({{.}}){{end}}</li>{{end}}</ul>{{end}}
{{- if .Profile.Achievements}}<h2>Achievements</h2><ul>{{range .Profile.Achievements}}<li>{{.}}</li>{{end}}</ul>{{end}}`

var localResumeTemplate = template.Must(template.New("resume").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(localResumeHTML))

type localResumeData struct {
	Name     string
	Contact  string
	Headline string
	Profile  users.Profile
}

// localResume lays the profile out as a resume fragment without a model.
func localResume(user users.User, in GenerateInput) (string, error) {
	name := strings.TrimSpace(user.Name)
	if name == "" {
		name = "Your Name"
	}
	contact := make([]string, 0, 5)
	for _, part := range []string{user.Email, user.Profile.Phone, user.Profile.Location, user.Profile.LinkedIn, user.Profile.Website} {
		if part = strings.TrimSpace(part); part != "" {
			contact = append(contact, part)
		}
	}
	headline := strings.TrimSpace(in.JobTitle)
	if headline != "" && strings.TrimSpace(in.TargetCompany) != "" {
		headline += " candidate for " + strings.TrimSpace(in.TargetCompany)
	}

	var b strings.Builder
	err := localResumeTemplate.Execute(&b, localResumeData{
		Name:     name,
		Contact:  strings.Join(contact, " | "),
		Headline: headline,
		Profile:  user.Profile,
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
