package ai

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var prompts = template.Must(template.ParseFS(promptFS, "prompts/*.tmpl"))

const (
	promptATS        = "ats.tmpl"
	promptGrammar    = "grammar.tmpl"
	promptPlagiarism = "plagiarism.tmpl"
	promptGenerate   = "generate.tmpl"
)

type checkPrompt struct {
	Text           string
	JobDescription string
}

type generatePrompt struct {
	Name           string
	Email          string
	ProfileJSON    string
	JobTitle       string
	TargetCompany  string
	TargetIndustry string
	Instructions   string
	Seed           string
}

func renderPrompt(name string, data any) (string, error) {
	var b strings.Builder
	if err := prompts.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", name, err)
	}
	return b.String(), nil
}
