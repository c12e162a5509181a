package ai

import (
	_ "embed"
	"text/template"
)

//go:embed prompts/single_job.md
var singleJobPromptRaw string

//go:embed prompts/multi_job.md
var multiJobPromptRaw string

// SingleJobTemplate and MultiJobTemplate are parsed once at package init.
var (
	SingleJobTemplate = template.Must(template.New("single_job").Parse(singleJobPromptRaw))
	MultiJobTemplate  = template.Must(template.New("multi_job").Parse(multiJobPromptRaw))
)

const systemPrompt = "You are a precise structured data extractor for job requests sent to a trades business."
