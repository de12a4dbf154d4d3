package llm

import (
	_ "embed"
	"strings"
)

//go:embed prompts/match_v1.txt
var matchPromptV1 string

// BuildPrompt embeds both texts verbatim in the match prompt.
func BuildPrompt(resumeText, jobDescription string) string {
	// Single pass: placeholders inside the inputs are left alone.
	replacer := strings.NewReplacer(
		"{{JOB_DESCRIPTION}}", jobDescription,
		"{{RESUME_TEXT}}", resumeText,
	)
	return replacer.Replace(matchPromptV1)
}
