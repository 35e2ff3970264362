package summaries

import "strings"

const (
	// NoInfoSentinel marks a project without usable information.
	NoInfoSentinel = "NO INFO"
	// ErrorSentinel marks a project whose summary request failed.
	ErrorSentinel = "ERROR"

	// SystemMessage frames the model as a summarizer.
	SystemMessage = "You are a helpful assistant that summarizes project information."

	summaryInstructionConstant = `Generate a concise two-paragraph summary of the project based on the scraped data below. The first paragraph should focus on the project's mission and key features. The second paragraph should highlight any unique technologies, solutions, or partnerships. If the data is incomplete, irrelevant, or contains errors (e.g., 404 page, domain for sale), return "NO INFO". Provide only the summary or "NO INFO".`
	promptSeparatorConstant    = "\n\n"
)

// BuildPrompt appends the project information to the fixed summary instruction.
func BuildPrompt(projectInfo string) string {
	return summaryInstructionConstant + promptSeparatorConstant + projectInfo
}

// IsSentinel reports whether the summary is NO INFO or ERROR.
func IsSentinel(summary string) bool {
	trimmedSummary := strings.TrimSpace(summary)
	return trimmedSummary == NoInfoSentinel || trimmedSummary == ErrorSentinel
}
