package prompt

import (
	"fmt"
	"strings"

	"claudia/internal/types"
)

const (
	// DefaultSystem is sent when there is no context to share
	DefaultSystem = "You are a coding assistant helping with software development."

	contextPreamble = "You are a coding assistant with access to the following project files:\n\n"
	contextClosing  = "Provide advice, explanations, and code suggestions based on these files. Reference specific files by their names when relevant."

	// PingPrompt checks connectivity without any workspace context
	PingPrompt = "Hello! Please respond with a short confirmation that you're connected."
)

// Format turns a context bundle into the system message. The output depends
// only on the bundle.
func Format(bundle types.ContextBundle) string {
	if len(bundle) == 0 {
		return DefaultSystem
	}

	var b strings.Builder
	b.WriteString(contextPreamble)
	for i, file := range bundle {
		fmt.Fprintf(&b, "FILE %d:\n%s\n\n", i+1, file.Label())
	}
	b.WriteString(contextClosing)

	return b.String()
}

func AnalyzePrompt(fileName, content string) string {
	return fmt.Sprintf("Please analyze this code file %q and provide insights on its structure, quality, and potential improvements:\n\n```\n%s\n```",
		fileName, content)
}

func DocumentPrompt(fileName, content string) string {
	return fmt.Sprintf("Please generate comprehensive documentation for this code file %q:\n\n```\n%s\n```\n\nInclude function descriptions, parameters, return values, and examples where appropriate.",
		fileName, content)
}

// ExplainPrompt embeds a selection; extension is given without the dot
func ExplainPrompt(extension, selection string) string {
	return fmt.Sprintf("Please explain this code snippet from a %s file and how it works:\n\n```\n%s\n```",
		extension, selection)
}
