package update

import (
	"strings"

	"inkquest/internal/views"
)

func levelFromError(isErr bool) string {
	if isErr {
		return "error"
	}
	return "info"
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

func renderMarkdownPreview(md string) string {
	return views.RenderMarkdown(md)
}
