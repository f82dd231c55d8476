package narrative

import (
	"strings"

	"business_planner/pkg/core/utils"
)

// PreviewLength is the rune budget of Preview.
const PreviewLength = 280

// RenderHTML converts stored narrative Markdown to HTML.
func RenderHTML(text string) (string, error) {
	return utils.RenderMarkdown(utils.CleanMarkdown(text))
}

// Preview is a plain-text excerpt of a narrative, cut on a word boundary.
func Preview(text string) (string, error) {
	html, err := RenderHTML(text)
	if err != nil {
		return "", err
	}
	plain, err := utils.PlainText(html)
	if err != nil {
		return "", err
	}
	runes := []rune(plain)
	if len(runes) <= PreviewLength {
		return plain, nil
	}
	cut := string(runes[:PreviewLength])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + "…", nil
}
