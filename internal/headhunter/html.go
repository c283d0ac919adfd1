package headhunter

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/spigell/skills-analyzer/internal/utils"
)

// StripHTML returns the whitespace-normalized text content of an HTML
// fragment. Block-level tags become spaces so adjacent words stay separated.
func StripHTML(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return utils.NormalizeText(fragment)
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a tokenizer error: keep what was read.
			return utils.NormalizeText(b.String())
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if separates(string(name)) {
				b.WriteByte(' ')
			}
		}
	}
}

func separates(tag string) bool {
	switch tag {
	case "b", "i", "em", "strong", "span", "a", "u", "highlighttext":
		return false
	default:
		return true
	}
}
