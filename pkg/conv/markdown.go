package conv

import (
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

var (
	extensions   = parser.CommonExtensions | parser.NoEmptyLineBeforeBlock
	htmlFlags    = html.CommonFlags | html.HrefTargetBlank
	tgPolicy     = bluemonday.NewPolicy()
	matrixPolicy = bluemonday.NewPolicy()
)

func init() {
	// https://core.telegram.org/bots/api#html-style
	tgPolicy.AllowElements("b", "strong", "i", "em", "u", "ins", "s", "strike", "del", "code", "pre", "blockquote")
	tgPolicy.AllowAttrs("href").OnElements("a")
	tgPolicy.AllowAttrs("class").OnElements("code")

	// https://spec.matrix.org/latest/client-server-api/#mroommessage-msgtypes
	matrixPolicy.AllowElements("p", "br", "b", "strong", "i", "em", "u", "s", "del", "code", "pre",
		"blockquote", "ul", "ol", "li", "hr")
	matrixPolicy.AllowAttrs("href").OnElements("a")
}

func render(md []byte, policy *bluemonday.Policy) string {
	p := parser.NewWithExtensions(extensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags})
	unsafeHTML := markdown.Render(p.Parse(md), renderer)
	return string(policy.SanitizeBytes(unsafeHTML))
}

func MarkdownToTelegramHTML(md []byte) string {
	return render(md, tgPolicy)
}

// MarkdownToMatrixHTML renders the org.matrix.custom.html subset used for
// formatted_body. Bare URLs in answers become links.
func MarkdownToMatrixHTML(md []byte) string {
	return render(md, matrixPolicy)
}
