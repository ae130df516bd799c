package providers

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

const markdownCSS = "body{font-family:sans-serif;max-width:800px;margin:0 auto;padding:20px;}" +
	"pre{background:#f4f4f4;padding:10px;overflow-x:auto;}" +
	"code{background:#f4f4f4;padding:2px 4px;}"

var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,
		extension.Strikethrough,
		extension.Linkify,
		extension.TaskList,
	),
	goldmark.WithRendererOptions(
		// raw HTML in Markdown sources is passed through
		gmhtml.WithUnsafe(),
	),
)

// RenderMarkdown converts Markdown to an HTML fragment
func RenderMarkdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// MarkdownPage renders Markdown into a complete styled HTML page
func MarkdownPage(source, title string) (string, error) {
	body, err := RenderMarkdown(source)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"UTF-8\">\n")
	b.WriteString("<title>" + escapeHTML(title) + "</title>\n")
	b.WriteString("<style>" + markdownCSS + "</style>\n")
	b.WriteString("</head>\n<body>\n")
	b.WriteString(body)
	b.WriteString("</body>\n</html>")
	return b.String(), nil
}

// TextPage wraps plain text in a <pre> block inside a UTF-8 HTML page
func TextPage(text, title string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"UTF-8\">\n")
	b.WriteString("<title>" + escapeHTML(title) + "</title>\n")
	b.WriteString("</head>\n<body>\n<pre>")
	b.WriteString(escapeHTML(text))
	b.WriteString("</pre>\n</body>\n</html>")
	return b.String()
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

// escapeHTML escapes the four characters that matter in text and attribute content
func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

