package providers

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/mitchellh/go-wordwrap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/nodewee/file-converter/pkg/constants"
)

var blockElements = map[atom.Atom]bool{
	atom.P:          true,
	atom.Div:        true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Blockquote: true,
	atom.Pre:        true,
	atom.Article:    true,
	atom.Section:    true,
	atom.Header:     true,
	atom.Footer:     true,
	atom.Nav:        true,
	atom.Aside:      true,
	atom.Main:       true,
	atom.Ul:         true,
	atom.Ol:         true,
	atom.Li:         true,
	atom.Table:      true,
	atom.Tr:         true,
	atom.Form:       true,
	atom.Fieldset:   true,
	atom.Address:    true,
	atom.Hr:         true,
}

var skippedElements = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
}

var (
	reSpaces     = regexp.MustCompile(`[ \t\f\v]+`)
	reBlankLines = regexp.MustCompile(`\n\s*\n\s*\n+`)
	reLineEdges  = regexp.MustCompile(` *\n *`)
)

// HTMLToText flattens an HTML document to plain text wrapped at 80 columns.
// Block elements become line breaks, <pre> keeps its layout, scripts,
// styles and the document head are dropped.
func HTMLToText(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var textBuilder strings.Builder
	extractTextFromNode(doc, &textBuilder, false)

	return wrapText(cleanupText(textBuilder.String()), constants.TextWrapWidth), nil
}

// preMarker fences preformatted text so cleanup leaves it untouched
const preMarker = "\x00"

func extractTextFromNode(node *html.Node, textBuilder *strings.Builder, inPre bool) {
	if node.Type == html.ElementNode {
		if skippedElements[node.DataAtom] {
			return
		}
		if node.DataAtom == atom.Br {
			textBuilder.WriteString("\n")
			return
		}
		if blockElements[node.DataAtom] {
			textBuilder.WriteString("\n")
		}
		if node.DataAtom == atom.Td || node.DataAtom == atom.Th {
			textBuilder.WriteString(" ")
		}
		if node.DataAtom == atom.Pre && !inPre {
			textBuilder.WriteString(preMarker)
			inPre = true
			defer textBuilder.WriteString(preMarker)
		}
	}

	if node.Type == html.TextNode {
		if inPre {
			textBuilder.WriteString(node.Data)
		} else {
			textBuilder.WriteString(reSpaces.ReplaceAllString(strings.ReplaceAll(node.Data, "\n", " "), " "))
		}
	}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		extractTextFromNode(child, textBuilder, inPre)
	}

	if node.Type == html.ElementNode && blockElements[node.DataAtom] {
		textBuilder.WriteString("\n")
	}
}

// cleanupText collapses whitespace outside preformatted sections
func cleanupText(text string) string {
	parts := strings.Split(text, preMarker)
	for i := range parts {
		if i%2 == 1 {
			// preformatted
			continue
		}
		part := reSpaces.ReplaceAllString(parts[i], " ")
		part = reLineEdges.ReplaceAllString(part, "\n")
		parts[i] = part
	}
	text = strings.Join(parts, "")
	text = reBlankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// wrapText word-wraps every line to width columns
func wrapText(text string, width uint) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = wordwrap.WrapString(line, width)
	}
	return strings.Join(lines, "\n")
}

// HTMLToMarkdown converts HTML to CommonMark with GitHub-style tables
func HTMLToMarkdown(htmlContent string) (string, error) {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithHeadingStyle("atx"),
			),
			table.NewTablePlugin(),
		),
	)

	md, err := conv.ConvertString(htmlContent)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(md), nil
}
