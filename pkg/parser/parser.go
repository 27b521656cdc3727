package parser

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// blockSelector lists the elements that become one text line each.
const blockSelector = "h1,h2,h3,h4,h5,h6,p,li,pre,td,th,blockquote"

type Parser struct{}

// ExtractLines uses go-readability to isolate the main text of an HTML document
// and returns one line per content block, in document order.
// When readability finds no article, the whole document is used instead.
func (p *Parser) ExtractLines(rawURL, html string) ([]string, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL %q: %w", rawURL, err)
	}

	content := html
	readabilityParser := readability.NewParser()
	article, err := readabilityParser.Parse(strings.NewReader(html), pageURL)
	if err == nil && strings.TrimSpace(article.Content) != "" {
		content = article.Content
	}

	return blockLines(content)
}

// blockLines emits one line per block element of an HTML fragment.
func blockLines(content string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var lines []string
	blocks := doc.Find(blockSelector)
	if blocks.Length() == 0 {
		if text := normalizeText(doc.Find("body").Text()); text != "" {
			lines = append(lines, text)
		}
		return lines, nil
	}

	blocks.Each(func(i int, s *goquery.Selection) {
		// Nested blocks (p inside li, etc.) are emitted by their outermost ancestor only.
		if s.ParentsFiltered(blockSelector).Length() > 0 {
			return
		}
		if goquery.NodeName(s) == "pre" {
			lines = append(lines, preLines(s.Text())...)
			return
		}
		if text := normalizeText(s.Text()); text != "" {
			lines = append(lines, text)
		}
	})

	return lines, nil
}

// normalizeText joins the non-blank lines of input with single spaces.
// Lines have no length limit.
func normalizeText(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(line)
	}
	return b.String()
}

// preLines keeps the line structure of preformatted text.
func preLines(input string) []string {
	var out []string
	for _, l := range strings.Split(input, "\n") {
		l = strings.TrimRight(l, "\r")
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}
