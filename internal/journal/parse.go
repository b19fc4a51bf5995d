// Package journal reads dream journals: plain text files, HTML files and
// remote HTML pages.
package journal

import (
	"bufio"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ParseText returns one dream per non-blank line. Lines starting with '#'
// are comments. Repeated dreams are kept once, in first-seen order.
func ParseText(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)

	var lines []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return dedupe(lines), nil
}

// ParseHTML returns the visible text of every <p> and <li> element as a
// dream. Script, style, noscript and iframe content is skipped.
func ParseHTML(r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var dreams []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			case "p", "li":
				if text := visibleText(n); text != "" {
					dreams = append(dreams, text)
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return dedupe(dreams), nil
}

// visibleText joins the text nodes under n with single spaces
func visibleText(n *html.Node) string {
	var parts []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}
		if n.Type == html.TextNode {
			parts = append(parts, strings.Fields(n.Data)...)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return strings.Join(parts, " ")
}

func dedupe(dreams []string) []string {
	seen := make(map[string]bool, len(dreams))
	unique := make([]string, 0, len(dreams))

	for _, d := range dreams {
		key := strings.ToLower(d)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, d)
	}

	return unique
}
