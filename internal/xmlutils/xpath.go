// Package xmlutils provides the XPath helpers used to read bank statements.
package xmlutils

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"gopkg.in/xmlpath.v2"
)

var (
	whitespace = regexp.MustCompile(`\s+`)
	noise      = []string{
		"Remittance Info: ",
		"Remittance Information: ",
		"Additional Entry Info: ",
		"Details: ",
	}
)

// Parse reads an XML document and returns its root node.
func Parse(r io.Reader) (*xmlpath.Node, error) {
	root, err := xmlpath.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	return root, nil
}

// Nodes returns every node matched by xpath under root.
func Nodes(root *xmlpath.Node, xpath string) ([]*xmlpath.Node, error) {
	path, err := xmlpath.Compile(xpath)
	if err != nil {
		return nil, fmt.Errorf("failed to compile XPath %q: %w", xpath, err)
	}
	var out []*xmlpath.Node
	iter := path.Iter(root)
	for iter.Next() {
		out = append(out, iter.Node())
	}
	return out, nil
}

// Extractor evaluates a fixed set of compiled paths against many nodes.
type Extractor struct {
	paths map[string]*xmlpath.Path
}

// NewExtractor compiles every expression once.
func NewExtractor(exprs ...string) (*Extractor, error) {
	e := &Extractor{paths: make(map[string]*xmlpath.Path, len(exprs))}
	for _, expr := range exprs {
		p, err := xmlpath.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("failed to compile XPath %q: %w", expr, err)
		}
		e.paths[expr] = p
	}
	return e, nil
}

// First returns the cleaned text of the first match, or "".
func (e *Extractor) First(node *xmlpath.Node, expr string) string {
	p, ok := e.paths[expr]
	if !ok {
		return ""
	}
	s, ok := p.String(node)
	if !ok {
		return ""
	}
	return CleanText(s)
}

// All returns the cleaned text of every match, skipping blanks.
func (e *Extractor) All(node *xmlpath.Node, expr string) []string {
	p, ok := e.paths[expr]
	if !ok {
		return nil
	}
	var out []string
	iter := p.Iter(node)
	for iter.Next() {
		if s := CleanText(iter.Node().String()); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// CleanText collapses whitespace and strips common remittance prefixes.
func CleanText(text string) string {
	text = strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
	for _, prefix := range noise {
		text = strings.TrimPrefix(text, prefix)
	}
	return text
}
