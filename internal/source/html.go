package source

import (
	"context"
	"io"
	"strings"

	"fjacquet/bill-analyzer/internal/logging"
	"fjacquet/bill-analyzer/internal/models"
	"fjacquet/bill-analyzer/internal/parsererror"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLReader reads the first <table> of a document, such as a Notion page
// exported to HTML. The first row is the header.
type HTMLReader struct {
	logger logging.Logger
}

// NewHTMLReader returns an HTML table reader.
func NewHTMLReader(opts Options) *HTMLReader {
	return &HTMLReader{logger: opts.logger()}
}

// Read implements Reader.
func (h *HTMLReader) Read(ctx context.Context, r io.Reader) (models.RawTable, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return models.RawTable{}, &parsererror.InvalidFormatError{ExpectedFormat: "html", Msg: err.Error()}
	}
	table := findFirst(doc, atom.Table)
	if table == nil {
		return models.RawTable{}, &parsererror.InvalidFormatError{ExpectedFormat: "html", Msg: "no table found"}
	}
	if err := ctx.Err(); err != nil {
		return models.RawTable{}, err
	}

	var rows [][]string
	walk(table, func(n *html.Node) bool {
		if n.DataAtom == atom.Table && n != table {
			return false
		}
		if n.DataAtom == atom.Tr {
			rows = append(rows, rowCells(n))
			return false
		}
		return true
	})
	if len(rows) == 0 {
		return models.RawTable{}, nil
	}

	out := models.RawTable{Headers: rows[0]}
	for _, rec := range rows[1:] {
		if isBlank(rec) {
			continue
		}
		out.Rows = append(out.Rows, padRow(stringsToCells(rec), len(out.Headers)))
	}
	h.logger.Debug("Read HTML table", logging.F(logging.FieldCount, out.Len()))
	return out, nil
}

// walk visits n and its descendants depth first; visit returns false to
// skip a subtree.
func walk(n *html.Node, visit func(*html.Node) bool) {
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func findFirst(root *html.Node, a atom.Atom) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if n.Type == html.ElementNode && n.DataAtom == a {
			found = n
			return false
		}
		return true
	})
	return found
}

func rowCells(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.DataAtom == atom.Td || c.DataAtom == atom.Th {
			cells = append(cells, strings.Join(strings.Fields(textOf(c)), " "))
		}
	}
	return cells
}

func textOf(n *html.Node) string {
	var b strings.Builder
	walk(n, func(n *html.Node) bool {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		return true
	})
	return b.String()
}
