package source

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"fjacquet/bill-analyzer/internal/logging"
	"fjacquet/bill-analyzer/internal/models"
	"fjacquet/bill-analyzer/internal/parsererror"

	"github.com/jomei/notionapi"
)

// NotionSourceName labels ledgers read from Notion.
const NotionSourceName = "notion"

// notionPageSize is the maximum page size the Notion API accepts.
const notionPageSize = 100

// DatabaseQuerier is the subset of the Notion client the source needs.
type DatabaseQuerier interface {
	QueryDatabase(ctx context.Context, databaseID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)
}

// NotionClient queries databases through the Notion SDK.
type NotionClient struct {
	client *notionapi.Client
}

// NewNotionClient creates a client for an integration token.
func NewNotionClient(token string) *NotionClient {
	return &NotionClient{client: notionapi.NewClient(notionapi.Token(token))}
}

// QueryDatabase implements DatabaseQuerier.
func (n *NotionClient) QueryDatabase(ctx context.Context, databaseID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	resp, err := n.client.Database.Query(ctx, notionapi.DatabaseID(databaseID), req)
	if err != nil {
		return nil, fmt.Errorf("QueryDatabase: %w", err)
	}
	return resp, nil
}

// NotionSource reads every page of a database. Each page is a row; the
// property names, sorted, are the headers.
type NotionSource struct {
	querier DatabaseQuerier
	logger  logging.Logger
}

// NewNotionSource wraps a querier.
func NewNotionSource(q DatabaseQuerier, logger logging.Logger) *NotionSource {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &NotionSource{querier: q, logger: logger}
}

// Fetch pages through the database and flattens the properties.
func (s *NotionSource) Fetch(ctx context.Context, databaseID string) (models.RawTable, error) {
	if strings.TrimSpace(databaseID) == "" {
		return models.RawTable{}, &parsererror.SourceError{Source: NotionSourceName, Err: errors.New("database id is empty")}
	}

	var pages []notionapi.Page
	req := &notionapi.DatabaseQueryRequest{PageSize: notionPageSize}
	for {
		resp, err := s.querier.QueryDatabase(ctx, databaseID, req)
		if err != nil {
			return models.RawTable{}, &parsererror.SourceError{Source: NotionSourceName, Err: err}
		}
		pages = append(pages, resp.Results...)
		if !resp.HasMore || resp.NextCursor == "" {
			break
		}
		req = &notionapi.DatabaseQueryRequest{PageSize: notionPageSize, StartCursor: resp.NextCursor}
	}

	table := pagesToTable(pages)
	s.logger.Info("Fetched Notion database",
		logging.F(logging.FieldSource, NotionSourceName),
		logging.F(logging.FieldCount, table.Len()))
	return table, nil
}

func pagesToTable(pages []notionapi.Page) models.RawTable {
	seen := make(map[string]struct{})
	for _, p := range pages {
		for name := range p.Properties {
			seen[name] = struct{}{}
		}
	}
	headers := make([]string, 0, len(seen))
	for name := range seen {
		headers = append(headers, name)
	}
	sort.Strings(headers)

	table := models.RawTable{Headers: headers, Rows: make([][]any, len(pages))}
	for i, p := range pages {
		row := make([]any, len(headers))
		for j, name := range headers {
			if prop, ok := p.Properties[name]; ok {
				row[j] = propertyValue(prop)
			}
		}
		table.Rows[i] = row
	}
	return table
}

// propertyValue flattens a property to string, float64, bool, time.Time or nil.
func propertyValue(p notionapi.Property) any {
	switch v := p.(type) {
	case *notionapi.TitleProperty:
		return richText(v.Title)
	case *notionapi.RichTextProperty:
		return richText(v.RichText)
	case *notionapi.NumberProperty:
		return v.Number
	case *notionapi.DateProperty:
		return dateValue(v.Date)
	case *notionapi.SelectProperty:
		return nonEmpty(v.Select.Name)
	case *notionapi.StatusProperty:
		return nonEmpty(v.Status.Name)
	case *notionapi.MultiSelectProperty:
		names := make([]string, len(v.MultiSelect))
		for i, o := range v.MultiSelect {
			names[i] = o.Name
		}
		return nonEmpty(strings.Join(names, ", "))
	case *notionapi.CheckboxProperty:
		return v.Checkbox
	case *notionapi.URLProperty:
		return nonEmpty(v.URL)
	case *notionapi.EmailProperty:
		return nonEmpty(v.Email)
	case *notionapi.PhoneNumberProperty:
		return nonEmpty(v.PhoneNumber)
	case *notionapi.CreatedTimeProperty:
		return time.Time(v.CreatedTime)
	case *notionapi.FormulaProperty:
		switch v.Formula.Type {
		case notionapi.FormulaTypeNumber:
			return v.Formula.Number
		case notionapi.FormulaTypeString:
			return nonEmpty(v.Formula.String)
		case notionapi.FormulaTypeDate:
			return dateValue(v.Formula.Date)
		}
	}
	return nil
}

func richText(parts []notionapi.RichText) any {
	var b strings.Builder
	for _, rt := range parts {
		b.WriteString(rt.PlainText)
	}
	return nonEmpty(strings.TrimSpace(b.String()))
}

func dateValue(d *notionapi.DateObject) any {
	if d == nil || d.Start == nil {
		return nil
	}
	return time.Time(*d.Start)
}

func nonEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
