package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"fjacquet/bill-analyzer/internal/logging"
	"fjacquet/bill-analyzer/internal/models"
)

var (
	fullDateHeader  = regexp.MustCompile(`^(\d{4})/(\d{2})/(\d{2})[:：]\s*$`)
	shortDateHeader = regexp.MustCompile(`^(\d{2})/(\d{2})[:：]\s*$`)
	journalLine     = regexp.MustCompile(`^(?:\d+[:.：]\s*)?(.+?)[:：]\s*(\d+(?:\.\d+)?)(?:\s+T)?(?:\s+([A-Za-z]+))?\s*$`)
	leadingDate     = regexp.MustCompile(`^\d{2}/\d{2}`)
)

// JournalReader reads a plain-text spending journal as exported from a
// Notion page:
//
//	2024/08/01:
//	1: Sichuan noodles：59 Food
//	Bus card：30 T
//
// Date headers apply to the lines below them. Short headers ("08/01:")
// take the year from the clock. Lines before any header are skipped.
type JournalReader struct {
	now    func() time.Time
	logger logging.Logger
}

// NewJournalReader returns a journal reader using the wall clock.
func NewJournalReader(opts Options) *JournalReader {
	return &JournalReader{now: time.Now, logger: opts.logger()}
}

var journalHeaders = []string{models.ColumnDate, models.ColumnDescription, models.ColumnAmount, models.ColumnCategory}

// Read implements Reader.
func (j *JournalReader) Read(ctx context.Context, r io.Reader) (models.RawTable, error) {
	table := models.RawTable{Headers: journalHeaders}
	scanner := bufio.NewScanner(r)
	current := ""
	skipped := 0

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return models.RawTable{}, err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if m := fullDateHeader.FindStringSubmatch(line); m != nil {
			current = fmt.Sprintf("%s-%s-%s", m[1], m[2], m[3])
			continue
		}
		if m := shortDateHeader.FindStringSubmatch(line); m != nil {
			current = fmt.Sprintf("%d-%s-%s", j.now().Year(), m[1], m[2])
			continue
		}
		m := journalLine.FindStringSubmatch(line)
		if m == nil || current == "" || leadingDate.MatchString(m[1]) {
			skipped++
			continue
		}
		var category any
		if m[3] != "" {
			category = m[3]
		}
		table.Rows = append(table.Rows, []any{current, strings.Join(strings.Fields(m[1]), " "), m[2], category})
	}
	if err := scanner.Err(); err != nil {
		return models.RawTable{}, fmt.Errorf("reading journal: %w", err)
	}
	j.logger.Debug("Read journal lines",
		logging.F(logging.FieldCount, table.Len()),
		logging.F(logging.FieldDropped, skipped))
	return table, nil
}
