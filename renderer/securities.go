package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/refdata"
	md "github.com/nao1215/markdown"
)

// SecurityRow is the outcome of looking up one ISIN.
type SecurityRow struct {
	ISIN     string
	Security refdata.Security // zero if Err is not nil.
	Err      error
}

// SecuritiesMarkdown renders found securities as a table, followed by the lookups that failed.
func SecuritiesMarkdown(rows []SecurityRow) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Securities")

	table := md.TableSet{
		Header: []string{"ISIN", "Type", "Name", "Accumulating"},
		Rows:   [][]string{},
	}
	for _, row := range rows {
		if row.Err != nil {
			continue
		}
		accumulating := ""
		if acc, ok := row.Security.Accumulating(); ok {
			accumulating = "no"
			if acc {
				accumulating = "yes"
			}
		}
		table.Rows = append(table.Rows, []string{
			row.ISIN,
			row.Security.Type().String(),
			row.Security.Name(),
			accumulating,
		})
	}
	doc.Table(table)

	var failed []string
	for _, row := range rows {
		if row.Err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", row.ISIN, row.Err))
		}
	}
	if len(failed) > 0 {
		doc.H2("Errors")
		doc.BulletList(failed...)
	}
	return doc.String()
}
