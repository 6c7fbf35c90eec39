package parser

import (
	"strings"

	"github.com/yaklabco/mdlite/pkg/mdast"
)

// tableLayout is the cell text of a table match, before inline lexing.
type tableLayout struct {
	header []string
	align  []mdast.Align
	rows   [][]string
}

// buildNpTable handles tables whose rows have no leading pipe.
func buildNpTable(p *Parser, c *Cursor, m *Match) (mdast.Token, error) {
	src := c.ConsumeMatch(m)
	layout := tableLayout{
		header: splitCells(trimTableEdge(m.Group(1))),
		align:  parseAlign(m.Group(2)),
	}
	for _, row := range tableRows(m.Group(3)) {
		layout.rows = append(layout.rows, splitCells(row))
	}
	return tableToken(p.Info(m.Rule(), src), src, layout), nil
}

// buildTable handles tables whose rows start with a pipe.
func buildTable(p *Parser, c *Cursor, m *Match) (mdast.Token, error) {
	src := c.ConsumeMatch(m)
	layout := tableLayout{
		header: splitCells(trimTableEdge(m.Group(1))),
		align:  parseAlign(m.Group(2)),
	}
	for _, row := range tableRows(m.Group(3)) {
		row = strings.TrimLeft(row, " ")
		row = strings.TrimPrefix(row, "|")
		layout.rows = append(layout.rows, splitCells(trimTableEdge(row)))
	}
	return tableToken(p.Info(m.Rule(), src), src, layout), nil
}

// tableToken defers inline lexing of every cell. The header is on the
// first line of src and body rows start on its third.
func tableToken(info mdast.TokenInfo, src mdast.SourceInfo, layout tableLayout) *mdast.TwoPhaseToken {
	return &mdast.TwoPhaseToken{
		TokenInfo: info,
		Extractor: func(p mdast.Parser, t *mdast.TwoPhaseToken) (mdast.Token, error) {
			table := &mdast.TableToken{TokenInfo: t.TokenInfo, Align: layout.align}

			header, err := tableCells(p, t.TokenInfo, src.Copy("", 0), layout.header, layout.align, true)
			if err != nil {
				return nil, err
			}
			table.Header = header

			for i, row := range layout.rows {
				cells, err := tableCells(p, t.TokenInfo, src.Copy("", 2+i), row, layout.align, false)
				if err != nil {
					return nil, err
				}
				table.Rows = append(table.Rows, cells)
			}
			return table, nil
		},
	}
}

func tableCells(
	p mdast.Parser,
	info mdast.TokenInfo,
	line mdast.SourceInfo,
	texts []string,
	align []mdast.Align,
	header bool,
) ([]mdast.Token, error) {
	cells := make([]mdast.Token, 0, len(texts))
	for col, text := range texts {
		cellSrc := line.Copy(text, 0)
		inlines, err := p.TokenizeInline(cellSrc)
		if err != nil {
			return nil, err
		}
		cell := &mdast.TableCellToken{
			TokenInfo: mdast.NewInfo(info.Rule, info.Context, cellSrc),
			Header:    header,
			Inlines:   inlines,
		}
		if col < len(align) {
			cell.Align = align[col]
		}
		cells = append(cells, cell)
	}
	return cells, nil
}

// parseAlign reads the delimiter row.
func parseAlign(row string) []mdast.Align {
	row = strings.TrimLeft(row, " ")
	row = strings.TrimRight(row, " ")
	row = strings.TrimSuffix(row, "|")
	specs := splitCells(row)
	align := make([]mdast.Align, len(specs))
	for i, spec := range specs {
		left := strings.HasPrefix(spec, ":")
		right := strings.HasSuffix(spec, ":") && len(spec) > 1
		switch {
		case left && right:
			align[i] = mdast.AlignCenter
		case right:
			align[i] = mdast.AlignRight
		case left:
			align[i] = mdast.AlignLeft
		}
	}
	return align
}

// tableRows splits the body of a table into lines, dropping the final
// newline and the blank lines the match may end with.
func tableRows(body string) []string {
	body = strings.TrimRight(body, "\n")
	if body == "" {
		return nil
	}
	return strings.Split(body, "\n")
}

// trimTableEdge drops leading spaces and a trailing pipe.
func trimTableEdge(s string) string {
	s = strings.TrimLeft(s, " ")
	s = strings.TrimRight(s, " ")
	s = strings.TrimSuffix(s, "|")
	return strings.TrimRight(s, " ")
}

func splitCells(row string) []string {
	cells := strings.Split(row, "|")
	for i, cell := range cells {
		cells[i] = strings.Trim(cell, " ")
	}
	return cells
}
