package renderer

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/coins"
	"github.com/mattn/go-runewidth"
)

// RowKind selects the glyphs of a border row.
type RowKind int

const (
	Top RowKind = iota
	Middle
	Bottom
)

// borderGlyphs are the box drawing characters of one kind of border row.
type borderGlyphs struct {
	left, single, double, right rune
}

var glyphs = [...]borderGlyphs{
	Top:    {left: '╔', single: '╤', double: '╦', right: '╗'},
	Middle: {left: '╠', single: '╪', double: '╬', right: '╣'},
	Bottom: {left: '╚', single: '╧', double: '╩', right: '╝'},
}

const (
	horizontal = '═'
	vSingle    = '│'
	vDouble    = '║'
	totalLabel = "Totals: "
)

// Table is a portfolio report ready to be rendered.
//
// Building a Table formats every cell first, then measures the columns in a
// separate pass; rendering only reads the result.
type Table struct {
	Header Row
	Rows   []Row
	Totals [3]string // total value, in the first anchor and in the second one
	Widths Widths
}

// NewTable formats the assets of v, in their current order, with f.
func NewTable(v *coins.Valuation, f coins.Formatter) *Table {
	t := &Table{Header: header(v.Anchors)}
	for _, a := range v.Assets {
		t.Rows = append(t.Rows, assetRow(a, v.Anchors, f))
	}
	t.Totals[0] = f.Fiat(v.Total)
	for i, total := range v.TotalIn {
		if total.Defined {
			t.Totals[i+1] = f.Crypto(total.Value, v.Anchors[i].Symbol())
		}
	}
	t.measure()
	return t
}

func header(anchors coins.Anchors) Row {
	var r Row
	r[ColRank] = "Rank"
	r[ColName] = "Name"
	r[ColPrice] = "Price"
	r[ColHeld] = "Held"
	r[ColValue] = "Value"
	r[ColPercent] = "Share"
	r[ColPriceIn1] = "In " + anchors[0].Symbol()
	r[ColPriceIn2] = "In " + anchors[1].Symbol()
	r[ColValueIn1] = r[ColPriceIn1]
	r[ColValueIn2] = r[ColPriceIn2]
	return r
}

func assetRow(a coins.Asset, anchors coins.Anchors, f coins.Formatter) Row {
	var r Row
	r[ColRank] = fmt.Sprintf("%d)", a.Quote.Rank)
	r[ColName] = a.Quote.Name
	r[ColSymbol] = a.Quote.Symbol
	r[ColPrice] = f.Fiat(a.LocalPrice)
	r[ColHeld] = f.Quantity(a.Held)
	r[ColValue] = f.Fiat(a.Value)
	in := [2][2]Column{{ColPriceIn1, ColValueIn1}, {ColPriceIn2, ColValueIn2}}
	for i, cols := range in {
		if a.PriceIn[i].Defined {
			r[cols[0]] = f.Crypto(a.PriceIn[i].Value, anchors[i].Symbol())
		}
		if a.ValueIn[i].Defined {
			r[cols[1]] = f.Crypto(a.ValueIn[i].Value, anchors[i].Symbol())
		}
	}
	if a.Percent.Defined {
		r[ColPercent] = f.Percent(a.Percent.Value)
	}
	return r
}

// measure is the width pass: header, body and totals.
func (t *Table) measure() {
	t.Widths.ObserveRow(t.Header)
	for _, r := range t.Rows {
		t.Widths.ObserveRow(r)
	}
	t.Widths.Observe(ColValue, t.Totals[0])
	t.Widths.Observe(ColValueIn1, t.Totals[1])
	t.Widths.Observe(ColValueIn2, t.Totals[2])
}

// Border returns the border row of kind k.
func (t *Table) Border(k RowKind) string {
	g := glyphs[k]
	var b strings.Builder
	b.WriteRune(g.left)
	for i, grp := range groups {
		b.WriteString(strings.Repeat(string(horizontal), t.Widths.span(grp)))
		switch {
		case i == len(groups)-1:
			b.WriteRune(g.right)
		case grp.double:
			b.WriteRune(g.double)
		default:
			b.WriteRune(g.single)
		}
	}
	return b.String()
}

// Line returns the body line of r, with the same separators as the borders.
func (t *Table) Line(r Row) string {
	var b strings.Builder
	b.WriteRune(vDouble)
	for _, grp := range groups {
		t.writeGroup(&b, grp, r)
		if grp.double {
			b.WriteRune(vDouble)
		} else {
			b.WriteRune(vSingle)
		}
	}
	return b.String()
}

// writeGroup writes the content of grp for r, exactly Widths.span(grp) long.
func (t *Table) writeGroup(b *strings.Builder, grp group, r Row) {
	b.WriteString(strings.Repeat(" ", padding))
	for i, col := range grp.members {
		if i > 0 {
			b.WriteString(strings.Repeat(" ", grp.gaps[i-1]))
		}
		fill := strings.Repeat(" ", max(t.Widths[col]-runewidth.StringWidth(r[col]), 0))
		if leftAligned[col] {
			b.WriteString(r[col])
			b.WriteString(fill)
		} else {
			b.WriteString(fill)
			b.WriteString(r[col])
		}
	}
	b.WriteString(strings.Repeat(" ", padding))
}

// valueOffset is the position of the separator opening the value group.
func (t *Table) valueOffset() int {
	offset := 0
	for _, grp := range groups[:valueIndex] {
		offset += t.Widths.span(grp) + 1
	}
	return offset
}

// Footer returns the two footer lines: the totals and their closing border.
func (t *Table) Footer() [2]string {
	offset := t.valueOffset()
	var totals Row
	totals[ColValue], totals[ColValueIn1], totals[ColValueIn2] = t.Totals[0], t.Totals[1], t.Totals[2]

	var b strings.Builder
	fmt.Fprintf(&b, "%*s", offset, totalLabel)
	b.WriteRune(vDouble)
	t.writeGroup(&b, valueGroup, totals)
	b.WriteRune(vDouble)

	closing := strings.Repeat(" ", offset) +
		string(glyphs[Bottom].left) +
		strings.Repeat(string(horizontal), t.Widths.span(valueGroup)) +
		string(glyphs[Bottom].right)
	return [2]string{b.String(), closing}
}

// Render writes the whole table to w.
func (t *Table) Render(w io.Writer) error {
	bw := bufio.NewWriter(w)
	lines := []string{t.Border(Top), t.Line(t.Header), t.Border(Middle)}
	for _, r := range t.Rows {
		lines = append(lines, t.Line(r))
	}
	footer := t.Footer()
	lines = append(lines, t.Border(Bottom), footer[0], footer[1])
	for _, l := range lines {
		if _, err := fmt.Fprintln(bw, l); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Render formats v with f and writes the report table to w.
func Render(w io.Writer, v *coins.Valuation, f coins.Formatter) error {
	return NewTable(v, f).Render(w)
}
