package renderer

import "github.com/mattn/go-runewidth"

// Column identifies a rendered column.
type Column int

const (
	ColRank Column = iota
	ColName
	ColSymbol
	ColPrice
	ColPriceIn1
	ColPriceIn2
	ColHeld
	ColValue
	ColValueIn1
	ColValueIn2
	ColPercent
	numColumns
)

// leftAligned columns hold text, every other column holds a number.
var leftAligned = [numColumns]bool{ColName: true, ColSymbol: true}

// Row is one line of table cells, indexed by Column.
type Row [numColumns]string

// Widths tracks the widest cell seen in each column.
//
// Widths never decrease. The zero value is ready to use.
type Widths [numColumns]int

// Observe records the display width of s for col, in terminal cells.
func (w *Widths) Observe(col Column, s string) {
	if n := runewidth.StringWidth(s); n > w[col] {
		w[col] = n
	}
}

// ObserveRow records every cell of r.
func (w *Widths) ObserveRow(r Row) {
	for col, s := range r {
		w.Observe(Column(col), s)
	}
}

// Width returns the tracked width of col.
func (w Widths) Width(col Column) int { return w[col] }

// group is a set of columns sharing a pair of vertical separators.
type group struct {
	members []Column
	gaps    []int // spaces between consecutive members
	double  bool  // closed by a double line separator
}

const (
	padding = 2 // spaces on each side of a group content
	gap     = 2 // default spaces between members of a group
)

// groups in rendering order.
var (
	rankGroup    = group{members: []Column{ColRank}}
	nameGroup    = group{members: []Column{ColName}}
	priceGroup   = group{members: []Column{ColPrice, ColPriceIn1, ColPriceIn2}, gaps: []int{gap, gap}, double: true}
	heldGroup    = group{members: []Column{ColHeld, ColSymbol}, gaps: []int{1}, double: true}
	valueGroup   = group{members: []Column{ColValue, ColValueIn1, ColValueIn2}, gaps: []int{gap, gap}, double: true}
	percentGroup = group{members: []Column{ColPercent}, double: true}

	groups = []group{rankGroup, nameGroup, priceGroup, heldGroup, valueGroup, percentGroup}
)

// valueIndex is the position of valueGroup in groups, the footer is aligned on it.
const valueIndex = 4

// span returns the inner width of g, between its two separators.
//
// Border segments and body cells are both sized by this function.
func (w Widths) span(g group) int {
	n := 2 * padding
	for _, col := range g.members {
		n += w[col]
	}
	for _, s := range g.gaps {
		n += s
	}
	return n
}
