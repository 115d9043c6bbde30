package kadro

import (
	"fmt"
	"strings"
	"sync"
)

// DisplayConfig controls how Tables and Frames render as text.
type DisplayConfig struct {
	// MaxRows is the maximum number of rows to display. Larger tables
	// show head and tail rows with an ellipsis row between.
	// Default: 10 (5 head + 5 tail)
	MaxRows int

	// MaxColWidth caps cell content width; longer values truncate with
	// "...". Default: 25
	MaxColWidth int

	// MinColWidth is the minimum column width for alignment. Default: 8
	MinColWidth int

	// FloatPrecision is the number of decimal places for float values.
	// Default: 4
	FloatPrecision int

	// ShowDTypes controls whether data types appear under column names.
	// Default: true
	ShowDTypes bool

	// ShowShape controls whether the shape (rows, columns) header appears.
	// Default: true
	ShowShape bool

	// ASCII switches the box-drawing borders to plain +-| characters.
	ASCII bool
}

// DefaultDisplayConfig returns the default display configuration.
func DefaultDisplayConfig() DisplayConfig {
	return DisplayConfig{
		MaxRows:        10,
		MaxColWidth:    25,
		MinColWidth:    8,
		FloatPrecision: 4,
		ShowDTypes:     true,
		ShowShape:      true,
	}
}

var (
	globalDisplayConfig = DefaultDisplayConfig()
	displayConfigMu     sync.RWMutex
)

// SetDisplayConfig sets the global display configuration.
func SetDisplayConfig(cfg DisplayConfig) {
	displayConfigMu.Lock()
	defer displayConfigMu.Unlock()
	globalDisplayConfig = cfg
}

// GetDisplayConfig returns the current global display configuration.
func GetDisplayConfig() DisplayConfig {
	displayConfigMu.RLock()
	defer displayConfigMu.RUnlock()
	return globalDisplayConfig
}

// SetMaxDisplayRows sets the maximum number of rows to display.
func SetMaxDisplayRows(n int) {
	displayConfigMu.Lock()
	defer displayConfigMu.Unlock()
	globalDisplayConfig.MaxRows = n
}

// SetFloatPrecision sets the decimal precision for float display.
func SetFloatPrecision(n int) {
	displayConfigMu.Lock()
	defer displayConfigMu.Unlock()
	globalDisplayConfig.FloatPrecision = n
}

// borderSet holds the characters for one border style.
type borderSet struct {
	tl, tr, bl, br string // corners
	h, v           string // edges
	tT, bT, lT, rT string // tees
	x              string // cross
}

var (
	boxBorders = borderSet{
		tl: "╭", tr: "╮", bl: "╰", br: "╯",
		h: "─", v: "│",
		tT: "┬", bT: "┴", lT: "├", rT: "┤", x: "┼",
	}
	asciiBorders = borderSet{
		tl: "+", tr: "+", bl: "+", br: "+",
		h: "-", v: "|",
		tT: "+", bT: "+", lT: "+", rT: "+", x: "+",
	}
)

// formatCell formats one value for display.
func formatCell(val any, cfg DisplayConfig) string {
	switch v := val.(type) {
	case nil:
		return "null"
	case float64:
		return fmt.Sprintf(fmt.Sprintf("%%.%df", cfg.FloatPrecision), v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// displayRows picks the row indices to render: all of them when they fit,
// otherwise a head block, a -1 ellipsis marker, and a tail block.
func displayRows(height, maxRows int) []int {
	if height <= maxRows {
		rows := make([]int, height)
		for i := range rows {
			rows[i] = i
		}
		return rows
	}
	head := maxRows / 2
	tail := maxRows - head
	rows := make([]int, 0, maxRows+1)
	for i := 0; i < head; i++ {
		rows = append(rows, i)
	}
	rows = append(rows, -1)
	for i := height - tail; i < height; i++ {
		rows = append(rows, i)
	}
	return rows
}

// String formats the Table with the global display configuration.
func (t *Table) String() string {
	return t.StringWithConfig(GetDisplayConfig())
}

// StringWithConfig formats the Table using the provided configuration:
// an optional shape header, then a bordered grid of column names, dtypes,
// and cell values, with long tables truncated to head and tail rows.
func (t *Table) StringWithConfig(cfg DisplayConfig) string {
	if t.Height() == 0 || t.Width() == 0 {
		return "Table(empty)"
	}

	b := boxBorders
	if cfg.ASCII {
		b = asciiBorders
	}

	width := t.Width()
	header := make([]string, width)
	dtypes := make([]string, width)
	for j := 0; j < width; j++ {
		header[j] = t.ColumnAt(j).Name()
		dtypes[j] = t.ColumnAt(j).DType().String()
	}

	rows := displayRows(t.Height(), cfg.MaxRows)
	body := make([][]string, len(rows))
	for i, r := range rows {
		cells := make([]string, width)
		for j := 0; j < width; j++ {
			if r < 0 {
				cells[j] = "…"
			} else {
				cells[j] = formatCell(t.ColumnAt(j).Get(r), cfg)
			}
		}
		body[i] = cells
	}

	widths := make([]int, width)
	measure := func(cells []string) {
		for j, c := range cells {
			if len(c) > widths[j] {
				widths[j] = len(c)
			}
		}
	}
	measure(header)
	if cfg.ShowDTypes {
		measure(dtypes)
	}
	for _, cells := range body {
		measure(cells)
	}
	for j := range widths {
		if widths[j] < cfg.MinColWidth {
			widths[j] = cfg.MinColWidth
		}
		if widths[j] > cfg.MaxColWidth {
			widths[j] = cfg.MaxColWidth
		}
	}

	clip := func(s string, w int) string {
		if len(s) > w {
			return s[:w-3] + "..."
		}
		return s
	}

	var sb strings.Builder
	if cfg.ShowShape {
		fmt.Fprintf(&sb, "shape: (%d, %d)\n", t.Height(), t.Width())
	}

	rule := func(left, mid, right string) {
		sb.WriteString(left)
		for j, w := range widths {
			if j > 0 {
				sb.WriteString(mid)
			}
			sb.WriteString(strings.Repeat(b.h, w+2))
		}
		sb.WriteString(right)
		sb.WriteString("\n")
	}
	writeRow := func(cells []string, leftAlign bool) {
		sb.WriteString(b.v)
		for j, c := range cells {
			c = clip(c, widths[j])
			if leftAlign {
				fmt.Fprintf(&sb, " %-*s ", widths[j], c)
			} else {
				fmt.Fprintf(&sb, " %*s ", widths[j], c)
			}
			sb.WriteString(b.v)
		}
		sb.WriteString("\n")
	}

	rule(b.tl, b.tT, b.tr)
	writeRow(header, true)
	if cfg.ShowDTypes {
		writeRow(dtypes, true)
	}
	rule(b.lT, b.x, b.rT)
	for _, cells := range body {
		writeRow(cells, false)
	}
	rule(b.bl, b.bT, b.br)

	return strings.TrimSuffix(sb.String(), "\n")
}

// String formats the Frame with the global display configuration. An
// active grouping is reported on a line above the table.
func (f *Frame) String() string {
	return f.StringWithConfig(GetDisplayConfig())
}

// StringWithConfig formats the Frame using the provided configuration.
func (f *Frame) StringWithConfig(cfg DisplayConfig) string {
	body := f.table.StringWithConfig(cfg)
	if len(f.groups) == 0 {
		return body
	}
	return fmt.Sprintf("groups: [%s]\n%s", strings.Join(f.groups, ", "), body)
}

// Show prints the first n rows to standard output.
func (f *Frame) Show(n int) {
	fmt.Println(f.Head(n).String())
}
