package session

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/setanarut/colorsplash"
	"github.com/setanarut/colorsplash/utils"
)

// Legend describes the keys available in s.Mode. notice, when not empty,
// is shown above the key table.
func (m *Machine) Legend(s State, notice string) string {
	var sb strings.Builder
	if notice != "" {
		fmt.Fprintf(&sb, "!! %s\n\n", notice)
	}
	fmt.Fprintf(&sb, "%s LEGEND:\n\n", strings.ToUpper(s.Mode.String()))
	sb.WriteString("Input   | Response:\n")
	for _, b := range bindings[s.Mode] {
		fmt.Fprintf(&sb, "%-7c | %s\n", unicode.ToUpper(b.key), b.help)
	}
	switch s.Mode {
	case ModeEdit:
		fmt.Fprintf(&sb, "\nCurrent Min and Max Thresholds:\n(%d, %d)\n", s.Thresholds.Min, s.Thresholds.Max)
	case ModePreview:
		if p := m.palette(s); p != "" {
			fmt.Fprintf(&sb, "\nForeground palette: %s\n", p)
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

func (m *Machine) palette(s State) string {
	if m.PaletteSize <= 0 || s.Mask.Count(colorsplash.CategoryFill) == 0 {
		return ""
	}
	region := utils.RegionImage(s.ForegroundImage().Image(), func(x, y int) bool {
		return s.Mask.CategoryAt(x, y) == colorsplash.CategoryFill
	})
	p := utils.ExtractPalette(region, m.PaletteSize, m.PaletteMethod)
	utils.SortPaletteByBrightness(p)
	return utils.PaletteHex(p)
}
