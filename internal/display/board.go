package display

import (
	"fmt"
	"strings"

	"github.com/pixil98/go-farm/internal/farm"
)

var plantGlyphs = map[farm.PlantType]string{
	farm.Circle:   "c",
	farm.Triangle: "t",
	farm.Square:   "s",
}

// CellGlyph is the two-character form of a cell: ". " when empty, otherwise
// the plant letter and its growth level.
func CellGlyph(c *farm.Cell) string {
	if c.Plant == nil {
		return ". "
	}
	return fmt.Sprintf("%s%d", plantGlyphs[c.Plant.Type], c.Plant.Growth)
}

// Board draws the grid with the player's cell bracketed.
func Board(s *farm.State, color bool) string {
	var b strings.Builder

	b.WriteString("   ")
	for col := 0; col < farm.Cols; col++ {
		fmt.Fprintf(&b, " %-3d", col)
	}
	b.WriteString("\n")

	for row := 0; row < farm.Rows; row++ {
		fmt.Fprintf(&b, "%2d ", row)
		for col := 0; col < farm.Cols; col++ {
			c := s.Cell(row, col)
			glyph := CellGlyph(c)
			if color && c.Plant != nil {
				glyph = Colorize(growthColor(c.Plant.Growth), glyph)
			}
			if s.Player == c.Point() {
				fmt.Fprintf(&b, "[%s]", glyph)
			} else {
				fmt.Fprintf(&b, " %s ", glyph)
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

func growthColor(g farm.Growth) ansiColor {
	switch g {
	case farm.GrowthMature:
		return Color.Yellow
	case farm.GrowthSprout:
		return Color.Green
	default:
		return Color.Cyan
	}
}

// Status summarizes the day, weather, selection and inventory on one line.
func Status(s *farm.State) string {
	selected := "none"
	if s.Selected.Valid() {
		selected = s.Selected.String()
	}

	parts := make([]string, 0, len(farm.PlantTypes))
	for _, t := range farm.PlantTypes {
		parts = append(parts, fmt.Sprintf("%s %d", t, s.Inventory.Count(t)))
	}

	return fmt.Sprintf("Day %d, %s. Selected: %s. Inventory: %s.",
		s.Day, s.Weather, selected, strings.Join(parts, ", "))
}

// CellReport describes the cell under the player.
func CellReport(s *farm.State) string {
	c := s.PlayerCell()
	if c == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Plot %s: %d sun, %d water.", c.Point(), c.Sun, c.Water)
	if c.Plant != nil {
		fmt.Fprintf(&b, " %s level %d.", c.Plant.Type, c.Plant.Growth)
		if s.CanGrow(c) {
			b.WriteString(" It will grow today.")
		}
	}
	return b.String()
}
