package farm

import (
	"fmt"
	"strings"
)

// Resources is an amount of sun and water.
type Resources struct {
	Sun   int `json:"sun"`
	Water int `json:"water"`
}

var growthRequirements = map[Growth]Resources{
	GrowthSeedling: {Sun: 50, Water: 50},
	GrowthSprout:   {Sun: 75, Water: 75},
}

// requiredFree holds, per plant type, the neighbour offsets that must be
// empty for the plant to grow.
var requiredFree = func() map[PlantType][]GridPoint {
	var all []GridPoint
	for row := -1; row <= 1; row++ {
		for col := -1; col <= 1; col++ {
			all = append(all, GridPoint{Row: row, Col: col})
		}
	}

	predicates := map[PlantType]func(GridPoint) bool{
		Circle:   func(p GridPoint) bool { return p.Row != 0 && p.Col != 0 },
		Triangle: func(p GridPoint) bool { return (p.Row == 0) != (p.Col == 0) },
		Square:   func(p GridPoint) bool { return !(p.Row == 0 && p.Col == 0) },
	}

	result := map[PlantType][]GridPoint{}
	for t, pred := range predicates {
		for _, p := range all {
			if pred(p) {
				result[t] = append(result[t], p)
			}
		}
	}
	return result
}()

// RequiredFree returns the neighbour offsets that must hold no plant for a
// plant of type t to grow.
func RequiredFree(t PlantType) []GridPoint {
	return append([]GridPoint(nil), requiredFree[t]...)
}

// Requirement returns the resources a plant at growth g needs to grow. ok is
// false for fully grown plants.
func Requirement(g Growth) (Resources, bool) {
	r, ok := growthRequirements[g]
	return r, ok
}

// HasRoomToGrow reports whether every required-free neighbour of the cell's
// plant is empty. Neighbours off the grid count as empty.
func (s *State) HasRoomToGrow(c *Cell) bool {
	if c == nil || c.Plant == nil {
		return false
	}
	for _, off := range requiredFree[c.Plant.Type] {
		n := s.Cell(c.Row+off.Row, c.Col+off.Col)
		if n != nil && n.Plant != nil {
			return false
		}
	}
	return true
}

// HasResourcesToGrow reports whether the cell holds enough sun and water for
// its plant's next stage.
func HasResourcesToGrow(c *Cell) bool {
	if c == nil || c.Plant == nil {
		return false
	}
	req, ok := Requirement(c.Plant.Growth)
	if !ok {
		return false
	}
	return c.Sun >= req.Sun && c.Water >= req.Water
}

func (s *State) CanGrow(c *Cell) bool {
	return s.HasRoomToGrow(c) && HasResourcesToGrow(c)
}

// TryGrow advances the cell's plant one stage, paying the water cost. It
// leaves the cell untouched and returns false when the plant cannot grow.
func (s *State) TryGrow(c *Cell) bool {
	if !s.CanGrow(c) {
		return false
	}
	req, _ := Requirement(c.Plant.Growth)
	c.addWater(-req.Water)
	c.Plant.Growth++
	return true
}

func (s *State) growPlants() int {
	grown := 0
	s.ForEachCell(func(c *Cell) {
		if s.TryGrow(c) {
			grown++
		}
	})
	return grown
}

// Describe explains the rules that apply to the cell's plant and whether it
// will grow today.
func (s *State) Describe(c *Cell) string {
	if c == nil || c.Plant == nil {
		return "No plant here."
	}

	var b strings.Builder
	switch c.Plant.Type {
	case Circle:
		b.WriteString("Circle plants cannot grow if diagonal plots are occupied.\n")
	case Triangle:
		b.WriteString("Triangle plants cannot grow if adjacent plots are occupied.\n")
	case Square:
		b.WriteString("Square plants cannot grow if surrounding plots are occupied.\n")
	}

	if req, ok := Requirement(c.Plant.Growth); ok {
		fmt.Fprintf(&b, "Level %d plants require at least %d water and %d sun.\n", c.Plant.Growth, req.Water, req.Sun)
	} else {
		b.WriteString("This plant has reached its growth limit and must be harvested.\n")
	}

	fmt.Fprintf(&b, "This spot has %d water and %d sun.\n", c.Water, c.Sun)
	if s.CanGrow(c) {
		b.WriteString("This plant will grow today!")
	} else {
		b.WriteString("This plant will not grow today.")
	}
	return b.String()
}
