package farm

import (
	"fmt"
)

// MemorySize is the length of a packed State record.
const MemorySize = cellBase + Rows*Cols*cellSize

const (
	cellBase = 0x0a
	cellSize = 3
)

var (
	fieldPlayerRow = field{offset: 0x00, mask: 0xf0, shift: 4}
	fieldPlayerCol = field{offset: 0x00, mask: 0x0f}
	fieldSelected  = field{offset: 0x01, mask: 0xf0, shift: 4}
	fieldWeather   = field{offset: 0x01, mask: 0x0f}
	fieldDay       = field{offset: 0x02, width: 2}
	fieldInventory = [3]field{
		{offset: 0x04, width: 2},
		{offset: 0x06, width: 2},
		{offset: 0x08, width: 2},
	}
)

// Index 0 of the packed plant type means no plant.
var plantTypesByNumber = []PlantType{0, Circle, Triangle, Square}

var weathersByNumber = []Weather{Normal, Sunny, Rainy}

func cellOffset(row, col int) int {
	return cellBase + (row*Cols+col)*cellSize
}

func cellFields(row, col int) (sun, water, plantType, growth field) {
	offset := cellOffset(row, col)
	return field{offset: offset},
		field{offset: offset + 1},
		field{offset: offset + 2, mask: 0xf0, shift: 4},
		field{offset: offset + 2, mask: 0x0f}
}

// State is the complete game state for one point in history.
type State struct {
	Player    GridPoint
	Weather   Weather
	Selected  PlantType // zero when nothing is selected
	Day       int
	Inventory Inventory

	cells [Rows * Cols]Cell
}

// NewState returns an empty state: day 1, player at the origin, no plants,
// no resources.
func NewState() *State {
	s := &State{Day: 1}
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			s.cells[row*Cols+col] = Cell{Row: row, Col: col}
		}
	}
	return s
}

// Clone returns a deep copy that shares nothing with s.
func (s *State) Clone() *State {
	c := *s
	for i := range c.cells {
		if p := s.cells[i].Plant; p != nil {
			cp := *p
			c.cells[i].Plant = &cp
		}
	}
	return &c
}

// Cell returns a live view of the cell at row, col, or nil when out of bounds.
func (s *State) Cell(row, col int) *Cell {
	if !InBounds(row, col) {
		return nil
	}
	return &s.cells[row*Cols+col]
}

// PlayerCell returns the cell under the player.
func (s *State) PlayerCell() *Cell {
	return s.Cell(s.Player.Row, s.Player.Col)
}

// ForEachCell calls fn for every cell in row-major order.
func (s *State) ForEachCell(fn func(*Cell)) {
	for i := range s.cells {
		fn(&s.cells[i])
	}
}

// MarshalBinary packs the state into its fixed-size record.
func (s *State) MarshalBinary() ([]byte, error) {
	return s.pack(), nil
}

func (s *State) pack() memory {
	m := newMemory()
	m.setField(fieldPlayerRow, s.Player.Row)
	m.setField(fieldPlayerCol, s.Player.Col)
	setEnum(m, plantTypesByNumber, fieldSelected, s.Selected)
	setEnum(m, weathersByNumber, fieldWeather, s.Weather)
	m.setField(fieldDay, clamp(s.Day, 0, MaxCounter))
	for i, f := range fieldInventory {
		m.setField(f, clamp(s.Inventory[i], 0, MaxCounter))
	}

	for i := range s.cells {
		c := &s.cells[i]
		sun, water, plantType, growth := cellFields(c.Row, c.Col)
		m.setField(sun, c.Sun)
		m.setField(water, c.Water)
		if c.Plant != nil {
			setEnum(m, plantTypesByNumber, plantType, c.Plant.Type)
			m.setField(growth, int(c.Plant.Growth))
		}
	}

	return m
}

// UnmarshalBinary replaces s with the state packed in data.
func (s *State) UnmarshalBinary(data []byte) error {
	if len(data) != MemorySize {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrCorruptRecord, MemorySize, len(data))
	}
	return s.unpack(memory(data))
}

func (s *State) unpack(m memory) error {
	out := NewState()

	out.Player = GridPoint{Row: m.getField(fieldPlayerRow), Col: m.getField(fieldPlayerCol)}
	if !InBounds(out.Player.Row, out.Player.Col) {
		return fmt.Errorf("%w: player at %s is out of bounds", ErrCorruptRecord, out.Player)
	}

	var ok bool
	out.Selected, ok = getEnum(m, plantTypesByNumber, fieldSelected)
	if !ok {
		return fmt.Errorf("%w: unknown selected plant type %d", ErrCorruptRecord, m.getField(fieldSelected))
	}
	out.Weather, ok = getEnum(m, weathersByNumber, fieldWeather)
	if !ok {
		return fmt.Errorf("%w: unknown weather %d", ErrCorruptRecord, m.getField(fieldWeather))
	}
	out.Day = m.getField(fieldDay)
	for i, f := range fieldInventory {
		out.Inventory[i] = m.getField(f)
	}

	for i := range out.cells {
		c := &out.cells[i]
		sun, water, plantType, growth := cellFields(c.Row, c.Col)
		c.Sun = m.getField(sun)
		c.Water = m.getField(water)
		if c.Sun > MaxResource || c.Water > MaxResource {
			return fmt.Errorf("%w: cell %s resources out of range", ErrCorruptRecord, c.Point())
		}

		t, ok := getEnum(m, plantTypesByNumber, plantType)
		if !ok {
			return fmt.Errorf("%w: cell %s has unknown plant type %d", ErrCorruptRecord, c.Point(), m.getField(plantType))
		}
		g := Growth(m.getField(growth))
		if t == 0 {
			if g != 0 {
				return fmt.Errorf("%w: cell %s has growth without a plant", ErrCorruptRecord, c.Point())
			}
			continue
		}
		if g < GrowthSeedling || g > GrowthMature {
			return fmt.Errorf("%w: cell %s has growth %d", ErrCorruptRecord, c.Point(), g)
		}
		c.Plant = &Plant{Type: t, Growth: g}
	}

	*s = *out
	return nil
}

// MarshalText encodes the packed record as hex.
func (s *State) MarshalText() ([]byte, error) {
	return []byte(s.pack().String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	m, err := memoryFromHex(string(text))
	if err != nil {
		return err
	}
	return s.unpack(m)
}
