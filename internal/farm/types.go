package farm

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	Rows = 10
	Cols = 12

	// MaxResource bounds a cell's sun and water.
	MaxResource = 100

	// MaxCounter is the largest value the day counter and inventory counts hold.
	MaxCounter = 0xffff
)

// GridPoint identifies a cell.
type GridPoint struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p GridPoint) String() string {
	return fmt.Sprintf("%d,%d", p.Row, p.Col)
}

type PlantType int

const (
	Circle PlantType = iota + 1
	Triangle
	Square
)

// PlantTypes lists every plant type in inventory order.
var PlantTypes = []PlantType{Circle, Triangle, Square}

var plantNames = map[PlantType]string{
	Circle:   "circle",
	Triangle: "triangle",
	Square:   "square",
}

var plantTitles = titled(plantNames)

// Name is the lower-case name used on the wire and in commands.
func (t PlantType) Name() string {
	if n, ok := plantNames[t]; ok {
		return n
	}
	return "none"
}

func (t PlantType) String() string {
	if n, ok := plantTitles[t]; ok {
		return n
	}
	return "None"
}

func (t PlantType) Valid() bool {
	return t >= Circle && t <= Square
}

func (t PlantType) MarshalText() ([]byte, error) {
	return []byte(t.Name()), nil
}

func (t *PlantType) UnmarshalText(text []byte) error {
	v, err := ParsePlantType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParsePlantType accepts a plant name in any case or its inventory number.
func ParsePlantType(s string) (PlantType, error) {
	in := strings.ToLower(strings.TrimSpace(s))
	for i, t := range PlantTypes {
		if in == plantNames[t] || in == strconv.Itoa(i+1) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown plant type %q", s)
}

// Growth is a plant's maturity level.
type Growth int

const (
	GrowthSeedling Growth = 1
	GrowthSprout   Growth = 2
	GrowthMature   Growth = 3
)

type Plant struct {
	Type   PlantType `json:"type"`
	Growth Growth    `json:"growth"`
}

// Cell is one grid position. Plant is nil when the cell is empty.
type Cell struct {
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Sun   int    `json:"sun"`
	Water int    `json:"water"`
	Plant *Plant `json:"plant,omitempty"`
}

func (c *Cell) Point() GridPoint {
	return GridPoint{Row: c.Row, Col: c.Col}
}

func (c *Cell) addSun(n int) {
	c.Sun = clamp(c.Sun+n, 0, MaxResource)
}

func (c *Cell) addWater(n int) {
	c.Water = clamp(c.Water+n, 0, MaxResource)
}

type Weather int

const (
	Normal Weather = iota
	Sunny
	Rainy
)

// Weathers is the set a day's weather is drawn from.
var Weathers = []Weather{Sunny, Rainy, Normal}

var weatherNames = map[Weather]string{
	Normal: "normal",
	Sunny:  "sunny",
	Rainy:  "rainy",
}

var weatherTitles = titled(weatherNames)

func (w Weather) Name() string {
	if n, ok := weatherNames[w]; ok {
		return n
	}
	return weatherNames[Normal]
}

func (w Weather) String() string {
	if n, ok := weatherTitles[w]; ok {
		return n
	}
	return weatherTitles[Normal]
}

func (w Weather) MarshalText() ([]byte, error) {
	return []byte(w.Name()), nil
}

func (w *Weather) UnmarshalText(text []byte) error {
	in := strings.ToLower(string(text))
	for _, v := range Weathers {
		if in == weatherNames[v] {
			*w = v
			return nil
		}
	}
	return fmt.Errorf("unknown weather %q", text)
}

// titled builds display names from lower-case names.
func titled[K comparable](names map[K]string) map[K]string {
	caser := cases.Title(language.English)
	out := make(map[K]string, len(names))
	for k, n := range names {
		out[k] = caser.String(n)
	}
	return out
}

// Inventory holds seed and crop counts indexed by plant type.
type Inventory [3]int

func (inv Inventory) Count(t PlantType) int {
	if !t.Valid() {
		return 0
	}
	return inv[t-1]
}

func (inv *Inventory) Add(t PlantType, n int) {
	if !t.Valid() {
		return
	}
	inv[t-1] = clamp(inv[t-1]+n, 0, MaxCounter)
}

func (inv Inventory) Total() int {
	total := 0
	for _, n := range inv {
		total += n
	}
	return total
}

func clamp(number, min, max int) int {
	if number < min {
		return min
	}

	if number > max {
		return max
	}

	return number
}
