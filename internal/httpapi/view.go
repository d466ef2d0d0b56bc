package httpapi

import (
	"github.com/pixil98/go-farm/internal/farm"
)

// StateView is the JSON shape of a farm.
type StateView struct {
	Day          int             `json:"day"`
	Weather      farm.Weather    `json:"weather"`
	Player       farm.GridPoint  `json:"player"`
	Selected     *farm.PlantType `json:"selected"`
	Inventory    map[string]int  `json:"inventory"`
	Total        int             `json:"total"`
	WinThreshold int             `json:"win_threshold"`
	Won          bool            `json:"won"`
	CanGrow      bool            `json:"can_grow"`
	Slot         int             `json:"slot"`
	Undo         int             `json:"undo"`
	Redo         int             `json:"redo"`
	Cells        [][]farm.Cell   `json:"cells"`
}

func NewStateView(g *farm.Game) StateView {
	s := g.State()
	undo, redo := g.History().Steps()

	v := StateView{
		Day:          s.Day,
		Weather:      s.Weather,
		Player:       s.Player,
		Inventory:    make(map[string]int, len(farm.PlantTypes)),
		Total:        s.Inventory.Total(),
		WinThreshold: g.Rules().WinThreshold,
		Won:          g.Won(),
		CanGrow:      g.CanGrow(),
		Slot:         g.Slot(),
		Undo:         undo,
		Redo:         redo,
		Cells:        make([][]farm.Cell, farm.Rows),
	}

	if s.Selected.Valid() {
		sel := s.Selected
		v.Selected = &sel
	}
	for _, t := range farm.PlantTypes {
		v.Inventory[t.Name()] = s.Inventory.Count(t)
	}
	for row := range v.Cells {
		v.Cells[row] = make([]farm.Cell, farm.Cols)
		for col := range v.Cells[row] {
			c := *s.Cell(row, col)
			if c.Plant != nil {
				p := *c.Plant
				c.Plant = &p
			}
			v.Cells[row][col] = c
		}
	}

	return v
}
