package commands

import (
	"github.com/pixil98/go-farm/internal/farm"
)

// Stable template-facing types
// These types decouple templates from internal farm structs.

// PlantRef is the template-facing view of a plant.
type PlantRef struct {
	Type   string
	Growth int
}

func plantRefFrom(p *farm.Plant) *PlantRef {
	if p == nil {
		return nil
	}
	return &PlantRef{Type: p.Type.String(), Growth: int(p.Growth)}
}

// TemplateData is what command messages are rendered against.
type TemplateData struct {
	Actor        string
	Player       farm.GridPoint
	Day          int
	Weather      string
	Selected     string
	Inventory    map[string]int
	Total        int
	WinThreshold int
	Slot         int

	// Plant is the plant an action touched, or the one under the player.
	Plant *PlantRef

	Inputs map[string]any
}

func newTemplateData(s *Session, inputs map[string]any) *TemplateData {
	st := s.Game.State()

	inv := make(map[string]int, len(farm.PlantTypes))
	for _, t := range farm.PlantTypes {
		inv[t.String()] = st.Inventory.Count(t)
	}

	data := &TemplateData{
		Actor:        s.Name,
		Player:       st.Player,
		Day:          st.Day,
		Weather:      st.Weather.String(),
		Selected:     st.Selected.String(),
		Inventory:    inv,
		Total:        st.Inventory.Total(),
		WinThreshold: s.Game.Rules().WinThreshold,
		Slot:         s.Game.Slot(),
		Inputs:       inputs,
	}
	if c := st.PlayerCell(); c != nil {
		data.Plant = plantRefFrom(c.Plant)
	}
	return data
}
