package farm

import "context"

// Move shifts the player by drow, dcol. Only the destination is checked, so
// longer jumps are allowed when they land on the grid.
func (g *Game) Move(ctx context.Context, drow, dcol int) error {
	s := g.State()
	target := GridPoint{Row: s.Player.Row + drow, Col: s.Player.Col + dcol}
	if !InBounds(target.Row, target.Col) {
		return ErrOutOfBounds
	}

	g.history.BeginStep()
	g.State().Player = target
	g.commit(ctx)
	return nil
}

// MoveTo moves the player onto an adjacent cell.
func (g *Game) MoveTo(ctx context.Context, p GridPoint) error {
	s := g.State()
	if !InBounds(p.Row, p.Col) || !Adjacent(s.Player, p) {
		return ErrOutOfBounds
	}
	return g.Move(ctx, p.Row-s.Player.Row, p.Col-s.Player.Col)
}

// Sow plants a seedling of the selected type under the player.
func (g *Game) Sow(ctx context.Context) error {
	s := g.State()
	cell := s.PlayerCell()
	switch {
	case cell == nil:
		return newBug("sow", "player at %s is out of bounds", s.Player)
	case !s.Selected.Valid():
		return ErrNoSelection
	case cell.Plant != nil:
		return ErrCellOccupied
	case s.Inventory.Count(s.Selected) <= 0:
		return ErrNoSeeds
	}

	g.history.BeginStep()
	s = g.State()
	s.PlayerCell().Plant = &Plant{Type: s.Selected, Growth: GrowthSeedling}
	s.Inventory.Add(s.Selected, -1)
	g.commit(ctx)
	return nil
}

// Reap harvests the plant under the player, adding its growth level to the
// inventory. It returns the harvested plant.
func (g *Game) Reap(ctx context.Context) (Plant, error) {
	s := g.State()
	cell := s.PlayerCell()
	if cell == nil {
		return Plant{}, newBug("reap", "player at %s is out of bounds", s.Player)
	}
	if cell.Plant == nil {
		return Plant{}, ErrNoPlant
	}

	g.history.BeginStep()
	s = g.State()
	cell = s.PlayerCell()
	reaped := *cell.Plant
	s.Inventory.Add(reaped.Type, int(reaped.Growth))
	cell.Plant = nil
	g.commit(ctx)
	return reaped, nil
}

// SelectInventoryPlant chooses the seed type to sow. It opens no undo step
// but is autosaved so a resumed game keeps the selection.
func (g *Game) SelectInventoryPlant(ctx context.Context, t PlantType) error {
	if !t.Valid() {
		return ErrNoSelection
	}
	g.State().Selected = t
	g.autosave(ctx)
	return nil
}
