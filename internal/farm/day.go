package farm

import "context"

// AdvanceDay runs one day: new weather, its effects, growth against the
// resources already in the ground, the day counter, then fresh resources.
func (g *Game) AdvanceDay(ctx context.Context) {
	g.history.BeginStep()
	s := g.State()

	s.Weather = randomItem(g.rng, Weathers)
	applyWeatherEffects(s)
	grown := s.growPlants()
	s.Day = clamp(s.Day+1, 0, MaxCounter)
	g.distributeNaturalResources(s)

	g.logger.DebugContext(ctx, "day advanced", "game", g.id, "day", s.Day, "weather", s.Weather, "grown", grown)
	g.publish(ctx, EventDayAdvanced)
	g.commit(ctx)
}

func applyWeatherEffects(s *State) {
	switch s.Weather {
	case Sunny:
		s.ForEachCell(func(c *Cell) { c.addSun(20) })
	case Rainy:
		s.ForEachCell(func(c *Cell) { c.addWater(20) })
	case Normal:
		// No effect
	}
}

// distributeNaturalResources tops up water and redraws sun on every cell.
func (g *Game) distributeNaturalResources(s *State) {
	s.ForEachCell(func(c *Cell) {
		c.addWater(g.rng.IntN(21) + 5)
		c.Sun = clamp(g.rng.IntN(100), 0, MaxResource)
	})
}
