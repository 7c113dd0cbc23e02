package ocean

import "github.com/pthm-cable/ocean/components"

// process runs the behavior for the cell's kind. Water and obstacles do nothing.
func (o *Ocean) process(c *components.Cell) {
	switch c.Kind {
	case components.KindPrey:
		processPrey(o, c)
	case components.KindPredator:
		processPredator(o, c)
	}
}

// processPrey moves the prey to a random empty neighbor.
func processPrey(o *Ocean, c *components.Cell) {
	origin := c.Pos
	moveWithReproduction(o, c, origin, o.NeighborOfKind(origin, components.KindWater))
}

// processPredator starves, eats an adjacent prey, or moves to an empty neighbor.
func processPredator(o *Ocean, c *components.Cell) {
	c.FeedTimer--
	if c.FeedTimer <= 0 {
		o.set(c.Pos, components.NewWater(c.Pos))
		o.RegisterDeath(components.KindPredator, components.CauseStarved)
		return
	}

	origin := c.Pos
	if target := o.NeighborOfKind(origin, components.KindPrey); target != origin {
		moveWithReproduction(o, c, origin, target)
		o.RegisterDeath(components.KindPrey, components.CauseEaten)
		c.FeedTimer = o.params.FeedPeriod
		return
	}

	moveWithReproduction(o, c, origin, o.NeighborOfKind(origin, components.KindWater))
}

// moveWithReproduction is shared by prey and predators. The reproduction timer
// always ticks; nothing else happens when from == to. Otherwise the mover
// overwrites the target and leaves either an offspring or water behind.
func moveWithReproduction(o *Ocean, c *components.Cell, from, to components.Coordinate) {
	c.ReproduceTimer--
	if to == from {
		return
	}

	c.Pos = to
	o.set(to, c)

	if c.ReproduceTimer <= 0 {
		c.ReproduceTimer = o.params.ReproducePeriod
		o.set(from, o.offspring(c.Kind, from))
		o.RegisterBirth(c.Kind)
		return
	}
	o.set(from, components.NewWater(from))
}

// offspring returns a newborn of the given kind at pos.
func (o *Ocean) offspring(kind components.Kind, pos components.Coordinate) *components.Cell {
	if kind == components.KindPredator {
		return components.NewPredator(pos, o.params.ReproducePeriod, o.params.FeedPeriod)
	}
	return components.NewPrey(pos, o.params.ReproducePeriod)
}
