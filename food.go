package main

import (
	"fmt"

	"github.com/ClawGrabSOL/pumpsnek.io/protocol"
)

// The food field lives on World as an unordered set keyed by pellet id.
// Pellets are immutable once spawned; the only mutations are insert and
// remove.

// spawnFood scatters n pellets at uniformly random positions.
func (w *World) spawnFood(n int) {
	for i := 0; i < n; i++ {
		w.spawnPelletAt(w.rng.Float64()*worldWidth, w.rng.Float64()*worldHeight)
	}
}

// spawnPelletAt creates one pellet at the given position with a random
// radius and the usual color mix.
func (w *World) spawnPelletAt(x, y float64) protocol.Pellet {
	color := foodDefaultColor
	if w.rng.Float64() < foodAccentChance {
		color = foodAccentColor
	}
	pellet := protocol.Pellet{
		ID:     newPelletID(w),
		X:      wrapCoord(x, worldWidth),
		Y:      wrapCoord(y, worldHeight),
		Radius: foodMinRadius + w.rng.Float64()*(foodMaxRadius-foodMinRadius),
		Color:  color,
	}
	w.food[pellet.ID] = pellet
	return pellet
}

// consumeFood removes a pellet by identity. Removing an already-removed
// pellet is a no-op.
func (w *World) consumeFood(id string) {
	delete(w.food, id)
}

// clearFood empties the field; the round reset follows it with a fresh
// initial batch.
func (w *World) clearFood() {
	w.food = make(map[string]protocol.Pellet)
}

// newPelletID returns an id unique within the world. Pellet ids only need to
// be distinct for tracking, so a counter is enough.
func newPelletID(w *World) string {
	w.nextPellet++
	return fmt.Sprintf("food-%d", w.nextPellet)
}
