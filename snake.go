package main

import (
	"math"
	"math/rand"

	"github.com/ClawGrabSOL/pumpsnek.io/protocol"
)

// Snake is a single player's body and steering state. All mutation happens
// under the hub mutex; the type itself carries no locking.
type Snake struct {
	ID       string
	Name     string
	Wallet   string
	Segments []protocol.Point
	Angle    float64
	Target   float64
	Speed    float64
	Alive    bool
	Boosting bool
	Score    int
}

// newSnake places a fresh snake at a random position with a random heading.
// The body trails behind the head along the heading direction. This is the
// sole constructor: joins, respawns, and round resets all come through here.
func newSnake(id, name, wallet string, rng *rand.Rand) *Snake {
	x := rng.Float64() * worldWidth
	y := rng.Float64() * worldHeight
	angle := rng.Float64() * 2 * math.Pi

	segments := make([]protocol.Point, snakeStartSegments)
	for i := range segments {
		segments[i] = protocol.Point{
			X: wrapCoord(x-float64(i)*snakeSegmentSpacing*math.Cos(angle), worldWidth),
			Y: wrapCoord(y-float64(i)*snakeSegmentSpacing*math.Sin(angle), worldHeight),
		}
	}

	return &Snake{
		ID:       id,
		Name:     name,
		Wallet:   wallet,
		Segments: segments,
		Angle:    angle,
		Target:   angle,
		Speed:    snakeBaseSpeed,
		Alive:    true,
	}
}

// head returns segment 0.
func (s *Snake) head() protocol.Point {
	return s.Segments[0]
}

// length returns the segment count.
func (s *Snake) length() int {
	return len(s.Segments)
}

// setInput applies a client steering update. Either field may be nil, in
// which case the current value is kept.
func (s *Snake) setInput(angle *float64, boost *bool) {
	if angle != nil {
		s.Target = *angle
	}
	if boost != nil {
		s.Boosting = *boost
	}
}

// update advances the snake one tick: steer toward the target heading, move
// the head, and translate the body along the path. When the snake is boosting
// it may shed its tail segment; the shed position is returned so the caller
// can convert it into a pellet. Dead snakes do not move.
func (s *Snake) update(rng *rand.Rand) (dropped protocol.Point, didDrop bool) {
	if !s.Alive {
		return protocol.Point{}, false
	}

	// Exponential steering: rotate by a fixed fraction of the shortest
	// angular delta. The fraction bounds turn sharpness implicitly.
	s.Angle += snakeTurnSmoothing * angleDelta(s.Angle, s.Target)

	speed := s.Speed
	if s.Boosting && s.length() > snakeBoostMinLength {
		speed *= snakeBoostMult
		if rng.Float64() < snakeBoostDropChance {
			tail := s.Segments[len(s.Segments)-1]
			s.Segments = s.Segments[:len(s.Segments)-1]
			dropped = tail
			didDrop = true
		}
	}

	head := s.head()
	newHead := protocol.Point{
		X: wrapCoord(head.X+speed*math.Cos(s.Angle), worldWidth),
		Y: wrapCoord(head.Y+speed*math.Sin(s.Angle), worldHeight),
	}

	// Constant-length translation: prepend the new head, drop the last
	// segment. Growth is handled separately by grow.
	s.Segments = append([]protocol.Point{newHead}, s.Segments[:len(s.Segments)-1]...)

	return dropped, didDrop
}

// grow appends amount segments at the current tail position. They trail out
// naturally as the snake moves since the body is a position history.
func (s *Snake) grow(amount int) {
	tail := s.Segments[len(s.Segments)-1]
	for i := 0; i < amount; i++ {
		s.Segments = append(s.Segments, tail)
	}
}

// die marks the snake dead. Converting the body into pellets is the world's
// job; see World.dropRemains.
func (s *Snake) die() {
	s.Alive = false
}

// snapshot converts the snake into its wire form.
func (s *Snake) snapshot() protocol.Snake {
	segments := make([]protocol.Point, len(s.Segments))
	copy(segments, s.Segments)
	return protocol.Snake{
		ID:       s.ID,
		Name:     s.Name,
		Segments: segments,
		Angle:    s.Angle,
		Alive:    s.Alive,
		Length:   s.length(),
		Score:    s.Score,
		Boosting: s.Boosting,
	}
}

// angleDelta returns the signed shortest rotation from one heading to
// another, normalized to (-pi, pi].
func angleDelta(from, to float64) float64 {
	d := math.Mod(to-from, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	} else if d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}

// wrapCoord maps a coordinate onto the torus [0, max).
func wrapCoord(v, max float64) float64 {
	v = math.Mod(v, max)
	if v < 0 {
		v += max
	}
	return v
}
