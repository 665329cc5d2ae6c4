package main

import "github.com/google/uuid"

// newSnakeID returns a collision-resistant identifier for a snake. IDs live
// for the duration of a connection and are never reused.
func newSnakeID() string {
	return "snake-" + uuid.NewString()
}
