package main

import "time"

const (
	writeWait         = 10 * time.Second
	handshakeWait     = 5 * time.Second // deadline for the join frame on a fresh connection
	tickRate          = 60 // simulation steps per second
	roundStepPeriod   = time.Second
	payoutDrainPeriod = 5 * time.Second

	worldWidth  = 3000.0
	worldHeight = 3000.0

	snakeStartSegments   = 10
	snakeSegmentSpacing  = 8.0
	snakeBaseSpeed       = 4.0 // units per tick
	snakeTurnSmoothing   = 0.12
	snakeBoostMult       = 2.0
	snakeBoostMinLength  = 15 // boost has no effect at or below this length
	snakeBoostDropChance = 0.15
	snakeNeckSegments    = 5 // leading segments of the other snake that are never lethal

	eatRadius       = 15.0 // added to the pellet radius
	killRadius      = 18.0
	killScoreFactor = 10 // killer score gain per victim segment

	deathDropChance = 0.6
	deathDropJitter = 12.0

	initialFoodCount = 300
	foodMinRadius    = 4.0
	foodMaxRadius    = 8.0
	foodAccentChance = 0.3

	leaderboardSize = 10

	defaultPort         = "8080"
	defaultMinPlayers   = 2
	defaultRoundSeconds = 120
	defaultPrizeSOL     = 0.1
	defaultPayoutDB     = "data/payouts.db"

	payoutQueueSize  = 64
	payoutMaxRetries = 3
)

const (
	foodDefaultColor = "#14f195"
	foodAccentColor  = "#9945ff"
)
