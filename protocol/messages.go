package protocol

// Point is one body segment position. Index 0 of a snake's segment list is
// the head.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Snake is the per-player entry inside a state snapshot.
type Snake struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Segments []Point `json:"segments"`
	Angle    float64 `json:"angle"`
	Alive    bool    `json:"alive"`
	Length   int     `json:"length"`
	Score    int     `json:"score"`
	Boosting bool    `json:"boosting,omitempty"`
}

// Pellet is a consumable food item.
type Pellet struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Color  string  `json:"color"`
}

// LeaderboardEntry is one row of the per-tick top list.
type LeaderboardEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Joined is sent once, only to the connection that issued a Join.
type Joined struct {
	Type   string  `json:"type"`
	ID     string  `json:"id"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// State is the full-world snapshot broadcast every simulation tick. There is
// no delta compression; every observer receives the complete picture.
type State struct {
	Type              string             `json:"type"`
	Snakes            []Snake            `json:"snakes"`
	Food              []Pellet           `json:"food"`
	RoundTime         int                `json:"roundTime"`
	RoundNum          int                `json:"roundNum"`
	WaitingForPlayers bool               `json:"waitingForPlayers"`
	MinPlayers        int                `json:"minPlayers"`
	AlivePlayers      int                `json:"alivePlayers"`
	Leaderboard       []LeaderboardEntry `json:"leaderboard,omitempty"`
	ServerTime        int64              `json:"serverTime"`
}

// Kill announces one snake dying to another snake's body.
type Kill struct {
	Type     string `json:"type"`
	KillerID string `json:"killerId"`
	Killer   string `json:"killer"`
	VictimID string `json:"victimId"`
	Victim   string `json:"victim"`
}

// RoundStart announces a fresh round entering the active phase.
type RoundStart struct {
	Type    string `json:"type"`
	Round   int    `json:"round"`
	Players int    `json:"players"`
}

// RoundEnd announces the winner of the round that just finished.
type RoundEnd struct {
	Type     string `json:"type"`
	Round    int    `json:"round"`
	WinnerID string `json:"winnerId"`
	Winner   string `json:"winner"`
	Length   int    `json:"length"`
	Prize    string `json:"prize"`
}

// Document aggregates every wire message so cmd/schema can emit a single
// JSON schema for client authors. It never travels over the wire itself.
type Document struct {
	Join       Join       `json:"join"`
	Input      Input      `json:"input"`
	Respawn    Respawn    `json:"respawn"`
	Joined     Joined     `json:"joined"`
	State      State      `json:"state"`
	Kill       Kill       `json:"kill"`
	RoundStart RoundStart `json:"roundStart"`
	RoundEnd   RoundEnd   `json:"roundEnd"`
}
