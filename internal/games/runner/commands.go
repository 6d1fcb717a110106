package runner

import "github.com/vovakirdan/tui-runner/internal/highscore"

// Command is a render request emitted by the session for its renderer.
// Renderers apply commands in order; the session never touches the display.
type Command interface {
	command()
}

// SpawnObstacle asks the renderer to create an obstacle visual.
type SpawnObstacle struct {
	Obstacle Obstacle
}

// MoveObstacle updates an obstacle's horizontal position.
type MoveObstacle struct {
	ID int
	X  float64
}

// RemoveObstacle deletes an obstacle visual.
type RemoveObstacle struct {
	ID int
}

// UpdatePlayer positions the player visual.
type UpdatePlayer struct {
	Pose   Pose
	Offset float64 // height above the ground
}

// UpdateScore refreshes the score text.
type UpdateScore struct {
	Score int
	Speed float64
}

// UpdateHighScore refreshes the best-score text.
type UpdateHighScore struct {
	Best int
}

// ShowLeaderboard renders the ranked list. Highlight is the index of the
// entry from the run that just ended, or highscore.NotRanked.
type ShowLeaderboard struct {
	Entries   []highscore.Entry
	Highlight int
}

// ShowGameOver displays the game-over surface.
type ShowGameOver struct {
	FinalScore int
}

// HideGameOver removes the game-over surface.
type HideGameOver struct{}

// RequestName asks the player for a display name for a ranked entry.
// The answer comes back through Session.SubmitName, possibly never.
type RequestName struct {
	Index int
}

func (SpawnObstacle) command()   {}
func (MoveObstacle) command()    {}
func (RemoveObstacle) command()  {}
func (UpdatePlayer) command()    {}
func (UpdateScore) command()     {}
func (UpdateHighScore) command() {}
func (ShowLeaderboard) command() {}
func (ShowGameOver) command()    {}
func (HideGameOver) command()    {}
func (RequestName) command()     {}
