package worldstate

// WorldClock advances world_time in game-seconds at TimeScale x real
// time. One game-day is 86400 game-seconds (spec §3).
type WorldClock struct {
	GameSeconds float64
	TimeScale   float64
}

// NewWorldClock creates a clock starting at t=0.
func NewWorldClock(timeScale float64) *WorldClock {
	return &WorldClock{TimeScale: timeScale}
}

// Advance moves the clock forward by realSeconds of wall-clock time.
func (c *WorldClock) Advance(realSeconds float64) {
	c.GameSeconds += realSeconds * c.TimeScale
}

// Now returns the current world_time in game-seconds.
func (c *WorldClock) Now() float64 {
	return c.GameSeconds
}

const gameSecondsPerDay = 86400

// DayFraction returns how far through the current game-day the clock is,
// in [0,1).
func (c *WorldClock) DayFraction() float64 {
	d := c.GameSeconds - float64(int64(c.GameSeconds/gameSecondsPerDay))*gameSecondsPerDay
	return d / gameSecondsPerDay
}
