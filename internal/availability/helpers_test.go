package availability

import (
	"fmt"
	"time"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

type sequenceIDs struct {
	n int
}

func (g *sequenceIDs) NewID() string {
	g.n++
	return fmt.Sprintf("appt-%d", g.n)
}

func newTestEngine(now time.Time) *Engine {
	return NewEngine(WithTimeProvider(&fixedClock{now: now}), WithIDGenerator(&sequenceIDs{}))
}
