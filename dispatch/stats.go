package dispatch

import "sync/atomic"

// Stats counts dispatch outcomes since the dispatcher was created.
type Stats struct {
	Events      int64
	Consumed    int64
	PassThrough int64
	Literal     int64
	Fired       int64
	Skipped     int64
	Unknown     int64
	Interrupts  int64
	Recovered   int64
}

type counters struct {
	events, consumed, passThrough, literal       atomic.Int64
	fired, skipped, unknown, interrupts, recover atomic.Int64
}

func (c *counters) record(d Decision) {
	c.events.Add(1)
	if d.Result == Consumed {
		c.consumed.Add(1)
	} else {
		c.passThrough.Add(1)
	}
	if d.Literal {
		c.literal.Add(1)
	}
	c.fired.Add(int64(len(d.Fired)))
	c.skipped.Add(int64(len(d.Skipped)))
	c.unknown.Add(int64(len(d.Unknown)))
	if d.Aborted {
		c.interrupts.Add(1)
	}
}

func (c *counters) snapshot() Stats {
	return Stats{
		Events:      c.events.Load(),
		Consumed:    c.consumed.Load(),
		PassThrough: c.passThrough.Load(),
		Literal:     c.literal.Load(),
		Fired:       c.fired.Load(),
		Skipped:     c.skipped.Load(),
		Unknown:     c.unknown.Load(),
		Interrupts:  c.interrupts.Load(),
		Recovered:   c.recover.Load(),
	}
}
