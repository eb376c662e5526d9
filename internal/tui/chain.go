package tui

import (
	"fmt"
	"strings"

	"github.com/agbru/addcalc/internal/carry"
)

// chainView tracks the latest carry state of every rank of one run. Ranks
// that never ran a propagator (the coordinator of the point-to-point
// strategies) stay unseen and are not drawn.
type chainView struct {
	states  []carry.State
	carries []carry.Token
	seen    []bool
}

// apply records tr, growing the view when a higher rank reports.
func (c *chainView) apply(tr carry.Transition) {
	if tr.Rank < 0 {
		return
	}
	for len(c.states) <= tr.Rank {
		c.states = append(c.states, carry.ComputingLocal)
		c.carries = append(c.carries, 0)
		c.seen = append(c.seen, false)
	}
	c.states[tr.Rank] = tr.To
	c.carries[tr.Rank] = tr.Carry
	c.seen[tr.Rank] = true
}

// settled reports how many seen ranks reached Done, and how many were seen.
func (c chainView) settled() (done, seen int) {
	for i, ok := range c.seen {
		if !ok {
			continue
		}
		seen++
		if c.states[i] == carry.Done {
			done++
		}
	}
	return done, seen
}

func stateGlyph(s carry.State) string {
	switch s {
	case carry.ComputingLocal:
		return runningStyle.Render("◴")
	case carry.AwaitingCarryIn:
		return awaitingStyle.Render("…")
	case carry.ApplyingCarry:
		return runningStyle.Render("+")
	case carry.ForwardingCarry:
		return runningStyle.Render("→")
	case carry.Done:
		return doneStyle.Render("✓")
	}
	return "?"
}

// View renders one line per rank, lowest rank first, followed by the chain
// of carries as it crosses the chunk boundaries.
func (c chainView) View() string {
	var lines, links []string
	for rank, ok := range c.seen {
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("rank %-3d %s %-16s carry %d",
			rank, stateGlyph(c.states[rank]), c.states[rank], c.carries[rank]))
		links = append(links, fmt.Sprintf("%d", c.carries[rank]))
	}
	if len(lines) == 0 {
		return dimStyle.Render("waiting for the first carry")
	}
	done, seen := c.settled()
	lines = append(lines, "",
		dimStyle.Render(fmt.Sprintf("chain %s  (%d/%d settled)", strings.Join(links, " ▸ "), done, seen)))
	return strings.Join(lines, "\n")
}
