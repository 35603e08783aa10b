package reach

import (
	"fmt"
	"log/slog"
	"time"
)

// stepStats holds per-frame timing for the two update cadences.
// Only populated when the World is in debug mode.
type stepStats struct {
	fixedTime   time.Duration
	frameTime   time.Duration
	fixedSteps  int
	dropped     bool
	triggerPass int
}

// debugLog reports a frame's timing at Debug level.
func (w *World) debugLog(stats stepStats) {
	if !w.debug {
		return
	}
	logger.Debug("frame",
		slog.Duration("fixed", stats.fixedTime),
		slog.Duration("frame", stats.frameTime),
		slog.Int("steps", stats.fixedSteps),
		slog.Bool("dropped_backlog", stats.dropped),
		slog.Int("triggers", stats.triggerPass))
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("reach debug: %s on disposed node %q (ID was %d)", op, n.Name, n.ID))
	}
}

// debugMaxTreeDepth is the depth above which debug mode warns.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		logger.Warn("tree depth exceeds threshold",
			slog.Int("depth", depth), slog.Int("max", debugMaxTreeDepth), slog.String("node", n.Name))
	}
}
