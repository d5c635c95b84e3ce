package terminal

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/flip/fluid"
)

// Simulation is the part of the driver the terminal view needs.
type Simulation interface {
	UpdateHeadless()
	Snapshot() *fluid.Snapshot
	Tick() int32
	Paused() bool
	TogglePause()
	Reset()
}

// Action is the result of a key press.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionPause
	ActionReset
)

// KeyAction maps a key event to an action.
func KeyAction(ev *tcell.EventKey) Action {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return ActionQuit
		case ' ':
			return ActionPause
		case 'r':
			return ActionReset
		}
	}
	return ActionNone
}

// Run steps sim and redraws at fps until ctx is done, the user quits, or
// maxTicks (if positive) is reached.
func Run(ctx context.Context, screen tcell.Screen, sim Simulation, fps, maxTicks int) error {
	if fps <= 0 {
		fps = 30
	}
	r := NewRenderer(screen)

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch KeyAction(ev) {
				case ActionQuit:
					return nil
				case ActionPause:
					sim.TogglePause()
				case ActionReset:
					sim.Reset()
				}
			case *tcell.EventResize:
				screen.Sync()
			}

		case <-ticker.C:
			sim.UpdateHeadless()
			r.Draw(sim.Snapshot(), status(sim))
			if maxTicks > 0 && int(sim.Tick()) >= maxTicks {
				return nil
			}
		}
	}
}

func status(sim Simulation) string {
	s := sim.Snapshot()
	state := "running"
	if sim.Paused() {
		state = "paused"
	}
	return fmt.Sprintf(" tick %d  t=%.2fs  particles %d  %s  [space] pause [r] reset [q] quit",
		sim.Tick(), s.SimTime, s.NumParticles(), state)
}
