package term

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/ropesim/anchor"
	"github.com/milk9111/ropesim/rope"
	"go.uber.org/zap"
)

// Viewer runs a simulator against a tcell screen. The mouse moves the anchor
// once it has been seen; until then Source drives it.
type Viewer struct {
	screen   tcell.Screen
	renderer *Renderer
	sim      *rope.Simulator
	source   anchor.Source
	logger   *zap.Logger

	step   float64
	tick   int
	time   float64
	anchor cp.Vector
	mouse  bool
	paused bool
}

func NewViewer(screen tcell.Screen, sim *rope.Simulator, source anchor.Source, tickRate int, scale float64, logger *zap.Logger) *Viewer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tickRate <= 0 {
		tickRate = 50
	}
	return &Viewer{
		screen:   screen,
		renderer: NewRenderer(scale),
		sim:      sim,
		source:   source,
		logger:   logger,
		step:     1 / float64(tickRate),
		anchor:   sim.Anchor(),
	}
}

func (v *Viewer) Renderer() *Renderer { return v.renderer }

func (v *Viewer) Anchor() cp.Vector { return v.anchor }

func (v *Viewer) Tick() int { return v.tick }

// Step advances one fixed tick unless paused.
func (v *Viewer) Step() error {
	if v.paused {
		return nil
	}
	if v.source != nil && !v.mouse {
		pos, err := v.source.Anchor(v.tick, v.time)
		if err != nil {
			v.logger.Warn("anchor source failed", zap.Int("tick", v.tick), zap.Error(err))
		} else {
			v.anchor = pos
		}
	}
	if err := v.sim.Step(v.step, v.anchor); err != nil {
		return err
	}
	v.tick++
	v.time += v.step
	return nil
}

func (v *Viewer) Draw() {
	v.renderer.Draw(v.screen, v.sim.Positions(), status(v.tick, v.anchor, v.paused))
}

// HandleEvent applies one input event and reports whether the viewer should
// keep running.
func (v *Viewer) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				return false
			case 'r', 'R':
				if err := v.sim.Reset(v.anchor); err != nil {
					v.logger.Warn("reset failed", zap.Error(err))
					break
				}
				v.tick = 0
				v.time = 0
			case ' ':
				v.paused = !v.paused
			}
		}
	case *tcell.EventMouse:
		w, h := v.screen.Size()
		col, row := ev.Position()
		v.anchor = v.renderer.CellToWorld(col, row, w, h)
		v.mouse = true
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

// Run steps at the tick rate and redraws until ctx is done or the user
// quits. The caller owns screen Init and Fini.
func (v *Viewer) Run(ctx context.Context) error {
	v.screen.EnableMouse(tcell.MouseMotionEvents)
	defer v.screen.DisableMouse()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Duration(v.step * float64(time.Second)))
	defer ticker.Stop()

	v.Draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !v.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			if err := v.Step(); err != nil {
				return err
			}
			v.Draw()
		}
	}
}
