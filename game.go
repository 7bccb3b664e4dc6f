package main

import (
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/ropesim/anchor"
	"github.com/milk9111/ropesim/common"
	"github.com/milk9111/ropesim/config"
	"github.com/milk9111/ropesim/ecs"
	"github.com/milk9111/ropesim/ecs/component"
	"github.com/milk9111/ropesim/ecs/entity"
	"github.com/milk9111/ropesim/ecs/render"
	"github.com/milk9111/ropesim/ecs/system"
	"github.com/milk9111/ropesim/prefabs"
	"go.uber.org/zap"
	"golang.design/x/clipboard"
)

var background = color.NRGBA{R: 0x12, G: 0x14, B: 0x1c, A: 0xff}

type Game struct {
	cfg    *config.Config
	logger *zap.Logger

	world     *ecs.World
	scheduler *ecs.Scheduler
	renderer  *render.RenderSystem
	rope      ecs.Entity

	prefab string
	script string

	watcher   *prefabs.Watcher
	ui        *ebitenui.UI
	paused    bool
	clipboard bool
}

func NewGame(cfg *config.Config, prefab, script string, logger *zap.Logger) (*Game, error) {
	g := &Game{
		cfg:    cfg,
		logger: logger,
		world:  ecs.NewWorld(),
		scheduler: ecs.NewScheduler(
			system.NewAnchorSystem(),
			system.NewRopeSystem(),
			system.NewLineSystem(),
		),
		renderer: render.NewRenderSystem(),
		prefab:   prefab,
		script:   script,
	}

	cam := component.Camera{
		PixelsPerUnit: cfg.Camera.PixelsPerUnit,
		ScreenWidth:   float64(cfg.Window.Width),
		ScreenHeight:  float64(cfg.Window.Height),
	}
	if _, err := entity.BuildCamera(g.world, cam, cfg.Camera.CenterX, cfg.Camera.CenterY); err != nil {
		return nil, fmt.Errorf("game: camera: %w", err)
	}
	if err := g.buildRope(); err != nil {
		return nil, err
	}

	if w, err := prefabs.WatchDir(); err != nil {
		logger.Debug("prefab hot reload disabled", zap.Error(err))
	} else {
		g.watcher = w
	}

	if err := clipboard.Init(); err != nil {
		logger.Warn("clipboard unavailable", zap.Error(err))
	} else {
		g.clipboard = true
	}

	g.ui = NewPauseUI(g)
	return g, nil
}

// buildRope replaces the current rope with a fresh one from the prefab. The
// old rope survives if the prefab fails to load.
func (g *Game) buildRope() error {
	spec, err := prefabs.LoadRopeSpec(g.prefab)
	if err != nil {
		return err
	}
	source, err := anchor.FromSpec(spec, g.script)
	if err != nil {
		return err
	}
	// a spec without a script is pinned by the pointer, not by its anchor
	if g.script == "" && spec.Anchor.Script == "" {
		source = nil
	}

	e, err := entity.BuildRope(g.world, spec, entity.RopeOptions{
		Source:      source,
		TickRate:    g.cfg.TickRate,
		MaxSteps:    g.cfg.MaxStepsPerFrame,
		AnchorSpeed: g.cfg.Anchor.Speed,
	})
	if err != nil {
		return err
	}
	if g.world.IsAlive(g.rope) {
		g.world.DestroyEntity(g.rope)
	}
	g.rope = e
	segments := 0
	if body, ok := ecs.Get(g.world, e, component.RopeBodyComponent); ok {
		segments = body.Sim.Len()
	}
	g.logger.Info("rope built",
		zap.String("prefab", g.prefab),
		zap.String("name", spec.Name),
		zap.Int("segments", segments),
		zap.Bool("scripted", source != nil),
	)
	return nil
}

func (g *Game) Update() error {
	g.pollWatcher()
	g.processReloads()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.ui.Update()
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.CopyPositions()
	}

	x, y := ebiten.CursorPosition()
	if err := ecs.Add(g.world, g.rope, component.InputComponent, component.Input{
		CursorX:   float64(x),
		CursorY:   float64(y),
		HasCursor: true,
	}); err != nil {
		g.logger.Debug("update input", zap.Error(err))
	}

	g.scheduler.Update(g.world, 1/float64(ebiten.TPS()))
	g.logEvents()
	return nil
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Changes:
			if !ok {
				g.watcher = nil
				return
			}
			g.logger.Info("prefab changed", zap.String("file", change.Name()))
			e := g.world.CreateEntity()
			if err := ecs.Add(g.world, e, component.ReloadRequestComponent, component.ReloadRequest{Prefab: g.prefab}); err != nil {
				g.world.DestroyEntity(e)
			}
		case err, ok := <-g.watcher.Errors:
			if ok {
				g.logger.Warn("prefab watcher", zap.Error(err))
			}
		default:
			return
		}
	}
}

// processReloads rebuilds the rope once per frame no matter how many reload
// requests are queued.
func (g *Game) processReloads() {
	requests := g.world.Query(component.ReloadRequestComponent.Kind())
	if len(requests) == 0 {
		return
	}
	for _, e := range requests {
		if req, ok := ecs.Get(g.world, e, component.ReloadRequestComponent); ok && req.Prefab != "" {
			g.prefab = req.Prefab
		}
		g.world.DestroyEntity(e)
	}
	if err := g.buildRope(); err != nil {
		g.logger.Warn("prefab reload failed, keeping current rope", zap.Error(err))
	}
}

func (g *Game) logEvents() {
	for _, evt := range g.world.Events().Drain() {
		re, ok := evt.Data.(ecs.RopeEvent)
		if !ok {
			continue
		}
		fields := []zap.Field{zap.String("kind", evt.Type), zap.Int("tick", re.Tick), zap.Stringer("entity", re.Entity)}
		if re.Err != nil {
			g.logger.Warn("rope event", append(fields, zap.Error(re.Err))...)
			continue
		}
		g.logger.Debug("rope event", fields...)
	}
}

func (g *Game) Reset() {
	if err := ecs.Add(g.world, g.rope, component.ResetRequestComponent, component.ResetRequest{}); err != nil {
		g.logger.Warn("reset", zap.Error(err))
	}
}

func (g *Game) CopyPositions() {
	body, ok := ecs.Get(g.world, g.rope, component.RopeBodyComponent)
	if !ok {
		return
	}
	text := common.FormatPositions(body.Curr)
	if !g.clipboard {
		g.logger.Info("positions", zap.String("text", text))
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	g.logger.Info("positions copied", zap.Int("segments", len(body.Curr)))
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	g.renderer.Draw(g.world, screen)

	if body, ok := ecs.Get(g.world, g.rope, component.RopeBodyComponent); ok {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("tick %d  t %.2fs  FPS %.1f\nR reset  C copy  Esc pause",
			body.Tick, body.Time, ebiten.ActualFPS()))
	}
	if g.paused {
		g.ui.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Window.Width, g.cfg.Window.Height
}

func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}
