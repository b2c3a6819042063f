package main

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/scenesim/common"
	"github.com/milk9111/scenesim/config"
	"github.com/milk9111/scenesim/ecs"
	"github.com/milk9111/scenesim/ecs/system"
	"github.com/milk9111/scenesim/input"
	"github.com/milk9111/scenesim/physics"
	"github.com/milk9111/scenesim/prefabs"
	"golang.org/x/image/colornames"
)

const (
	minZoom = 0.25
	maxZoom = 4
)

var groupPalette = []color.RGBA{
	colornames.Cornflowerblue,
	colornames.Orange,
	colornames.Mediumseagreen,
	colornames.Orchid,
	colornames.Gold,
	colornames.Tomato,
	colornames.Turquoise,
}

type Game struct {
	cfg       *config.Config
	logger    *slog.Logger
	sceneName string

	scene   prefabs.SceneSpec
	world   *ecs.World
	builder *prefabs.Builder
	watcher *prefabs.Watcher
	ui      *ebitenui.UI
	spawned []ecs.Entity

	frames   int
	lastTick time.Time
	paused   bool
	reload   bool
	lastErr  error
	status   string
	claims   int

	keys             []ebiten.Key
	cursorX, cursorY int
	width, height    int
	resized          bool
	zoom, targetZoom float64
}

func NewGame(cfg *config.Config, logger *slog.Logger, sceneName string) (*Game, error) {
	g := &Game{
		cfg:        cfg,
		logger:     logger,
		sceneName:  sceneName,
		zoom:       1,
		targetZoom: 1,
	}
	if err := g.loadScene(); err != nil {
		return nil, err
	}

	if cfg.Viewer.HotReload {
		if dirs := watchDirs(); len(dirs) > 0 {
			w, err := prefabs.NewWatcher(dirs...)
			if err != nil {
				logger.Warn("hot reload disabled", "err", err)
			} else {
				g.watcher = w
				logger.Info("watching for changes", "dirs", dirs)
			}
		}
	}
	return g, nil
}

// watchDirs returns the on-disk prefab directories that exist.
func watchDirs() []string {
	var dirs []string
	for _, dir := range []string{"prefabs", filepath.Join("prefabs", "scripts")} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}

// loadScene rebuilds the world from the scene file. The current world is kept
// if loading fails.
func (g *Game) loadScene() error {
	scene, err := prefabs.LoadScene(g.sceneName)
	if err != nil {
		return err
	}
	world := prefabs.NewWorld(g.cfg,
		ecs.WithLogger(g.logger),
		ecs.WithSystems(system.NewInstanceSystem()),
	)
	if _, err := prefabs.Populate(world, scene, g.cfg); err != nil {
		return err
	}
	world.Events().Drain()

	g.scene = scene
	g.world = world
	g.builder = prefabs.NewBuilder(g.cfg)
	g.spawned = nil
	g.paused = false
	g.lastTick = time.Time{}
	g.lastErr = nil
	g.ui = NewSpawnUI(g)
	g.status = fmt.Sprintf("loaded %s", g.sceneName)
	g.logger.Info("scene loaded", "scene", g.sceneName, "entities", len(scene.Entities), "templates", len(scene.Templates))
	return nil
}

func (g *Game) Update() error {
	g.frames++

	if ebiten.IsWindowBeingClosed() {
		g.world.Input(input.CloseRequested())
		return ebiten.Termination
	}

	g.pollWatcher()
	g.ui.Update()
	g.handleHotkeys()

	if g.reload {
		g.reload = false
		if err := g.loadScene(); err != nil {
			g.fail("reload failed", err)
		}
	}

	g.forwardInput()

	if g.paused {
		g.lastTick = time.Time{}
	} else {
		now := time.Now()
		g.step(tickDelta(now, g.lastTick, g.cfg.Physics.FixedDT, g.cfg.Physics.MaxDT))
		g.lastTick = now
	}

	g.drainEvents()
	g.zoom = common.Lerp(g.zoom, g.targetZoom, 0.2)
	return nil
}

func (g *Game) step(dt float64) {
	if err := g.world.Update(dt); err != nil {
		g.fail("simulation paused", err)
	}
}

// tickDelta is the wall time in seconds between last and now, clamped to
// maxDT when maxDT is positive. With no previous tick it is fallback.
func tickDelta(now, last time.Time, fallback, maxDT float64) float64 {
	if last.IsZero() {
		return fallback
	}
	dt := now.Sub(last).Seconds()
	if dt < 0 {
		dt = 0
	}
	if maxDT > 0 && dt > maxDT {
		dt = maxDT
	}
	return dt
}

func (g *Game) fail(msg string, err error) {
	g.paused = true
	g.lastErr = err
	g.logger.Error(msg, "err", err)
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case c, ok := <-g.watcher.Changes:
			if !ok {
				g.watcher = nil
				return
			}
			if !c.Affects(g.sceneName) {
				continue
			}
			g.logger.Info("file changed", "file", c.Path, "kind", c.Kind.String(), "removed", c.Removed)
			g.reload = true
		case err, ok := <-g.watcher.Errors:
			if ok {
				g.logger.Warn("watcher error", "err", err)
			}
		default:
			return
		}
	}
}

func (g *Game) handleHotkeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.reload = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF6) {
		g.togglePause()
	}
	if g.paused && inpututil.IsKeyJustPressed(ebiten.KeyF7) {
		g.step(g.cfg.Physics.FixedDT)
	}

	if _, dy := ebiten.Wheel(); dy != 0 {
		g.targetZoom = mgl64.Clamp(g.targetZoom*math.Pow(1.1, dy), minZoom, maxZoom)
	}
}

func (g *Game) togglePause() {
	g.paused = !g.paused
	if !g.paused {
		g.lastErr = nil
	}
}

// forwardInput delivers this tick's platform events to every behavior.
func (g *Game) forwardInput() {
	g.keys = inpututil.AppendJustPressedKeys(g.keys[:0])
	for _, k := range g.keys {
		if key, ok := translateKey(k); ok {
			g.claims += g.world.Input(input.KeyPressed(key))
		}
	}
	g.keys = inpututil.AppendJustReleasedKeys(g.keys[:0])
	for _, k := range g.keys {
		if key, ok := translateKey(k); ok {
			g.claims += g.world.Input(input.KeyReleased(key))
		}
	}

	if x, y := ebiten.CursorPosition(); x != g.cursorX || y != g.cursorY {
		g.cursorX, g.cursorY = x, y
		g.world.Input(input.PointerMoved(float64(x), float64(y)))
	}
	if g.resized {
		g.resized = false
		g.world.Input(input.Resized(g.width, g.height))
	}
}

func (g *Game) drainEvents() {
	for _, evt := range g.world.Events().Drain() {
		switch data := evt.Data.(type) {
		case ecs.SpawnEvent:
			g.status = fmt.Sprintf("spawned %s (%v)", data.Model, data.Entity)
		case ecs.DespawnEvent:
			g.status = fmt.Sprintf("despawned %s (%v)", data.Model, data.Entity)
		case ecs.InputClaimEvent:
			g.logger.Debug("input handled", "entity", data.Entity.String(), "kind", data.Input.Kind.String(), "key", data.Input.Key.String())
		}
	}
}

func (g *Game) spawnTemplate(i int) {
	if i < 0 || i >= len(g.scene.Templates) {
		return
	}
	e, err := g.builder.Spawn(g.world, g.scene.Templates[i])
	if err != nil {
		g.fail("spawn failed", err)
		return
	}
	g.spawned = append(g.spawned, e)
}

func (g *Game) despawnLast() {
	if len(g.spawned) == 0 {
		g.status = "nothing to despawn"
		return
	}
	e := g.spawned[len(g.spawned)-1]
	g.spawned = g.spawned[:len(g.spawned)-1]
	if err := g.world.Despawn(e); err != nil && !errors.Is(err, ecs.ErrDespawned) {
		g.fail("despawn failed", err)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 0x18, G: 0x18, B: 0x1c, A: 0xff})

	bodies := g.world.Bodies()
	for gi, group := range g.world.Groups() {
		clr := groupPalette[gi%len(groupPalette)]
		for _, inst := range group.Instances {
			if inst.Removed() {
				continue
			}
			body, err := bodies.Body(inst.Body)
			if err != nil {
				continue
			}
			g.drawInstance(screen, inst, body.Shape, clr)
		}
	}

	state := "running"
	if g.paused {
		state = "paused"
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"%s  frame %d  bodies %d  %s\nFPS %.1f  TPS %.1f  claims %d\n%s\nF5 reload  F6 pause  F7 step  wheel zoom",
		g.scene.Name, g.world.Frame(), bodies.Live(), state,
		ebiten.ActualFPS(), ebiten.ActualTPS(), g.claims, g.status,
	))
	if g.lastErr != nil {
		ebitenutil.DebugPrintAt(screen, "error: "+g.lastErr.Error(), 8, g.cfg.Viewer.Height-24)
	}

	g.ui.Draw(screen)
}

// project maps world X/Y onto the screen with +Y up. Z is dropped.
func (g *Game) project(p mgl64.Vec3) (float32, float32) {
	ppu := g.cfg.Viewer.PixelsPerUnit * g.zoom
	x := float64(g.cfg.Viewer.Width)/2 + p.X()*ppu
	y := float64(g.cfg.Viewer.Height)/2 - p.Y()*ppu
	return float32(x), float32(y)
}

func (g *Game) drawInstance(screen *ebiten.Image, inst *ecs.Instance, shape physics.Shape, clr color.RGBA) {
	ppu := g.cfg.Viewer.PixelsPerUnit * g.zoom
	cx, cy := g.project(inst.Position)

	switch shape.Kind {
	case physics.ShapeSphere:
		r := float32(shape.Radius * ppu)
		vector.FillCircle(screen, cx, cy, r, clr, true)
		// spoke shows the current rotation
		tx, ty := g.project(inst.Position.Add(inst.Rotation.Rotate(mgl64.Vec3{shape.Radius, 0, 0})))
		vector.StrokeLine(screen, cx, cy, tx, ty, 2, colornames.White, true)
	case physics.ShapeBox:
		// overlap tests ignore rotation, so fill the axis-aligned extents and
		// outline the rotated box on top
		half := shape.HalfExtents()
		fill := color.NRGBA{R: clr.R, G: clr.G, B: clr.B, A: 0x60}
		vector.FillRect(screen,
			cx-float32(half.X()*ppu), cy-float32(half.Y()*ppu),
			float32(shape.Extents.X()*ppu), float32(shape.Extents.Y()*ppu),
			fill, false)

		corners := [4]mgl64.Vec3{
			{-half.X(), -half.Y(), 0},
			{half.X(), -half.Y(), 0},
			{half.X(), half.Y(), 0},
			{-half.X(), half.Y(), 0},
		}
		var pts [4][2]float32
		for i, c := range corners {
			pts[i][0], pts[i][1] = g.project(inst.Position.Add(inst.Rotation.Rotate(c)))
		}
		for i := range pts {
			j := (i + 1) % len(pts)
			vector.StrokeLine(screen, pts[i][0], pts[i][1], pts[j][0], pts[j][1], 2, clr, true)
		}
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	w, h := int(outsideWidth), int(outsideHeight)
	if w != g.width || h != g.height {
		g.width, g.height = w, h
		g.resized = true
	}
	return float64(g.cfg.Viewer.Width), float64(g.cfg.Viewer.Height)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
