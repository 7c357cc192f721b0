package gui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/voronoi/internal/field"
)

const headingLength = 18

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	if a.inMenu {
		a.drawMenu()
	} else {
		a.drawField()
		if a.showOverlay {
			a.drawOverlay()
		}
		if a.showHUD {
			a.drawHUD()
		}
	}

	rl.EndDrawing()
}

// drawField stretches the field texture over the whole window.
func (a *App) drawField() {
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(a.raster.W), Height: float32(a.raster.H)}
	dst := rl.Rectangle{X: 0, Y: 0, Width: float32(a.screenW), Height: float32(a.screenH)}
	rl.DrawTexturePro(a.tex, src, dst, rl.Vector2{}, 0, rl.White)
}

func (a *App) toScreen(p field.Point) rl.Vector2 {
	x, y := a.snap.Viewport.PointToSample(p, a.screenW, a.screenH)
	return rl.NewVector2(float32(x), float32(y))
}

// drawOverlay marks site centers and headings, and outlines the reveal
// radius around each site.
func (a *App) drawOverlay() {
	pxPerUnit := float64(a.screenW) / a.snap.Viewport.Width
	ring := float32(a.snap.Radius * pxPerUnit)
	up := 1.0
	if a.snap.Viewport.Origin == field.OriginCenter {
		up = -1
	}

	for _, s := range a.snap.Sites {
		c := a.toScreen(s.Position)
		if ring > 0 && ring < float32(a.screenW) {
			rl.DrawCircleLines(int32(c.X), int32(c.Y), ring, rl.Fade(s.Color, 0.6))
		}
		tip := rl.NewVector2(
			c.X+float32(math.Cos(s.Heading.Current)*headingLength),
			c.Y+float32(up*math.Sin(s.Heading.Current)*headingLength),
		)
		rl.DrawLineEx(c, tip, 2, ColSelect)
		rl.DrawCircleV(c, 4, rl.Black)
		rl.DrawCircleV(c, 3, s.Color)
	}
}

func (a *App) drawHUD() {
	radius, phase := a.sim.Reveal().State()
	max := a.sim.Reveal().Config().MaxRadius

	rl.DrawRectangle(16, 16, 300, 150, ColPanel)
	rl.DrawText("voronoi", 30, 26, 24, ColSelect)
	rl.DrawText(fmt.Sprintf(":: %s", a.opts.Preset), 140, 32, 16, ColText)

	status, col := "RUNNING", ColSelect
	if !a.sim.Running() {
		status, col = "PAUSED", ColTextDim
	}
	rl.DrawText(status, 30, 60, 16, col)
	rl.DrawText(fmt.Sprintf("frame  %d", a.sim.Frame()), 30, 84, 14, ColText)
	rl.DrawText(fmt.Sprintf("reveal %s %.0f / %.0f", phase, radius, max), 30, 102, 14, ColText)
	rl.DrawText(fmt.Sprintf("field  %dx%d  %d FPS", a.raster.W, a.raster.H, rl.GetFPS()), 30, 120, 14, ColText)
	if a.status != "" {
		rl.DrawText(a.status, 30, 140, 14, ColTextDim)
	}

	keys := "[SPACE] PAUSE  [R] RESTART  [S] SNAPSHOT  [O] OVERLAY  [H] HUD  [Q] QUIT"
	if a.opts.Interactive {
		keys += "  [ESC] MENU"
	}
	rl.DrawText(keys, 30, int32(a.screenH-30), 14, ColSelect)
}

func (a *App) drawMenu() {
	rl.DrawText("voronoi", 50, 50, 40, ColSelect)
	rl.DrawText("Select Preset", 50, 100, 16, ColTextDim)

	y := int32(160)
	for i, name := range a.presets {
		if i == a.selected {
			rl.DrawText(fmt.Sprintf("> %s", name), 50, y, 20, ColSelect)
		} else {
			rl.DrawText(fmt.Sprintf("  %s", name), 50, y, 20, ColText)
		}
		y += 28
	}
	if a.status != "" {
		rl.DrawText(a.status, 50, y+20, 14, rl.Red)
	}

	rl.DrawText("ARROWS: NAVIGATE  ENTER: SELECT  Q: QUIT", 50, int32(a.screenH-40), 14, ColTextDim)
}
