package game

import (
	"fmt"

	"github.com/tomz197/barrage/internal/draw"
	"github.com/tomz197/barrage/internal/stage"
)

// Render draws the frame onto the canvas and queues HUD text on the
// writer. The caller owns clearing, flushing and pacing.
func (g *Game) Render(c *draw.Canvas, cw *draw.ChunkWriter) {
	c.Clear()

	// Enemy bullets from the pool's non-owning view.
	v := g.Pool.View()
	for i := range v.Alive {
		if !v.Alive[i] {
			continue
		}
		c.FillCircle(v.X[i], v.Y[i], v.Radius[i])
	}

	sv := g.Shots.View()
	for i := range sv.Alive {
		if !sv.Alive[i] {
			continue
		}
		c.Set(sv.X[i], sv.Y[i])
	}

	g.Stage.Enemies().ForEachAlive(func(e *stage.Enemy) {
		ex, ey := e.Position()
		c.FillCircle(ex, ey, e.Radius)
	})
	if b := g.Stage.Boss(); b != nil && b.IsActive() {
		bx, by := b.Position()
		c.FillCircle(bx, by, 0.06)
	}

	g.Lasers.ForEachStraight(func(s *stage.Laser) {
		if s.State() == stage.LaserCharging {
			// Telegraph: center line only.
			c.DrawBeam(s.Beam.X, s.Beam.Y, s.Beam.Angle, s.Beam.Length(), 0)
			return
		}
		c.DrawBeam(s.Beam.X, s.Beam.Y, s.Beam.Angle, s.Beam.Length(), s.Beam.Width/2)
	})
	g.Lasers.ForEachBent(func(b *stage.BentLaser) {
		xs, ys := b.Points()
		for i := 0; i+1 < len(xs); i++ {
			c.DrawLine(draw.Point{X: xs[i], Y: ys[i]}, draw.Point{X: xs[i+1], Y: ys[i+1]})
		}
	})

	// Player ship blinks while invulnerable.
	if !g.Player.Invulnerable() || g.tick%8 < 4 {
		c.FillCircle(g.Player.x, g.Player.y, 0.02)
	}

	c.Render(cw)

	// Pickups render as glyph overlays on top of the canvas.
	g.Env.Items.ForEachAlive(func(kind stage.ItemKind, x, y float64) {
		tag, ok := g.Sprites.Tag(kind.String())
		if !ok {
			return
		}
		col, row := c.FieldToTerminal(x, y)
		cw.WriteAt(col, row, string(g.Sprites.Info(tag).Glyph))
	})

	g.renderHUD(c, cw)
}

func (g *Game) renderHUD(c *draw.Canvas, cw *draw.ChunkWriter) {
	cw.WriteAt(1, 1, fmt.Sprintf("SCORE %10d  LIVES %d  BOMBS %d  POWER %.2f  GRAZE %d",
		g.Player.Score, max(g.Player.Lives, 0), g.Player.Bombs, g.Player.Power, g.Player.Graze))

	if b := g.Stage.Boss(); b != nil && b.IsActive() {
		width := c.TerminalWidth() - 2
		filled := int(b.HPFrac() * float64(width))
		bar := make([]rune, width)
		for i := range bar {
			if i < filled {
				bar[i] = '='
			} else {
				bar[i] = '-'
			}
		}
		cw.WriteAt(1, 2, fmt.Sprintf("[%s]", string(bar)))
		cw.WriteAt(1, 3, fmt.Sprintf("%s  %4.1fs", b.PhaseName(), b.TimeLeft()))
	}

	switch g.state {
	case Cleared:
		col, row := c.FieldToTerminal(0, 0)
		cw.WriteAt(col-5, row, " STAGE CLEAR ")
	case GameOver:
		col, row := c.FieldToTerminal(0, 0)
		cw.WriteAt(col-5, row, " GAME OVER ")
	}
}
