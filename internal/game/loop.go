package game

import (
	"bufio"
	"io"
	"time"

	"github.com/tomz197/barrage/internal/draw"
	"github.com/tomz197/barrage/internal/input"
	"github.com/tomz197/barrage/internal/stage"
)

// LoopOptions configures a terminal run.
type LoopOptions struct {
	// TermSize reports the terminal dimensions each frame. Defaults to
	// querying stdout.
	TermSize draw.TermSizeFunc
}

// Run drives the game on a terminal with the standard
// input, step, draw cycle at the configured tick rate. It blocks until
// the player quits; after a clear or game over the final frame stays up
// until quit or enter.
func Run(g *Game, name string, sections []stage.Section, r *bufio.Reader, w io.Writer, opts LoopOptions) error {
	size := opts.TermSize
	if size == nil {
		size = draw.DefaultTermSizeFunc
	}

	stream := input.StartStream(r)

	draw.HideCursor(w)
	defer draw.ShowCursor(w)
	draw.ClearScreen(w)
	defer draw.ClearScreen(w)

	termWidth, termHeight, err := size()
	if err != nil {
		return err
	}
	canvas := draw.NewCanvas(1, 1)
	cw := draw.NewChunkWriter(w, 0, 0)
	layout(canvas, cw, termWidth, termHeight)

	frameTime := time.Second / time.Duration(g.cfg.TickRate)
	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	g.Start(name, sections)
	// Unwind every suspended task goroutine on the way out, whatever the
	// exit path; parked fibers otherwise outlive the session.
	defer g.Sched.CancelAll()

	for {
		if tw, th, err := size(); err == nil && (tw != termWidth || th != termHeight) {
			termWidth, termHeight = tw, th
			layout(canvas, cw, termWidth, termHeight)
		}

		in := stream.Read()
		if in.Quit || (g.State() != Playing && in.Enter) {
			return nil
		}

		g.Step(in)

		// The clear rides in the same chunked stream as the frame so a
		// slow link never shows a blank screen.
		cw.WriteString("\033[H\033[2J")
		canvas.RenderBorder(cw)
		g.Render(canvas, cw)
		if err := cw.Flush(); err != nil {
			return err
		}

		<-ticker.C
	}
}

// layout fits the square field into the terminal. Half-block cells are
// roughly square pixels, so a square field needs twice as many columns
// as rows; the leftover area centers the canvas.
func layout(c *draw.Canvas, cw *draw.ChunkWriter, termWidth, termHeight int) {
	h := termHeight
	if w := termWidth / 2; w < h {
		h = w
	}
	if h < 10 {
		h = 10
	}
	w := h * 2
	offCol := (termWidth - w) / 2
	offRow := (termHeight - h) / 2
	if offCol < 0 {
		offCol = 0
	}
	if offRow < 0 {
		offRow = 0
	}
	c.Resize(w, h)
	c.SetOffset(offCol, offRow)
	cw.SetOffset(offCol, offRow)
}
