package draw

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// Canvas is a drawing buffer with 2x vertical resolution using half-block
// characters. It maps field coordinates (x, y in [-1, 1], y up) onto the
// terminal cell grid, so simulation code never sees cells or sub-pixels.
type Canvas struct {
	termWidth      int    // terminal columns
	termHeight     int    // terminal rows
	subPixelHeight int    // termHeight * 2
	pixels         []bool // flat slice: [y * termWidth + x]

	// Offset for centering the render area when the terminal is larger
	// than the render resolution. 0-based terminal offsets.
	offsetCol int
	offsetRow int

	renderBuf strings.Builder
}

// NewCanvas creates a canvas for the given terminal dimensions. The whole
// field spans the whole canvas.
func NewCanvas(termWidth, termHeight int) *Canvas {
	return &Canvas{
		termWidth:      termWidth,
		termHeight:     termHeight,
		subPixelHeight: termHeight * 2,
		pixels:         make([]bool, termHeight*2*termWidth),
	}
}

// Resize updates the canvas for new terminal dimensions.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth == c.termWidth && termHeight == c.termHeight {
		return
	}
	c.termWidth = termWidth
	c.termHeight = termHeight
	c.subPixelHeight = termHeight * 2
	c.pixels = make([]bool, c.subPixelHeight*termWidth)
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at
// (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int { return c.offsetCol }

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int { return c.offsetRow }

// TerminalWidth returns the terminal column count.
func (c *Canvas) TerminalWidth() int { return c.termWidth }

// TerminalHeight returns the terminal row count.
func (c *Canvas) TerminalHeight() int { return c.termHeight }

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// fieldToPixel maps field coordinates to sub-pixel coordinates. The y axis
// flips: field y grows up, pixel y grows down.
func (c *Canvas) fieldToPixel(x, y float64) (int, int) {
	px := int(math.Round((x + 1) / 2 * float64(c.termWidth-1)))
	py := int(math.Round((1 - y) / 2 * float64(c.subPixelHeight-1)))
	return px, py
}

// FieldToTerminal converts field coordinates to a 1-based terminal
// position for placing text overlays over canvas-drawn objects.
func (c *Canvas) FieldToTerminal(x, y float64) (col, row int) {
	px, py := c.fieldToPixel(x, y)
	return px + 1, py/2 + 1
}

func (c *Canvas) setPixel(x, y int) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = true
	}
}

// Set sets the pixel nearest to the given field position.
func (c *Canvas) Set(x, y float64) {
	c.setPixel(c.fieldToPixel(x, y))
}

// DrawLine draws a field-space line using Bresenham's algorithm.
func (c *Canvas) DrawLine(p1, p2 Point) {
	x1, y1 := c.fieldToPixel(p1.X, p1.Y)
	x2, y2 := c.fieldToPixel(p2.X, p2.Y)

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		c.setPixel(x1, y1)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// FillCircle fills a disc of field-space radius r centered at (x, y).
// Radii are scaled on the x axis; the half-block sub-pixels keep the disc
// roughly round on a 2:1 cell grid.
func (c *Canvas) FillCircle(x, y, r float64) {
	cx, cy := c.fieldToPixel(x, y)
	prx := r / 2 * float64(c.termWidth-1)
	pry := r / 2 * float64(c.subPixelHeight-1)
	if prx < 1 {
		c.setPixel(cx, cy)
		return
	}
	iry := int(math.Ceil(pry))
	for dy := -iry; dy <= iry; dy++ {
		// Row half-width of the ellipse at this sub-pixel row.
		f := 1 - float64(dy)*float64(dy)/(pry*pry)
		if f < 0 {
			continue
		}
		half := int(math.Round(prx * math.Sqrt(f)))
		for dx := -half; dx <= half; dx++ {
			c.setPixel(cx+dx, cy+dy)
		}
	}
}

// DrawBeam draws a straight beam as its two tapered edge lines plus the
// center line, all in field space.
func (c *Canvas) DrawBeam(x, y, angle, length, halfWidth float64) {
	dirX, dirY := math.Cos(angle), math.Sin(angle)
	nx, ny := -dirY, dirX
	ex, ey := x+dirX*length, y+dirY*length
	c.DrawLine(Point{X: x, Y: y}, Point{X: ex, Y: ey})
	c.DrawLine(Point{X: x + nx*halfWidth, Y: y + ny*halfWidth}, Point{X: ex + nx*halfWidth, Y: ey + ny*halfWidth})
	c.DrawLine(Point{X: x - nx*halfWidth, Y: y - ny*halfWidth}, Point{X: ex - nx*halfWidth, Y: ey - ny*halfWidth})
}

// Render outputs the canvas to the writer using half-block characters.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()
	c.renderBuf.Grow(c.termWidth * c.termHeight * 12)

	for row := 0; row < c.termHeight; row++ {
		topY := row * 2
		bottomY := row*2 + 1
		topOffset := topY * c.termWidth
		bottomOffset := bottomY * c.termWidth

		for col := 0; col < c.termWidth; col++ {
			top := c.pixels[topOffset+col]
			bottom := bottomY < c.subPixelHeight && c.pixels[bottomOffset+col]

			var ch rune
			switch {
			case top && bottom:
				ch = BlockFull
			case top:
				ch = BlockUpperHalf
			case bottom:
				ch = BlockLowerHalf
			default:
				continue // skip empty cells
			}

			fmt.Fprintf(&c.renderBuf, "\033[%d;%dH%c", row+1+c.offsetRow, col+1+c.offsetCol, ch)
		}
	}

	writeChunked(w, c.renderBuf.String())
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the render resolution on either axis. Horizontal borders need a
// vertical offset, vertical borders a horizontal one, corners both.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1
	hasV := c.offsetRow >= 1

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1

	var buf strings.Builder
	buf.Grow((c.termWidth+2)*2 + c.termHeight*2*12)

	if hasV {
		if hasH {
			fmt.Fprintf(&buf, "\033[%d;%dH┌%s┐", top, left, strings.Repeat("─", c.termWidth))
			fmt.Fprintf(&buf, "\033[%d;%dH└%s┘", bottom, left, strings.Repeat("─", c.termWidth))
		} else {
			fmt.Fprintf(&buf, "\033[%d;%dH%s", top, c.offsetCol+1, strings.Repeat("─", c.termWidth))
			fmt.Fprintf(&buf, "\033[%d;%dH%s", bottom, c.offsetCol+1, strings.Repeat("─", c.termWidth))
		}
	}

	if hasH {
		startRow := top + 1
		endRow := bottom
		if !hasV {
			startRow = c.offsetRow + 1
			endRow = c.offsetRow + c.termHeight + 1
		}
		for row := startRow; row < endRow; row++ {
			fmt.Fprintf(&buf, "\033[%d;%dH│\033[%d;%dH│", row, left, row, right)
		}
	}

	writeChunked(w, buf.String())
}
