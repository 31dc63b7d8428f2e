package compose

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// cropRGBA returns a copy of rect from img rebased to a zero origin.
func cropRGBA(img *image.RGBA, rect image.Rectangle) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	src := rect.Intersect(img.Bounds())
	if !src.Empty() {
		draw.Draw(out, src.Sub(rect.Min), img, src.Min, draw.Src)
	}
	return out
}

// rotateQuadrant rotates img clockwise by a quarter-turn multiple using an
// exact pixel mapping, pivoting on the canvas center.
func rotateQuadrant(img *image.RGBA, deg int) *image.RGBA {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	switch deg {
	case 90:
		out := image.NewRGBA(image.Rect(0, 0, h, w))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.SetRGBA(h-1-y, x, img.RGBAAt(x, y))
			}
		}
		return out
	case 180:
		out := image.NewRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.SetRGBA(w-1-x, h-1-y, img.RGBAAt(x, y))
			}
		}
		return out
	case 270:
		out := image.NewRGBA(image.Rect(0, 0, h, w))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.SetRGBA(y, w-1-x, img.RGBAAt(x, y))
			}
		}
		return out
	default:
		return img
	}
}

// setThickPixel stamps a square of the given thickness centered on (x, y).
func setThickPixel(img *image.RGBA, x, y, thick int, col color.Color) {
	r := thick / 2
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			px := x + dx
			py := y + dy
			if image.Pt(px, py).In(img.Bounds()) {
				img.Set(px, py, col)
			}
		}
	}
}

// drawLine draws a thick Bresenham line segment.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int) {
	dx := math.Abs(float64(x1 - x0))
	dy := math.Abs(float64(y1 - y0))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		setThickPixel(img, x0, y0, thick, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// drawPolyline connects pts in order with thick segments.
func drawPolyline(img *image.RGBA, pts []image.Point, col color.Color, thick int) {
	if len(pts) == 0 {
		return
	}
	if len(pts) == 1 {
		setThickPixel(img, pts[0].X, pts[0].Y, thick, col)
		return
	}
	for i := 1; i < len(pts); i++ {
		drawLine(img, pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y, col, thick)
	}
}

// fillRoundedRect fills rect with col, rounding the corners by radius.
func fillRoundedRect(img *image.RGBA, rect image.Rectangle, radius int, col color.Color) {
	if rect.Empty() {
		return
	}
	maxRadius := rect.Dx() / 2
	if rect.Dy()/2 < maxRadius {
		maxRadius = rect.Dy() / 2
	}
	if radius > maxRadius {
		radius = maxRadius
	}
	if radius < 0 {
		radius = 0
	}
	r2 := radius * radius
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			// Corner test: distance from the nearest corner pivot.
			cx, cy := x, y
			if x < rect.Min.X+radius {
				cx = rect.Min.X + radius
			} else if x >= rect.Max.X-radius {
				cx = rect.Max.X - radius - 1
			}
			if y < rect.Min.Y+radius {
				cy = rect.Min.Y + radius
			} else if y >= rect.Max.Y-radius {
				cy = rect.Max.Y - radius - 1
			}
			dx := x - cx
			dy := y - cy
			if dx*dx+dy*dy > r2 {
				continue
			}
			if image.Pt(x, y).In(img.Bounds()) {
				img.Set(x, y, col)
			}
		}
	}
}

// drawRotatedSprite composites sprite over dst with its center at (cx, cy),
// rotated by deg degrees. Pixels are inverse-mapped with nearest-neighbor
// sampling; a zero rotation takes the direct draw path.
func drawRotatedSprite(dst *image.RGBA, sprite *image.RGBA, cx, cy, deg float64) {
	sb := sprite.Bounds()
	if sb.Empty() {
		return
	}
	if math.Mod(deg, 360) == 0 {
		target := image.Rect(0, 0, sb.Dx(), sb.Dy()).
			Add(image.Pt(int(math.Round(cx))-sb.Dx()/2, int(math.Round(cy))-sb.Dy()/2))
		draw.Draw(dst, target, sprite, sb.Min, draw.Over)
		return
	}
	rad := deg * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	halfW := float64(sb.Dx()) / 2
	halfH := float64(sb.Dy()) / 2

	// The rotated sprite fits inside this axis-aligned box.
	extX := math.Abs(halfW*cos) + math.Abs(halfH*sin)
	extY := math.Abs(halfW*sin) + math.Abs(halfH*cos)
	x0 := int(math.Floor(cx - extX))
	x1 := int(math.Ceil(cx + extX))
	y0 := int(math.Floor(cy - extY))
	y1 := int(math.Ceil(cy + extY))

	box := image.Rect(x0, y0, x1+1, y1+1).Intersect(dst.Bounds())
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			// Inverse rotation back into sprite space.
			fx := float64(x) - cx
			fy := float64(y) - cy
			sx := fx*cos + fy*sin + halfW
			sy := -fx*sin + fy*cos + halfH
			ix := int(math.Floor(sx))
			iy := int(math.Floor(sy))
			if ix < 0 || iy < 0 || ix >= sb.Dx() || iy >= sb.Dy() {
				continue
			}
			c := sprite.RGBAAt(sb.Min.X+ix, sb.Min.Y+iy)
			if c.A == 0 {
				continue
			}
			blendOver(dst, x, y, c)
		}
	}
}

// blendOver composites c over the destination pixel.
func blendOver(dst *image.RGBA, x, y int, c color.RGBA) {
	if c.A == 255 {
		dst.SetRGBA(x, y, c)
		return
	}
	d := dst.RGBAAt(x, y)
	a := uint32(c.A)
	na := 255 - a
	dst.SetRGBA(x, y, color.RGBA{
		R: uint8((uint32(c.R)*a + uint32(d.R)*na) / 255),
		G: uint8((uint32(c.G)*a + uint32(d.G)*na) / 255),
		B: uint8((uint32(c.B)*a + uint32(d.B)*na) / 255),
		A: uint8(255 - (na*(255-uint32(d.A)))/255),
	})
}
