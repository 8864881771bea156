package component

import (
	"image"
	"math"

	"github.com/jakecoffman/cp"
)

// Silhouette is an opacity mask used for pixel-precise overlap tests. It is
// never mirrored in place; callers pass the orientation flag instead.
type Silhouette struct {
	Width  int
	Height int
	opaque []bool
}

// NewSilhouette builds a mask from the alpha channel of img. Pixels with
// alpha above threshold (0-255) count as solid.
func NewSilhouette(img image.Image, threshold uint8) *Silhouette {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	s := &Silhouette{Width: b.Dx(), Height: b.Dy(), opaque: make([]bool, b.Dx()*b.Dy())}
	limit := uint32(threshold) * 0x101
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			_, _, _, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			s.opaque[y*s.Width+x] = a > limit
		}
	}
	return s
}

// NewEllipseSilhouette is the mask of an ellipse inscribed in a w×h box.
func NewEllipseSilhouette(w, h int) *Silhouette {
	if w <= 0 || h <= 0 {
		return nil
	}
	s := &Silhouette{Width: w, Height: h, opaque: make([]bool, w*h)}
	rx, ry := float64(w)/2, float64(h)/2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := (float64(x) + 0.5 - rx) / rx
			dy := (float64(y) + 0.5 - ry) / ry
			s.opaque[y*w+x] = dx*dx+dy*dy <= 1
		}
	}
	return s
}

// Opaque reports whether mask pixel (x, y) is solid. Out-of-range is empty.
func (s *Silhouette) Opaque(x, y int, mirrored bool) bool {
	if s == nil {
		return true
	}
	if x < 0 || y < 0 || x >= s.Width || y >= s.Height {
		return false
	}
	if mirrored {
		x = s.Width - 1 - x
	}
	return s.opaque[y*s.Width+x]
}

// opaqueAt samples the body's silhouette at world point p, scaling the mask
// to the body size. Bodies without a silhouette are solid rectangles.
func (b Body) opaqueAt(pos cp.Vector, mirrored bool, px, py float64) bool {
	if b.Silhouette == nil {
		return true
	}
	if b.Width <= 0 || b.Height <= 0 {
		return false
	}
	sx := int((px - pos.X) * float64(b.Silhouette.Width) / b.Width)
	sy := int((py - pos.Y) * float64(b.Silhouette.Height) / b.Height)
	return b.Silhouette.Opaque(sx, sy, mirrored)
}

// Overlaps reports whether two bodies touch. Boxes are tested first; when
// either body has a silhouette the shared area is then scanned pixel by pixel.
func Overlaps(a Body, apos cp.Vector, amirror bool, b Body, bpos cp.Vector, bmirror bool) bool {
	ab, bb := a.Box(apos), b.Box(bpos)
	if !ab.Intersects(bb) {
		return false
	}
	if a.Silhouette == nil && b.Silhouette == nil {
		return true
	}
	left := math.Max(ab.L, bb.L)
	right := math.Min(ab.R, bb.R)
	top := math.Max(ab.B, bb.B)
	bottom := math.Min(ab.T, bb.T)
	for y := math.Floor(top); y < bottom; y++ {
		for x := math.Floor(left); x < right; x++ {
			px, py := x+0.5, y+0.5
			if px < left || py < top {
				continue
			}
			if a.opaqueAt(apos, amirror, px, py) && b.opaqueAt(bpos, bmirror, px, py) {
				return true
			}
		}
	}
	return false
}
