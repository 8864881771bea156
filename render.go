package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"

	"github.com/milk9111/brawler/arena"
	"github.com/milk9111/brawler/common"
	"github.com/milk9111/brawler/ecs/component"
	"github.com/milk9111/brawler/roster"
)

const (
	healthBarWidth  = 100
	healthBarHeight = 12
	hudMargin       = 20
)

var hudFace ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)

// Renderer draws snapshots. Fighter and projectile masks are turned into
// white images once and tinted per draw.
type Renderer struct {
	masks   map[string]*ebiten.Image
	blank   *ebiten.Image
	health  [2]float32
	started bool
}

func NewRenderer() *Renderer {
	blank := ebiten.NewImage(1, 1)
	blank.Fill(color.White)
	return &Renderer{
		masks: make(map[string]*ebiten.Image),
		blank: blank,
	}
}

// Reset snaps the eased health bars back to full for a new round.
func (r *Renderer) Reset() {
	r.started = false
}

// Forget drops cached masks, after a reload changed the specs.
func (r *Renderer) Forget() {
	for k, img := range r.masks {
		if img != r.blank {
			img.Deallocate()
		}
		delete(r.masks, k)
	}
}

// maskImage returns the cached image for key, building it from the
// silhouette build returns. A nil silhouette draws as a plain box.
func (r *Renderer) maskImage(key string, build func() *component.Silhouette) *ebiten.Image {
	if img, ok := r.masks[key]; ok {
		return img
	}
	s := build()
	if s == nil {
		r.masks[key] = r.blank
		return r.blank
	}
	pix := make([]byte, 4*s.Width*s.Height)
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			if s.Opaque(x, y, false) {
				i := 4 * (y*s.Width + x)
				pix[i], pix[i+1], pix[i+2], pix[i+3] = 0xff, 0xff, 0xff, 0xff
			}
		}
	}
	img := ebiten.NewImage(s.Width, s.Height)
	img.WritePixels(pix)
	r.masks[key] = img
	return img
}

// drawBox stretches img over the box, mirrored horizontally when asked.
func drawBox(screen, img *ebiten.Image, x, y, w, h float64, mirrored bool, clr color.Color) {
	b := img.Bounds()
	op := &ebiten.DrawImageOptions{}
	sx, sy := w/float64(b.Dx()), h/float64(b.Dy())
	if mirrored {
		op.GeoM.Scale(-sx, sy)
		op.GeoM.Translate(x+w, y)
	} else {
		op.GeoM.Scale(sx, sy)
		op.GeoM.Translate(x, y)
	}
	op.ColorScale.ScaleWithColor(clr)
	screen.DrawImage(img, op)
}

func drawText(screen *ebiten.Image, s string, x, y, scale float64, clr color.Color) {
	op := &ebtext.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	ebtext.Draw(screen, s, hudFace, op)
}

func drawCenteredText(screen *ebiten.Image, s string, cx, y, scale float64, clr color.Color) {
	w, _ := ebtext.Measure(s, hudFace, 0)
	drawText(screen, s, cx-w*scale/2, y, scale, clr)
}

// Draw renders one frame of the round described by snap.
func (r *Renderer) Draw(screen *ebiten.Image, snap arena.Snapshot, ros *roster.Roster, score [2]int, debug bool) {
	spec := ros.Arena
	screen.Fill(spec.Background.Or(colornames.Darkslategray))
	floor := float32(spec.FloorY())
	vector.FillRect(screen, 0, floor, float32(spec.Width), float32(spec.Height)-floor, spec.FloorColor.Or(colornames.Darkolivegreen), false)

	for _, f := range snap.Fighters {
		img, clr := r.blank, color.Color(colornames.Gray)
		if fs, err := ros.Fighter(f.Character); err == nil {
			clr = fs.Color.Or(clr)
			img = r.maskImage("body:"+f.Character, fs.BodySilhouette)
		}
		if f.State == component.ActionHitting.String() {
			clr = colornames.White
		}
		drawBox(screen, img, f.X, f.Y, f.Width, f.Height, f.Mirrored, clr)
		if debug {
			vector.StrokeRect(screen, float32(f.X), float32(f.Y), float32(f.Width), float32(f.Height), 1, colornames.Yellow, false)
			drawText(screen, fmt.Sprintf("%s %s #%d", f.State, f.Clip, f.Frame), f.X, f.Y-16, 1, colornames.Yellow)
		}
	}

	for _, p := range snap.Projectiles {
		img, clr := r.blank, color.Color(colornames.Orange)
		for _, f := range snap.Fighters {
			if f.Side != p.Owner {
				continue
			}
			if fs, err := ros.Fighter(f.Character); err == nil {
				clr = fs.Projectile.Color.Or(clr)
				img = r.maskImage("shot:"+f.Character, func() *component.Silhouette {
					return fs.Tunables().Projectile.Silhouette
				})
			}
		}
		// spin the shot by pulsing its alpha through the frame cycle
		alpha := 0.75 + 0.25*math.Sin(float64(p.Frame)/155*2*math.Pi)
		drawBox(screen, img, p.X, p.Y, p.Width, p.Height, p.Mirrored, scaleAlpha(clr, alpha))
	}

	r.drawHUD(screen, snap, score, float64(spec.Width))
}

func scaleAlpha(c color.Color, a float64) color.Color {
	r, g, b, al := c.RGBA()
	return color.NRGBA64{R: uint16(r), G: uint16(g), B: uint16(b), A: uint16(float64(al) * a)}
}

func (r *Renderer) drawHUD(screen *ebiten.Image, snap arena.Snapshot, score [2]int, width float64) {
	if !r.started {
		for i, f := range snap.Fighters {
			r.health[i] = float32(f.Health)
		}
		r.started = true
	}

	for i, f := range snap.Fighters {
		r.health[i] = common.Approach(r.health[i], float32(f.Health), 0.2, 0.05)
		x := float32(hudMargin)
		if i == 1 {
			x = float32(width) - hudMargin - healthBarWidth
		}
		y := float32(hudMargin)
		fill := common.Fraction(r.health[i], float32(component.MaxHealth)) * healthBarWidth
		vector.FillRect(screen, x, y, healthBarWidth, healthBarHeight, colornames.Darkred, false)
		vector.FillRect(screen, x, y, fill, healthBarHeight, colornames.Limegreen, false)
		vector.StrokeRect(screen, x, y, healthBarWidth, healthBarHeight, 1, colornames.White, false)
		drawText(screen, fmt.Sprintf("%s  %d", f.Character, score[i]), float64(x), float64(y+healthBarHeight+4), 1, colornames.White)
	}

	remaining := int(math.Ceil(snap.Remaining))
	drawCenteredText(screen, fmt.Sprintf("%d", remaining), width/2, hudMargin, 3, colornames.White)
	drawCenteredText(screen, fmt.Sprintf("Round %d", snap.Round), width/2, hudMargin+48, 1, colornames.Lightgray)
}

// drawBanner puts a large message across the middle of the screen.
func drawBanner(screen *ebiten.Image, lines ...string) {
	b := screen.Bounds()
	cx, cy := float64(b.Dx())/2, float64(b.Dy())/2
	vector.FillRect(screen, 0, float32(cy-80), float32(b.Dx()), 160, color.NRGBA{A: 180}, false)
	for i, line := range lines {
		scale := 4.0
		if i > 0 {
			scale = 2
		}
		drawCenteredText(screen, line, cx, cy-60+float64(i)*70, scale, colornames.White)
	}
}
