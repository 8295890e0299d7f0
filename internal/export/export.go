// Package export rasterizes a board to PNG or JPEG.
package export

import (
	"bytes"
	"fmt"
	"image/color"
	"image/jpeg"
	"math"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"drawboard/internal/geom"
	"drawboard/internal/scene"
	"drawboard/internal/viewport"
)

type Format int

const (
	PNG Format = iota
	JPEG
)

func (f Format) String() string {
	if f == JPEG {
		return "jpeg"
	}
	return "png"
}

// Pixels per scene unit at zoom 1. Scene units are terminal cells, which are
// twice as tall as they are wide.
const (
	CellWidth  = 8.0
	CellHeight = 16.0
)

const (
	defaultPadding = 2
	defaultQuality = 90
	fontSize       = 12.0
	arrowSize      = 6.0
	arrowAngle     = 0.5
	curveSamples   = 24
	noteTimeLayout = "15:04"
	notePinMark    = "pinned"

	// DefaultMaxPixels bounds the output image. Larger exports are scaled
	// down to fit.
	DefaultMaxPixels = 32 << 20
	maxSide          = 16384
	// Below this scale labels are unreadable and the export is refused.
	minScale = 1.0 / 64
)

type Options struct {
	Format Format
	// Padding is added around the content bounds when no region is given,
	// in scene units.
	Padding float64
	// Quality is the JPEG quality, 1 to 100.
	Quality int
	// MaxPixels caps width*height of the image; 0 means DefaultMaxPixels.
	MaxPixels int
}

var (
	fontOnce sync.Once
	monoFont *truetype.Font
	fontErr  error
)

func loadFont() (*truetype.Font, error) {
	fontOnce.Do(func() {
		monoFont, fontErr = truetype.Parse(gomono.TTF)
	})
	return monoFont, fontErr
}

// Rasterize draws the elements of store that fall in region (scene space)
// and encodes the image. An empty region exports the content bounds plus
// padding. The store and viewport are only read; the viewport zoom scales
// the output.
func Rasterize(store *scene.Store, view *viewport.Viewport, region geom.Rect, opts Options) ([]byte, error) {
	elements := store.All()
	if region.Empty() {
		if len(elements) == 0 {
			return nil, fmt.Errorf("nothing to export")
		}
		region = contentBounds(store, elements)
		pad := opts.Padding
		if pad <= 0 {
			pad = defaultPadding
		}
		region = region.Inset(-pad)
	}

	zoom := view.Zoom()
	w, h := region.W()*CellWidth*zoom, region.H()*CellHeight*zoom
	if !geom.Finite(w, h) {
		return nil, fmt.Errorf("export region %v is too large", region)
	}
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("export region %v has no area", region)
	}
	budget := opts.MaxPixels
	if budget <= 0 {
		budget = DefaultMaxPixels
	}
	scale := math.Min(1, math.Sqrt(float64(budget)/(w*h)))
	scale = math.Min(scale, math.Min(maxSide/w, maxSide/h))
	if scale < minScale {
		return nil, fmt.Errorf("export region %v is too large", region)
	}
	zoom *= scale

	r := &renderer{
		store:  store,
		origin: region.Min,
		sx:     CellWidth * zoom,
		sy:     CellHeight * zoom,
	}
	width := int(math.Max(1, math.Floor(w*scale)))
	height := int(math.Max(1, math.Floor(h*scale)))

	ttf, err := loadFont()
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %v", err)
	}
	r.dc = gg.NewContext(width, height)
	r.dc.SetColor(color.White)
	r.dc.Clear()
	r.dc.SetFontFace(truetype.NewFace(ttf, &truetype.Options{
		Size:    fontSize * zoom,
		DPI:     72,
		Hinting: font.HintingFull,
	}))

	for _, e := range elements {
		r.draw(e)
	}

	var buf bytes.Buffer
	switch opts.Format {
	case JPEG:
		q := opts.Quality
		if q <= 0 || q > 100 {
			q = defaultQuality
		}
		err = jpeg.Encode(&buf, r.dc.Image(), &jpeg.Options{Quality: q})
	default:
		err = r.dc.EncodePNG(&buf)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", opts.Format, err)
	}
	return buf.Bytes(), nil
}

func contentBounds(store *scene.Store, elements []scene.Element) geom.Rect {
	b := store.Bounds(elements[0])
	for _, e := range elements[1:] {
		b = b.Union(store.Bounds(e))
	}
	return b
}

type renderer struct {
	store  *scene.Store
	dc     *gg.Context
	origin geom.Point
	sx, sy float64
}

// px maps a scene point to image pixels.
func (r *renderer) px(p geom.Point) (float64, float64) {
	return (p.X - r.origin.X) * r.sx, (p.Y - r.origin.Y) * r.sy
}

func (r *renderer) draw(e scene.Element) {
	dc := r.dc
	dc.SetLineWidth(1.0)
	dc.SetColor(color.Black)

	switch e := e.(type) {
	case *scene.Shape:
		box := r.store.Bounds(e)
		r.polygon(scene.Outline(e.Shape, box))
		r.label(e.Label, box.Center())
	case *scene.MindNode:
		box := r.store.Bounds(e)
		x, y := r.px(box.Min)
		dc.DrawRoundedRectangle(x, y, box.W()*r.sx, box.H()*r.sy, r.sx)
		dc.Stroke()
		r.label(e.Label, box.Center())
	case *scene.Note:
		box := r.store.Bounds(e)
		x, y := r.px(box.Min)
		w, h := box.W()*r.sx, box.H()*r.sy
		dc.DrawRectangle(x, y, w, h)
		fill := e.Color
		if fill == "" {
			fill = scene.NoteColors[0]
		}
		dc.SetHexColor(fill)
		dc.FillPreserve()
		dc.SetColor(color.Black)
		dc.Stroke()
		if !e.Created.IsZero() {
			dc.DrawStringAnchored(e.Created.Format(noteTimeLayout), x+r.sx, y+r.sy, 0, 0.5)
		}
		if e.Pinned {
			dc.DrawStringAnchored(notePinMark, x+w-r.sx, y+r.sy, 1, 0.5)
		}
		for i, line := range strings.Split(e.Label, "\n") {
			dc.DrawStringAnchored(line, x+r.sx, y+float64(i+2)*r.sy, 0, 0.5)
		}
	case *scene.Text:
		x, y := r.px(e.Position)
		for i, line := range strings.Split(e.Label, "\n") {
			dc.DrawStringAnchored(line, x, y+float64(i)*r.sy, 0, 1)
		}
	case *scene.Stroke:
		for i, p := range e.Points {
			x, y := r.px(p)
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.Stroke()
	case *scene.Connector:
		path, ok := r.store.Registry().Path(e.ID)
		if !ok {
			return
		}
		pts := path.Sample(curveSamples)
		for i, p := range pts {
			x, y := r.px(p)
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.Stroke()
		r.arrow(pts[len(pts)-2], pts[len(pts)-1])
	}
}

func (r *renderer) polygon(pts []geom.Point) {
	for i, p := range pts {
		x, y := r.px(p)
		if i == 0 {
			r.dc.MoveTo(x, y)
		} else {
			r.dc.LineTo(x, y)
		}
	}
	r.dc.ClosePath()
	r.dc.Stroke()
}

// label draws multi-line text centered on c.
func (r *renderer) label(text string, c geom.Point) {
	if text == "" {
		return
	}
	lines := strings.Split(text, "\n")
	x, y := r.px(c)
	top := y - float64(len(lines)-1)*r.sy/2
	for i, line := range lines {
		r.dc.DrawStringAnchored(line, x, top+float64(i)*r.sy, 0.5, 0.5)
	}
}

// arrow fills an arrowhead at to, pointing away from from.
func (r *renderer) arrow(from, to geom.Point) {
	fx, fy := r.px(from)
	tx, ty := r.px(to)

	dx := tx - fx
	dy := ty - fy
	length := math.Sqrt(dx*dx + dy*dy)
	if length < 0.1 {
		return
	}
	dx /= length
	dy /= length

	r.dc.MoveTo(tx, ty)
	r.dc.LineTo(tx-arrowSize*dx+arrowSize*dy*arrowAngle, ty-arrowSize*dy-arrowSize*dx*arrowAngle)
	r.dc.LineTo(tx-arrowSize*dx-arrowSize*dy*arrowAngle, ty-arrowSize*dy+arrowSize*dx*arrowAngle)
	r.dc.ClosePath()
	r.dc.Fill()
}
