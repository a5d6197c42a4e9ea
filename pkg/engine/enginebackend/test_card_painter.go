package enginebackend

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"
	"time"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/tauraamui/offscreend/pkg/log"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

var (
	parseFontOnce sync.Once
	regularFont   *truetype.Font
	parseFontErr  error
)

func loadRegularFont() (*truetype.Font, error) {
	parseFontOnce.Do(func() {
		regularFont, parseFontErr = freetype.ParseFont(goregular.TTF)
	})
	return regularFont, parseFontErr
}

var timeNow = func() time.Time {
	return time.Now()
}

type testCardPainter struct {
	title      string
	base       *image.RGBA
	canvas     *image.RGBA
	face       font.Face
	fontFailed bool
}

func newTestCardPainter(settings Settings) painter {
	return &testCardPainter{title: settings.Title}
}

func (p *testCardPainter) paint(dst []byte, w, h int, _ uint64) {
	if p.base == nil || p.base.Bounds().Dx() != w || p.base.Bounds().Dy() != h {
		p.base = renderBaseFrameCanvas(w, h)
		p.canvas = image.NewRGBA(p.base.Bounds())
		p.face = p.newFace(h)
	}

	draw.Draw(p.canvas, p.canvas.Bounds(), p.base, image.Point{}, draw.Src)
	if p.face != nil {
		lineHeight := h / 4
		drawText(p.canvas, p.face, 5, lineHeight, "OFFSCREEN_TEST_CARD")
		drawText(p.canvas, p.face, 5, lineHeight*2, p.title)
		drawText(p.canvas, p.face, 5, lineHeight*3, timeNow().Format("2006-01-02 15:04:05.000"))
	}

	rgbaToBGRA(dst, p.canvas)
}

func (p *testCardPainter) newFace(h int) font.Face {
	if p.fontFailed {
		return nil
	}
	f, err := loadRegularFont()
	if err != nil {
		log.Error("unable to parse test card font: %v", err)
		p.fontFailed = true
		return nil
	}
	size := float64(h) / 10
	if size < 6 {
		size = 6
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		Hinting: font.HintingFull,
	})
}

func renderBaseFrameCanvas(w, h int) *image.RGBA {
	var hw, hh float64 = float64(w) / 2, float64(h) / 2
	r := math.Min(hw, hh) * 2 / 3
	θ := 2 * math.Pi / 3
	cr := &circle{hw - r*math.Sin(0), hh - r*math.Cos(0), r * 1.5}
	cg := &circle{hw - r*math.Sin(θ), hh - r*math.Cos(θ), r * 1.5}
	cb := &circle{hw - r*math.Sin(-θ), hh - r*math.Cos(-θ), r * 1.5}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.SetRGBA(x, y, color.RGBA{
				cr.Brightness(float64(x), float64(y)),
				cg.Brightness(float64(x), float64(y)),
				cb.Brightness(float64(x), float64(y)),
				255,
			})
		}
	}
	return img
}

func drawText(canvas *image.RGBA, face font.Face, x, y int, text string) {
	fontDrawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.White,
		Face: face,
	}
	fontDrawer.Dot = fixed.Point26_6{
		X: fixed.I(x),
		Y: fixed.I(y),
	}
	fontDrawer.DrawString(text)
}

func rgbaToBGRA(dst []byte, src *image.RGBA) {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		out := dst[y*w*4 : (y+1)*w*4]
		for i := 0; i < len(row); i += 4 {
			out[i+0] = row[i+2]
			out[i+1] = row[i+1]
			out[i+2] = row[i+0]
			out[i+3] = row[i+3]
		}
	}
}

type circle struct {
	X, Y, R float64
}

func (c *circle) Brightness(x, y float64) uint8 {
	var dx, dy float64 = c.X - x, c.Y - y
	d := math.Sqrt(dx*dx+dy*dy) / c.R
	if d > 1 {
		return 0
	}
	return 255
}
