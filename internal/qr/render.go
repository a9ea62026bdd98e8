package qr

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/skip2/go-qrcode"
)

var (
	ErrInvalidOptions    = errors.New("invalid render options")
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// Format selects the encoding of a rendered code
type Format string

const (
	FormatPNG    Format = "buffer"
	FormatBase64 Format = "base64"
	FormatSVG    Format = "svg"
)

// ParseFormat maps a query value to a Format; empty means PNG
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatPNG:
		return FormatPNG, nil
	case FormatBase64:
		return FormatBase64, nil
	case FormatSVG:
		return FormatSVG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// ContentType returns the MIME type of the rendered bytes
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatBase64:
		return "text/plain"
	default:
		return "image/png"
	}
}

// Options controls how a code is drawn
type Options struct {
	Width           int    `validate:"min=64,max=4096"`
	Margin          int    `validate:"min=0,max=16"`
	Foreground      string `validate:"required,hexcolor"`
	Background      string `validate:"required,hexcolor"`
	ErrorCorrection string `validate:"required,eq=H"`
}

// DefaultOptions matches the images stored for pet tags
func DefaultOptions() Options {
	return Options{
		Width:           300,
		Margin:          2,
		Foreground:      "#000000",
		Background:      "#FFFFFF",
		ErrorCorrection: "H",
	}
}

// RenderError wraps any failure to produce an image
type RenderError struct {
	Op  string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to render qr %s: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Renderer draws QR codes at the highest error-correction level
type Renderer struct {
	validate *validator.Validate
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{validate: validator.New()}
}

// Render encodes content in the requested format
func (r *Renderer) Render(content string, format Format, opts Options) ([]byte, error) {
	switch format {
	case FormatPNG:
		return r.PNG(content, opts)
	case FormatBase64:
		s, err := r.Base64(content, opts)
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	case FormatSVG:
		s, err := r.SVG(content, opts)
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	default:
		return nil, &RenderError{Op: "format", Err: fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)}
	}
}

// PNG renders content to PNG bytes exactly opts.Width pixels wide
func (r *Renderer) PNG(content string, opts Options) ([]byte, error) {
	bits, fg, bg, err := r.prepare(content, opts)
	if err != nil {
		return nil, err
	}

	img := rasterize(bits, opts.Width, opts.Margin, fg, bg)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, &RenderError{Op: "png", Err: err}
	}
	return buf.Bytes(), nil
}

// Base64 renders content to a PNG data URL
func (r *Renderer) Base64(content string, opts Options) (string, error) {
	data, err := r.PNG(content, opts)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}

// SVG renders content as a vector image
func (r *Renderer) SVG(content string, opts Options) (string, error) {
	bits, _, _, err := r.prepare(content, opts)
	if err != nil {
		return "", err
	}

	n := len(bits) + 2*opts.Margin
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" shape-rendering="crispEdges">`,
		opts.Width, opts.Width, n, n)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="%s"/>`, n, n, opts.Background)
	b.WriteString(`<path fill="`)
	b.WriteString(opts.Foreground)
	b.WriteString(`" d="`)
	for y, row := range bits {
		for x := 0; x < len(row); {
			if !row[x] {
				x++
				continue
			}
			start := x
			for x < len(row) && row[x] {
				x++
			}
			fmt.Fprintf(&b, "M%d %dh%dv1h-%dz", start+opts.Margin, y+opts.Margin, x-start, x-start)
		}
	}
	b.WriteString(`"/></svg>`)
	return b.String(), nil
}

func (r *Renderer) prepare(content string, opts Options) ([][]bool, color.Color, color.Color, error) {
	if err := r.validate.Struct(opts); err != nil {
		return nil, nil, nil, &RenderError{Op: "options", Err: fmt.Errorf("%w: %v", ErrInvalidOptions, err)}
	}
	fg, err := parseHexColor(opts.Foreground)
	if err != nil {
		return nil, nil, nil, &RenderError{Op: "options", Err: fmt.Errorf("%w: %v", ErrInvalidOptions, err)}
	}
	bg, err := parseHexColor(opts.Background)
	if err != nil {
		return nil, nil, nil, &RenderError{Op: "options", Err: fmt.Errorf("%w: %v", ErrInvalidOptions, err)}
	}

	code, err := qrcode.New(content, qrcode.Highest)
	if err != nil {
		return nil, nil, nil, &RenderError{Op: "encode", Err: err}
	}
	code.DisableBorder = true
	return code.Bitmap(), fg, bg, nil
}

// rasterize scales the module grid into a width x width image, keeping at
// least margin modules of quiet zone and centring the symbol.
func rasterize(bits [][]bool, width, margin int, fg, bg color.Color) image.Image {
	modules := len(bits) + 2*margin
	scale := width / modules
	if scale < 1 {
		scale = 1
	}
	size := width
	if modules*scale > size {
		size = modules * scale
	}
	offset := (size - len(bits)*scale) / 2

	img := image.NewPaletted(image.Rect(0, 0, size, size), color.Palette{bg, fg})
	for y, row := range bits {
		for x, dark := range row {
			if !dark {
				continue
			}
			px, py := offset+x*scale, offset+y*scale
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.SetColorIndex(px+dx, py+dy, 1)
				}
			}
		}
	}
	return img
}

func parseHexColor(s string) (color.Color, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 || len(h) == 4 {
		var expanded strings.Builder
		for _, c := range h {
			expanded.WriteRune(c)
			expanded.WriteRune(c)
		}
		h = expanded.String()
	}
	if len(h) != 6 && len(h) != 8 {
		return nil, fmt.Errorf("bad colour %q", s)
	}
	raw, err := hex.DecodeString(h)
	if err != nil {
		return nil, fmt.Errorf("bad colour %q: %w", s, err)
	}
	c := color.NRGBA{R: raw[0], G: raw[1], B: raw[2], A: 0xff}
	if len(raw) == 4 {
		c.A = raw[3]
	}
	return c, nil
}
