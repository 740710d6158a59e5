// Command atlasdemo packs generated icons into an atlas, simulates a
// surface loss and saves the recovered atlas as PNG.
package main

import (
	"flag"
	"image"
	"image/color"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/gogpu/gg"
	"github.com/gogpu/iconatlas"
	"github.com/gogpu/iconatlas/surface"
)

func main() {
	var (
		configPath = flag.String("config", "", "atlas config file (YAML)")
		backend    = flag.String("backend", "", "surface backend (default: best available)")
		icons      = flag.Int("icons", 24, "number of icons to pack")
		output     = flag.String("output", "atlas.png", "output file")
		verbose    = flag.Bool("v", false, "log atlas events")
	)
	flag.Parse()

	if *verbose {
		iconatlas.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg := iconatlas.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = iconatlas.LoadConfig(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	var opts []iconatlas.Option
	if *backend != "" {
		opts = append(opts, iconatlas.WithBackend(*backend))
	}
	atlas, err := iconatlas.New(cfg, opts...)
	if err != nil {
		log.Fatalf("Failed to create atlas: %v", err)
	}
	defer atlas.Dispose()

	handles := packIcons(atlas, *icons)

	// Free every third icon and fill the holes again.
	for i := 0; i < len(handles); i += 3 {
		atlas.ReleaseIcon(handles[i])
	}
	refilled := packIcons(atlas, len(handles)/3+1)
	log.Printf("Refilled %d released slots", len(refilled))

	// Simulate the platform dropping the texture; the next tick recreates
	// it and every icon redraws itself.
	if inv, ok := atlas.Surface().(surface.Invalidator); ok {
		inv.Invalidate()
	}
	iconatlas.Tick()

	st := atlas.Stats()
	log.Printf("Atlas %dx%d: %d/%d icons, %d free, revision %d",
		cfg.Width, cfg.Height, st.Live, st.Capacity, st.Free, atlas.Revision())

	snap := atlas.Surface().Snapshot()
	if snap == nil {
		log.Fatalf("Atlas surface not ready: %v", atlas.Ready())
	}
	if err := gg.NewContextForImage(snap).SavePNG(*output); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Atlas saved to %s\n", *output)
}

// packIcons allocates up to n icons, each with its own look.
func packIcons(atlas *iconatlas.Atlas, n int) []iconatlas.Handle {
	cfg := atlas.Config()
	var handles []iconatlas.Handle
	for i := 0; i < n; i++ {
		img := drawIcon(cfg.IconWidth, cfg.IconHeight, float64(i*37%360))
		props := iconProperties(i)

		var h iconatlas.Handle
		h, _ = atlas.AllocateIcon(func() error {
			atlas.Draw(h, img, iconatlas.Rect{}, props)
			return nil
		})
		if !h.IsValid() {
			log.Printf("Atlas full after %d icons", i)
			break
		}
		atlas.Draw(h, img, iconatlas.Rect{}, props)
		handles = append(handles, h)
	}
	return handles
}

func iconProperties(i int) iconatlas.DrawProperties {
	props := iconatlas.DefaultDrawProperties()
	switch i % 4 {
	case 1:
		return props.WithColor(color.NRGBA{R: 255, G: 220, B: 180, A: 255})
	case 2:
		return props.WithSaturation(0)
	case 3:
		return props.WithSliced(4, 4, 4, 4)
	}
	return props
}

// drawIcon renders a ring badge with a star on it.
func drawIcon(w, h int, hue float64) image.Image {
	dc := gg.NewContext(w, h)
	defer func() { _ = dc.Close() }()

	cx, cy := float64(w)/2, float64(h)/2
	r := math.Min(cx, cy) - 2

	dc.SetColor(gg.HSL(hue, 0.7, 0.5))
	dc.DrawCircle(cx, cy, r)
	_ = dc.Fill()

	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(2)
	dc.DrawCircle(cx, cy, r-1)
	_ = dc.Stroke()

	const points = 5
	for i := 0; i < points*2; i++ {
		angle := float64(i) * math.Pi / points
		rr := r * 0.6
		if i%2 == 1 {
			rr = r * 0.25
		}
		x := cx + rr*math.Cos(angle-math.Pi/2)
		y := cy + rr*math.Sin(angle-math.Pi/2)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
	_ = dc.Fill()

	return cloneImage(dc.Image())
}

// cloneImage detaches the pixels from the context before it is closed.
func cloneImage(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			dst.Set(x, y, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}
