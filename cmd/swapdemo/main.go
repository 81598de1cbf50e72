// Command swapdemo runs a client and a compositor over one swap chain and
// saves a contact sheet of the frames the compositor displayed.
package main

import (
	"context"
	"errors"
	"flag"
	"image"
	"image/color"
	"image/png"
	"log"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/buffer"
	"github.com/gogpu/compositor/pattern"
)

func main() {
	var (
		config    = flag.String("config", "", "YAML swap chain config (optional)")
		buffers   = flag.Int("buffers", 3, "buffer count, 2 or 3")
		frames    = flag.Int("frames", 120, "frames to render")
		renderFPS = flag.Float64("render-fps", 90, "client render rate")
		refreshHz = flag.Float64("refresh-hz", 60, "compositor refresh rate")
		cols      = flag.Int("cols", 8, "contact sheet columns")
		output    = flag.String("output", "swapdemo.png", "output file")
		verbose   = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		compositor.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	cfg := compositor.DefaultConfig()
	cfg.Width, cfg.Height = 64, 48
	cfg.Buffers = *buffers
	if *config != "" {
		var err error
		if cfg, err = compositor.LoadConfigFile(*config); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	sc, err := compositor.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to create swap chain: %v", err)
	}
	defer sc.Close()

	sheet := newSheet(*cols, cfg.Width, cfg.Height, *frames)

	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		defer sc.Shutdown()
		return runClient(ctx, sc.Client(), *frames, rate.Limit(*renderFPS))
	})
	g.Go(func() error {
		return runCompositor(ctx, sc.Compositor(), sheet, rate.Limit(*refreshHz))
	})
	if err := g.Wait(); err != nil {
		log.Fatalf("Demo failed: %v", err)
	}

	if err := sc.Validate(); err != nil {
		log.Fatalf("Swap chain inconsistent: %v", err)
	}
	if err := savePNG(*output, sheet.img); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	s := sc.Stats()
	log.Printf("Rendered %d frames, composited %d (%d reused, %d client waits)\n",
		s.ClientReleases, s.CompositorAcquires, s.Steals, s.ClientWaits)
	log.Printf("Contact sheet saved to %s\n", *output)
}

// runClient renders numbered solid frames at the given rate.
func runClient(ctx context.Context, client *compositor.ClientHandle, frames int, r rate.Limit) error {
	limiter := rate.NewLimiter(r, 1)
	for seq := 1; seq <= frames; seq++ {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		err := client.RenderContext(ctx, func(b *buffer.Buffer) error {
			if err := (pattern.Solid{Color: frameColor(seq)}).Draw(b); err != nil {
				return err
			}
			return pattern.Stamp(b, uint32(seq))
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// runCompositor shows the latest frame once per refresh until shutdown.
func runCompositor(ctx context.Context, comp *compositor.CompositorHandle, s *sheet, r rate.Limit) error {
	limiter := rate.NewLimiter(r, 1)
	var last uint32
	for {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		err := comp.Composite(func(b *buffer.Buffer) error {
			seq, err := pattern.ReadStamp(b)
			if err != nil {
				return err
			}
			if seq == 0 || seq == last {
				// Nothing new since the last refresh.
				return nil
			}
			last = seq
			return s.add(b)
		})
		switch {
		case errors.Is(err, compositor.ErrShutdown):
			return nil
		case err != nil:
			return err
		}
	}
}

func frameColor(seq int) color.RGBA {
	return color.RGBA{
		R: uint8(seq * 37),
		G: uint8(255 - seq*11),
		B: uint8(seq * 5),
		A: 255,
	}
}

// sheet is a grid of displayed frames.
type sheet struct {
	img   *image.RGBA
	cols  int
	cellW int
	cellH int
	next  int
	cells int
}

func newSheet(cols, w, h, frames int) *sheet {
	cols = max(cols, 1)
	rows := max((frames+cols-1)/cols, 1)
	return &sheet{
		img:   image.NewRGBA(image.Rect(0, 0, cols*w, rows*h)),
		cols:  cols,
		cellW: w,
		cellH: h,
		cells: cols * rows,
	}
}

func (s *sheet) add(b *buffer.Buffer) error {
	if s.next >= s.cells {
		return nil
	}
	x, y := s.next%s.cols*s.cellW, s.next/s.cols*s.cellH
	s.next++
	return pattern.Blit(s.img, image.Rect(x, y, x+s.cellW, y+s.cellH), b)
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
