// Command colorsplash lets the user select regions of an image inside its
// detected edges and writes the selection in colour over a grayscale
// background, or the other way round.
//
// Frames are written to the -frames directory; keep them open in an image
// viewer and type commands on stdin.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/setanarut/colorsplash"
	"github.com/setanarut/colorsplash/console"
	"github.com/setanarut/colorsplash/edge"
	"github.com/setanarut/colorsplash/session"
	"github.com/setanarut/colorsplash/utils"
)

func main() {
	def := colorsplash.DefaultOptions()
	var (
		in      = flag.String("in", "", "input image (asked for when empty)")
		lo      = flag.Int("min", def.Thresholds.Min, "initial min edge threshold")
		hi      = flag.Int("max", def.Thresholds.Max, "initial max edge threshold")
		auto    = flag.Bool("auto", false, "derive initial thresholds from the median intensity")
		sigma   = flag.Float64("sigma", def.Sigma, "gaussian pre-blur for edge detection (0 = off)")
		frames  = flag.String("frames", filepath.Join(os.TempDir(), "colorsplash"), "directory for rendered frames")
		palette = flag.String("palette", "", "write a swatch of the final foreground palette to this file")
		k       = flag.Int("k", 5, "palette size (0 disables the palette report)")
		useKM   = flag.Bool("kmeans", false, "use kmeans instead of dominant colors for the palette")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	colorsplash.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := os.MkdirAll(*frames, 0o755); err != nil {
		log.Fatalf("frames dir: %v", err)
	}
	disp := console.New(os.Stdin, os.Stdout, *frames)

	img, err := loadImage(disp, *in)
	if err != nil {
		log.Fatal(err)
	}
	rgb := colorsplash.RGBFromImage(img)

	th := colorsplash.NewThresholds(*lo, *hi)
	if *auto {
		l, h := edge.AutoThresholds(colorsplash.Intensity(colorsplash.Grayscale(rgb)), edge.DefaultAutoSigma)
		th = colorsplash.NewThresholds(l, h)
	}
	colorsplash.Logger().Info("session start",
		"w", rgb.W, "h", rgb.H, "min", th.Min, "max", th.Max, "frames", *frames)

	method := utils.PaletteMethodDominantColor
	if *useKM {
		method = utils.PaletteMethodKMeans
	}
	detector := edge.Canny{Sigma: *sigma}
	m := &session.Machine{
		Detector:      detector,
		Display:       disp,
		Sink:          utils.ImageSink{},
		PaletteSize:   *k,
		PaletteMethod: method,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	final, err := m.Run(ctx, session.NewState(rgb, detector, th))
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}

	if *palette != "" && *k > 0 {
		region := utils.RegionImage(final.ForegroundImage().Image(), func(x, y int) bool {
			return final.Mask.CategoryAt(x, y) == colorsplash.CategoryFill
		})
		p := utils.ExtractPalette(region, *k, method)
		utils.SortPaletteByBrightness(p)
		if err := utils.SavePalette(p, 64, *palette); err != nil {
			colorsplash.Logger().Warn("palette not written", "err", err)
		}
	}
}

// loadImage reads path, or keeps asking for one until an image decodes.
func loadImage(disp *console.Display, path string) (image.Image, error) {
	for {
		path = strings.TrimSpace(path)
		if path != "" {
			img, err := utils.ReadImage(path)
			if err == nil {
				colorsplash.Logger().Info("image loaded", "path", path)
				return img, nil
			}
			if !errors.Is(err, utils.ErrNotFound) && !errors.Is(err, utils.ErrDecode) {
				return nil, err
			}
			if err := disp.Say("Invalid file name."); err != nil {
				return nil, err
			}
			colorsplash.Logger().Debug("load failed", "err", err)
		}
		var err error
		path, err = disp.Ask("Where can I access the image that will be changed?")
		if err != nil {
			return nil, fmt.Errorf("no input image: %w", err)
		}
	}
}
