// tinyrender - software rasterizer
// Renders a textured OBJ or glTF model to a PNG with a flat-shaded,
// z-buffered scanline pipeline.
//
// Usage:
//
//	tinyrender -texture diffuse.png -width 800 -height 800 -out head model.obj
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/taigrr/tinyrender/pkg/models"
	"github.com/taigrr/tinyrender/pkg/render"
)

var (
	texturePath = flag.String("texture", "", "Path to texture image (required for OBJ models)")
	width       = flag.Int("width", 800, "Output width in pixels")
	height      = flag.Int("height", 800, "Output height in pixels")
	outBase     = flag.String("out", "output", "Output base name (.png is appended)")
	configPath  = flag.String("config", "", "YAML render config")
	writeConfig = flag.String("write-config", "", "Write the effective config to this path and exit")
	workers     = flag.Int("workers", 0, "Row bands to fill in parallel (0 = use config)")
	rowFix      = flag.Bool("row-fix", false, "Sample the computed texture row without the -1 offset")
	wireframe   = flag.Bool("wireframe", false, "Draw triangle edges instead of filled triangles")
	fit         = flag.Bool("fit", false, "Center the model and scale it into [-1,1]")
	turntable   = flag.Int("turntable", 0, "Render this many eased turntable frames")
	preview     = flag.Int("preview", 0, "Print a terminal preview this many columns wide")
	showBar     = flag.Bool("progress", false, "Show a progress bar")
	verbose     = flag.Bool("v", false, "Debug logging")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "tinyrender - software rasterizer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: tinyrender [options] <model.obj|model.glb|model.gltf>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	render.SetLogger(logger)

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *writeConfig != "" {
		if err := render.SaveConfig(*writeConfig, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := checkModes(*turntable, *wireframe, *preview); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if err := run(flag.Arg(0), cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// ErrFlagConflict is returned for flag combinations that cannot be honored
// together.
var ErrFlagConflict = errors.New("conflicting flags")

// checkModes rejects -turntable alongside the single-image output flags.
func checkModes(turntable int, wireframe bool, preview int) error {
	if turntable <= 0 {
		return nil
	}
	if wireframe {
		return fmt.Errorf("%w: -turntable renders filled frames and cannot be combined with -wireframe", ErrFlagConflict)
	}
	if preview > 0 {
		return fmt.Errorf("%w: -turntable writes frame files and cannot be combined with -preview", ErrFlagConflict)
	}
	return nil
}

// loadConfig reads the config file, if any, and applies flag overrides.
func loadConfig() (render.Config, error) {
	cfg := render.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = render.LoadConfig(*configPath)
		if err != nil {
			return render.Config{}, err
		}
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *rowFix {
		cfg.TextureRowFix = true
	}
	return cfg, cfg.Validate()
}

func run(modelPath string, cfg render.Config) error {
	mesh, err := models.Load(modelPath, *texturePath)
	if err != nil {
		return err
	}
	if *fit {
		mesh.FitUnitCube()
	}
	slog.Info("loaded model",
		"name", mesh.Name,
		"vertices", mesh.VertexCount(),
		"triangles", mesh.TriangleCount(),
		"texture", fmt.Sprintf("%dx%d", mesh.Texture.Width, mesh.Texture.Height),
	)

	if *turntable > 0 {
		return runTurntable(mesh, cfg)
	}

	if *width <= 0 || *height <= 0 {
		return fmt.Errorf("%w: %dx%d", render.ErrInvalidSize, *width, *height)
	}
	fb := render.NewFramebuffer(*width, *height)
	r := render.NewRasterizer(fb, cfg)

	var bar *progressbar.ProgressBar
	if *showBar {
		total := mesh.TriangleCount()
		if !*wireframe {
			total = r.ProgressTotal(mesh)
		}
		bar = progressbar.Default(int64(total), "rasterizing")
		defer bar.Close()
		r.Progress = func(done, _ int) {
			_ = bar.Set(done)
		}
	}

	if *wireframe {
		r.DrawMeshWireframe(mesh, render.ColorWhite)
	} else {
		stats := r.DrawMesh(mesh)
		slog.Info("rasterized",
			"drawn", stats.FacesDrawn,
			"culled", stats.FacesCulled,
			"pixels", stats.PixelsWritten,
		)
	}
	fb.FlipVertical()

	path := *outBase + ".png"
	if err := fb.SavePNG(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	slog.Info("wrote image", "path", path)

	if *preview > 0 {
		fmt.Println(render.Preview(fb, *preview))
	}
	return nil
}

func runTurntable(mesh *models.Mesh, cfg render.Config) error {
	angles := render.TurntableAngles(*turntable, render.TurntableFPS, 2*math.Pi)

	var onFrame func(done, total int)
	if *showBar {
		bar := progressbar.Default(int64(len(angles)), "frames")
		defer bar.Close()
		onFrame = func(int, int) {
			_ = bar.Add(1)
		}
	}

	paths, err := render.RenderTurntable(mesh, *width, *height, *outBase, angles, cfg, onFrame)
	if err != nil {
		return err
	}
	slog.Info("wrote turntable", "frames", len(paths), "first", paths[0], "last", paths[len(paths)-1])
	return nil
}
