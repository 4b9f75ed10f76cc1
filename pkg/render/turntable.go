package render

import (
	"fmt"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/tinyrender/pkg/math3d"
	"github.com/taigrr/tinyrender/pkg/models"
)

// TurntableFPS is the frame rate turntable easing is computed at.
const TurntableFPS = 24

// TurntableAngles returns frames yaw angles easing from 0 toward target
// with a critically damped spring. The first angle is always 0.
func TurntableAngles(frames, fps int, target float64) []float64 {
	if frames <= 0 {
		return nil
	}
	// Frequency 4.0 = moderate speed, damping 1.0 = critically damped (no overshoot)
	spring := harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0)

	angles := make([]float64, frames)
	var pos, vel float64
	for i := range angles {
		angles[i] = pos
		pos, vel = spring.Update(pos, vel, target)
	}
	return angles
}

// RenderTurntable renders one image per turntable frame, rotating a copy of
// mesh about Y, and writes them as baseName_000.png, baseName_001.png and
// so on. It returns the written paths. onFrame may be nil.
func RenderTurntable(mesh *models.Mesh, width, height int, baseName string, angles []float64, cfg Config, onFrame func(done, total int)) ([]string, error) {
	if err := checkPass(mesh, width, height, cfg, true); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(angles))
	for i, angle := range angles {
		frame := mesh.Clone()
		frame.Transform(math3d.RotateY(angle))

		name := fmt.Sprintf("%s_%03d", baseName, i)
		if err := RenderToFile(width, height, name, frame, cfg); err != nil {
			return paths, fmt.Errorf("frame %d: %w", i, err)
		}
		paths = append(paths, name+".png")
		if onFrame != nil {
			onFrame(i+1, len(angles))
		}
	}
	return paths, nil
}
