// Package viewer is the interactive rounded box demo: it generates a box,
// uploads it through the generator's Sink interface and tumbles it on screen.
package viewer

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/roundbox/internal/config"
	"github.com/Faultbox/roundbox/internal/engine/camera"
	"github.com/Faultbox/roundbox/internal/engine/debug"
	"github.com/Faultbox/roundbox/internal/engine/gpumesh"
	"github.com/Faultbox/roundbox/internal/engine/input"
	"github.com/Faultbox/roundbox/internal/engine/renderer"
	"github.com/Faultbox/roundbox/internal/engine/shader"
	"github.com/Faultbox/roundbox/internal/engine/texture"
	"github.com/Faultbox/roundbox/internal/engine/window"
	"github.com/Faultbox/roundbox/internal/export"
	"github.com/Faultbox/roundbox/internal/logger"
	"github.com/Faultbox/roundbox/pkg/attrib"
	"github.com/Faultbox/roundbox/pkg/roundbox"
)

// Shading modes as passed to the fragment shader.
const (
	shadeFace int32 = iota
	shadeUV
	shadeNormal
)

// lightPos is the point light of the demo scene.
var lightPos = mgl32.Vec3{4, -4, 8}

// orientationSize is the edge length of the built-in uv test texture.
const orientationSize = 512

var (
	boundsColor = mgl32.Vec3{1, 0.85, 0.2}
	normalColor = mgl32.Vec3{0.3, 0.9, 1}
)

func shadingMode(name string) (int32, error) {
	switch name {
	case config.ShadingFace:
		return shadeFace, nil
	case config.ShadingUV:
		return shadeUV, nil
	case config.ShadingNormal:
		return shadeNormal, nil
	}
	return 0, fmt.Errorf("unknown shading %q", name)
}

func faceColors() []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(export.FaceColors))
	for i, c := range export.FaceColors {
		out[i] = mgl32.Vec3(c)
	}
	return out
}

// Viewer owns the window, GL resources and animation state.
type Viewer struct {
	cfg *config.Config
	log *zap.Logger

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	program  *shader.Program
	mesh     *gpumesh.Mesh
	texture  *texture.Texture
	bounds   *debug.Lines
	normals  *debug.Lines
	shots    *debug.Screenshots
	camera   *camera.OrbitCamera
	spin     *Spin
	shading  int32
	box      *roundbox.Mesh
	picked   chan string

	showBounds  bool
	showNormals bool
	running     bool
}

// New opens the window, generates the configured box and uploads it.
func New(cfg *config.Config) (*Viewer, error) {
	shading, err := shadingMode(cfg.Viewer.Shading)
	if err != nil {
		return nil, err
	}

	v := &Viewer{
		cfg:     cfg,
		log:     logger.Named("viewer"),
		input:   input.New(),
		camera:  camera.NewOrbitCamera(),
		spin:    NewSpin(cfg.Viewer.RotationSpeed),
		shading: shading,
		shots:   debug.NewScreenshots(cfg.Viewer.ScreenshotDir, "roundbox"),
		picked:  make(chan string, 1),
	}

	v.window, err = window.New(window.Config{
		Title:   "roundbox",
		Width:   cfg.Viewer.Width,
		Height:  cfg.Viewer.Height,
		VSync:   cfg.Viewer.VSync,
		Samples: 4,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	width, height := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:       width,
		Height:      height,
		Background:  cfg.Viewer.Background,
		Wireframe:   cfg.Viewer.Wireframe,
		Multisample: true,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.program, err = shader.CompileProgram(vertexShader, fragmentShader)
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to compile shaders: %w", err)
	}

	if err := v.loadTexture(cfg.Viewer.Texture); err != nil {
		v.Close()
		return nil, err
	}

	if v.bounds, err = debug.NewLines(); err != nil {
		v.Close()
		return nil, err
	}
	if v.normals, err = debug.NewLines(); err != nil {
		v.Close()
		return nil, err
	}

	if err := v.rebuild(); err != nil {
		v.Close()
		return nil, err
	}

	v.log.Info("viewer initialized", zap.String("shading", cfg.Viewer.Shading))
	return v, nil
}

// loadTexture uploads the image at path, or the built-in orientation pattern
// when path is empty. The current texture is kept if loading fails.
func (v *Viewer) loadTexture(path string) error {
	var (
		img *image.RGBA
		err error
	)
	if path != "" {
		img, err = texture.Load(path)
	} else {
		img, err = texture.Orientation(orientationSize)
	}
	if err != nil {
		return fmt.Errorf("failed to load texture: %w", err)
	}
	if v.texture != nil {
		v.texture.Delete()
	}
	v.texture = texture.Upload(img)
	w, h := v.texture.Size()
	v.log.Debug("texture uploaded", zap.String("path", path), zap.Int("width", w), zap.Int("height", h))
	return nil
}

// pickTexture opens a native file dialog. The dialog blocks, so it runs on
// its own goroutine and hands the path to the render loop.
func (v *Viewer) pickTexture() {
	go func() {
		path, err := dialog.File().
			Filter("Images", "png", "jpg", "jpeg", "bmp").
			Filter("All Files", "*").
			Title("Open Texture").
			Load()
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				v.log.Warn("file dialog failed", zap.Error(err))
			}
			return
		}
		select {
		case v.picked <- path:
		default:
		}
	}()
}

// applyPicked loads a texture chosen in the dialog, if any.
func (v *Viewer) applyPicked() {
	select {
	case path := <-v.picked:
		if err := v.loadTexture(path); err != nil {
			v.log.Error("texture not loaded", zap.String("path", path), zap.Error(err))
			return
		}
		v.cfg.Viewer.Texture = path
		v.shading = shadeUV
	default:
	}
}

// rebuild regenerates the box from the current config and re-uploads it.
func (v *Viewer) rebuild() error {
	gen := roundbox.Generator{
		Logger:  logger.Named("roundbox"),
		Workers: v.cfg.Generator.Workers,
	}
	if v.mesh == nil {
		v.mesh = &gpumesh.Mesh{}
	}
	box, err := gen.Build(v.cfg.Box.Spec(), v.mesh)
	if err != nil {
		return fmt.Errorf("failed to build box: %w", err)
	}
	v.box = box

	b := box.Bounds
	v.camera.FitToBounds(mgl32.Vec3(b.Min.Array()), mgl32.Vec3(b.Max.Array()))

	size := b.Size()
	v.bounds.Set(debug.BoundsLines(b, 0))
	v.normals.Set(debug.NormalLines(box, 0.1*size.MinComponent()))
	v.updateTitle(0)
	return nil
}

func (v *Viewer) updateTitle(fps int) {
	title := fmt.Sprintf("roundbox  n=%d r=%.2f  %d verts / %d tris",
		v.cfg.Box.Subdivisions, v.cfg.Box.Radius, v.box.VertexCount(), v.box.TriangleCount())
	if fps > 0 {
		title += fmt.Sprintf("  %d fps", fps)
	}
	v.window.SetTitle(title)
}

// Run runs the main loop until the window is closed or Escape is pressed.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting render loop")

	for v.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		if v.input.Update() {
			v.running = false
			break
		}
		if err := v.handleEvents(); err != nil {
			return err
		}
		v.applyPicked()

		v.spin.Advance(dt)
		v.render()
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps", zap.Int("count", frameCount), zap.Float32("dt_ms", dt*1000))
			v.updateTitle(frameCount)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handleEvents() error {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			v.renderer.Resize(v.window.DrawableSize())
		case input.EventMouseDrag:
			v.camera.HandleDrag(event.DX, event.DY)
		case input.EventMouseWheel:
			v.camera.HandleZoom(event.DY)
		case input.EventKeyDown:
			if err := v.handleKey(event.Key); err != nil {
				return err
			}
		}
	}
	return nil
}

func (v *Viewer) handleKey(key sdl.Scancode) error {
	switch key {
	case sdl.SCANCODE_1:
		v.shading = shadeFace
	case sdl.SCANCODE_2:
		v.shading = shadeUV
	case sdl.SCANCODE_3:
		v.shading = shadeNormal
	case sdl.SCANCODE_W:
		v.renderer.SetWireframe(!v.renderer.Wireframe())
	case sdl.SCANCODE_SPACE:
		v.spin.Paused = !v.spin.Paused
	case sdl.SCANCODE_R:
		v.spin.Reset()
	case sdl.SCANCODE_B:
		v.showBounds = !v.showBounds
	case sdl.SCANCODE_N:
		v.showNormals = !v.showNormals
	case sdl.SCANCODE_O:
		v.pickTexture()
	case sdl.SCANCODE_P, sdl.SCANCODE_F12:
		v.screenshot()
	case sdl.SCANCODE_EQUALS, sdl.SCANCODE_KP_PLUS:
		return v.setSubdivisions(v.cfg.Box.Subdivisions + 1)
	case sdl.SCANCODE_MINUS, sdl.SCANCODE_KP_MINUS:
		return v.setSubdivisions(v.cfg.Box.Subdivisions - 1)
	}
	return nil
}

// setSubdivisions regenerates the box at a new level, keeping the old mesh
// when the level is rejected.
func (v *Viewer) setSubdivisions(n int) error {
	if n < 1 || n > 64 {
		return nil
	}
	old := v.cfg.Box.Subdivisions
	v.cfg.Box.Subdivisions = n
	if err := v.rebuild(); err != nil {
		v.cfg.Box.Subdivisions = old
		return err
	}
	v.log.Info("subdivisions changed", zap.Int("subdivisions", n))
	return nil
}

func (v *Viewer) screenshot() {
	w, h := v.window.DrawableSize()
	path, err := v.shots.Capture(w, h)
	if err != nil {
		v.log.Error("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

func (v *Viewer) render() {
	v.renderer.Begin()

	model := v.spin.Matrix()
	p := v.program
	p.Use()
	p.SetMat4("uModel", model)
	p.SetMat4("uView", v.camera.ViewMatrix())
	p.SetMat4("uProjection", v.camera.ProjectionMatrix(v.renderer.Aspect()))
	p.SetMat3("uNormalMatrix", model.Mat3().Inv().Transpose())
	p.SetVec3("uLightPos", lightPos)
	p.SetVec3("uCameraPos", v.camera.Position())
	p.SetVec3Array("uFaceColors", faceColors())
	p.SetInt("uShading", v.shading)
	p.SetInt("uHasUV", boolInt(v.mesh.Has(attrib.UV)))
	p.SetInt("uHasFace", boolInt(v.mesh.Has(attrib.FaceID)))
	p.SetInt("uTexture", 0)
	v.texture.Bind(0)

	v.mesh.Draw()

	mvp := v.camera.ProjectionMatrix(v.renderer.Aspect()).Mul4(v.camera.ViewMatrix()).Mul4(model)
	if v.showBounds {
		v.bounds.Draw(mvp, boundsColor)
	}
	if v.showNormals {
		v.normals.Draw(mvp, normalColor)
	}
	v.renderer.End()
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// Close releases GL resources and the window.
func (v *Viewer) Close() {
	if v.mesh != nil {
		v.mesh.Delete()
	}
	if v.texture != nil {
		v.texture.Delete()
	}
	if v.bounds != nil {
		v.bounds.Delete()
	}
	if v.normals != nil {
		v.normals.Delete()
	}
	if v.program != nil {
		v.program.Delete()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
