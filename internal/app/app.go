// Package app is the command surface the presentation shell drives.
//
// Every method runs synchronously on the caller's goroutine; the shell
// calls them from its event loop and re-uploads the active canvas whenever
// Dirty reports true.
package app

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/sirupsen/logrus"

	"github.com/ha1tch/sketchpad/internal/canvas"
	"github.com/ha1tch/sketchpad/internal/config"
	"github.com/ha1tch/sketchpad/internal/export"
	"github.com/ha1tch/sketchpad/internal/logging"
	"github.com/ha1tch/sketchpad/internal/registry"
	"github.com/ha1tch/sketchpad/internal/stroke"
)

// App owns the canvas registry and routes input into it.
type App struct {
	reg      *registry.Registry
	strokes  *stroke.Translator
	exporter *export.Exporter
	log      logrus.FieldLogger
	dirty    bool
}

// New validates cfg and opens the first canvas. A nil logger discards
// output.
func New(cfg config.Config, log logrus.FieldLogger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.Discard()
	}
	level, err := export.ParseCompression(cfg.PNGCompression)
	if err != nil {
		return nil, err
	}

	penColor, eraserColor, bg := cfg.Colors()
	factory := func() *canvas.Canvas {
		return canvas.New(cfg.CanvasWidth, cfg.CanvasHeight,
			canvas.WithHistoryCapacity(cfg.HistoryCapacity),
			canvas.WithBackground(bg),
			canvas.WithPen(canvas.Pen{Color: penColor, Width: cfg.PenWidth}),
			canvas.WithEraser(canvas.Pen{Color: eraserColor, Width: cfg.PenWidth}),
		)
	}

	a := &App{
		reg: registry.New(registry.WithFactory(factory), registry.WithLogger(log)),
		exporter: &export.Exporter{
			Dir:   cfg.ExportDir,
			Level: level,
			Log:   log,
		},
		log:   log,
		dirty: true,
	}
	a.strokes = stroke.New(a.target, stroke.WithRedraw(a.markDirty))
	a.reg.Subscribe(func(ev registry.Event) {
		if ev.Kind == registry.EventSwitched {
			a.dirty = true
		}
	})
	a.reg.Create()
	return a, nil
}

func (a *App) target() stroke.Target {
	_, c := a.reg.Active()
	if c == nil {
		return nil
	}
	return c
}

func (a *App) markDirty() { a.dirty = true }

// Dirty reports whether the active canvas changed since the last ClearDirty.
func (a *App) Dirty() bool { return a.dirty }

// ClearDirty resets the redraw flag.
func (a *App) ClearDirty() { a.dirty = false }

// Active returns the active canvas.
func (a *App) Active() (registry.ID, *canvas.Canvas) { return a.reg.Active() }

// Canvases lists the open canvases in creation order.
func (a *App) Canvases() []registry.Entry { return a.reg.List() }

// Press starts a stroke.
func (a *App) Press(p image.Point) { a.strokes.Press(p) }

// Move continues a stroke.
func (a *App) Move(p image.Point, held stroke.Buttons) { a.strokes.Move(p, held) }

// Release ends a stroke.
func (a *App) Release() { a.strokes.Release() }

// Drawing reports whether a stroke is in progress.
func (a *App) Drawing() bool { return a.strokes.State() == stroke.Dragging }

// Undo reverts the active canvas by one step. Undoing with no history is a
// no-op. An error means a snapshot no longer fits its canvas.
func (a *App) Undo() error {
	id, c := a.reg.Active()
	ok, err := c.Undo()
	if err != nil {
		return fmt.Errorf("undo canvas %d: %w", int(id), err)
	}
	if ok {
		a.dirty = true
		a.log.WithFields(logrus.Fields{
			"canvas_id":   int(id),
			"history_len": c.HistoryLen(),
		}).Debug("Undo")
	}
	return nil
}

// Clear wipes the active canvas. It can be undone.
func (a *App) Clear() {
	_, c := a.reg.Active()
	c.Clear()
	a.dirty = true
}

// SetPenColor changes the active canvas pen colour.
func (a *App) SetPenColor(col color.RGBA) {
	_, c := a.reg.Active()
	c.SetPenColor(col)
}

// SetPenShape changes the tip of the active canvas pens.
func (a *App) SetPenShape(s canvas.PenShape) {
	_, c := a.reg.Active()
	c.SetPenShape(s)
}

// IncreaseWidth grows the active pen width by one, wrapping to 0 after 99.
func (a *App) IncreaseWidth() int {
	_, c := a.reg.Active()
	return c.AdjustWidth(1)
}

// DecreaseWidth shrinks the active pen width by one, wrapping to 99 below 0.
func (a *App) DecreaseWidth() int {
	_, c := a.reg.Active()
	return c.AdjustWidth(-1)
}

// NewCanvas opens a new canvas and makes it active.
func (a *App) NewCanvas() registry.ID {
	id, _ := a.reg.Create()
	// id was just created, Switch cannot fail
	_ = a.reg.Switch(id)
	return id
}

// SwitchCanvas makes id active.
func (a *App) SwitchCanvas(id registry.ID) error {
	return a.reg.Switch(id)
}

// DeleteCanvas closes id. It reports false without error when id is the
// only canvas left.
func (a *App) DeleteCanvas(id registry.ID) (bool, error) {
	err := a.reg.Delete(id)
	switch {
	case errors.Is(err, registry.ErrLastCanvas):
		a.log.WithField("canvas_id", int(id)).Debug("Refusing to delete the last canvas")
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

// Save stores the active canvas back into the registry and exports it as
// canvas<id>.png. It returns the written path.
func (a *App) Save() (string, error) {
	id, c := a.reg.Active()
	if err := a.reg.Update(id, c); err != nil {
		return "", err
	}
	path, err := a.exporter.Save(int(id), c.Image())
	if err != nil {
		a.log.WithError(err).WithField("canvas_id", int(id)).Error("Export failed")
		return "", err
	}
	return path, nil
}

// ColorLabel is the toolbar text for the pen colour.
func (a *App) ColorLabel() string {
	_, c := a.reg.Active()
	return "Color " + canvas.HexColor(c.Pen().Color)
}

// SizeLabel is the toolbar text for the pen width.
func (a *App) SizeLabel() string {
	_, c := a.reg.Active()
	return fmt.Sprintf("Size %d", c.Pen().Width)
}
