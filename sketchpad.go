package main

import (
	"flag"
	"fmt"
	"image"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/sirupsen/logrus"

	"github.com/ha1tch/sketchpad/internal/app"
	"github.com/ha1tch/sketchpad/internal/canvas"
	"github.com/ha1tch/sketchpad/internal/config"
	"github.com/ha1tch/sketchpad/internal/logging"
	"github.com/ha1tch/sketchpad/internal/registry"
	"github.com/ha1tch/sketchpad/internal/stroke"
)

const (
	screenWidth   = 800
	screenHeight  = 600
	fontSize      = 10
	toolbarHeight = 40
	viewX         = 10
	viewY         = toolbarHeight + 10
	viewWidth     = 680
	viewHeight    = 480
	listX         = viewX + viewWidth + 10
)

// Toolbar actions
type Action int

const (
	ActionUndo Action = iota
	ActionColor
	ActionSize
	ActionGrow
	ActionShrink
	ActionShape
	ActionSave
	ActionNew
	ActionClear
)

// GUI Control types
type Button struct {
	rect     rl.Rectangle
	text     string
	hover    bool
	selected bool
	action   Action
}

// One row of the canvas list
type canvasRow struct {
	id     registry.ID
	open   Button
	remove Button
}

// Shell state
type Shell struct {
	app *app.App
	log logrus.FieldLogger

	toolbar      []Button
	colorPalette []rl.Color
	paletteOpen  bool
	rows         []canvasRow

	texture rl.Texture2D
	lastPos image.Point
	status  string
}

func NewShell(a *app.App, log logrus.FieldLogger) *Shell {
	s := &Shell{app: a, log: log}

	actions := []struct {
		action Action
		width  float32
	}{
		{ActionUndo, 50},
		{ActionColor, 110},
		{ActionSize, 60},
		{ActionGrow, 24},
		{ActionShrink, 24},
		{ActionShape, 60},
		{ActionSave, 50},
		{ActionNew, 50},
		{ActionClear, 50},
	}
	x := float32(10)
	for _, t := range actions {
		s.toolbar = append(s.toolbar, Button{
			rect:   rl.Rectangle{X: x, Y: 8, Width: t.width, Height: 24},
			action: t.action,
		})
		x += t.width + 6
	}

	s.colorPalette = []rl.Color{
		rl.Black, rl.White, rl.Red, rl.Green, rl.Blue,
		rl.Yellow, rl.Orange, rl.Purple, rl.Pink, rl.Brown,
		rl.Gray, rl.DarkGray, rl.LightGray, rl.SkyBlue, rl.Magenta,
		{255, 0, 128, 255}, {128, 255, 0, 255}, {0, 128, 255, 255},
	}

	_, c := a.Active()
	img := rl.NewImageFromImage(c.Image())
	s.texture = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)

	s.rebuildRows()
	return s
}

func (s *Shell) rebuildRows() {
	s.rows = s.rows[:0]
	for i, e := range s.app.Canvases() {
		y := float32(viewY + i*30)
		s.rows = append(s.rows, canvasRow{
			id: e.ID,
			open: Button{
				rect:     rl.Rectangle{X: listX, Y: y, Width: 70, Height: 24},
				text:     e.Label,
				selected: e.Active,
			},
			remove: Button{
				rect: rl.Rectangle{X: listX + 74, Y: y, Width: 20, Height: 24},
				text: "x",
			},
		})
	}
}

func (s *Shell) label(a Action) string {
	switch a {
	case ActionUndo:
		return "Undo"
	case ActionColor:
		return s.app.ColorLabel()
	case ActionSize:
		return s.app.SizeLabel()
	case ActionGrow:
		return "+"
	case ActionShrink:
		return "-"
	case ActionShape:
		_, c := s.app.Active()
		return c.Pen().Shape.String()
	case ActionSave:
		return "Save"
	case ActionNew:
		return "New"
	case ActionClear:
		return "Clear"
	}
	return ""
}

func (s *Shell) perform(a Action) {
	switch a {
	case ActionUndo:
		s.undo()
	case ActionColor:
		s.paletteOpen = !s.paletteOpen
	case ActionGrow:
		s.app.IncreaseWidth()
	case ActionShrink:
		s.app.DecreaseWidth()
	case ActionShape:
		_, c := s.app.Active()
		if c.Pen().Shape == canvas.PenShapeRound {
			s.app.SetPenShape(canvas.PenShapeSquare)
		} else {
			s.app.SetPenShape(canvas.PenShapeRound)
		}
	case ActionSave:
		s.save()
	case ActionNew:
		s.app.NewCanvas()
		s.rebuildRows()
	case ActionClear:
		s.app.Clear()
	}
}

func (s *Shell) undo() {
	if err := s.app.Undo(); err != nil {
		s.log.WithError(err).Fatal("Undo history is corrupt")
	}
}

func (s *Shell) save() {
	path, err := s.app.Save()
	if err != nil {
		s.status = "SAVE FAILED: " + err.Error()
		return
	}
	s.status = "SAVED " + path
}

// Screen to canvas coordinates
func toCanvas(pos rl.Vector2) image.Point {
	return image.Pt(int(pos.X)-viewX, int(pos.Y)-viewY)
}

func heldButtons() stroke.Buttons {
	var held stroke.Buttons
	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		held |= stroke.ButtonPrimary
	}
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		held |= stroke.ButtonSecondary
	}
	if rl.IsMouseButtonDown(rl.MouseMiddleButton) {
		held |= stroke.ButtonMiddle
	}
	return held
}

// Update shell
func (s *Shell) Update() {
	mousePos := rl.GetMousePosition()
	clicked := rl.IsMouseButtonPressed(rl.MouseLeftButton)

	// Keyboard shortcuts
	if rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) {
		if rl.IsKeyPressed(rl.KeyZ) {
			s.undo()
		}
		if rl.IsKeyPressed(rl.KeyS) {
			s.save()
		}
	}

	// Handle toolbar
	for i := range s.toolbar {
		btn := &s.toolbar[i]
		btn.text = s.label(btn.action)
		btn.hover = rl.CheckCollisionPointRec(mousePos, btn.rect)
		if btn.hover && clicked && btn.action != ActionSize {
			s.perform(btn.action)
			return
		}
	}

	// Handle color palette
	if s.paletteOpen {
		for i, color := range s.colorPalette {
			rect := paletteRect(i)
			if clicked && rl.CheckCollisionPointRec(mousePos, rect) {
				s.app.SetPenColor(color)
				s.paletteOpen = false
				return
			}
		}
	}

	// Handle canvas list
	for _, row := range s.rows {
		if !clicked {
			break
		}
		if rl.CheckCollisionPointRec(mousePos, row.open.rect) {
			if err := s.app.SwitchCanvas(row.id); err != nil {
				s.log.WithError(err).Warn("Canvas list out of sync")
			}
			s.rebuildRows()
			return
		}
		if rl.CheckCollisionPointRec(mousePos, row.remove.rect) {
			if _, err := s.app.DeleteCanvas(row.id); err != nil {
				s.log.WithError(err).Warn("Canvas list out of sync")
			}
			s.rebuildRows()
			return
		}
	}

	// Handle drawing on canvas
	view := rl.Rectangle{X: viewX, Y: viewY, Width: viewWidth, Height: viewHeight}
	pos := toCanvas(mousePos)

	if rl.CheckCollisionPointRec(mousePos, view) &&
		(rl.IsMouseButtonPressed(rl.MouseLeftButton) || rl.IsMouseButtonPressed(rl.MouseRightButton)) {
		s.app.Press(pos)
		s.lastPos = pos
	}

	if s.app.Drawing() && pos != s.lastPos {
		s.app.Move(pos, heldButtons())
		s.lastPos = pos
	}

	if s.app.Drawing() && heldButtons() == 0 {
		s.app.Release()
	}
}

func paletteRect(i int) rl.Rectangle {
	return rl.Rectangle{
		X:      float32(66 + (i%6)*22),
		Y:      float32(toolbarHeight + 4 + (i/6)*22),
		Width:  20,
		Height: 20,
	}
}

func drawButton(btn Button) {
	color := rl.Color{70, 70, 70, 255}
	if btn.selected {
		color = rl.Color{100, 100, 150, 255}
	} else if btn.hover {
		color = rl.Color{80, 80, 80, 255}
	}

	rl.DrawRectangleRec(btn.rect, color)
	rl.DrawRectangleLinesEx(btn.rect, 1, rl.Color{90, 90, 90, 255})

	textW := rl.MeasureText(btn.text, fontSize)
	textX := int32(btn.rect.X + btn.rect.Width/2 - float32(textW)/2)
	textY := int32(btn.rect.Y + btn.rect.Height/2 - fontSize/2)
	rl.DrawText(btn.text, textX, textY, fontSize, rl.White)
}

// Draw shell
func (s *Shell) Draw() {
	if s.app.Dirty() {
		_, c := s.app.Active()
		rl.UpdateTexture(s.texture, c.Pixels())
		s.app.ClearDirty()
	}

	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{40, 40, 40, 255})

	// Canvas view; the canvas can be larger than the view and is clipped
	rl.DrawRectangle(viewX, viewY, viewWidth, viewHeight, rl.Color{60, 60, 60, 255})
	rl.BeginScissorMode(viewX, viewY, viewWidth, viewHeight)
	rl.DrawTexture(s.texture, viewX, viewY, rl.White)
	rl.EndScissorMode()
	rl.DrawRectangleLines(viewX-1, viewY-1, viewWidth+2, viewHeight+2, rl.Color{100, 100, 100, 255})

	// Toolbar
	rl.DrawRectangle(0, 0, screenWidth, toolbarHeight, rl.Color{50, 50, 50, 255})
	for _, btn := range s.toolbar {
		drawButton(btn)
	}

	// Canvas list
	rl.DrawText("CANVASES", listX, toolbarHeight, fontSize, rl.LightGray)
	for _, row := range s.rows {
		drawButton(row.open)
		drawButton(row.remove)
	}

	if s.paletteOpen {
		for i, color := range s.colorPalette {
			rect := paletteRect(i)
			rl.DrawRectangleRec(rect, color)
			rl.DrawRectangleLinesEx(rect, 1, rl.Color{70, 70, 70, 255})
		}
	}

	// Status line
	id, c := s.app.Active()
	info := fmt.Sprintf("%s | HISTORY: %d/%d", id, c.HistoryLen(), c.HistoryCap())
	if s.status != "" {
		info += " | " + s.status
	}
	rl.DrawText(info, viewX, viewY+viewHeight+12, fontSize, rl.White)

	rl.EndDrawing()
}

func main() {
	configPath := flag.String("config", "sketchpad.toml", "path to the TOML config file")
	envPath := flag.String("env", ".env", "path to a .env file")
	flag.Parse()

	cfg, err := config.Load(*configPath, *envPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log, err := logging.New(cfg.LogLevel, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	a, err := app.New(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to start")
	}

	rl.InitWindow(screenWidth, screenHeight, "Sketchpad")
	rl.SetTargetFPS(60)

	shell := NewShell(a, log)
	log.WithField("export_dir", cfg.ExportDir).Info("Sketchpad started")

	for !rl.WindowShouldClose() {
		shell.Update()
		shell.Draw()
	}

	// Clean up
	rl.UnloadTexture(shell.texture)
	rl.CloseWindow()
}
