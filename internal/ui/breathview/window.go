// Package breathview is the main SyncBreath window: a breathing circle
// with the phase, countdown and cycle count, a mode pager and the
// play/pause control.
package breathview

import (
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"syncbreath/internal/core/model"
	"syncbreath/internal/ui/animation"
)

// Callbacks defines window action handlers.
type Callbacks struct {
	OnToggle      func()
	OnModeChange  func(model.Mode)
	OnSoundChange func(model.Mode, model.SoundOption)
	// SoundFor returns the track selected for a mode. Without it the
	// mode's first track is shown.
	SoundFor func(model.Mode) (model.SoundOption, bool)
}

// Window manages the breathing UI.
type Window struct {
	window        fyne.Window
	modes         model.Catalogue
	modeIndex     int
	callbacks     Callbacks
	showProgress  bool
	halo          *canvas.Circle
	circle        *canvas.Circle
	phaseLabel    *canvas.Text
	timerLabel    *canvas.Text
	cycleLabel    *canvas.Text
	titleLabel    *canvas.Text
	subtitleLabel *canvas.Text
	toggleButton  *widget.Button
	soundSelect   *widget.Select
	stage         *fyne.Container
	layout        *circleLayout
}

var (
	circleColor = color.NRGBA{R: 120, G: 200, B: 190, A: 255}
	textColor   = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	dimColor    = color.NRGBA{R: 255, G: 255, B: 255, A: 200}
)

// New creates the breathing window positioned at mode.
func New(app fyne.App, modes model.Catalogue, current model.ModeID, callbacks Callbacks) *Window {
	window := app.NewWindow("SyncBreath")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	background := canvas.NewLinearGradient(
		color.NRGBA{R: 24, G: 40, B: 56, A: 255},
		color.NRGBA{R: 10, G: 16, B: 28, A: 255},
		0,
	)

	halo := canvas.NewCircle(color.NRGBA{R: circleColor.R, G: circleColor.G, B: circleColor.B, A: 60})
	circle := canvas.NewCircle(circleColor)

	phaseLabel := canvas.NewText("", textColor)
	phaseLabel.Alignment = fyne.TextAlignCenter
	phaseLabel.TextStyle = fyne.TextStyle{Bold: true}
	phaseLabel.TextSize = 28

	timerLabel := canvas.NewText("", dimColor)
	timerLabel.Alignment = fyne.TextAlignCenter
	timerLabel.TextSize = 18

	cycleLabel := canvas.NewText("", dimColor)
	cycleLabel.Alignment = fyne.TextAlignCenter
	cycleLabel.TextSize = 14

	titleLabel := canvas.NewText("", textColor)
	titleLabel.Alignment = fyne.TextAlignCenter
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	titleLabel.TextSize = 24

	subtitleLabel := canvas.NewText("", dimColor)
	subtitleLabel.Alignment = fyne.TextAlignCenter
	subtitleLabel.TextSize = 14

	view := &Window{
		window:        window,
		modes:         modes,
		callbacks:     callbacks,
		showProgress:  true,
		halo:          halo,
		circle:        circle,
		phaseLabel:    phaseLabel,
		timerLabel:    timerLabel,
		cycleLabel:    cycleLabel,
		titleLabel:    titleLabel,
		subtitleLabel: subtitleLabel,
		layout:        &circleLayout{scale: 0.6, glow: 0.4},
	}

	view.toggleButton = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), func() {
		if view.callbacks.OnToggle != nil {
			view.callbacks.OnToggle()
		}
	})
	view.soundSelect = widget.NewSelect(nil, view.handleSound)

	previous := widget.NewButtonWithIcon("", theme.NavigateBackIcon(), func() {
		view.step(-1)
	})
	next := widget.NewButtonWithIcon("", theme.NavigateNextIcon(), func() {
		view.step(1)
	})

	view.stage = container.New(view.layout, halo, circle, container.NewVBox(phaseLabel, timerLabel))
	header := container.NewVBox(titleLabel, subtitleLabel)
	footer := container.NewVBox(
		cycleLabel,
		view.soundSelect,
		container.NewGridWithColumns(3, previous, view.toggleButton, next),
	)
	content := container.NewBorder(header, footer, nil, nil, view.stage)
	window.SetContent(container.NewStack(background, container.NewPadded(content)))
	window.Resize(fyne.NewSize(420, 640))

	if index := modes.Index(current); index >= 0 {
		view.modeIndex = index
	}
	view.applyModeUnsafe()
	view.setFrameUnsafe(animation.Frame{Phase: model.PhaseInhale, Label: model.PhaseInhale.Label(), Scale: 0.6, Glow: 0.4})

	return view
}

// Window exposes the underlying fyne window.
func (view *Window) Window() fyne.Window {
	return view.window
}

// Show displays the window.
func (view *Window) Show() {
	view.window.Show()
	view.window.RequestFocus()
}

// SetFrame renders an animation frame. Safe to call from any goroutine.
func (view *Window) SetFrame(frame animation.Frame) {
	fyne.Do(func() {
		view.setFrameUnsafe(frame)
	})
}

// SetRunning switches the play/pause icon.
func (view *Window) SetRunning(running bool) {
	fyne.Do(func() {
		if running {
			view.toggleButton.SetIcon(theme.MediaPauseIcon())
			return
		}
		view.toggleButton.SetIcon(theme.MediaPlayIcon())
	})
}

// SetShowProgress toggles the countdown and cycle counter.
func (view *Window) SetShowProgress(show bool) {
	fyne.Do(func() {
		view.showProgress = show
		if show {
			view.timerLabel.Show()
			view.cycleLabel.Show()
			return
		}
		view.timerLabel.Hide()
		view.cycleLabel.Hide()
	})
}

// SetSound selects option in the sound picker without firing callbacks.
func (view *Window) SetSound(option model.SoundOption) {
	fyne.Do(func() {
		view.soundSelect.OnChanged = nil
		view.soundSelect.SetSelected(option.Name)
		view.soundSelect.OnChanged = view.handleSound
	})
}

// SetMode moves the pager to id without firing callbacks.
func (view *Window) SetMode(id model.ModeID) {
	index := view.modes.Index(id)
	if index < 0 {
		return
	}
	fyne.Do(func() {
		view.modeIndex = index
		view.applyModeUnsafe()
	})
}

// Mode returns the mode shown by the pager.
func (view *Window) Mode() model.Mode {
	if len(view.modes) == 0 {
		return model.Mode{}
	}
	return view.modes[view.modeIndex]
}

func (view *Window) step(delta int) {
	if len(view.modes) == 0 {
		return
	}
	view.modeIndex = (view.modeIndex + delta + len(view.modes)) % len(view.modes)
	view.applyModeUnsafe()
	if view.callbacks.OnModeChange != nil {
		view.callbacks.OnModeChange(view.Mode())
	}
}

func (view *Window) handleSound(name string) {
	mode := view.Mode()
	for _, option := range mode.Sounds {
		if option.Name == name {
			if view.callbacks.OnSoundChange != nil {
				view.callbacks.OnSoundChange(mode, option)
			}
			return
		}
	}
}

func (view *Window) applyModeUnsafe() {
	mode := view.Mode()
	view.titleLabel.Text = mode.Title
	view.titleLabel.Refresh()
	view.subtitleLabel.Text = mode.Description
	view.subtitleLabel.Refresh()

	names := make([]string, 0, len(mode.Sounds))
	for _, option := range mode.Sounds {
		names = append(names, option.Name)
	}
	view.soundSelect.OnChanged = nil
	view.soundSelect.Options = names
	view.soundSelect.Refresh()
	if option, ok := view.soundFor(mode); ok {
		view.soundSelect.SetSelected(option.Name)
	}
	view.soundSelect.OnChanged = view.handleSound
}

func (view *Window) soundFor(mode model.Mode) (model.SoundOption, bool) {
	if view.callbacks.SoundFor != nil {
		if option, ok := view.callbacks.SoundFor(mode); ok {
			return option, true
		}
	}
	return mode.DefaultSound()
}

func (view *Window) setFrameUnsafe(frame animation.Frame) {
	view.phaseLabel.Text = frame.Label
	view.phaseLabel.Refresh()
	if view.showProgress {
		view.timerLabel.Text = formatSeconds(frame.Remaining)
		view.timerLabel.Refresh()
		view.cycleLabel.Text = fmt.Sprintf("Cycle %d", frame.Cycle+1)
		view.cycleLabel.Refresh()
	}

	view.layout.scale = float32(frame.Scale)
	view.layout.glow = float32(frame.Glow)
	view.halo.FillColor = color.NRGBA{R: circleColor.R, G: circleColor.G, B: circleColor.B, A: uint8(40 + 80*frame.Glow)}
	view.stage.Refresh()
	view.halo.Refresh()
}

func formatSeconds(value time.Duration) string {
	if value <= 0 {
		return ""
	}
	seconds := int((value + time.Second - 1) / time.Second)
	return fmt.Sprintf("%d", seconds)
}

// circleLayout centres the halo, the circle and the labels, sizing the
// circles from the current frame.
type circleLayout struct {
	scale float32
	glow  float32
}

func (layout *circleLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 3 {
		return
	}
	halo, circle, labels := objects[0], objects[1], objects[2]

	side := size.Width
	if size.Height < side {
		side = size.Height
	}
	side *= 0.85

	circleSide := side * layout.scale
	haloSide := circleSide * (1 + 0.15*layout.glow)
	if haloSide > side {
		haloSide = side
	}

	center := fyne.NewPos(size.Width/2, size.Height/2)
	halo.Resize(fyne.NewSize(haloSide, haloSide))
	halo.Move(fyne.NewPos(center.X-haloSide/2, center.Y-haloSide/2))
	circle.Resize(fyne.NewSize(circleSide, circleSide))
	circle.Move(fyne.NewPos(center.X-circleSide/2, center.Y-circleSide/2))

	labelSize := labels.MinSize()
	labels.Resize(fyne.NewSize(size.Width, labelSize.Height))
	labels.Move(fyne.NewPos(0, center.Y-labelSize.Height/2))
}

func (layout *circleLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) < 3 {
		return fyne.NewSize(0, 0)
	}
	labels := objects[2].MinSize()
	side := labels.Width * 1.6
	if side < 200 {
		side = 200
	}
	return fyne.NewSize(side, side)
}
