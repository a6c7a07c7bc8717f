package preferences

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"syncbreath/internal/core/model"
)

// Window handles the preferences UI.
type Window struct {
	window        fyne.Window
	settings      Settings
	onSave        func(Settings)
	inhale        *widget.Entry
	hold1         *widget.Entry
	exhale        *widget.Entry
	hold2         *widget.Entry
	length        *widget.Entry
	soundCheck    *widget.Check
	volume        *widget.Slider
	progressCheck *widget.Check
	loginCheck    *widget.Check
	deviceCheck   *widget.Check
	deviceAddress *widget.Entry
	motor         *widget.Slider
	pump          *widget.Slider
	status        *widget.Label
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("SyncBreath Settings")

	prefs := &Window{
		window:        window,
		settings:      settings,
		onSave:        onSave,
		inhale:        widget.NewEntry(),
		hold1:         widget.NewEntry(),
		exhale:        widget.NewEntry(),
		hold2:         widget.NewEntry(),
		length:        widget.NewEntry(),
		soundCheck:    widget.NewCheck("Ambient sound", nil),
		volume:        widget.NewSlider(0, 1),
		progressCheck: widget.NewCheck("Show progress", nil),
		loginCheck:    widget.NewCheck("Launch at login", nil),
		deviceCheck:   widget.NewCheck("Send commands to wearable", nil),
		deviceAddress: widget.NewEntry(),
		motor:         widget.NewSlider(0, 1),
		pump:          widget.NewSlider(0, 1),
		status:        widget.NewLabel(""),
	}
	prefs.volume.Step = 0.05
	prefs.motor.Step = 0.05
	prefs.pump.Step = 0.05
	prefs.deviceAddress.SetPlaceHolder("host:port of BLE bridge")
	prefs.UpdateSettings(settings)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Custom pattern (seconds)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewGridWithColumns(4,
			widget.NewLabel("Inhale"), widget.NewLabel("Hold"), widget.NewLabel("Exhale"), widget.NewLabel("Hold"),
			prefs.inhale, prefs.hold1, prefs.exhale, prefs.hold2,
		),
		container.NewHBox(widget.NewLabel("Session length"), prefs.length, widget.NewLabel("min (0 = unlimited)")),
		widget.NewLabelWithStyle("Sound", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.soundCheck,
		widget.NewLabel("Volume"),
		prefs.volume,
		prefs.progressCheck,
		prefs.loginCheck,
		widget.NewLabelWithStyle("Device", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.deviceCheck,
		prefs.deviceAddress,
		widget.NewLabel("Vibration"),
		prefs.motor,
		widget.NewLabel("Air pump"),
		prefs.pump,
		prefs.status,
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", func() {
		window.Hide()
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(420, 560))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	pattern := settings.CustomPattern
	prefs.inhale.SetText(strconv.Itoa(pattern.Inhale()))
	prefs.hold1.SetText(strconv.Itoa(pattern.Hold1()))
	prefs.exhale.SetText(strconv.Itoa(pattern.Exhale()))
	prefs.hold2.SetText(strconv.Itoa(pattern.Hold2()))
	prefs.length.SetText(fmt.Sprintf("%d", int(settings.SessionLength.Minutes())))
	prefs.soundCheck.SetChecked(settings.SoundEnabled)
	prefs.volume.SetValue(settings.Volume)
	prefs.progressCheck.SetChecked(settings.ShowProgress)
	prefs.loginCheck.SetChecked(settings.LaunchAtLogin)
	prefs.deviceCheck.SetChecked(settings.DeviceEnabled)
	prefs.deviceAddress.SetText(settings.DeviceAddress)
	prefs.motor.SetValue(settings.MotorIntensity)
	prefs.pump.SetValue(settings.PumpIntensity)
	prefs.status.SetText("")
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	pattern, err := ParsePattern(prefs.inhale.Text, prefs.hold1.Text, prefs.exhale.Text, prefs.hold2.Text)
	if err != nil {
		prefs.status.SetText(err.Error())
		return
	}
	settings.CustomPattern = pattern

	if minutes, ok := parseNonNegativeInt(prefs.length.Text); ok {
		settings.SessionLength = time.Duration(minutes) * time.Minute
	}

	settings.SoundEnabled = prefs.soundCheck.Checked
	settings.Volume = prefs.volume.Value
	settings.ShowProgress = prefs.progressCheck.Checked
	settings.LaunchAtLogin = prefs.loginCheck.Checked
	settings.DeviceEnabled = prefs.deviceCheck.Checked
	if prefs.deviceAddress.Text != "" {
		settings.DeviceAddress = prefs.deviceAddress.Text
	}
	settings.MotorIntensity = prefs.motor.Value
	settings.PumpIntensity = prefs.pump.Value

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

// ParsePattern builds a pattern from four text fields.
func ParsePattern(inhale, hold1, exhale, hold2 string) (model.BreathPattern, error) {
	values := make([]int, 0, 4)
	for _, text := range []string{inhale, hold1, exhale, hold2} {
		value, ok := parseNonNegativeInt(text)
		if !ok {
			return model.BreathPattern{}, fmt.Errorf("%w: %q is not a whole number of seconds", model.ErrInvalidPattern, text)
		}
		values = append(values, value)
	}
	return model.NewBreathPattern(values[0], values[1], values[2], values[3])
}

func parseNonNegativeInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, false
	}
	return parsed, true
}
