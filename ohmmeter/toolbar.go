package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/ansel1/merry"
)

// createToolbar creates the application toolbar with Connect and Settings
// buttons, and the simulated resistor selector on the right.
func createToolbar(state *appState) fyne.CanvasObject {
	// Connect button with icon
	connectBtn := widget.NewButtonWithIcon("", theme.LoginIcon(), func() {
		handleConnect(state)
	})
	state.connectBtn = connectBtn

	// Settings button with icon
	settingsBtn := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		showSettingsDialog(state)
	})

	probeSelect := createProbeSelect(state)
	state.probeSelect = probeSelect

	// Create toolbar with buttons on left and the probe selector aligned to the right
	return container.NewBorder(
		nil, // top
		nil, // bottom
		container.NewHBox(connectBtn, settingsBtn), // left
		probeSelect, // right
		nil,         // center (spacer)
	)
}

// handleConnect handles the connect/disconnect button click.
func handleConnect(state *appState) {
	if state.connected() {
		state.disconnect()
		state.connectBtn.SetIcon(theme.LoginIcon())
		updateProbeSelect(state)
		return
	}

	if err := state.connect(); err != nil {
		if state.useMock {
			dialog.ShowError(merry.Prepend(err, "failed to connect to simulated divider"), state.window)
		} else {
			dialog.ShowError(merry.Prependf(err, "failed to connect to %s", state.cfg.Serial.Port), state.window)
		}
		return
	}
	state.connectBtn.SetIcon(theme.LogoutIcon())
	updateProbeSelect(state)
	handleProbeChange(state, state.probeSelect.Selected)
}
