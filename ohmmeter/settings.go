package main

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/ansel1/merry"
	"github.com/itohio/ohmmeter/pkg/adc"
	"github.com/itohio/ohmmeter/pkg/config"
)

// showSettingsDialog displays a settings dialog with tabs for all configuration options.
func showSettingsDialog(state *appState) {
	// Create tabs
	tabs := container.NewAppTabs(
		createSerialTab(state),
		createDividerTab(state),
		createMeasurementTab(state),
		createBandsTab(state),
		createMockTab(state),
	)

	// Create dialog with tabs as content
	content := container.NewBorder(nil, nil, nil, nil, tabs)
	content.Resize(fyne.NewSize(500, 400))

	d := dialog.NewCustom("Settings", "Close", content, state.window)
	d.Resize(fyne.NewSize(500, 400))
	d.Show()
}

// applySettings edits a copy of the configuration, validates it, then saves
// it and reconnects a running session. Invalid edits leave the configuration
// untouched.
func applySettings(state *appState, edit func(cfg *config.Config)) {
	next := *state.cfg
	edit(&next)

	if err := next.Validate(); err != nil {
		dialog.ShowError(err, state.window)
		return
	}

	// The running device reads the configuration, stop it before swapping
	wasConnected := state.session != nil
	state.disconnect()
	*state.cfg = next

	if err := state.cfg.Save(state.configPath); err != nil {
		dialog.ShowError(merry.Prepend(err, "failed to save config"), state.window)
	}
	if wasConnected {
		if err := state.connect(); err != nil {
			dialog.ShowError(merry.Prepend(err, "failed to reconnect"), state.window)
			state.connectBtn.SetIcon(theme.LoginIcon())
		}
	}
	updateProbeSelect(state)
}

// createSerialTab creates the Serial configuration tab.
func createSerialTab(state *appState) *container.TabItem {
	// Get available serial ports
	ports, err := adc.Ports()
	portOptions := []string{}
	portMap := make(map[string]string) // Map display name to actual port name

	if err == nil {
		for _, port := range ports {
			displayName := port.Name
			if port.Description != "" && port.Description != port.Name {
				displayName = fmt.Sprintf("%s (%s)", port.Name, port.Description)
			}
			portOptions = append(portOptions, displayName)
			portMap[displayName] = port.Name
		}
	} else {
		log.PrintErr(err)
	}

	// Add current port if not in list
	currentPort := state.cfg.Serial.Port
	currentDisplay := currentPort
	found := false
	for _, opt := range portOptions {
		if portMap[opt] == currentPort {
			currentDisplay = opt
			found = true
			break
		}
	}
	if !found && currentPort != "" {
		portOptions = append(portOptions, currentPort)
		portMap[currentPort] = currentPort
	}

	portSelect := widget.NewSelect(portOptions, nil)
	if currentDisplay != "" {
		portSelect.SetSelected(currentDisplay)
	}

	baudEntry := widget.NewEntry()
	baudEntry.SetText(strconv.Itoa(state.cfg.Serial.BaudRate))

	timeoutEntry := widget.NewEntry()
	timeoutEntry.SetText(state.cfg.Serial.ReadTimeout.String())

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Serial Port", Widget: portSelect},
			{Text: "Baud Rate", Widget: baudEntry},
			{Text: "Read Timeout", Widget: timeoutEntry},
		},
		OnSubmit: func() {
			applySettings(state, func(cfg *config.Config) {
				if portSelect.Selected != "" {
					selectedPort := portMap[portSelect.Selected]
					if selectedPort == "" {
						selectedPort = portSelect.Selected // Fallback to selected text
					}
					cfg.Serial.Port = selectedPort
				}
				if baud, err := strconv.Atoi(baudEntry.Text); err == nil {
					cfg.Serial.BaudRate = baud
				}
				if timeout, err := time.ParseDuration(timeoutEntry.Text); err == nil {
					cfg.Serial.ReadTimeout = timeout
				}
			})
		},
	}

	return container.NewTabItem("Serial", form)
}

// createDividerTab creates the voltage divider configuration tab.
func createDividerTab(state *appState) *container.TabItem {
	rrefEntry := widget.NewEntry()
	rrefEntry.SetText(fmt.Sprintf("%.0f", state.cfg.Divider.ReferenceOhms))

	adcEntry := widget.NewEntry()
	adcEntry.SetText(strconv.Itoa(state.cfg.Divider.ADCResolution))

	vrefEntry := widget.NewEntry()
	vrefEntry.SetText(fmt.Sprintf("%.2f", state.cfg.Divider.VRef))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Reference Resistor (Ω)", Widget: rrefEntry},
			{Text: "ADC Full Scale", Widget: adcEntry},
			{Text: "VRef (V)", Widget: vrefEntry},
		},
		OnSubmit: func() {
			applySettings(state, func(cfg *config.Config) {
				if rref, err := strconv.ParseFloat(rrefEntry.Text, 64); err == nil {
					cfg.Divider.ReferenceOhms = rref
				}
				if full, err := strconv.Atoi(adcEntry.Text); err == nil {
					cfg.Divider.ADCResolution = full
				}
				if vref, err := strconv.ParseFloat(vrefEntry.Text, 64); err == nil {
					cfg.Divider.VRef = vref
				}
			})
		},
	}

	return container.NewTabItem("Divider", form)
}

// createMeasurementTab creates the Measurement configuration tab.
func createMeasurementTab(state *appState) *container.TabItem {
	samplesEntry := widget.NewEntry()
	samplesEntry.SetText(strconv.Itoa(state.cfg.Measurement.SamplesPerReading))

	sampleDelayEntry := widget.NewEntry()
	sampleDelayEntry.SetText(state.cfg.Measurement.SampleDelay.String())

	cycleDelayEntry := widget.NewEntry()
	cycleDelayEntry.SetText(state.cfg.Measurement.CycleDelay.String())

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Samples per Reading", Widget: samplesEntry},
			{Text: "Sample Delay", Widget: sampleDelayEntry},
			{Text: "Cycle Delay", Widget: cycleDelayEntry},
		},
		OnSubmit: func() {
			applySettings(state, func(cfg *config.Config) {
				if n, err := strconv.Atoi(samplesEntry.Text); err == nil {
					cfg.Measurement.SamplesPerReading = n
				}
				if d, err := time.ParseDuration(sampleDelayEntry.Text); err == nil {
					cfg.Measurement.SampleDelay = d
				}
				if d, err := time.ParseDuration(cycleDelayEntry.Text); err == nil {
					cfg.Measurement.CycleDelay = d
				}
			})
		},
	}

	return container.NewTabItem("Measurement", form)
}

// createBandsTab creates the colour name configuration tab.
func createBandsTab(state *appState) *container.TabItem {
	paletteSelect := widget.NewSelect([]string{config.PaletteEnglish, config.PalettePortuguese}, nil)
	paletteSelect.SetSelected(state.cfg.Bands.Palette)

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Palette", Widget: paletteSelect},
		},
		OnSubmit: func() {
			applySettings(state, func(cfg *config.Config) {
				cfg.Bands.Palette = paletteSelect.Selected
				cfg.Bands.Names = nil
			})
		},
	}

	return container.NewTabItem("Bands", form)
}

// createMockTab creates the Mock device configuration tab.
func createMockTab(state *appState) *container.TabItem {
	resistanceEntry := widget.NewEntry()
	resistanceEntry.SetText(strconv.FormatFloat(state.cfg.Mock.Resistance, 'f', -1, 64))

	noiseLevelEntry := widget.NewEntry()
	noiseLevelEntry.SetText(fmt.Sprintf("%.2f", state.cfg.Mock.NoiseLevel))

	seedEntry := widget.NewEntry()
	seedEntry.SetText(strconv.FormatInt(state.cfg.Mock.Seed, 10))

	latencyEntry := widget.NewEntry()
	latencyEntry.SetText(state.cfg.Mock.Latency.String())

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Resistance (Ω)", Widget: resistanceEntry},
			{Text: "Noise Level (counts)", Widget: noiseLevelEntry},
			{Text: "Seed", Widget: seedEntry},
			{Text: "Latency", Widget: latencyEntry},
		},
		OnSubmit: func() {
			applySettings(state, func(cfg *config.Config) {
				if r, err := strconv.ParseFloat(resistanceEntry.Text, 64); err == nil {
					cfg.Mock.Resistance = r
				}
				if nl, err := strconv.ParseFloat(noiseLevelEntry.Text, 64); err == nil {
					cfg.Mock.NoiseLevel = nl
				}
				if seed, err := strconv.ParseInt(seedEntry.Text, 10, 64); err == nil {
					cfg.Mock.Seed = seed
				}
				if d, err := time.ParseDuration(latencyEntry.Text); err == nil {
					cfg.Mock.Latency = d
				}
			})
		},
	}

	return container.NewTabItem("Mock", form)
}
