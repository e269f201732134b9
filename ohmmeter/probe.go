package main

import (
	"math"
	"strconv"

	"fyne.io/fyne/v2/widget"
	"github.com/itohio/ohmmeter/pkg/adc"
)

// openProbe is the selector entry that disconnects the simulated resistor.
const openProbe = "open"

// probeOptions lists the simulated resistors: the standard table plus open probes.
func probeOptions(values []float64) []string {
	options := make([]string, 0, len(values)+1)
	for _, v := range values {
		options = append(options, strconv.FormatFloat(v, 'f', -1, 64))
	}
	return append(options, openProbe)
}

// parseProbe converts a selector entry back to ohms.
func parseProbe(option string) (float64, bool) {
	if option == openProbe {
		return math.Inf(1), true
	}
	v, err := strconv.ParseFloat(option, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// createProbeSelect creates the simulated resistor selector. It is only
// enabled while connected to the mock device.
func createProbeSelect(state *appState) *widget.Select {
	sel := widget.NewSelect(probeOptions(state.cfg.Table.Values), func(selected string) {
		handleProbeChange(state, selected)
	})
	sel.PlaceHolder = "Resistor"
	sel.SetSelected(strconv.FormatFloat(state.cfg.Mock.Resistance, 'f', -1, 64))
	sel.Disable()
	return sel
}

// handleProbeChange swaps the simulated resistor between the probes.
func handleProbeChange(state *appState, selected string) {
	mock := state.mockDevice()
	if mock == nil {
		return
	}
	ohms, ok := parseProbe(selected)
	if !ok {
		return
	}
	mock.SetResistance(ohms)
	log.Debug("probe changed", "ohms", ohms)
}

// mockDevice returns the connected mock device, or nil.
func (state *appState) mockDevice() *adc.Mock {
	if !state.connected() {
		return nil
	}
	mock, _ := state.session.device.(*adc.Mock)
	return mock
}

// updateProbeSelect enables the selector when a mock device is connected.
func updateProbeSelect(state *appState) {
	if state.mockDevice() != nil {
		state.probeSelect.Enable()
	} else {
		state.probeSelect.Disable()
	}
}
