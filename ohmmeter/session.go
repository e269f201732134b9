package main

import (
	"context"
	"errors"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/ohmmeter/pkg/adc"
	"github.com/itohio/ohmmeter/pkg/config"
	"github.com/itohio/ohmmeter/pkg/display"
	"github.com/itohio/ohmmeter/pkg/meter"
	"github.com/itohio/ohmmeter/pkg/resistor"
)

// appState holds the application state.
type appState struct {
	cfg        *config.Config
	configPath string
	window     fyne.Window
	useMock    bool

	bands       *display.BandsWidget
	connectBtn  *widget.Button
	probeSelect *widget.Select

	session *session // Current measurement session (nil if not connected)
}

// session tracks one connected device and the loop measuring it, for
// graceful shutdown.
type session struct {
	device adc.Device
	meter  *meter.Meter
	cancel context.CancelFunc
	done   chan struct{} // Closed when the measurement loop exits
}

// startSession connects the device and starts the measurement loop. Every
// reading is handed to render.
func startSession(device adc.Device, cfg *config.Config, render func(resistor.Reading)) (*session, error) {
	m, err := meter.New(cfg, device)
	if err != nil {
		return nil, err
	}
	if err := device.Connect(); err != nil {
		return nil, err
	}
	m.OnUpdate(render)

	ctx, cancel := context.WithCancel(context.Background())
	s := &session{
		device: device,
		meter:  m,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(s.done)
		if err := m.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.PrintErr(err)
		}
	}()

	return s, nil
}

// stop cancels the loop, closes the device and waits for the loop to exit.
// Closing the device first unblocks a pending serial read.
func (s *session) stop() {
	if s == nil {
		return
	}
	s.cancel()
	log.ErrIfFail(s.device.Close)
	<-s.done
}

// connected reports whether a session is running.
func (state *appState) connected() bool {
	return state.session != nil && state.session.device.IsConnected()
}

// connect starts a new session and wires it to the bands widget.
func (state *appState) connect() error {
	s, err := startSession(newDevice(state.cfg, state.useMock), state.cfg, func(r resistor.Reading) {
		// Update bands widget on main thread
		updateOnMainThread(func() {
			state.bands.Update(r)
		})
	})
	if err != nil {
		return err
	}
	state.session = s

	if state.useMock {
		log.Info("connected to simulated divider")
	} else {
		log.Info("connected", "port", state.cfg.Serial.Port)
	}
	return nil
}

// disconnect stops the current session, if any.
func (state *appState) disconnect() {
	if state.session == nil {
		return
	}
	state.session.stop()
	state.session = nil
	log.Info("disconnected")
}
