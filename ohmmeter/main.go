package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"github.com/itohio/ohmmeter/pkg/adc"
	"github.com/itohio/ohmmeter/pkg/config"
	"github.com/itohio/ohmmeter/pkg/display"
	"github.com/itohio/ohmmeter/pkg/meter"
	"github.com/powerman/structlog"
)

var log = structlog.New()

func main() {
	var (
		portFlag     = flag.String("p", "", "Serial port override (e.g., COM3 or /dev/ttyACM0)")
		configFlag   = flag.String("config", "config.yaml", "Configuration file path")
		mockFlag     = flag.Bool("mock", false, "Use simulated divider instead of serial port")
		headlessFlag = flag.Bool("headless", false, "Print readings to stdout instead of opening a window")
		onceFlag     = flag.Bool("once", false, "Take a single reading, print it and exit (implies -headless)")
		progressFlag = flag.Bool("progress", false, "Show a progress bar while sampling (headless only)")
		listFlag     = flag.Bool("list", false, "List serial ports and exit")
		paletteFlag  = flag.String("palette", "", "Band colour names: en or pt (overrides config)")
		debugFlag    = flag.Bool("debug", false, "Log every measurement cycle")
	)
	flag.Parse()

	setupLogging(*debugFlag)

	if *listFlag {
		log.ErrIfFail(listPorts)
		return
	}

	// Load configuration
	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatal(err)
	}

	// Override serial port if provided via command line
	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}
	if *paletteFlag != "" {
		cfg.Bands.Palette = *paletteFlag
		cfg.Bands.Names = nil
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", "err", err)
	}
	log.Info("configuration", "file", *configFlag, "settings", cfg)

	if *headlessFlag || *onceFlag {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.ErrIfFail(func() error {
			return runHeadless(ctx, cfg, headlessOptions{
				mock:     *mockFlag,
				once:     *onceFlag,
				progress: *progressFlag,
			})
		})
		return
	}

	runWindow(cfg, *configFlag, *mockFlag)
}

func setupLogging(debug bool) {
	structlog.DefaultLogger.
		SetPrefixKeys(
			structlog.KeyApp, structlog.KeyLevel, structlog.KeyUnit, structlog.KeyTime,
		).
		SetDefaultKeyvals(
			structlog.KeyApp, filepath.Base(os.Args[0]),
		).
		SetSuffixKeys(structlog.KeyStack).
		SetKeysFormat(map[string]string{
			structlog.KeyTime: " %[2]s",
			structlog.KeyUnit: " %6[2]s",
		})
	if !debug {
		structlog.DefaultLogger.SetLogLevel(structlog.INF)
	}
}

func listPorts() error {
	ports, err := adc.Ports()
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		fmt.Println("no serial ports found")
	}
	for _, port := range ports {
		fmt.Println(port.Name)
	}
	return nil
}

// newDevice creates the sample source selected on the command line.
func newDevice(cfg *config.Config, mock bool) adc.Device {
	if mock {
		return adc.NewMock(&cfg.Mock, cfg.Settings())
	}
	return adc.New(cfg.Serial.Port, cfg.Serial.BaudRate, adc.DefaultBufferSize, cfg.Serial.ReadTimeout)
}

type headlessOptions struct {
	mock     bool
	once     bool
	progress bool
}

// runHeadless measures until ctx is cancelled, printing one line per cycle.
func runHeadless(ctx context.Context, cfg *config.Config, opts headlessOptions) error {
	device := newDevice(cfg, opts.mock)
	if err := device.Connect(); err != nil {
		return err
	}
	defer log.ErrIfFail(device.Close)

	m, err := meter.New(cfg, device)
	if err != nil {
		return err
	}
	if opts.progress {
		m.Averager().OnSample(newProgress(os.Stderr))
	}

	console := display.NewConsole(os.Stdout)

	if opts.once {
		r := m.Measure(ctx)
		console.Render(r)
		return r.Err
	}

	m.OnUpdate(console.Render)
	if err := m.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// runWindow opens the main window and blocks until it is closed.
func runWindow(cfg *config.Config, configPath string, mock bool) {
	// Create Fyne application
	application := app.NewWithID("com.itohio.ohmmeter")

	// Create main window
	window := application.NewWindow("Ohmmeter")
	window.Resize(fyne.NewSize(420, 560))
	window.CenterOnScreen()

	// Create application state
	state := &appState{
		cfg:        cfg,
		configPath: configPath,
		window:     window,
		useMock:    mock,
		bands:      display.New("Ohmmeter"),
	}

	// Create border layout with toolbar at top and bands widget as content
	toolbar := createToolbar(state)
	window.SetContent(container.NewBorder(toolbar, nil, nil, nil, state.bands))
	window.SetOnClosed(func() {
		state.disconnect()
	})
	window.ShowAndRun()
}
