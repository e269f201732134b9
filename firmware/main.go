//go:build tinygo

//go:generate tinygo flash -target=pico

package main

import (
	"context"
	"machine"
	"runtime/volatile"
	"time"

	"github.com/itohio/ohmmeter/pkg/oled"
	"github.com/itohio/ohmmeter/pkg/resistor"
	"github.com/itohio/ohmmeter/pkg/sample"
	"tinygo.org/x/drivers/ssd1306"
)

var _ oled.Screen = (*ssd1306.Device)(nil)

var (
	adc     machine.ADC
	display ssd1306.Device

	// Set from the button interrupt
	resetRequested volatile.Register8
)

func main() {
	// Configure USB console
	machine.Serial.Configure(machine.UARTConfig{BaudRate: UART_BAUD_RATE})

	// Configure the button with a falling-edge interrupt
	PIN_BUTTON.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	PIN_BUTTON.SetInterrupt(machine.PinFalling, func(machine.Pin) {
		resetRequested.Set(1)
	})

	initDisplay()

	// Configure ADC
	machine.InitADC()
	adc = machine.ADC{Pin: PIN_ADC}
	adc.Configure(machine.ADCConfig{})

	settings := resistor.Settings{ReferenceOhms: REFERENCE_OHMS, ADCMax: ADC_MAX, VRef: VREF}
	averager := sample.NewAverager(
		sample.ReaderFunc(readADC),
		NUM_SAMPLES,
		SAMPLE_INTERVAL_MS*time.Millisecond,
		ADC_MAX,
	)

	ctx, cancel := context.WithCancel(context.Background())
	go watchReset(cancel)

	// Main loop, left only through the button
	for ctx.Err() == nil {
		r := measure(ctx, averager, settings)
		if ctx.Err() != nil {
			break
		}

		printDebug(r)
		if err := oled.Render(&display, r); err != nil {
			println("display:", err.Error())
		}

		select {
		case <-ctx.Done():
		case <-time.After(CYCLE_DELAY_MS * time.Millisecond):
		}
	}

	oled.Message(&display, "BOOTSEL")
	machine.EnterBootloader()
}

// watchReset turns the interrupt flag into a context cancellation.
func watchReset(cancel context.CancelFunc) {
	for resetRequested.Get() == 0 {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
}

// readADC returns one 12-bit conversion and echoes it to the console.
func readADC() (uint16, error) {
	value := adc.Get() >> ADC_SHIFT

	// Output format: "unix_micros,reading\n"
	print(time.Now().UnixNano() / 1000)
	print(",")
	print(value)
	print("\n")

	return value, nil
}

func measure(ctx context.Context, averager *sample.Averager, settings resistor.Settings) resistor.Reading {
	avg, err := averager.Average(ctx)
	if err != nil {
		return resistor.Failed(err, resistor.Portuguese)
	}
	return resistor.Classify(avg, settings, resistor.E24, resistor.Portuguese)
}

func printDebug(r resistor.Reading) {
	if !r.OK() {
		println("error:", r.Err.Error())
		return
	}
	println("nearest:", int(r.Match.Value))
	println(r.Digits.First, r.Digits.Second, r.Digits.Multiplier)
}

func initDisplay() {
	// Configure I2C at 400kHz
	machine.I2C1.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       PIN_I2C_SDA,
		SCL:       PIN_I2C_SCL,
	})

	display = ssd1306.NewI2C(machine.I2C1)
	display.Configure(ssd1306.Config{
		Address: OLED_ADDRESS,
		Width:   OLED_WIDTH,
		Height:  OLED_HEIGHT,
	})
	display.ClearDisplay()
}
