//go:build tinygo

package main

import "machine"

const (
	// Sampling configuration
	SAMPLE_INTERVAL_MS = 1   // Delay between ADC reads in milliseconds
	NUM_SAMPLES        = 500 // Number of samples to average per reading
	CYCLE_DELAY_MS     = 700 // Pause between readings in milliseconds

	// Divider configuration
	REFERENCE_OHMS = 10000 // Known resistor of the divider
	ADC_MAX        = 4095  // Full-scale 12-bit reading
	ADC_SHIFT      = 4     // machine.ADC.Get is scaled to 16 bits
	VREF           = 3.3   // ADC reference voltage in volts

	// ADC pin (GPIO 28, ADC input 2)
	PIN_ADC = machine.ADC2

	// OLED display on I2C1
	PIN_I2C_SDA  = machine.GP14
	PIN_I2C_SCL  = machine.GP15
	OLED_ADDRESS = 0x3C
	OLED_WIDTH   = 128
	OLED_HEIGHT  = 64

	// Button B reboots into the USB bootloader
	PIN_BUTTON = machine.GP6

	// USB-CDC console, used by the host application
	// Format "unix_micros,reading\n" is ~22 bytes per line at one line per millisecond
	UART_BAUD_RATE = 115200
)
