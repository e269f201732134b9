package main

import (
	"fyne.io/fyne/v2"
)

// updateOnMainThread schedules a widget update function to run on the main Fyne thread.
// Fyne widgets cannot be updated directly from the measurement goroutine.
func updateOnMainThread(callback func()) {
	if callback == nil {
		return
	}
	fyne.Do(callback)
}
