package api

import (
	"image"
	"time"
)

func OverloadShutdownDelay(overload time.Duration) func() {
	shutdownDelayRef := shutdownDelay
	shutdownDelay = overload
	return func() { shutdownDelay = shutdownDelayRef }
}

func ScaleToWidth(img image.Image, maxWidth int) image.Image {
	return scaleToWidth(img, maxWidth)
}
