package widgets

import "image/color"

// Dark overlay palette
var (
	colorTrack    = color.RGBA{55, 57, 61, 255}
	colorTimeLeft = color.RGBA{88, 140, 236, 255}
	colorTimeLow  = color.RGBA{234, 179, 8, 255}
	colorTimeOut  = color.RGBA{239, 68, 68, 255}
	colorWhite    = color.RGBA{237, 237, 237, 255} // Primary text
	colorGray     = color.RGBA{156, 163, 175, 255} // Secondary text
)
