package theme

import "image/color"

// Dark palette
var (
	// Background layers (darkest to lightest)
	ColorBackground     = color.NRGBA{R: 18, G: 18, B: 18, A: 255} // #121212
	ColorSurface        = color.NRGBA{R: 30, G: 30, B: 30, A: 255} // #1E1E1E
	ColorSurfaceVariant = color.NRGBA{R: 40, G: 40, B: 40, A: 255} // #282828
	ColorOverlay        = color.NRGBA{R: 50, G: 50, B: 50, A: 255} // #323232
	ColorSidebar        = color.NRGBA{R: 24, G: 24, B: 24, A: 255} // #181818

	// Accent colors
	ColorPrimary   = color.NRGBA{R: 92, G: 58, B: 88, A: 255}   // #5C3A58
	ColorSecondary = color.NRGBA{R: 125, G: 90, B: 121, A: 255} // #7D5A79

	// Text colors
	ColorTextPrimary   = color.NRGBA{R: 255, G: 255, B: 255, A: 255} // #FFFFFF
	ColorTextSecondary = color.NRGBA{R: 158, G: 158, B: 158, A: 255} // #9E9E9E
	ColorTextDisabled  = color.NRGBA{R: 97, G: 97, B: 97, A: 255}    // #616161
	ColorTextHint      = color.NRGBA{R: 117, G: 117, B: 117, A: 255} // #757575

	// Session status colors
	ColorSuccess    = color.NRGBA{R: 76, G: 175, B: 80, A: 255}   // #4CAF50 - Ready
	ColorWarning    = color.NRGBA{R: 255, G: 193, B: 7, A: 255}   // #FFC107 - Unsaved edits
	ColorError      = color.NRGBA{R: 244, G: 67, B: 54, A: 255}   // #F44336 - Failed
	ColorProcessing = color.NRGBA{R: 33, G: 150, B: 243, A: 255}  // #2196F3 - Loading, exporting
	ColorIdle       = color.NRGBA{R: 117, G: 117, B: 117, A: 255} // #757575 - Nothing loaded

	// Waveform and regions
	ColorWave         = color.NRGBA{R: 150, G: 150, B: 160, A: 255}
	ColorPlayhead     = color.NRGBA{R: 255, G: 82, B: 82, A: 255}
	ColorRegion       = color.NRGBA{R: 125, G: 90, B: 121, A: 90}
	ColorRegionActive = color.NRGBA{R: 125, G: 90, B: 121, A: 160}
	ColorRegionBorder = color.NRGBA{R: 200, G: 160, B: 196, A: 255}

	// UI element colors
	ColorDivider     = color.NRGBA{R: 48, G: 48, B: 48, A: 255}   // #303030
	ColorInputBg     = color.NRGBA{R: 35, G: 35, B: 35, A: 255}   // #232323
	ColorHover       = color.NRGBA{R: 255, G: 255, B: 255, A: 20} // White with low opacity
	ColorPressed     = color.NRGBA{R: 255, G: 255, B: 255, A: 30} // White with higher opacity
	ColorFocusBorder = color.NRGBA{R: 92, G: 58, B: 88, A: 180}   // Primary with transparency
	ColorDisabledBg  = color.NRGBA{R: 38, G: 38, B: 38, A: 255}   // #262626
	ColorScrollbar   = color.NRGBA{R: 80, G: 80, B: 80, A: 255}   // #505050
	ColorBottomPanel = color.NRGBA{R: 22, G: 22, B: 22, A: 255}   // #161616
)

// ParseHex parses "#RRGGBB" or "#RRGGBBAA". It returns false for anything
// else, so a region without a usable color falls back to the theme.
func ParseHex(s string) (color.NRGBA, bool) {
	if len(s) != 7 && len(s) != 9 || s[0] != '#' {
		return color.NRGBA{}, false
	}
	var v [4]uint8
	v[3] = 255
	for i := 0; i < (len(s)-1)/2; i++ {
		hi, ok1 := hexDigit(s[1+2*i])
		lo, ok2 := hexDigit(s[2+2*i])
		if !ok1 || !ok2 {
			return color.NRGBA{}, false
		}
		v[i] = hi<<4 | lo
	}
	return color.NRGBA{R: v[0], G: v[1], B: v[2], A: v[3]}, true
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// WithAlpha returns a color with modified alpha value
func WithAlpha(c color.Color, alpha uint8) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
		A: alpha,
	}
}
