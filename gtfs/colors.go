package gtfs

import "strconv"

// DefaultRouteColor is applied when a route row has no color of its own.
const DefaultRouteColor = "0039A6"

// ContrastColor picks black or white text for a background hex color using
// perceived luminance. Accepts colors with or without a leading '#'.
func ContrastColor(bgHex string) string {
	r, g, b, ok := hexToRGB(bgHex)
	if !ok {
		return "#ffffff"
	}
	luminance := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 255
	if luminance > 0.5 {
		return "#000000"
	}
	return "#ffffff"
}

func hexToRGB(hex string) (r, g, b uint8, ok bool) {
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) < 6 {
		return 0, 0, 0, false
	}
	rv, err1 := strconv.ParseUint(hex[0:2], 16, 8)
	gv, err2 := strconv.ParseUint(hex[2:4], 16, 8)
	bv, err3 := strconv.ParseUint(hex[4:6], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0, false
	}
	return uint8(rv), uint8(gv), uint8(bv), true
}
