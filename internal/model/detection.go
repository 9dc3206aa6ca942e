package model

import "image"

// Detection is one object found in one frame. It lives only for the duration of a single call.
type Detection struct {
	Box        image.Rectangle // x1,y1 = Min, x2,y2 = Max, in pixels
	Label      string
	Confidence float64
}
