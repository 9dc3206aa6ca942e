package ai

import (
	"fmt"
	"framedetect/internal/model"
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"
)

const (
	boxThickness   = 2
	labelFont      = gocv.FontHersheySimplex
	labelScale     = 0.5
	labelThickness = 2
	// labelPadding is added to the text height to size the label background.
	labelPadding = 10
	// labelBaseline is the distance between the text baseline and the box top edge.
	labelBaseline = 5
	filled        = -1
)

var labelTextColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// BoxColor returns pure green whose intensity is scaled by confidence.
func BoxColor(confidence float64) color.RGBA {
	c := math.Min(math.Max(confidence, 0), 1)
	return color.RGBA{R: 0, G: uint8(math.Round(255 * c)), B: 0, A: 255}
}

// LabelText formats the caption drawn above a detection box.
func LabelText(d model.Detection) string {
	return fmt.Sprintf("%s %.2f", d.Label, d.Confidence)
}

// DrawDetections draws boxes and labels onto frame in the given order, so later
// detections cover earlier ones where they overlap.
func DrawDetections(frame *gocv.Mat, detections []model.Detection) error {
	for _, detection := range detections {
		boxColor := BoxColor(detection.Confidence)
		if err := gocv.Rectangle(frame, detection.Box, boxColor, boxThickness); err != nil {
			return fmt.Errorf("failed to draw rectangle: %w", err)
		}

		label := LabelText(detection)
		textSize := gocv.GetTextSize(label, labelFont, labelScale, labelThickness)
		x1, y1 := detection.Box.Min.X, detection.Box.Min.Y

		background := image.Rect(x1, y1-textSize.Y-labelPadding, x1+textSize.X, y1)
		if err := gocv.Rectangle(frame, background, boxColor, filled); err != nil {
			return fmt.Errorf("failed to draw label background: %w", err)
		}

		if err := gocv.PutText(frame, label, image.Pt(x1, y1-labelBaseline), labelFont, labelScale, labelTextColor, labelThickness); err != nil {
			return fmt.Errorf("failed to draw text: %w", err)
		}
	}
	return nil
}
