package detection

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"

	// Frames arrive as JPEG or PNG; register both decoders.
	_ "image/png"

	"go-ecoagent/types"
)

var boxColor = color.RGBA{R: 0, G: 255, B: 0, A: 255}

const boxThickness = 2

// annotateFrame paints the surviving person boxes onto the frame and
// returns it re-encoded as base64 JPEG. Output dimensions match the
// input frame.
func annotateFrame(src image.Image, boxes []types.BoundingBox) string {
	bounds := src.Bounds()
	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, src, bounds.Min, draw.Src)

	for _, box := range boxes {
		rect := clampRect(box, bounds)
		drawRect(canvas, rect)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: 85}); err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func clampRect(box types.BoundingBox, bounds image.Rectangle) image.Rectangle {
	rect := image.Rect(int(box.X), int(box.Y), int(box.X+box.W), int(box.Y+box.H))
	return rect.Intersect(bounds)
}

// drawRect paints a hollow rectangle border.
func drawRect(canvas *image.RGBA, rect image.Rectangle) {
	for t := 0; t < boxThickness; t++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			setPixel(canvas, x, rect.Min.Y+t)
			setPixel(canvas, x, rect.Max.Y-1-t)
		}
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			setPixel(canvas, rect.Min.X+t, y)
			setPixel(canvas, rect.Max.X-1-t, y)
		}
	}
}

func setPixel(canvas *image.RGBA, x, y int) {
	if (image.Point{X: x, Y: y}).In(canvas.Bounds()) {
		canvas.Set(x, y, boxColor)
	}
}
