package camera

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	"golang.org/x/image/draw"
)

const dataURLPrefix = "data:image/jpeg;base64,"

var errEmptyFrame = errors.New("empty frame")

// encodeFrame scales the frame to the requested size, cropping to cover the
// target aspect ratio, and encodes it as JPEG.
func encodeFrame(frame image.Image, c Constraints) ([]byte, error) {
	if frame == nil || frame.Bounds().Empty() {
		return nil, errEmptyFrame
	}

	src := frame
	if c.Width > 0 && c.Height > 0 {
		dst := image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), frame, coverRect(frame.Bounds(), c.Width, c.Height), draw.Src, nil)
		src = dst
	}

	quality := c.Quality
	if quality <= 0 || quality > 100 {
		quality = jpeg.DefaultQuality
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// coverRect returns the centered sub-rectangle of b that has the aspect ratio
// width:height.
func coverRect(b image.Rectangle, width, height int) image.Rectangle {
	bw, bh := b.Dx(), b.Dy()
	// compare bw/bh with width/height without floats
	if bw*height > bh*width {
		cw := bh * width / height
		x0 := b.Min.X + (bw-cw)/2
		return image.Rect(x0, b.Min.Y, x0+cw, b.Max.Y)
	}
	ch := bw * height / width
	y0 := b.Min.Y + (bh-ch)/2
	return image.Rect(b.Min.X, y0, b.Max.X, y0+ch)
}

// displayEncoding renders JPEG bytes as a data URL.
func displayEncoding(data []byte) string {
	return dataURLPrefix + base64.StdEncoding.EncodeToString(data)
}

// DecodeDisplayEncoding reverses displayEncoding.
func DecodeDisplayEncoding(s string) ([]byte, error) {
	payload, ok := strings.CutPrefix(s, dataURLPrefix)
	if !ok {
		return nil, errors.New("not a jpeg data url")
	}
	return base64.StdEncoding.DecodeString(payload)
}
