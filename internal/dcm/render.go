package dcm

import (
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"
)

const monochrome1 = "MONOCHROME1"

// RenderJPEG decodes the file's first image frame and encodes it as JPEG at
// the given quality. Multiframe instances export their first frame only.
func (d *Decoder) RenderJPEG(path string, w io.Writer, quality int) error {
	ds, err := dicom.ParseFile(path, nil)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	el, err := ds.FindElementByTag(tag.PixelData)
	if err != nil {
		return fmt.Errorf("%s: no pixel data", path)
	}
	info, ok := el.Value.GetValue().(dicom.PixelDataInfo)
	if !ok || len(info.Frames) == 0 {
		return fmt.Errorf("%s: pixel data holds no frames", path)
	}

	fr := info.Frames[0]
	var img image.Image
	if fr.IsEncapsulated() {
		img, err = fr.GetImage()
	} else {
		photometric := strings.ToUpper(elementString(&ds, tag.PhotometricInterpretation))
		img, err = renderNative(fr.NativeData, photometric)
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	if err := jpeg.Encode(w, img, &jpeg.Options{Quality: quality}); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

// renderNative turns raw frame samples into an 8-bit image. Grayscale frames
// are window-normalized to the full 0..255 range; MONOCHROME1 frames are
// inverted to the MONOCHROME2 visual convention; color frames keep their
// first three samples per pixel, with deeper-than-8-bit samples normalized.
func renderNative(nf frame.NativeFrame, photometric string) (image.Image, error) {
	if nf.Rows <= 0 || nf.Cols <= 0 {
		return nil, fmt.Errorf("invalid frame dimensions %dx%d", nf.Cols, nf.Rows)
	}
	if len(nf.Data) < nf.Rows*nf.Cols {
		return nil, fmt.Errorf("frame has %d pixels, expected %d", len(nf.Data), nf.Rows*nf.Cols)
	}

	samples := 0
	if len(nf.Data) > 0 {
		samples = len(nf.Data[0])
	}

	switch {
	case samples >= 3:
		return renderColor(nf), nil
	case samples == 1:
		return renderGray(nf, photometric), nil
	default:
		return nil, fmt.Errorf("unsupported samples per pixel %d", samples)
	}
}

func renderGray(nf frame.NativeFrame, photometric string) *image.Gray {
	values := make([]int, nf.Rows*nf.Cols)
	for i := range values {
		values[i] = nf.Data[i][0]
	}

	pix := normalizeToUint8(values)
	if photometric == monochrome1 {
		for i, v := range pix {
			pix[i] = 255 - v
		}
	}

	img := image.NewGray(image.Rect(0, 0, nf.Cols, nf.Rows))
	copy(img.Pix, pix)
	return img
}

func renderColor(nf frame.NativeFrame) *image.RGBA {
	direct := nf.BitsPerSample <= 8

	var scaled [][3]uint8
	if !direct {
		flat := make([]int, 0, len(nf.Data)*3)
		for _, px := range nf.Data {
			flat = append(flat, px[0], px[1], px[2])
		}
		norm := normalizeToUint8(flat)
		scaled = make([][3]uint8, len(nf.Data))
		for i := range scaled {
			scaled[i] = [3]uint8{norm[i*3], norm[i*3+1], norm[i*3+2]}
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, nf.Cols, nf.Rows))
	for i := 0; i < nf.Rows*nf.Cols; i++ {
		var r, g, b uint8
		if direct {
			r, g, b = clamp8(nf.Data[i][0]), clamp8(nf.Data[i][1]), clamp8(nf.Data[i][2])
		} else {
			r, g, b = scaled[i][0], scaled[i][1], scaled[i][2]
		}
		off := i * 4
		img.Pix[off] = r
		img.Pix[off+1] = g
		img.Pix[off+2] = b
		img.Pix[off+3] = 0xff
	}
	return img
}

// normalizeToUint8 rescales arbitrary sample depths to the 0..255 range.
// A flat frame (max <= min) comes out all black.
func normalizeToUint8(values []int) []uint8 {
	out := make([]uint8, len(values))
	if len(values) == 0 {
		return out
	}

	vmin, vmax := values[0], values[0]
	for _, v := range values {
		if v < vmin {
			vmin = v
		}
		if v > vmax {
			vmax = v
		}
	}
	if vmax <= vmin {
		return out
	}

	span := float64(vmax - vmin)
	for i, v := range values {
		out[i] = uint8(float64(v-vmin)*255.0/span + 0.5)
	}
	return out
}

func clamp8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
