package dcm

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suyashkumar/dicom/pkg/frame"
)

func grayFrame(values []int, rows, cols int) frame.NativeFrame {
	data := make([][]int, len(values))
	for i, v := range values {
		data[i] = []int{v}
	}
	return frame.NativeFrame{BitsPerSample: 16, Rows: rows, Cols: cols, Data: data}
}

func TestNormalizeToUint8(t *testing.T) {
	got := normalizeToUint8([]int{100, 200, 300})
	assert.Equal(t, []uint8{0, 128, 255}, got)

	// Exact midpoints round half up regardless of the value range.
	got = normalizeToUint8([]int{0, 1, 2})
	assert.Equal(t, []uint8{0, 128, 255}, got)

	// Flat frames normalize to black instead of dividing by zero.
	got = normalizeToUint8([]int{42, 42, 42})
	assert.Equal(t, []uint8{0, 0, 0}, got)

	assert.Empty(t, normalizeToUint8(nil))
}

func TestRenderGrayNormalizes(t *testing.T) {
	img, err := renderNative(grayFrame([]int{0, 1000, 2000, 4000}, 2, 2), "MONOCHROME2")
	require.NoError(t, err)

	gray, ok := img.(*image.Gray)
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 2, 2), gray.Bounds())
	assert.Equal(t, uint8(0), gray.Pix[0])
	assert.Equal(t, uint8(255), gray.Pix[3])
}

func TestRenderGrayInvertsMonochrome1(t *testing.T) {
	img, err := renderNative(grayFrame([]int{0, 4000}, 1, 2), "MONOCHROME1")
	require.NoError(t, err)

	gray := img.(*image.Gray)
	assert.Equal(t, uint8(255), gray.Pix[0])
	assert.Equal(t, uint8(0), gray.Pix[1])
}

func TestRenderColorPassthrough(t *testing.T) {
	nf := frame.NativeFrame{
		BitsPerSample: 8,
		Rows:          1,
		Cols:          2,
		Data:          [][]int{{255, 0, 0}, {0, 0, 255}},
	}
	img, err := renderNative(nf, "RGB")
	require.NoError(t, err)

	rgba := img.(*image.RGBA)
	assert.Equal(t, []uint8{255, 0, 0, 255}, rgba.Pix[:4])
	assert.Equal(t, []uint8{0, 0, 255, 255}, rgba.Pix[4:8])
}

func TestRenderNativeRejectsBadFrames(t *testing.T) {
	_, err := renderNative(frame.NativeFrame{Rows: 0, Cols: 0}, "MONOCHROME2")
	assert.Error(t, err)

	_, err = renderNative(frame.NativeFrame{Rows: 2, Cols: 2, Data: [][]int{{1}}}, "MONOCHROME2")
	assert.Error(t, err)
}
