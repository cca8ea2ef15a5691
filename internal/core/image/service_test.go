package image

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPNG 產生一張小 PNG 測試圖
func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 150, B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSplitDataURL(t *testing.T) {
	mime, b64, err := SplitDataURL("data:image/png;base64,QUJD")
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, "QUJD", b64)
}

func TestSplitDataURLInvalid(t *testing.T) {
	cases := []string{
		"image/png;base64,QUJD",
		"data:text/plain;base64,QUJD",
		"data:image/png,QUJD",
	}
	for _, in := range cases {
		_, _, err := SplitDataURL(in)
		assert.Error(t, err, "input: %s", in)
	}
}

func TestProcessImageDataURL(t *testing.T) {
	svc := NewService(1 << 20)
	raw := testPNG(t)
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)

	payload, err := svc.ProcessImage(dataURL)
	require.NoError(t, err)
	// 統一重編碼為 JPEG
	assert.Equal(t, "image/jpeg", payload.MimeType)
	assert.NotEmpty(t, payload.Base64)
}

func TestProcessImageRawBase64(t *testing.T) {
	svc := NewService(1 << 20)
	payload, err := svc.ProcessImage(base64.StdEncoding.EncodeToString(testPNG(t)))
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", payload.MimeType)
}

func TestProcessImageRejectsGarbage(t *testing.T) {
	svc := NewService(1 << 20)

	_, err := svc.ProcessImage("")
	assert.Error(t, err)

	_, err = svc.ProcessImage("not base64 at all!!!")
	assert.Error(t, err)

	// 合法 base64 但不是圖片
	_, err = svc.ProcessImage(base64.StdEncoding.EncodeToString([]byte("plain text")))
	assert.Error(t, err)
}

func TestProcessImageSizeLimit(t *testing.T) {
	svc := NewService(8)
	_, err := svc.ProcessImage(base64.StdEncoding.EncodeToString(testPNG(t)))
	assert.Error(t, err)
}
