package tickets

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/makiuchi-d/gozxing"
	zxqrcode "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeQR(t *testing.T, data []byte) string {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	require.NoError(t, err)
	result, err := zxqrcode.NewQRCodeReader().Decode(bmp, nil)
	require.NoError(t, err)
	return result.GetText()
}

func TestRenderDecodesBackToPayload(t *testing.T) {
	codec := NewCodec(testKey)
	identity, err := Mint(42, 7)
	require.NoError(t, err)
	payload, err := codec.Encode(identity)
	require.NoError(t, err)

	img, err := Render(payload, RenderOptions{Level: ECLevelHighest})
	require.NoError(t, err)
	assert.Equal(t, payload, decodeQR(t, img))
}

func TestRenderDefaultsToLevelH(t *testing.T) {
	withDefault, err := Render("qrticket-test", RenderOptions{})
	require.NoError(t, err)
	withH, err := Render("qrticket-test", RenderOptions{Level: ECLevelHighest})
	require.NoError(t, err)
	assert.Equal(t, withH, withDefault)
}

func TestRenderDeterministic(t *testing.T) {
	first, err := Render("qrticket-test", RenderOptions{Level: ECLevelQuart})
	require.NoError(t, err)
	second, err := Render("qrticket-test", RenderOptions{Level: ECLevelQuart})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRenderTooLarge(t *testing.T) {
	payload := strings.Repeat("x", symbolCapacity[ECLevelHighest]+1)
	_, err := Render(payload, RenderOptions{Level: ECLevelHighest})
	assert.ErrorIs(t, err, ErrEncodingTooLarge)

	// the same payload still fits at a lower level
	_, err = Render(payload, RenderOptions{Level: ECLevelLow})
	assert.NoError(t, err)
}

func TestRenderUnknownLevel(t *testing.T) {
	_, err := Render("qrticket-test", RenderOptions{Level: "X"})
	assert.Error(t, err)
}
