package tickets

import (
	"bytes"
	"fmt"

	"github.com/yeqown/go-qrcode"
)

// ECLevel selects the QR error correction level. Printed tickets get
// photographed and crumpled, so issuance defaults to the highest level.
type ECLevel string

const (
	ECLevelLow     ECLevel = "L"
	ECLevelMedium  ECLevel = "M"
	ECLevelQuart   ECLevel = "Q"
	ECLevelHighest ECLevel = "H"
)

// byte-mode capacity of a version 40 symbol per level
var symbolCapacity = map[ECLevel]int{
	ECLevelLow:     2953,
	ECLevelMedium:  2331,
	ECLevelQuart:   1663,
	ECLevelHighest: 1273,
}

type RenderOptions struct {
	Level ECLevel
	// Width of a single QR module in pixels. Zero means the library default.
	PixelWidth uint8
}

// Render encodes the payload string into a PNG QR symbol. It is a pure
// function of its inputs. Payloads past the symbol capacity at the
// requested level fail with ErrEncodingTooLarge; callers should shorten the
// payload or drop a level, never truncate.
func Render(payload string, opts RenderOptions) ([]byte, error) {
	level := opts.Level
	if level == "" {
		level = ECLevelHighest
	}
	cfg := &qrcode.Config{EncMode: qrcode.EncModeByte}
	switch level {
	case ECLevelLow:
		cfg.EcLevel = qrcode.ErrorCorrectionLow
	case ECLevelMedium:
		cfg.EcLevel = qrcode.ErrorCorrectionMedium
	case ECLevelQuart:
		cfg.EcLevel = qrcode.ErrorCorrectionQuart
	case ECLevelHighest:
		cfg.EcLevel = qrcode.ErrorCorrectionHighest
	default:
		return nil, fmt.Errorf("unknown error correction level: %q", opts.Level)
	}
	if len(payload) > symbolCapacity[level] {
		return nil, ErrEncodingTooLarge
	}

	imageOpts := []qrcode.ImageOption{qrcode.WithBuiltinImageEncoder(qrcode.PNG_FORMAT)}
	if opts.PixelWidth > 0 {
		imageOpts = append(imageOpts, qrcode.WithQRWidth(opts.PixelWidth))
	}
	qrc, err := qrcode.NewWithConfig(payload, cfg, imageOpts...)
	if err != nil {
		return nil, fmt.Errorf("could not build qr symbol: %w", err)
	}
	var buf bytes.Buffer
	if err := qrc.SaveTo(&buf); err != nil {
		return nil, fmt.Errorf("could not write qr image: %w", err)
	}
	return buf.Bytes(), nil
}
