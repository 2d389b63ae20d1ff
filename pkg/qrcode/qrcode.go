package qrcode

import (
	"encoding/base64"
	"fmt"

	goqrcode "github.com/skip2/go-qrcode"
)

const imageSize = 256

// DataURL encodes content as a PNG QR code inside a data: URL.
func DataURL(content string) (string, error) {
	png, err := goqrcode.Encode(content, goqrcode.Medium, imageSize)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
