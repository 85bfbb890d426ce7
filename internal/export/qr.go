package export

import (
	"encoding/json"
	"fmt"

	"github.com/piwi3910/envelope/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// InputsQRCode returns a PNG QR code encoding p as JSON, so a printed report
// can be scanned back into a study.
func InputsQRCode(p model.Parameters) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal parameters: %w", err)
	}

	png, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}
