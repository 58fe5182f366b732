package artifacts

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

// Issuer produces confirmation artifacts for confirmed bookings. The artifact
// is a QR code over the booking's public URL, returned as a PNG data URL so
// it can be stored inline and rendered by any client.
type Issuer struct {
	baseURL string
}

func NewIssuer(baseURL string) *Issuer {
	return &Issuer{baseURL: baseURL}
}

func (i *Issuer) Issue(ctx context.Context, bookingID uuid.UUID) (string, error) {
	content := fmt.Sprintf("%s/%s", i.baseURL, bookingID)

	png, err := qrcode.Encode(content, qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("failed to encode confirmation QR: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
