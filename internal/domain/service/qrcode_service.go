package service

// QRCodeService defines the interface for rendering QR code payloads.
type QRCodeService interface {
	// GeneratePNG renders the given content as a PNG image.
	GeneratePNG(content string) ([]byte, error)
}
