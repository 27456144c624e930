package entity

import (
	"strings"

	"guardpost/internal/errors"

	"github.com/google/uuid"
)

// adminContentPrefix discriminates admin-issued codes on the wire. It is the
// only marker the ledger consumes to select owner-role handling.
const adminContentPrefix = "ADMIN"

// ErrMalformedQRContent is returned when scanned content does not match
// either of the two supported encodings.
var ErrMalformedQRContent = errors.New("malformed qr content")

// QRContent is the decoded form of a scanned code.
type QRContent struct {
	OwnerRole Role // RoleSupervisor for "site:post:id", RoleAdmin for "ADMIN:site:post:id".
	Site      string
	Post      string
	QRID      uuid.UUID
}

// EncodeQRContent renders the canonical content string for a QR location.
// Supervisor-issued codes encode "site:post:qrId"; admin-issued codes carry
// the ADMIN prefix.
func EncodeQRContent(q *QRLocation) string {
	if q.OwnerRole == RoleAdmin {
		return strings.Join([]string{adminContentPrefix, q.Site, q.Post, q.ID.String()}, ":")
	}

	return strings.Join([]string{q.Site, q.Post, q.ID.String()}, ":")
}

// ParseQRContent decodes scanned content. Accepted forms are exactly
// "site:post:qrId" and "ADMIN:site:post:qrId"; anything else, including a
// bare identifier, fails with ErrMalformedQRContent.
func ParseQRContent(content string) (*QRContent, error) {
	parts := strings.Split(strings.TrimSpace(content), ":")

	switch len(parts) {
	case 3:
		id, err := uuid.Parse(parts[2])
		if err != nil {
			return nil, ErrMalformedQRContent
		}

		return &QRContent{OwnerRole: RoleSupervisor, Site: parts[0], Post: parts[1], QRID: id}, nil
	case 4:
		if parts[0] != adminContentPrefix {
			return nil, ErrMalformedQRContent
		}
		id, err := uuid.Parse(parts[3])
		if err != nil {
			return nil, ErrMalformedQRContent
		}

		return &QRContent{OwnerRole: RoleAdmin, Site: parts[1], Post: parts[2], QRID: id}, nil
	default:
		return nil, ErrMalformedQRContent
	}
}
