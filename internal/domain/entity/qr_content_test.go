package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeQRContent(t *testing.T) {
	id := uuid.New()

	supervisorCode := &QRLocation{ID: id, OwnerRole: RoleSupervisor, Site: "Plaza A", Post: "Gate 1"}
	assert.Equal(t, "Plaza A:Gate 1:"+id.String(), EncodeQRContent(supervisorCode))

	adminCode := &QRLocation{ID: id, OwnerRole: RoleAdmin, Site: "HQ", Post: "Lobby"}
	assert.Equal(t, "ADMIN:HQ:Lobby:"+id.String(), EncodeQRContent(adminCode))
}

func TestParseQRContent_RoundTrip(t *testing.T) {
	id := uuid.New()

	parsed, err := ParseQRContent("Plaza A:Gate 1:" + id.String())
	require.NoError(t, err)
	assert.Equal(t, RoleSupervisor, parsed.OwnerRole)
	assert.Equal(t, "Plaza A", parsed.Site)
	assert.Equal(t, "Gate 1", parsed.Post)
	assert.Equal(t, id, parsed.QRID)

	parsed, err = ParseQRContent("ADMIN:HQ:Lobby:" + id.String())
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, parsed.OwnerRole)
	assert.Equal(t, "HQ", parsed.Site)
}

func TestParseQRContent_Malformed(t *testing.T) {
	id := uuid.NewString()

	cases := []string{
		"",
		id, // a bare identifier has no site or post
		"Plaza A:Gate 1",
		"Plaza A:Gate 1:not-a-uuid",
		"SUPER:HQ:Lobby:" + id,
		"ADMIN:HQ:Lobby:not-a-uuid",
		"ADMIN:HQ:Lobby:extra:" + id,
	}

	for _, content := range cases {
		_, err := ParseQRContent(content)
		assert.ErrorIs(t, err, ErrMalformedQRContent, "content %q", content)
	}
}

func TestQRLocationIsBound(t *testing.T) {
	loc := &QRLocation{Latitude: SentinelLatitude, Longitude: SentinelLongitude}
	assert.False(t, loc.IsBound())

	loc.Latitude = 3.1578
	loc.Longitude = 101.7117
	assert.True(t, loc.IsBound())
}
