package geo

import (
	"net"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPrivate(t *testing.T) {
	private := []string{"10.0.0.1", "192.168.1.20", "172.16.4.4", "127.0.0.1", "169.254.1.1", "::1", "fd00::1", "0.0.0.0"}
	for _, ip := range private {
		assert.True(t, IsPrivate(net.ParseIP(ip)), ip)
	}

	public := []string{"8.8.8.8", "1.1.1.1", "2001:4860:4860::8888"}
	for _, ip := range public {
		assert.False(t, IsPrivate(net.ParseIP(ip)), ip)
	}
}

func TestIsPrivateString(t *testing.T) {
	assert.True(t, IsPrivateString("not-an-ip"))
	assert.True(t, IsPrivateString("192.168.0.1"))
	assert.False(t, IsPrivateString("9.9.9.9"))
}

func TestNilLocator(t *testing.T) {
	var l *Locator
	_, err := l.Locate("8.8.8.8")
	assert.ErrorIs(t, err, ErrNoLocation)
	assert.NoError(t, l.Close())
}

func TestOpenMissingDatabase(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "GeoLite2-City.mmdb"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening geoip database")
}
