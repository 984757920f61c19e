package photos

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusStringRoundTrip(t *testing.T) {
	for _, s := range []AuthorizationStatus{StatusNotDetermined, StatusRestricted, StatusDenied, StatusAuthorized, StatusLimited} {
		got, ok := ParseStatus(s.String())
		assert.True(t, ok, s.String())
		assert.Equal(t, s, got)
	}
}

func TestStatusUnknown(t *testing.T) {
	assert.Equal(t, "unknown", AuthorizationStatus(42).String())
	_, ok := ParseStatus("unknown")
	assert.False(t, ok)
}

func TestCanBrowse(t *testing.T) {
	assert.True(t, StatusAuthorized.CanBrowse())
	assert.True(t, StatusLimited.CanBrowse())
	assert.False(t, StatusDenied.CanBrowse())
	assert.False(t, StatusRestricted.CanBrowse())
	assert.False(t, StatusNotDetermined.CanBrowse())
}
