package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Get(t *testing.T) {
	t.Parallel()

	google := NewGoogle(GoogleConfig{ClientID: "client-1"})
	linkedin := NewLinkedIn(LinkedInConfig{ClientID: "client-2"})

	registry := NewRegistry(google, linkedin)

	p, err := registry.Get(NameGoogle)
	require.NoError(t, err)
	assert.Equal(t, NameGoogle, p.Name())

	p, err = registry.Get(NameLinkedIn)
	require.NoError(t, err)
	assert.Equal(t, NameLinkedIn, p.Name())

	_, err = registry.Get(NameFacebook)
	require.ErrorIs(t, err, ErrUnknownProvider)
}
