package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pkgfoundry/internal/provider"
)

func TestFactoryRequiresURL(t *testing.T) {
	_, err := NewNATSNotifier(nil)
	require.Error(t, err)

	_, err = NewNATSNotifier(map[string]string{"url": ""})
	require.Error(t, err)
}

func TestFactoryDefaultsSubject(t *testing.T) {
	p, err := NewNATSNotifier(map[string]string{"url": "nats://localhost:4222"})
	require.NoError(t, err)

	n, ok := p.(*NATSNotifier)
	require.True(t, ok)
	assert.Equal(t, DefaultSubject, n.subject)
	assert.Equal(t, provider.CapabilityNotifier, n.Capability())
	assert.Equal(t, "nats", n.Name())
}

func TestFactoryCustomSubject(t *testing.T) {
	p, err := NewNATSNotifier(map[string]string{
		"url":     "nats://localhost:4222",
		"subject": "ci.generated",
	})
	require.NoError(t, err)
	assert.Equal(t, "ci.generated", p.(*NATSNotifier).subject)
}
