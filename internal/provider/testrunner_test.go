package provider

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalTestRunnerBlankCommandIsUnavailable(t *testing.T) {
	p, err := NewLocalTestRunner(map[string]string{"command": "   "})
	require.NoError(t, err)

	err = p.ValidateConnection(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blank")

	// Through the registry the blank command resolves to
	// capability-unavailable instead of crashing the run.
	r := NewRegistry(nil, nil)
	r.Register(CapabilityTestRunner, "local-exec", NewLocalTestRunner)
	_, err = r.Get(context.Background(), CapabilityTestRunner, map[string]string{"command": "   "})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, ErrUnavailable))
}

func TestLocalTestRunnerMissingBinaryIsUnavailable(t *testing.T) {
	p, err := NewLocalTestRunner(nil)
	require.NoError(t, err)
	runner := p.(*LocalTestRunner)
	runner.lookPath = func(string) (string, error) {
		return "", fmt.Errorf("not found")
	}

	err = runner.ValidateConnection(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pytest")
}

func TestLocalTestRunnerRejectsBadTimeout(t *testing.T) {
	_, err := NewLocalTestRunner(map[string]string{"timeout": "soon"})
	require.Error(t, err)
}
