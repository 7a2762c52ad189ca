package test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github/chapool/testnet-tokens/internal/config"
	"github/chapool/testnet-tokens/internal/provision"
)

// WithTestProvisioner runs closure with a provisioner wired on top of a fresh
// FakeBackend and the default test config.
func WithTestProvisioner(t *testing.T, closure func(p *provision.Service, backend *FakeBackend)) {
	t.Helper()

	WithTestProvisionerConfigurable(t, NewConfig(), closure)
}

// WithTestProvisionerConfigurable is WithTestProvisioner with a custom config.
func WithTestProvisionerConfigurable(t *testing.T, cfg config.Provisioner, closure func(p *provision.Service, backend *FakeBackend)) {
	t.Helper()

	backend := NewFakeBackend()

	p, err := provision.InitNewServiceWithBackend(cfg, backend)
	require.NoError(t, err)

	MakeDeployable(t, p.Registry)

	closure(p, backend)

	require.NoError(t, p.Close())
}
