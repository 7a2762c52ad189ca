package command_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/testnet-tokens/internal/config"
	"github/chapool/testnet-tokens/internal/provision"
	"github/chapool/testnet-tokens/internal/test"
	"github/chapool/testnet-tokens/internal/util"
	"github/chapool/testnet-tokens/internal/util/command"
	"github/chapool/testnet-tokens/internal/wallet/signer"
)

func fakeFactory(backend *test.FakeBackend) command.Factory {
	return func(_ context.Context, cfg config.Provisioner) (*provision.Service, error) {
		return provision.InitNewServiceWithBackend(cfg, backend)
	}
}

func TestWithProvisionerFactory(t *testing.T) {
	ctx := t.Context()
	backend := test.NewFakeBackend()

	var testError = errors.New("test error")

	cfg := test.NewConfig()
	cfg.Logger.PrettyPrintConsole = false

	resultErr := command.WithProvisionerFactory(ctx, cfg, fakeFactory(backend), func(ctx context.Context, p *provision.Service) error {
		var buf bytes.Buffer
		l := util.LogFromContext(ctx).Output(&buf)
		l.Info().Msg("tagged")
		assert.Contains(t, buf.String(), `"run_id":"`)

		s, err := p.DeployerSigner(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, test.Address1, s.Address.Hex())

		return testError
	})

	assert.Equal(t, testError, resultErr)
	assert.True(t, backend.Closed())
}

func TestWithProvisionerFactoryError(t *testing.T) {
	err := command.WithProvisionerFactory(t.Context(), test.NewConfig(),
		func(context.Context, config.Provisioner) (*provision.Service, error) {
			return nil, errors.New("dial failed")
		},
		func(context.Context, *provision.Service) error {
			t.Fatal("must not be called")
			return nil
		})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "dial failed")
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "provisioner.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
chain:
  rpc_urls:
    - http://node-a:8545
    - http://node-b:8545
  deploy_gas_limit: 6000000
seeding:
  rich_wallets: 3
  spender_address: "0x000000000000000000000000000000000000d1a0"
`), 0o600))

	cmd := &cobra.Command{Use: "x"}
	cmd.Flags().String(command.ConfigFlag, "", "")
	require.NoError(t, cmd.Flags().Set(command.ConfigFlag, path))

	cfg, err := command.LoadConfig(cmd)
	require.NoError(t, err)

	assert.Equal(t, []string{"http://node-a:8545", "http://node-b:8545"}, cfg.Chain.RPCURLs)
	assert.Equal(t, uint64(6_000_000), cfg.Chain.DeployGasLimit)
	assert.Equal(t, 3, cfg.Seeding.RichWalletCount)
	assert.Equal(t, test.SpenderAddress, cfg.Seeding.DefaultSpenderAddress)
}

func TestLoadConfigMnemonicOverrideReachesFanOutWallets(t *testing.T) {
	t.Setenv("CHAIN_ETH_NETWORK", "localhost")
	t.Setenv("ZKSYNC_HOME", "")
	t.Setenv("PROVISIONER_TEST_CONFIG_PATH", "")
	t.Setenv("PROVISIONER_MNEMONIC", test.TestMnemonic)
	t.Setenv("PROVISIONER_TEST_MNEMONIC", "")

	path := filepath.Join(t.TempDir(), "provisioner.yaml")
	require.NoError(t, os.WriteFile(path, []byte("wallet:\n  mnemonic: "+test.Mnemonic+"\n"), 0o600))

	cmd := &cobra.Command{Use: "x"}
	cmd.Flags().String(command.ConfigFlag, "", "")
	require.NoError(t, cmd.Flags().Set(command.ConfigFlag, path))

	cfg, err := command.LoadConfig(cmd)
	require.NoError(t, err)

	p, err := provision.InitNewServiceWithBackend(cfg, test.NewFakeBackend())
	require.NoError(t, err)
	defer func() { require.NoError(t, p.Close()) }()

	fanOut, err := p.Wallets.Test.Derive(t.Context(), 0)
	require.NoError(t, err)
	assert.Equal(t, test.Address0, fanOut.Address.Hex())
}

func TestLoadConfigMissingFile(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	cmd.Flags().String(command.ConfigFlag, "", "")
	require.NoError(t, cmd.Flags().Set(command.ConfigFlag, filepath.Join(t.TempDir(), "missing.yaml")))

	_, err := command.LoadConfig(cmd)
	require.Error(t, err)
}

func TestEchoSigner(t *testing.T) {
	s, err := signer.Derive(test.Mnemonic, 0)
	require.NoError(t, err)

	var withKey bytes.Buffer
	command.EchoSigner(&withKey, s, true)
	assert.Equal(t, "DEPLOYER ADDRESS\n"+test.Address0+"\nDEPLOYER PRIVATE KEY\n"+test.PrivateKey0+"\n", withKey.String())

	var withoutKey bytes.Buffer
	command.EchoSigner(&withoutKey, s, false)
	assert.Equal(t, "DEPLOYER ADDRESS\n"+test.Address0+"\n", withoutKey.String())
}

func TestPrintJSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, command.PrintJSON(&out, map[string]string{"address": "0x1"}))
	assert.Equal(t, "{\n  \"address\": \"0x1\"\n}\n", out.String())
}
