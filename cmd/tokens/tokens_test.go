package tokens_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/testnet-tokens/cmd/tokens"
	"github/chapool/testnet-tokens/internal/config"
	"github/chapool/testnet-tokens/internal/perrors"
	"github/chapool/testnet-tokens/internal/provision"
	"github/chapool/testnet-tokens/internal/test"
	"github/chapool/testnet-tokens/internal/token"
)

const wrappedArtifact = `{
  "contractName": "L2WrappedEth",
  "abi": [
    {"type":"function","name":"deposit","stateMutability":"payable","inputs":[],"outputs":[]},
    {"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"guy","type":"address"},{"name":"wad","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}
  ],
  "bytecode": "0x6080604052"
}`

type run struct {
	stdout  string
	stderr  string
	err     error
	backend *test.FakeBackend
	built   bool
}

func execute(t *testing.T, args ...string) run {
	t.Helper()

	t.Setenv("CHAIN_ETH_NETWORK", "localhost")

	r := run{backend: test.NewFakeBackend()}

	factory := func(_ context.Context, loaded config.Provisioner) (*provision.Service, error) {
		r.built = true

		cfg := test.NewConfig()
		cfg.Templates.ManifestPath = loaded.Templates.ManifestPath

		p, err := provision.InitNewServiceWithBackend(cfg, r.backend)
		if err != nil {
			return nil, err
		}
		test.MakeDeployable(t, p.Registry)

		return p, nil
	}

	root := &cobra.Command{Use: "testnet-tokens", SilenceUsage: true, SilenceErrors: true}
	root.AddCommand(tokens.CommandsWithFactory(factory)...)

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	r.err = root.ExecuteContext(t.Context())
	r.stdout = stdout.String()
	r.stderr = stderr.String()

	return r
}

func TestAdd(t *testing.T) {
	r := execute(t, "add", "--token-name", "DAI", "--symbol", "DAI", "--decimals", "18")
	require.NoError(t, r.err)

	assert.Equal(t, "DEPLOYER ADDRESS\n"+test.Address1+"\nDEPLOYER PRIVATE KEY\n", r.stderr[:len("DEPLOYER ADDRESS\n"+test.Address1+"\nDEPLOYER PRIVATE KEY\n")])

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &result))
	assert.Equal(t, crypto.CreateAddress(common.HexToAddress(test.Address1), 0).Hex(), result["address"])
	assert.Equal(t, "DAI", result["name"])
	assert.Equal(t, "DAI", result["symbol"])
	assert.InDelta(t, 18, result["decimals"], 0)
	assert.NotContains(t, result, "implementation")

	assert.True(t, strings.HasPrefix(r.stdout, "{\n  \"address\": "))
	assert.Len(t, r.backend.Sent(), 13)
}

func TestAddShortFlagsAndPrivateKey(t *testing.T) {
	r := execute(t, "add", "-n", "USD Coin", "-s", "USDC", "-d", "6", "--private-key", test.PrivateKey0)
	require.NoError(t, r.err)

	assert.Contains(t, r.stderr, test.Address0)
	assert.Equal(t, common.HexToAddress(test.Address0), r.backend.Sent()[0].From)
}

func TestAddWrappedNativeWithoutMetadata(t *testing.T) {
	r := execute(t, "add", "--implementation", "WETH9")
	require.NoError(t, r.err)
	assert.Len(t, r.backend.Sent(), 1)
}

func TestAddManifestWrappedNativeWithoutMetadata(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Wrapped.json"), []byte(wrappedArtifact), 0o600))
	manifest := filepath.Join(dir, "templates.toml")
	require.NoError(t, os.WriteFile(manifest, []byte("[templates.L2WrappedEth]\nartifact = \"Wrapped.json\"\nwrapped_native = true\n"), 0o600))
	t.Setenv("PROVISIONER_TEMPLATES_MANIFEST", manifest)

	r := execute(t, "add", "--implementation", "L2WrappedEth")
	require.NoError(t, r.err)
	require.Len(t, r.backend.Sent(), 1)
	assert.Equal(t, []byte{0x60, 0x80, 0x60, 0x40, 0x52}, r.backend.Sent()[0].Tx.Data())
}

func TestAddRejectsMalformedFlags(t *testing.T) {
	for _, args := range [][]string{
		{"add", "--symbol", "DAI", "--decimals", "18"},
		{"add", "--token-name", "DAI", "--symbol", "DAI"},
		{"add", "--token-name", "DAI", "--symbol", "DAI", "--decimals", "256"},
		{"add", "--token-name", "DAI", "--symbol", "DAI", "--decimals", "eighteen"},
	} {
		r := execute(t, args...)

		var inputErr *perrors.MalformedInputError
		require.ErrorAs(t, r.err, &inputErr, "%v", args)
		assert.False(t, r.built, "no provisioner for %v", args)
		assert.Empty(t, r.stdout)
	}
}

func TestAddMulti(t *testing.T) {
	r := execute(t, "add-multi", `[
		{"address": null, "name": "DAI", "symbol": "DAI", "decimals": 18},
		{"address": null, "name": "Wrapped Ether", "symbol": "WETH", "decimals": 18, "implementation": "WETH9"}
	]`)
	require.NoError(t, r.err)

	var results []token.Result
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "DAI", results[0].Symbol)
	assert.Equal(t, "WETH", results[1].Symbol)
	assert.NotContains(t, r.stdout, "implementation")
}

func TestAddMultiFailurePrintsNothing(t *testing.T) {
	t.Setenv("CHAIN_ETH_NETWORK", "localhost")

	backend := test.NewFakeBackend()
	creations := 0
	backend.RevertIf = func(tx test.SentTx) bool {
		if tx.Tx.To() != nil {
			return false
		}
		creations++
		return creations == 2
	}

	factory := func(context.Context, config.Provisioner) (*provision.Service, error) {
		p, err := provision.InitNewServiceWithBackend(test.NewConfig(), backend)
		if err != nil {
			return nil, err
		}
		test.MakeDeployable(t, p.Registry)
		return p, nil
	}

	root := &cobra.Command{Use: "testnet-tokens", SilenceUsage: true, SilenceErrors: true}
	root.AddCommand(tokens.CommandsWithFactory(factory)...)

	var stdout bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"add-multi", `[
		{"name": "A", "symbol": "A", "decimals": 18},
		{"name": "B", "symbol": "B", "decimals": 18},
		{"name": "C", "symbol": "C", "decimals": 18}
	]`})

	err := root.ExecuteContext(t.Context())

	var batchErr *perrors.BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, 1, batchErr.Index)
	assert.Empty(t, stdout.String())
}

func TestAddMultiRejectsMalformedJSON(t *testing.T) {
	for _, raw := range []string{`{"name": "DAI"}`, `[{"address": "0x12"}]`, `not json`, `null`} {
		r := execute(t, "add-multi", raw)

		var inputErr *perrors.MalformedInputError
		require.ErrorAs(t, r.err, &inputErr, raw)
		assert.False(t, r.built)
	}
}

func TestApprove(t *testing.T) {
	r := execute(t, "approve", "--token-address", "0x5FbDB2315678afecb367f032d93F642f64180aa3", "--spender-address", test.SpenderAddress)
	require.NoError(t, r.err)

	dec := json.NewDecoder(strings.NewReader(r.stdout))
	var first, second token.ApprovalResult
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))

	assert.Equal(t, test.Address1, first.Owner)
	assert.Equal(t, test.Address0, second.Owner)
	assert.Equal(t, token.ApproveAmount.String(), first.Allowance)

	assert.Equal(t, 2, strings.Count(r.stderr, "DEPLOYER ADDRESS"))
	assert.Less(t, strings.Index(r.stderr, test.Address1), strings.Index(r.stderr, test.Address0))

	// mint + approve per signer
	assert.Len(t, r.backend.Sent(), 4)
}

func TestApproveRejectsMalformedAddresses(t *testing.T) {
	for _, args := range [][]string{
		{"approve", "--spender-address", test.SpenderAddress},
		{"approve", "--token-address", "0x1234", "--spender-address", test.SpenderAddress},
		{"approve", "--token-address", "0x5FbDB2315678afecb367f032d93F642f64180aa3", "--spender-address", "nope"},
	} {
		r := execute(t, args...)

		var inputErr *perrors.MalformedInputError
		require.ErrorAs(t, r.err, &inputErr, "%v", args)
		assert.False(t, r.built)
	}
}
