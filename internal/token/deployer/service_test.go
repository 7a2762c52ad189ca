package deployer_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/testnet-tokens/internal/perrors"
	"github/chapool/testnet-tokens/internal/test"
	"github/chapool/testnet-tokens/internal/token"
	"github/chapool/testnet-tokens/internal/token/deployer"
	"github/chapool/testnet-tokens/internal/wallet/signer"
)

func setup(t *testing.T) (deployer.Service, *test.FakeBackend, *signer.Signer) {
	t.Helper()

	backend := test.NewFakeBackend()
	svc := deployer.NewService(test.NewConfig(), test.NewClient(t, backend), test.NewRegistry(t))

	s, err := signer.Derive(test.Mnemonic, 1)
	require.NoError(t, err)

	return svc, backend, s
}

func TestDeployDefaultTemplate(t *testing.T) {
	svc, backend, s := setup(t)

	deployed, err := svc.Deploy(t.Context(), token.Spec{Name: "DAI", Symbol: "DAI", Decimals: 18}, s)
	require.NoError(t, err)

	sent := backend.Sent()
	require.Len(t, sent, 1)
	assert.Nil(t, sent[0].Tx.To())
	assert.Equal(t, s.Address, sent[0].From)
	assert.Equal(t, uint64(5_000_000), sent[0].Tx.Gas())

	assert.Equal(t, crypto.CreateAddress(s.Address, 0), deployed.Address)
	assert.Equal(t, "TestnetERC20Token", deployed.Template.Name)

	args := test.DecodeConstructorArgs(t, deployed.Template, sent[0])
	assert.Equal(t, []interface{}{"DAI", "DAI", uint8(18)}, args)
}

func TestDeployWrappedNativeTakesNoArguments(t *testing.T) {
	svc, backend, s := setup(t)

	deployed, err := svc.Deploy(t.Context(), token.Spec{Name: "Wrapped Ether", Symbol: "WETH", Decimals: 18, Implementation: "WETH9"}, s)
	require.NoError(t, err)

	sent := backend.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, test.Bytecode, sent[0].Tx.Data())
	assert.Empty(t, test.DecodeConstructorArgs(t, deployed.Template, sent[0]))
	assert.True(t, deployed.Template.WrappedNative)
}

func TestDeployReverted(t *testing.T) {
	svc, backend, s := setup(t)
	backend.RevertIf = func(test.SentTx) bool { return true }

	_, err := svc.Deploy(t.Context(), token.Spec{Name: "DAI", Symbol: "DAI", Decimals: 18}, s)

	var deployErr *perrors.DeploymentFailedError
	require.ErrorAs(t, err, &deployErr)
	assert.Equal(t, "TestnetERC20Token", deployErr.Implementation)
	assert.Equal(t, "DAI", deployErr.Symbol)
}

func TestDeployUnknownTemplateSubmitsNothing(t *testing.T) {
	svc, backend, s := setup(t)

	_, err := svc.Deploy(t.Context(), token.Spec{Name: "X", Symbol: "X", Decimals: 1, Implementation: "Nope"}, s)

	var deployErr *perrors.DeploymentFailedError
	require.ErrorAs(t, err, &deployErr)
	assert.Equal(t, "Nope", deployErr.Implementation)
	assert.Empty(t, backend.Sent())
}

func TestDeployTimeout(t *testing.T) {
	svc, backend, s := setup(t)
	backend.HoldIf = func(test.SentTx) bool { return true }

	_, err := svc.Deploy(t.Context(), token.Spec{Name: "DAI", Symbol: "DAI", Decimals: 18}, s)

	var deployErr *perrors.DeploymentFailedError
	require.ErrorAs(t, err, &deployErr)
}

func TestAttach(t *testing.T) {
	svc, backend, _ := setup(t)

	addr := common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	deployed, err := svc.Attach(token.Spec{Address: &addr, Name: "DAI", Symbol: "DAI", Decimals: 18})
	require.NoError(t, err)
	assert.Equal(t, addr, deployed.Address)
	assert.Equal(t, "TestnetERC20Token", deployed.Template.Name)
	assert.Empty(t, backend.Sent())

	_, err = svc.Attach(token.Spec{Name: "DAI"})
	var inputErr *perrors.MalformedInputError
	require.ErrorAs(t, err, &inputErr)
}
