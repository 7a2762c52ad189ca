package approver_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/testnet-tokens/internal/perrors"
	"github/chapool/testnet-tokens/internal/test"
	"github/chapool/testnet-tokens/internal/token"
	"github/chapool/testnet-tokens/internal/token/approver"
	"github/chapool/testnet-tokens/internal/token/template"
	"github/chapool/testnet-tokens/internal/wallet/signer"
)

var (
	tokenAddress = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	spender      = common.HexToAddress(test.SpenderAddress)
)

func setup(t *testing.T) (approver.Service, *test.FakeBackend, *template.Registry) {
	t.Helper()

	backend := test.NewFakeBackend()
	registry := test.NewRegistry(t)

	return approver.NewService(test.NewClient(t, backend), registry), backend, registry
}

func derive(t *testing.T, index uint32) *signer.Signer {
	t.Helper()

	s, err := signer.Derive(test.Mnemonic, index)
	require.NoError(t, err)
	return s
}

// effect is the observable outcome of one Approve call: who sent which calls.
type effect struct {
	From   common.Address
	Method string
	Target common.Address
}

func effects(t *testing.T, registry *template.Registry, sent []test.SentTx) []effect {
	t.Helper()

	tmpl, err := registry.Resolve("")
	require.NoError(t, err)

	out := make([]effect, 0, len(sent))
	for _, tx := range sent {
		call := test.DecodeCall(t, tmpl, tx)
		assert.Equal(t, 0, token.ApproveAmount.Cmp(call.Args[1].(*big.Int)))
		out = append(out, effect{From: call.From, Method: call.Method, Target: call.Args[0].(common.Address)})
	}
	return out
}

func TestApproveMintsThenApproves(t *testing.T) {
	svc, backend, registry := setup(t)
	owner := derive(t, 1)

	result, err := svc.Approve(t.Context(), tokenAddress, "", owner, spender)
	require.NoError(t, err)

	assert.Equal(t, &token.ApprovalResult{
		TokenAddress: tokenAddress.Hex(),
		Owner:        test.Address1,
		Spender:      spender.Hex(),
		Allowance:    token.ApproveAmount.String(),
	}, result)

	assert.Equal(t, []effect{
		{From: owner.Address, Method: "mint", Target: owner.Address},
		{From: owner.Address, Method: "approve", Target: spender},
	}, effects(t, registry, backend.Sent()))
}

func TestApproveIsCommutative(t *testing.T) {
	first, backendA, registry := setup(t)
	second, backendB, _ := setup(t)

	a, b := derive(t, 1), derive(t, 0)

	_, err := first.Approve(t.Context(), tokenAddress, "", a, spender)
	require.NoError(t, err)
	_, err = first.Approve(t.Context(), tokenAddress, "", b, spender)
	require.NoError(t, err)

	_, err = second.Approve(t.Context(), tokenAddress, "", b, spender)
	require.NoError(t, err)
	_, err = second.Approve(t.Context(), tokenAddress, "", a, spender)
	require.NoError(t, err)

	assert.ElementsMatch(t, effects(t, registry, backendA.Sent()), effects(t, registry, backendB.Sent()))
}

func TestApproveWrappedNativeSkipsMint(t *testing.T) {
	svc, backend, registry := setup(t)

	_, err := svc.Approve(t.Context(), tokenAddress, "WETH9", derive(t, 0), spender)
	require.NoError(t, err)

	weth, err := registry.Resolve("WETH9")
	require.NoError(t, err)

	sent := backend.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "approve", test.DecodeCall(t, weth, sent[0]).Method)
}

func TestApproveUnknownTemplate(t *testing.T) {
	svc, backend, _ := setup(t)

	_, err := svc.Approve(t.Context(), tokenAddress, "Nope", derive(t, 0), spender)

	var inputErr *perrors.MalformedInputError
	require.ErrorAs(t, err, &inputErr)
	assert.Empty(t, backend.Sent())
}

func TestApproveMintFailure(t *testing.T) {
	svc, backend, _ := setup(t)
	backend.RevertIf = func(test.SentTx) bool { return true }

	_, err := svc.Approve(t.Context(), tokenAddress, "", derive(t, 1), spender)

	var mintErr *perrors.MintFailedError
	require.ErrorAs(t, err, &mintErr)
	assert.Equal(t, 1, mintErr.Index)
	assert.Len(t, backend.Sent(), 1)
}

func TestApproveFailure(t *testing.T) {
	svc, backend, registry := setup(t)

	tmpl, err := registry.Resolve("")
	require.NoError(t, err)
	backend.RevertIf = func(tx test.SentTx) bool {
		return test.DecodeCall(t, tmpl, tx).Method == "approve"
	}

	_, err = svc.Approve(t.Context(), tokenAddress, "", derive(t, 0), spender)

	var approveErr *perrors.ApprovalFailedError
	require.ErrorAs(t, err, &approveErr)
	assert.Equal(t, test.Address0, approveErr.Owner)
}
