package test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"github/chapool/testnet-tokens/internal/token/template"
)

// Bytecode stands in for compiled creation code; FakeBackend does not execute it.
var Bytecode = common.FromHex("0x6080604052348015600f57600080fd5b50")

// NewRegistry returns a registry whose builtin templates are deployable with Bytecode.
func NewRegistry(t *testing.T) *template.Registry {
	t.Helper()

	r, err := template.NewRegistry(template.Options{})
	require.NoError(t, err)

	MakeDeployable(t, r)

	return r
}

// MakeDeployable attaches Bytecode to every template of r that has none.
func MakeDeployable(t *testing.T, r *template.Registry) {
	t.Helper()

	for _, name := range r.Names() {
		tmpl, err := r.Resolve(name)
		require.NoError(t, err)

		if tmpl.Deployable() {
			continue
		}

		deployable := *tmpl
		deployable.Bytecode = Bytecode
		r.Register(&deployable)
	}
}

// Call is a decoded contract call.
type Call struct {
	From   common.Address
	To     common.Address
	Method string
	Args   []interface{}
}

// DecodeCall decodes the calldata of tx against tmpl.
func DecodeCall(t *testing.T, tmpl *template.Template, tx SentTx) Call {
	t.Helper()

	require.NotNil(t, tx.Tx.To(), "contract creation is not a call")

	data := tx.Tx.Data()
	require.GreaterOrEqual(t, len(data), 4)

	method, err := tmpl.ABI.MethodById(data[:4])
	require.NoError(t, err)

	args, err := method.Inputs.Unpack(data[4:])
	require.NoError(t, err)

	return Call{From: tx.From, To: *tx.Tx.To(), Method: method.Name, Args: args}
}

// DecodeConstructorArgs decodes the constructor arguments appended to Bytecode in a creation tx.
func DecodeConstructorArgs(t *testing.T, tmpl *template.Template, tx SentTx) []interface{} {
	t.Helper()

	require.Nil(t, tx.Tx.To(), "not a contract creation")

	data := tx.Tx.Data()
	require.GreaterOrEqual(t, len(data), len(Bytecode))
	require.Equal(t, Bytecode, data[:len(Bytecode)])

	args, err := tmpl.ABI.Constructor.Inputs.Unpack(data[len(Bytecode):])
	require.NoError(t, err)

	return args
}
