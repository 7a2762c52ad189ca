// Package template resolves token implementation names to contract ABIs and
// creation bytecode.
package template

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/pkg/errors"
)

const (
	methodMint    = "mint"
	methodApprove = "approve"
)

// Template is a deployable (or attachable) token contract.
type Template struct {
	Name     string
	ABI      abi.ABI
	Bytecode []byte
	// WrappedNative marks templates that take no constructor arguments and are
	// never minted during seeding.
	WrappedNative bool
	// Source describes where the template was loaded from, for logs.
	Source string
}

// Deployable reports whether the template carries creation bytecode.
func (t *Template) Deployable() bool {
	return len(t.Bytecode) > 0
}

// ConstructorArgs coerces the token metadata to the constructor inputs of the
// template. Wrapped native templates take no arguments at all.
func (t *Template) ConstructorArgs(name string, symbol string, decimals uint8) ([]interface{}, error) {
	if t.WrappedNative {
		return nil, nil
	}

	values := []interface{}{name, symbol, decimals}
	inputs := t.ABI.Constructor.Inputs

	if len(inputs) != len(values) {
		return nil, errors.Errorf("template %s constructor takes %d arguments, expected (name, symbol, decimals)", t.Name, len(inputs))
	}

	args := make([]interface{}, len(inputs))
	for i, input := range inputs {
		arg, err := coerce(input.Type, values[i])
		if err != nil {
			return nil, errors.Wrapf(err, "template %s constructor argument %q", t.Name, input.Name)
		}
		args[i] = arg
	}

	return args, nil
}

// DeployData returns the creation bytecode followed by the packed constructor arguments.
func (t *Template) DeployData(args ...interface{}) ([]byte, error) {
	if !t.Deployable() {
		return nil, errors.Errorf("template %s has no bytecode", t.Name)
	}

	packed, err := t.ABI.Pack("", args...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to pack %s constructor arguments", t.Name)
	}

	data := make([]byte, 0, len(t.Bytecode)+len(packed))
	data = append(data, t.Bytecode...)
	data = append(data, packed...)

	return data, nil
}

// PackMint packs mint(to, amount).
func (t *Template) PackMint(to interface{}, amount *big.Int) ([]byte, error) {
	return t.pack(methodMint, to, amount)
}

// PackApprove packs approve(spender, amount).
func (t *Template) PackApprove(spender interface{}, amount *big.Int) ([]byte, error) {
	return t.pack(methodApprove, spender, amount)
}

func (t *Template) pack(method string, args ...interface{}) ([]byte, error) {
	if _, ok := t.ABI.Methods[method]; !ok {
		return nil, errors.Errorf("template %s has no %s method", t.Name, method)
	}

	data, err := t.ABI.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to pack %s.%s", t.Name, method)
	}

	return data, nil
}

// coerce converts value to the Go type go-ethereum's ABI packer expects for typ.
func coerce(typ abi.Type, value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case string:
		if typ.T != abi.StringTy {
			return nil, errors.Errorf("cannot use string for %s", typ.String())
		}
		return v, nil
	case uint8:
		return coerceInteger(typ, uint64(v))
	default:
		return nil, errors.Errorf("unsupported value %T", value)
	}
}

func coerceInteger(typ abi.Type, v uint64) (interface{}, error) {
	switch typ.T {
	case abi.UintTy:
		switch typ.Size {
		case 8:
			return uint8(v), nil
		case 16:
			return uint16(v), nil
		case 32:
			return uint32(v), nil
		case 64:
			return v, nil
		default:
			return new(big.Int).SetUint64(v), nil
		}
	case abi.IntTy:
		switch typ.Size {
		case 8:
			return int8(v), nil
		case 16:
			return int16(v), nil
		case 32:
			return int32(v), nil
		case 64:
			return int64(v), nil
		default:
			return new(big.Int).SetUint64(v), nil
		}
	default:
		return nil, errors.Errorf("cannot use integer for %s", typ.String())
	}
}
