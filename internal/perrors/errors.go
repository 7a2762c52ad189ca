// Package perrors holds the error taxonomy of the provisioning workflow.
// Every error wraps its cause and supports both errors.As/Unwrap and
// pkg/errors.Cause.
package perrors

import (
	"fmt"
)

// DeployerIndex is the MintFailedError index reported for the deploying wallet itself.
const DeployerIndex = -1

// InvalidSeedError reports a malformed seed phrase, derivation path or private key.
type InvalidSeedError struct {
	Reason string
	Err    error
}

func (e *InvalidSeedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid seed: %s: %v", e.Reason, e.Err)
	}

	return "invalid seed: " + e.Reason
}

func (e *InvalidSeedError) Unwrap() error { return e.Err }
func (e *InvalidSeedError) Cause() error  { return e.Err }

// DeploymentFailedError reports a contract creation that reverted, timed out or
// could not be built.
type DeploymentFailedError struct {
	Implementation string
	Symbol         string
	Err            error
}

func (e *DeploymentFailedError) Error() string {
	return fmt.Sprintf("deployment of %s (%s) failed: %v", e.Implementation, e.Symbol, e.Err)
}

func (e *DeploymentFailedError) Unwrap() error { return e.Err }
func (e *DeploymentFailedError) Cause() error  { return e.Err }

// MintFailedError reports a failed mint. Index is the derivation index of the
// receiving wallet, or DeployerIndex for the deploying wallet.
type MintFailedError struct {
	Index   int
	Address string
	Err     error
}

func (e *MintFailedError) Error() string {
	if e.Index == DeployerIndex {
		return fmt.Sprintf("mint to deployer %s failed: %v", e.Address, e.Err)
	}

	return fmt.Sprintf("mint to wallet %d (%s) failed: %v", e.Index, e.Address, e.Err)
}

func (e *MintFailedError) Unwrap() error { return e.Err }
func (e *MintFailedError) Cause() error  { return e.Err }

// ApprovalFailedError reports a failed approve transaction.
type ApprovalFailedError struct {
	Owner   string
	Spender string
	Err     error
}

func (e *ApprovalFailedError) Error() string {
	return fmt.Sprintf("approval of %s by %s failed: %v", e.Spender, e.Owner, e.Err)
}

func (e *ApprovalFailedError) Unwrap() error { return e.Err }
func (e *ApprovalFailedError) Cause() error  { return e.Err }

// MalformedInputError reports invalid operator input. It is always raised
// before any transaction is submitted.
type MalformedInputError struct {
	Input string
	Err   error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed %s: %v", e.Input, e.Err)
}

func (e *MalformedInputError) Unwrap() error { return e.Err }
func (e *MalformedInputError) Cause() error  { return e.Err }

// BatchError attributes a failure inside add-multi to the element that caused it.
type BatchError struct {
	Index int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("token %d: %v", e.Index, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }
func (e *BatchError) Cause() error  { return e.Err }
