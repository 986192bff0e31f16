// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package bridge

import "errors"

var (
	ErrUnknownResource     = errors.New("unknown resource")
	ErrNotRelayer          = errors.New("sender is not a relayer")
	ErrNotAdmin            = errors.New("sender is not the admin")
	ErrAlreadyVoted        = errors.New("relayer already voted")
	ErrNotActive           = errors.New("proposal is not active")
	ErrNotPassed           = errors.New("proposal has not passed")
	ErrExpiryNotReached    = errors.New("proposal expiry not reached")
	ErrAlreadyExecuted     = errors.New("nonce already executed")
	ErrInvalidSignature    = errors.New("invalid signature")
	ErrDomainMismatch      = errors.New("proposal destination does not match domain")
	ErrAuthorityNotSet     = errors.New("no signing authority configured")
	ErrHandlerAborted      = errors.New("handler execution aborted")
	ErrUntrustedForwarder  = errors.New("forwarder is not trusted")
	ErrUnknownCall         = errors.New("unknown forwarded call")
	ErrEmptyProposalsBatch = errors.New("empty proposals batch")
)
