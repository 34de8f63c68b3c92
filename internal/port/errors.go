package port

import "errors"

// Sentinel errors used across ports. Callers classify failures with
// errors.Is and decide the blast radius per the error taxonomy: a clone
// failure aborts one repository, a checkout failure aborts one commit, a
// timeout degrades to an empty result.
var (
	ErrCommandTimeout  = errors.New("command timed out")
	ErrCloneFailed     = errors.New("clone failed")
	ErrCheckoutFailed  = errors.New("checkout failed")
	ErrTokenInvalid    = errors.New("token invalid")
	ErrDiscoveryFailed = errors.New("repository discovery failed")
)
