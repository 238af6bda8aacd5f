package acidtype

import "errors"

// errNoDecoder is returned by Decode until a concrete deployment installs
// its own codec with SetDecoder.
var errNoDecoder = errors.New("acidtype: no Acid decoder installed")

// ErrSentinelAccess is the panic value used when a caller invokes a content
// accessor (Intrinsic, ParentCount, ResourceCount, ...) on the NotFound
// sentinel. NotFound must never escape to callers as a normal Acid; any
// caller holding one and calling a content method has a programming bug,
// which spec classifies as fatal.
var ErrSentinelAccess = errors.New("acidtype: NotFound sentinel has no content")
