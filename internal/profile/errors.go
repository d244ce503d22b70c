package profile

import "errors"

// Sentinel errors for profile storage and updates.

// ErrStoreRead indicates the persisted store exists but could not be read.
var ErrStoreRead = errors.New("failed to read profile store")

// ErrStoreDecode indicates the persisted store could not be decoded.
var ErrStoreDecode = errors.New("failed to decode profile store")

// ErrStoreEncode indicates the in-memory store could not be encoded for persistence.
var ErrStoreEncode = errors.New("failed to encode profile store")

// ErrStoreWrite indicates the store could not be written back to its backing medium.
var ErrStoreWrite = errors.New("failed to write profile store")

// ErrUnknownField indicates UpdateField was called with a key that is not a profile attribute.
var ErrUnknownField = errors.New("unknown profile field")

// ErrInvalidDate indicates a deadline date is not an ISO calendar date (YYYY-MM-DD).
var ErrInvalidDate = errors.New("deadline date must be formatted as YYYY-MM-DD")

// ErrEmptyUserID indicates an update was attempted without a user identifier.
var ErrEmptyUserID = errors.New("user id cannot be empty")
