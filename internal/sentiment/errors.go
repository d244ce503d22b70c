package sentiment

import "errors"

// Sentinel errors returned by scorers.

// ErrScorerURLMissing indicates the HTTP scorer was configured without a base URL.
var ErrScorerURLMissing = errors.New("sentiment scorer URL is missing")

// ErrScorerURLParse indicates the configured scorer URL could not be parsed.
var ErrScorerURLParse = errors.New("failed to parse sentiment scorer URL")

// ErrRequestMarshal indicates the scoring request body could not be encoded.
var ErrRequestMarshal = errors.New("failed to marshal scoring request")

// ErrRequestCreate indicates the HTTP request to the scorer could not be built.
var ErrRequestCreate = errors.New("failed to create scoring request")

// ErrRequestExecute indicates the scorer could not be reached.
var ErrRequestExecute = errors.New("failed to execute scoring request")

// ErrScorerServerError indicates the scorer answered with a non-success status.
var ErrScorerServerError = errors.New("sentiment scorer returned an error")

// ErrResponseDecode indicates the scorer's response body could not be decoded.
var ErrResponseDecode = errors.New("failed to decode scoring response")

// ErrScoreOutOfRange indicates the scorer returned a compound score outside [-1, 1].
var ErrScoreOutOfRange = errors.New("compound score outside [-1, 1]")
