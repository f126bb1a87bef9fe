package report

import "errors"

// ErrInvalidFilter is returned for malformed report filters. Reports never
// answer a bad filter with an empty result.
var ErrInvalidFilter = errors.New("invalid report filter")
