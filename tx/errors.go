package tx

import "errors"

// ErrInvalidAmount signals a transfer amount that is nil, negative, or zero
// where zero is not permitted
var ErrInvalidAmount = errors.New("invalid transfer amount")
