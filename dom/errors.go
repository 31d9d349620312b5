package dom

import "errors"

var (
	// ErrInvalidSelector is returned when a CSS selector cannot be compiled.
	ErrInvalidSelector = errors.New("dom: invalid selector")

	// ErrNotElement is returned when an element-only operation targets another node kind.
	ErrNotElement = errors.New("dom: not an element")

	// ErrInvalidHandlerSlot is returned for handler slot names that do not start with "on".
	ErrInvalidHandlerSlot = errors.New("dom: invalid handler slot")
)
