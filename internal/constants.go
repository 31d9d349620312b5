package internal

const (
	// DefaultScratchTag is the element created for entity decoding.
	DefaultScratchTag = "div"
)
