package virtualize

import (
	"github.com/cybergodev/virtualize/dom"
)

// ConvertSelection converts every element of doc matching the CSS selector,
// in document order, within one conversion. It returns a null Result when
// nothing matches and a list when more than one element does.
func ConvertSelection(doc *dom.HTMLDocument, selector string, opts Options) (Result, error) {
	matches, err := doc.QuerySelectorAll(selector)
	if err != nil {
		return Result{}, err
	}
	c := newConversion(opts)
	for _, m := range matches {
		if err := c.convertRoot(m); err != nil {
			return Result{}, err
		}
	}
	return c.finish()
}
