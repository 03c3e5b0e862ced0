package configurator

import (
	"fmt"

	"github.com/woozymasta/beato-configurator/internal/parts"
)

// ChangeView switches the editing view. The selection is cleared; in the chassis view
// the first chassis part becomes the active part without a highlight. The camera starts
// moving to the view pose and the returned token identifies that move.
func (c *Configurator) ChangeView(v parts.View) (uint64, error) {
	parsed, ok := parts.ParseView(string(v))
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownView, v)
	}
	v = parsed

	c.clearSelection()
	c.view = v

	if v == parts.ViewChassis {
		if chassis := c.cl.Bucket(parts.ViewChassis); len(chassis) > 0 {
			c.selectSingle(chassis[0].Name, false)
		}
	}

	if c.opts.Camera == nil {
		return 0, nil
	}

	return c.opts.Camera.MoveTo(v), nil
}

// SettleCamera reports whether a finished camera move is still current.
// Completions of superseded moves are ignored.
func (c *Configurator) SettleCamera(token uint64) bool {
	if c.opts.Camera == nil {
		return false
	}

	return c.opts.Camera.Settle(token)
}
