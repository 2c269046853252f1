package optikit

import "errors"

// ErrUnresolvedNode marks a restored tree node whose name matches no
// known convention and whose identity cannot be re-derived. It indicates a
// structurally inconsistent save and is not auto-healed.
var ErrUnresolvedNode = errors.New("unresolved tree node")
