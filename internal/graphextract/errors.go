package graphextract

import "errors"

// ErrNoCIK is returned by ProcessFiling when the parsed record has no CIK,
// disqualifying it from downstream use (spec §4.3).
var ErrNoCIK = errors.New("filing has no CIK")
