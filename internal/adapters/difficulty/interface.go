package difficulty

import (
	"context"

	"github.com/hitcircle/hitcircle-api/internal/domain"
)

// Params is the input to one difficulty model invocation. Optional hit
// counts are pointers; a nil field is not passed to the model (e.g. a nil
// Combo means "maximum combo").
//
// Accuracy is a percentage (0-100), matching the model's convention, unlike
// domain.Score which carries a 0-1 fraction.
type Params struct {
	Ruleset  domain.Ruleset
	Mods     []string
	Accuracy float64

	Combo        *int
	Great        *int
	Ok           *int
	Meh          *int
	Miss         *int
	GoodExtra    *int
	PerfectExtra *int
}

// Model maps (beatmap content, params) to difficulty/performance
// attributes. The skill-curve math itself lives behind this boundary; this
// service only orchestrates calls into it.
//
// Implementations must be deterministic for a given model version and must
// not retain the beatmap slice.
type Model interface {
	Calculate(ctx context.Context, beatmap []byte, params Params) (domain.PerformanceAttributes, error)
}
