package eval

import (
	"math/rand"

	"github.com/inkcell/inkcell/internal/functions"
	"github.com/inkcell/inkcell/internal/locale"
	"github.com/inkcell/inkcell/internal/model"
)

// mathRandSource is the default functions.RandomSource, grounded on the
// teacher's DefaultRandomGenerator (vogtb/builtin.go).
type mathRandSource struct{}

func (mathRandSource) Float64() float64 { return rand.Float64() }

// callCtx adapts one Engine evaluation (with a specific origin cell) to
// functions.Context, so every builtin sees the clock, RNG, locale, and
// error-provenance address it needs without depending on *Engine
// directly.
type callCtx struct {
	e      *Engine
	origin model.CellAddress
}

func (c callCtx) Clock() functions.Clock         { return c.e.clockSrc }
func (c callCtx) Random() functions.RandomSource { return c.e.rng }
func (c callCtx) Locale() *locale.Locale         { return c.e.Locale }
func (c callCtx) Origin() model.CellAddress      { return c.origin }
