package buildconfig

import "slices"

// Optimizer names a minifier run over emitted assets.
type Optimizer string

const (
	CSSMinifier Optimizer = "css-minifier"
	JSMinifier  Optimizer = "js-minifier"
)

type OptimizerSettings struct {
	Minimizers []Optimizer `json:"minimizers,omitempty" yaml:"minimizers,omitempty"`
}

// Enabled reports whether the given optimizer should run.
func (o OptimizerSettings) Enabled(opt Optimizer) bool {
	return slices.Contains(o.Minimizers, opt)
}

func (o OptimizerSettings) Empty() bool {
	return len(o.Minimizers) == 0
}

// SelectOptimizers enables both minifiers in production and none in development.
func SelectOptimizers(mode Mode) OptimizerSettings {
	if mode.IsProd() {
		return OptimizerSettings{Minimizers: []Optimizer{CSSMinifier, JSMinifier}}
	}
	return OptimizerSettings{}
}
