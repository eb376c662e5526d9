package orchestration

import (
	"github.com/agbru/addcalc/internal/config"
	"github.com/agbru/addcalc/internal/engine"
)

// GetStrategiesToRun returns the strategy named name, or every registered
// strategy in sorted order for config.StrategyAll. An unknown name yields
// nil.
func GetStrategiesToRun(name string, factory *engine.Factory) []engine.Strategy {
	if name == config.StrategyAll {
		return factory.GetAll()
	}
	if s, err := factory.Get(name); err == nil {
		return []engine.Strategy{s}
	}
	return nil
}
