package engine

import "github.com/akyairhashvil/taskspill/internal/models"

// NextKind classifies the interval that would start after timers.
//
// A break only ever follows a work interval. Short breaks taken since the
// most recent long break are counted, looking back at most CadenceWindow
// intervals; once the count reaches LongBreakEvery the break is long.
func (e *Engine) NextKind(timers []models.Interval) models.IntervalKind {
	if len(timers) == 0 {
		return models.KindWork
	}
	if timers[len(timers)-1].Kind.IsBreak() {
		return models.KindWork
	}
	if e.shortBreaksSinceLong(timers) >= e.cfg.LongBreakEvery {
		return models.KindLongBreak
	}
	return models.KindShortBreak
}

func (e *Engine) shortBreaksSinceLong(timers []models.Interval) int {
	count := 0
	examined := 0
	for i := len(timers) - 1; i >= 0; i-- {
		if e.cfg.CadenceWindow > 0 && examined >= e.cfg.CadenceWindow {
			break
		}
		examined++
		kind := timers[i].Kind
		if kind == models.KindLongBreak {
			break
		}
		if kind == models.KindShortBreak {
			count++
		}
	}
	return count
}
