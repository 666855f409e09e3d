package numbering

type counterKey struct {
	numID string
	level int
}

// State tracks list counters for one conversion. Calls to Next must be made
// in document order; a State is never shared between conversions.
type State struct {
	counters  map[counterKey]int
	prevNumID string
	prevLevel int
}

// NewState returns an empty counter state.
func NewState() *State {
	return &State{
		counters:  make(map[counterKey]int),
		prevLevel: -1,
	}
}

// Next advances the counter for (numID, level) and returns its new value.
//
// Transitions, evaluated in order:
//  1. A new list, or a numId different from the previous call, clears every
//     counter of numID.
//  2. Descending to a deeper level clears level..MaxLevel.
//  3. Ascending clears the levels between the new level and the previous
//     one whose RestartAfterHigherLevel flag is set.
//  4. A missing counter starts at the resolved start value; an existing
//     counter is incremented.
//
// Levels with RestartAfterHigherLevel disabled are never cleared by a level
// change, only by a list change.
func (s *State) Next(numID string, level int, def *Definition, isNewList bool) int {
	level = clampLevel(level)

	switch {
	case isNewList || s.prevNumID != numID:
		s.clearList(numID)
	case level > s.prevLevel:
		for l := level; l <= MaxLevel; l++ {
			if EffectiveLevel(def, l).RestartAfterHigherLevel {
				delete(s.counters, counterKey{numID, l})
			}
		}
	case level < s.prevLevel:
		for l := level + 1; l <= s.prevLevel; l++ {
			if restartsOnAscent(EffectiveLevel(def, l), level) {
				delete(s.counters, counterKey{numID, l})
			}
		}
	}

	k := counterKey{numID, level}
	v, ok := s.counters[k]
	if !ok {
		v = StartValue(def, level)
	} else {
		v++
	}
	s.counters[k] = v

	s.prevNumID = numID
	s.prevLevel = level
	return v
}

// Counter returns the current value for (numID, level) without changing it.
func (s *State) Counter(numID string, level int) (int, bool) {
	v, ok := s.counters[counterKey{numID, level}]
	return v, ok
}

func (s *State) clearList(numID string) {
	for k := range s.counters {
		if k.numID == numID {
			delete(s.counters, k)
		}
	}
}

// restartsOnAscent reports whether li resets when newLevel is used. A
// w:lvlRestart value n restricts the reset to levels shallower than n.
func restartsOnAscent(li *LevelInfo, newLevel int) bool {
	if !li.RestartAfterHigherLevel {
		return false
	}
	if li.RestartLevel > 0 {
		return newLevel < li.RestartLevel
	}
	return true
}

func clampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}
