package values

import "strings"

// Listener receives replicated value changes. Filter decides which keys the
// listener cares about; OnValuesChanged receives only the matching subset of
// a batch and is never called with an empty set.
type Listener interface {
	Filter(key string) bool
	OnValuesChanged(changed Values)
}

// FilterFunc matches keys for FuncListener.
type FilterFunc func(key string) bool

// MatchAll accepts every key.
func MatchAll(string) bool { return true }

// MatchKey accepts exactly one key.
func MatchKey(key string) FilterFunc {
	return func(k string) bool { return k == key }
}

// MatchPrefix accepts a key equal to prefix or below it in the dotted
// hierarchy. "Action.Player" matches "Action.Player.Raise" but not
// "Action.PlayerX".
func MatchPrefix(prefix string) FilterFunc {
	return func(k string) bool {
		return k == prefix || strings.HasPrefix(k, prefix+".")
	}
}

// FuncListener adapts a filter and a callback into a Listener.
type FuncListener struct {
	Match FilterFunc
	Fn    func(changed Values)
}

func (l *FuncListener) Filter(key string) bool { return l.Match(key) }

func (l *FuncListener) OnValuesChanged(changed Values) { l.Fn(changed) }

// OnKey builds a listener for a single key.
func OnKey(key string, fn func(v Value)) Listener {
	return &FuncListener{
		Match: MatchKey(key),
		Fn: func(changed Values) {
			if v, ok := changed[key]; ok {
				fn(v)
			}
		},
	}
}

// OnPrefix builds a listener for a dotted-key subtree.
func OnPrefix(prefix string, fn func(changed Values)) Listener {
	return &FuncListener{Match: MatchPrefix(prefix), Fn: fn}
}
