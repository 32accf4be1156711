package motion

import "log/slog"

// PlaybackState is a snapshot of a timeline's transport flags, delivered to
// state-change subscribers on every transition. Exactly one of playing,
// paused, or idle/completed holds at a time.
type PlaybackState struct {
	Progress  float64
	Playing   bool
	Paused    bool
	Completed bool
	Reversed  bool
}

type progressHandler struct {
	id uint32
	fn func(progress float64)
}

type stateHandler struct {
	id uint32
	fn func(state PlaybackState)
}

const (
	subProgress uint8 = iota
	subState
)

// subscriberSet holds a timeline's progress and state-change listeners.
// Removal is by id so it stays idempotent; dispatch iterates a snapshot of
// the handler list, so removing any listener mid-callback never invalidates
// the iteration.
type subscriberSet struct {
	progress []progressHandler
	state    []stateHandler
	nextID   uint32
}

// Subscription allows removing a registered listener.
type Subscription struct {
	id   uint32
	set  *subscriberSet
	kind uint8
}

// Remove unregisters the listener. Removing twice, or removing during a
// callback, is safe and does nothing the second time.
func (s Subscription) Remove() {
	if s.set == nil {
		return
	}
	switch s.kind {
	case subProgress:
		s.set.progress = removeProgressHandler(s.set.progress, s.id)
	case subState:
		s.set.state = removeStateHandler(s.set.state, s.id)
	}
}

func removeProgressHandler(s []progressHandler, id uint32) []progressHandler {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = progressHandler{}
			return s[:len(s)-1]
		}
	}
	return s
}

func removeStateHandler(s []stateHandler, id uint32) []stateHandler {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = stateHandler{}
			return s[:len(s)-1]
		}
	}
	return s
}

func (ss *subscriberSet) addProgress(fn func(float64)) Subscription {
	ss.nextID++
	ss.progress = append(ss.progress, progressHandler{id: ss.nextID, fn: fn})
	return Subscription{id: ss.nextID, set: ss, kind: subProgress}
}

func (ss *subscriberSet) addState(fn func(PlaybackState)) Subscription {
	ss.nextID++
	ss.state = append(ss.state, stateHandler{id: ss.nextID, fn: fn})
	return Subscription{id: ss.nextID, set: ss, kind: subState}
}

// emitProgress dispatches to progress listeners. A panicking listener is
// logged and skipped; it must never abort the advancement loop.
func (ss *subscriberSet) emitProgress(log *slog.Logger, progress float64) {
	if len(ss.progress) == 0 {
		return
	}
	snapshot := make([]progressHandler, len(ss.progress))
	copy(snapshot, ss.progress)
	for _, h := range snapshot {
		dispatchProgress(log, h.fn, progress)
	}
}

// emitState dispatches to state-change listeners with the same isolation.
func (ss *subscriberSet) emitState(log *slog.Logger, state PlaybackState) {
	if len(ss.state) == 0 {
		return
	}
	snapshot := make([]stateHandler, len(ss.state))
	copy(snapshot, ss.state)
	for _, h := range snapshot {
		dispatchState(log, h.fn, state)
	}
}

func dispatchProgress(log *slog.Logger, fn func(float64), progress float64) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("progress subscriber panicked", "recovered", r)
		}
	}()
	fn(progress)
}

func dispatchState(log *slog.Logger, fn func(PlaybackState), state PlaybackState) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("state subscriber panicked", "recovered", r)
		}
	}()
	fn(state)
}
