// Event notification.
//
// Listeners are registered per event name and called synchronously, in
// registration order, after the triggering operation has completed and the
// store lock has been released. A listener that returns an error or panics
// is logged and skipped; the operation's result is unaffected. Listeners
// registered for EventAny see every event after the specific ones.
package jsonkv

import (
	"log/slog"
	"slices"
	"sync"
)

// Event names. Each operation emits the event of the same name.
const (
	EventAny             = "*"
	EventGet             = "get"
	EventHas             = "has"
	EventSet             = "set"
	EventDelete          = "delete"
	EventGetMany         = "getMany"
	EventSetMany         = "setMany"
	EventDeleteMany      = "deleteMany"
	EventGetByValue      = "getByValue"
	EventGetManyByValue  = "getManyByValue"
	EventFind            = "find"
	EventFilter          = "filter"
	EventSome            = "some"
	EventEvery           = "every"
	EventFindAndDelete   = "findAndDelete"
	EventFilterAndDelete = "filterAndDelete"
	EventMatchKeys       = "matchKeys"
	EventPush            = "push"
	EventUnshift         = "unshift"
	EventPop             = "pop"
	EventShift           = "shift"
	EventPull            = "pull"
	EventIncludes        = "includes"
	EventAdd             = "add"
	EventSubtract        = "subtract"
	EventMultiply        = "multiply"
	EventDivide          = "divide"
	EventAll             = "all"
	EventKeys            = "keys"
	EventValues          = "values"
	EventLen             = "len"
	EventReset           = "reset"
	EventTypeOf          = "typeOf"
	EventCreate          = "create"
	EventDestroy         = "destroy"
	EventClone           = "clone"
	EventRename          = "rename"
	EventRestore         = "restore"
)

// Event describes a completed operation. Value is what was read or written;
// Old is what was replaced or removed. Both may share storage with the
// cached document and must not be modified.
type Event struct {
	Name  string
	Doc   string
	Key   string
	Keys  []string
	Value Value
	Old   Value
}

// Listener handles an event. Returned errors are logged, not propagated.
type Listener func(Event) error

// ListenerID identifies a registration for Off.
type ListenerID uint64

type registration struct {
	id ListenerID
	fn Listener
}

type emitter struct {
	mu        sync.RWMutex
	next      ListenerID
	listeners map[string][]registration
	logger    *slog.Logger
}

func newEmitter(logger *slog.Logger) *emitter {
	return &emitter{listeners: make(map[string][]registration), logger: logger}
}

// On registers fn for event and returns an id for Off.
func (s *Store) On(event string, fn Listener) (ListenerID, error) {
	if event == "" {
		return 0, fail(CodeMissingInput, "on", "event name is required")
	}
	if fn == nil {
		return 0, fail(CodeInvalidInput, "on", "listener is nil")
	}
	e := s.events
	e.mu.Lock()
	defer e.mu.Unlock()
	e.next++
	e.listeners[event] = append(e.listeners[event], registration{id: e.next, fn: fn})
	return e.next, nil
}

// Off removes the registration id from event. It reports whether the
// registration existed.
func (s *Store) Off(event string, id ListenerID) bool {
	e := s.events
	e.mu.Lock()
	defer e.mu.Unlock()
	regs := e.listeners[event]
	i := slices.IndexFunc(regs, func(r registration) bool { return r.id == id })
	if i < 0 {
		return false
	}
	regs = slices.Delete(slices.Clone(regs), i, i+1)
	if len(regs) == 0 {
		delete(e.listeners, event)
	} else {
		e.listeners[event] = regs
	}
	return true
}

// Emit delivers ev to the listeners of ev.Name and of EventAny.
func (s *Store) Emit(ev Event) {
	e := s.events
	e.mu.RLock()
	regs := slices.Clone(e.listeners[ev.Name])
	if ev.Name != EventAny {
		regs = append(regs, e.listeners[EventAny]...)
	}
	e.mu.RUnlock()

	for _, r := range regs {
		e.call(r, ev)
	}
}

func (e *emitter) call(r registration, ev Event) {
	defer func() {
		if p := recover(); p != nil {
			e.logger.Error("jsonkv: listener panicked", "event", ev.Name, "doc", ev.Doc, "listener", r.id, "panic", p)
		}
	}()
	if err := r.fn(ev); err != nil {
		e.logger.Error("jsonkv: listener failed", "event", ev.Name, "doc", ev.Doc, "listener", r.id, "error", err)
	}
}
