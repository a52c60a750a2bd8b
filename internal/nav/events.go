package nav

// EventKind names a state change.
type EventKind int

const (
	ProjectChanged EventKind = iota
	ReleaseChanged
	ViewChanged
	TabChanged
	ReleasesLoaded
	ReleasesFailed
	Invalidated
	Reset
)

var eventNames = [...]string{
	ProjectChanged: "project-changed",
	ReleaseChanged: "release-changed",
	ViewChanged:    "view-changed",
	TabChanged:     "tab-changed",
	ReleasesLoaded: "releases-loaded",
	ReleasesFailed: "releases-failed",
	Invalidated:    "invalidated",
	Reset:          "reset",
}

func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return "unknown"
}

// Event is delivered to subscribers after every transition.
type Event struct {
	Kind      EventKind
	Selection Selection
	// Err is set for ReleasesFailed.
	Err error
}

type subscriber struct {
	id int
	fn func(Event)
}

// Subscribe registers fn to be called synchronously, in subscription
// order, after every transition. The returned function removes it.
func (m *Machine) Subscribe(fn func(Event)) (cancel func()) {
	m.nextSub++
	id := m.nextSub
	m.subs = append(m.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range m.subs {
			if s.id == id {
				m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
				return
			}
		}
	}
}

func (m *Machine) emit(e Event) {
	if len(m.subs) == 0 {
		return
	}
	e.Selection = m.Selection()
	for _, s := range append([]subscriber(nil), m.subs...) {
		s.fn(e)
	}
}
