package quadmesh

// Listener is notified after the mesh geometry or topology changed. The
// notification is a one-way push; listeners read whatever snapshot they
// need from the mesh during the call and must not edit it.
type Listener interface {
	MeshChanged(m *Mesh)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(m *Mesh)

// MeshChanged calls f(m).
func (f ListenerFunc) MeshChanged(m *Mesh) { f(m) }

type subscription struct {
	l Listener
}

// Subscribe registers l for change notifications and returns a function
// that removes it again.
func (m *Mesh) Subscribe(l Listener) (cancel func()) {
	s := &subscription{l: l}
	m.listeners = append(m.listeners, s)
	return func() {
		for i, other := range m.listeners {
			if other == s {
				m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
				return
			}
		}
	}
}

// Changed bumps the revision and notifies all subscribers. Edit operators
// call it themselves; callers building a mesh with AddVertex/AddQuad call
// it once when done. Listeners may cancel their subscription during the
// call.
func (m *Mesh) Changed() {
	m.revision++
	subs := make([]*subscription, len(m.listeners))
	copy(subs, m.listeners)
	for _, s := range subs {
		s.l.MeshChanged(m)
	}
}

// Revision returns a counter bumped by every Changed call. Comparing two
// readings tells whether the mesh was edited in between.
func (m *Mesh) Revision() uint64 {
	return m.revision
}
