package tessellate

import (
	"github.com/chazu/quadmodel/pkg/kernel"
	"github.com/chazu/quadmodel/pkg/quadmesh"
)

// Adapter is the rendering side of a quad mesh. It listens for change
// notifications, rebuilds the render buffers and hands them to sink. The
// push is one-way: the adapter never waits on the renderer.
type Adapter struct {
	sink    func(*kernel.Mesh)
	onError func(error)
	version uint64
	last    *kernel.Mesh
}

// NewAdapter returns an adapter delivering buffers to sink. onError is
// called instead of sink when the mesh cannot be tessellated; either may
// be nil.
func NewAdapter(sink func(*kernel.Mesh), onError func(error)) *Adapter {
	return &Adapter{sink: sink, onError: onError}
}

// Attach subscribes the adapter to m and pushes the current snapshot
// immediately. The returned function detaches it again.
func (a *Adapter) Attach(m *quadmesh.Mesh) (detach func()) {
	cancel := m.Subscribe(a)
	a.MeshChanged(m)
	return cancel
}

// MeshChanged implements quadmesh.Listener.
func (a *Adapter) MeshChanged(m *quadmesh.Mesh) {
	buf, err := Tessellate(m)
	if err != nil {
		if a.onError != nil {
			a.onError(err)
		}
		return
	}
	a.version++
	buf.Version = a.version
	a.last = buf
	if a.sink != nil {
		a.sink(buf)
	}
}

// Last returns the most recent buffers, or nil before the first push.
func (a *Adapter) Last() *kernel.Mesh {
	return a.last
}
