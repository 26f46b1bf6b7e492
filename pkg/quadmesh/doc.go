// Package quadmesh implements an editable quadrilateral mesh: vertex and
// quad storage, conversion to triangle and unique-edge index lists,
// per-quad geometry (normal, area, containment, ray intersection, local
// frame), nearest-hit picking, and the extrude/offset/shrink/rotate edit
// operators.
//
// The package never renders. Renderers subscribe with Mesh.Subscribe and
// rebuild their buffers from the mesh each time it reports a change.
package quadmesh
