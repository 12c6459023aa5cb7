package bind_group_provider

// BufferWrite describes a single GPU buffer write operation targeting a specific binding
// on a BindGroupProvider at a given byte offset.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// Drawable reports whether the provider can be bound for a draw: it has not been released and owns a
// bind group.
func Drawable(p BindGroupProvider) bool {
	return p != nil && !p.Released() && p.BindGroup() != nil
}

// MeshReady reports whether the provider holds uploaded mesh geometry that can be drawn.
func MeshReady(p BindGroupProvider) bool {
	if p == nil || p.Released() || p.VertexBuffer() == nil {
		return false
	}
	if p.IndexBuffer() != nil {
		return p.IndexCount() > 0
	}
	return p.VertexCount() > 0
}
