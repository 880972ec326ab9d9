package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBindGroupProvider_KeepsLabelAndMeshBuffers(t *testing.T) {
	p := NewBindGroupProvider("quad", WithMeshBuffers(nil, nil, 6))

	assert.Equal(t, "quad", p.Label())
	assert.Equal(t, 6, p.IndexCount())
	assert.Nil(t, p.VertexBuffer())
	assert.Nil(t, p.BindGroup())

	p.SetIndexCount(12)
	assert.Equal(t, 12, p.IndexCount())
}

func TestBufferWrite_ValidRequiresBuffer(t *testing.T) {
	p := NewBindGroupProvider("uniforms")

	assert.False(t, BufferWrite{Provider: p, Binding: 0}.Valid())
	assert.False(t, BufferWrite{Binding: 0}.Valid())
}

func TestRelease_ClearsReferences(t *testing.T) {
	p := NewBindGroupProvider("mesh", WithMeshBuffers(nil, nil, 3))
	p.Release()
	assert.Equal(t, 0, p.IndexCount())
	assert.Nil(t, p.IndexBuffer())
}
