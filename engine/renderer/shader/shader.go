package shader

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrMissingEntryPoint is returned when a render shader source lacks a @vertex or @fragment function.
var ErrMissingEntryPoint = errors.New("shader: missing entry point")

// ShaderType identifies a programmable stage of a render pipeline.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex stage, used for vertex processing in render pipelines.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment stage, used in pair with a vertex stage.
	ShaderTypeFragment
)

// shader is the implementation of the Shader interface.
// It holds all of the persistent shader data required for pipeline creation and bind group setup.
type shader struct {
	key                        string
	source                     string
	vertexEntry                string
	fragmentEntry              string
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	vertexLayouts              []wgpu.VertexBufferLayout
	structSizes                map[string]wgslTypeLayout
	module                     *wgpu.ShaderModuleDescriptor
}

// Shader defines the interface for a parsed WGSL render shader. A single WGSL module carries both the
// vertex and fragment entry points; the parser extracts the entry point names, the vertex input
// layout, and one bind group layout descriptor per @group with buffer sizes resolved from the struct
// declarations.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for labels and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the WGSL shader source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// EntryPoint returns the entry point function name for a stage.
	//
	// Parameters:
	//   - stage: ShaderTypeVertex or ShaderTypeFragment
	//
	// Returns:
	//   - string: the function name, or empty if the stage is unknown
	EntryPoint(stage ShaderType) string

	// BindGroupLayoutDescriptor retrieves the bind group layout descriptor for a group index.
	//
	// Parameters:
	//   - group: the @group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor, or an empty descriptor if the group is not declared
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors retrieves all parsed bind group layout descriptors keyed by group index.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName retrieves the variable name for a given group and binding index, if it exists.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name, or an empty string if not found
	BindGroupVarName(group, binding int) string

	// BindingSize returns the resolved byte size of the buffer bound at group/binding.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - uint64: the buffer size, or 0 if the binding is unknown
	BindingSize(group, binding int) uint64

	// StructSize returns the WGSL host-shareable size of a struct declared in the source.
	//
	// Parameters:
	//   - name: the struct name
	//
	// Returns:
	//   - uint64: the struct size in bytes
	//   - bool: false if the struct is not declared or could not be resolved
	StructSize(name string) (uint64, bool)

	// VertexLayouts returns the vertex buffer layouts parsed from the vertex input struct(s).
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: one layout per vertex input struct, in declaration order
	VertexLayouts() []wgpu.VertexBufferLayout

	// Module returns the wgpu.ShaderModuleDescriptor built from the source.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the shader module descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

// NewShader parses a WGSL render shader from source. Sources are normally embedded into the binary
// with go:embed.
//
// Parameters:
//   - key: a unique identifier for the shader, used for labels and lookups
//   - source: the WGSL source containing @vertex and @fragment entry points
//
// Returns:
//   - Shader: the parsed shader
//   - error: ErrMissingEntryPoint if a stage is missing, or a binding classification error
func NewShader(key, source string) (Shader, error) {
	s := &shader{
		key:    key,
		source: source,
		module: &wgpu.ShaderModuleDescriptor{
			Label: key,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
				Code: source,
			},
		},
	}

	s.vertexEntry = parseEntryPoint(source, ShaderTypeVertex)
	if s.vertexEntry == "" {
		return nil, fmt.Errorf("%w: %s has no @vertex function", ErrMissingEntryPoint, key)
	}
	s.fragmentEntry = parseEntryPoint(source, ShaderTypeFragment)
	if s.fragmentEntry == "" {
		return nil, fmt.Errorf("%w: %s has no @fragment function", ErrMissingEntryPoint, key)
	}

	structs := parseStructBlocks(stripComments(source))
	s.structSizes = computeStructSizes(structs)
	s.vertexLayouts = parseVertexLayouts(structs)

	var err error
	s.bindGroupLayoutDescriptors, s.bindingVarNames, err = parseBindGroupLayouts(source, s.structSizes, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) EntryPoint(stage ShaderType) string {
	switch stage {
	case ShaderTypeVertex:
		return s.vertexEntry
	case ShaderTypeFragment:
		return s.fragmentEntry
	default:
		return ""
	}
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupVarName(group, binding int) string {
	if s.bindingVarNames[group] == nil {
		return ""
	}
	return s.bindingVarNames[group][binding]
}

func (s *shader) BindingSize(group, binding int) uint64 {
	for _, e := range s.bindGroupLayoutDescriptors[group].Entries {
		if int(e.Binding) == binding {
			return e.Buffer.MinBindingSize
		}
	}
	return 0
}

func (s *shader) StructSize(name string) (uint64, bool) {
	layout, ok := s.structSizes[name]
	return layout.size, ok
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}
