// Package gpu declares the interfaces the usf core consumes from the
// surrounding renderer: texture creation, a format table, and a shader
// emitter. The core never creates a GPU device or compiles shaders itself;
// it is handed a Provider by the caller and drives it through these
// interfaces only. A real backend wires a Provider on top of
// github.com/gogpu/gpucontext and github.com/gogpu/gputypes.
package gpu

import (
	"errors"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle aliases gpucontext.DeviceProvider, naming the GPU device
// access point a Provider is expected to be built on top of. The core
// never touches it directly; it is exposed so an Emitter implementation
// backed by the same device can share queues and resources with the
// host application, the same way a real backend wires one device
// across every consumer.
type DeviceHandle = gpucontext.DeviceProvider

// ErrFormatNotFound is returned by a Provider when FORMAT names a format
// the GPU does not expose.
var ErrFormatNotFound = errors.New("gpu: format not found")

// FormatCaps is a bitmask of capabilities a texture format supports.
type FormatCaps uint32

const (
	// CapSampleable marks a format that can be bound as a sampled texture.
	CapSampleable FormatCaps = 1 << iota
	// CapLinear marks a format that supports linear (bilinear) filtering.
	CapLinear
)

// Format describes one entry of the GPU's texture format table, as
// consulted by the TEXTURE section's FORMAT directive.
type Format struct {
	// ID is the underlying gputypes format this entry represents.
	ID gputypes.TextureFormat
	// Name is the USF-visible format name (e.g. "rgba8").
	Name string
	// Opaque formats (e.g. depth/stencil, planar video formats) cannot be
	// chosen by a USF TEXTURE section.
	Opaque bool
	Caps   FormatCaps
	// TexelSize is the size in bytes of one texel in this format.
	TexelSize uint32
}

// Sampleable reports whether the format can be bound as a sampled texture.
func (f Format) Sampleable() bool { return f.Caps&CapSampleable != 0 }

// Linear reports whether the format supports linear filtering.
func (f Format) Linear() bool { return f.Caps&CapLinear != 0 }

// Limits describes the GPU's per-dimension texture size limits, consulted
// by the TEXTURE section's SIZE directive.
type Limits struct {
	MaxTexture1D uint32
	MaxTexture2D uint32
	MaxTexture3D uint32
}

// FilterMode is the USF-level sampling filter chosen by a TEXTURE section's
// FILTER directive.
type FilterMode uint8

const (
	FilterNearest FilterMode = iota
	FilterLinear
)

// AddressMode is the USF-level texture wrap mode chosen by a TEXTURE
// section's BORDER directive.
type AddressMode uint8

const (
	AddressClamp AddressMode = iota
	AddressRepeat
	AddressMirror
)

// TextureDesc describes a texture to be created from a USF TEXTURE
// section: its dimensions (undeclared dimensions are passed as 1),
// format, sampling and addressing mode, and the decoded initial payload.
type TextureDesc struct {
	Label                string
	Width, Height, Depth uint32
	Format               Format
	Filter               FilterMode
	Address              AddressMode
	// Data is the decoded texel payload; its length must equal
	// product(dims) * Format.TexelSize.
	Data []byte
}

// Texture is an opaque handle to a GPU texture, either a LUT texture
// created from a TEXTURE section or a texture handed in by the renderer
// for one frame (the currently-hooked texture, or a prior pass's saved
// output).
type Texture interface {
	Width() uint32
	Height() uint32
	Format() gputypes.TextureFormat
	// Destroy releases the texture. Only LUT textures are owned by the
	// hook object and need this called on them; pass-textures are
	// borrowed from the renderer for the frame and must not be destroyed
	// here.
	Destroy()
}

// Rect is a source/destination rectangle with float64 coordinates, as
// passed in HookParams.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// W returns the rectangle's width.
func (r Rect) W() float64 { return r.X1 - r.X0 }

// H returns the rectangle's height.
func (r Rect) H() float64 { return r.Y1 - r.Y0 }

// Provider is the GPU abstraction the usf core consumes. The renderer
// supplies one concrete implementation to Parse; each Hook invocation
// instead receives an Emitter.
type Provider interface {
	// CreateTexture creates a GPU texture pre-populated with desc.Data.
	CreateTexture(desc TextureDesc) (Texture, error)
	// Formats returns the GPU's texture format table, consulted by FORMAT.
	Formats() []Format
	// Limits returns the GPU's per-dimension texture size limits.
	Limits() Limits
	// Device returns the underlying device handle this Provider is
	// built on, so an Emitter sharing the same device can dispatch
	// compute work or allocate resources outside the Texture/Format
	// surface above.
	Device() DeviceHandle
}

// BindIDs are the shader identifiers produced by binding a texture:
// the sampler identifier itself, plus the position/size/inverse-size
// helper identifiers used to build the per-texture macro set.
type BindIDs struct {
	Raw, Pos, Size, Pt string
}

// Emitter is the shader-code-generator collaborator the dispatcher
// drives once per Hook invocation.
type Emitter interface {
	// AppendHeader appends verbatim text (macros, the hook body) to the
	// shader header buffer.
	AppendHeader(src string)

	// BindTexture binds tex for sampling at srcRect and returns the
	// shader identifiers needed to build the texture's macro family.
	BindTexture(tex Texture, srcRect Rect) (BindIDs, error)

	// BindSampled binds tex as a plain sampled descriptor (used for LUT
	// textures, which need no position/size macros) and returns its
	// sampler identifier.
	BindSampled(tex Texture) (string, error)

	// DeclareInt declares a shader int variable and returns its
	// identifier. dynamic marks a value that changes every invocation
	// (e.g. the frame counter).
	DeclareInt(name string, value int64, dynamic bool) string

	// DeclareFloat declares a shader float variable and returns its
	// identifier.
	DeclareFloat(name string, value float64, dynamic bool) string

	// DeclareVec2 declares a shader vec2 variable and returns its
	// identifier.
	DeclareVec2(name string, x, y float64) string

	// RequestCompute requests a compute dispatch of the given block
	// geometry. Returns an error if the pass cannot be dispatched as
	// compute.
	RequestCompute(blockW, blockH int) error

	// RequireOutputSize asserts the shader's output image size. Returns
	// an error if the size is incompatible with a prior requirement
	// (e.g. a non-resizable pass).
	RequireOutputSize(w, h int) error
}
