package usf

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/usf/gpu"
)

type fakeTexture struct {
	w, h      uint32
	destroyed *bool
}

func (f fakeTexture) Width() uint32                  { return f.w }
func (f fakeTexture) Height() uint32                 { return f.h }
func (f fakeTexture) Format() gputypes.TextureFormat { var z gputypes.TextureFormat; return z }
func (f fakeTexture) Destroy() {
	if f.destroyed != nil {
		*f.destroyed = true
	}
}

type fakeProvider struct {
	formats   []gpu.Format
	limits    gpu.Limits
	destroyed []bool
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		formats: []gpu.Format{
			{Name: "rgba8", TexelSize: 4, Caps: gpu.CapSampleable | gpu.CapLinear},
		},
		limits: gpu.Limits{MaxTexture1D: 8192, MaxTexture2D: 8192, MaxTexture3D: 2048},
	}
}

func (p *fakeProvider) CreateTexture(desc gpu.TextureDesc) (gpu.Texture, error) {
	p.destroyed = append(p.destroyed, false)
	flag := &p.destroyed[len(p.destroyed)-1]
	return fakeTexture{w: desc.Width, h: desc.Height, destroyed: flag}, nil
}
func (p *fakeProvider) Formats() []gpu.Format    { return p.formats }
func (p *fakeProvider) Limits() gpu.Limits       { return p.limits }
func (p *fakeProvider) Device() gpu.DeviceHandle { return nil }

// fakeEmitter records every call the dispatcher makes against it, so
// tests can assert on emitted macros without a real shader backend.
type fakeEmitter struct {
	header         strings.Builder
	bindCount      int
	declCount      int
	computeErr     error
	sizeErr        error
	requestedBlock [2]int
	requestedSize  [2]int
}

func (e *fakeEmitter) AppendHeader(src string) { e.header.WriteString(src) }

func (e *fakeEmitter) BindTexture(tex gpu.Texture, rect gpu.Rect) (gpu.BindIDs, error) {
	e.bindCount++
	n := e.bindCount
	return gpu.BindIDs{
		Raw:  fmt.Sprintf("tex%d", n),
		Pos:  fmt.Sprintf("pos%d", n),
		Size: fmt.Sprintf("size%d", n),
		Pt:   fmt.Sprintf("pt%d", n),
	}, nil
}

func (e *fakeEmitter) BindSampled(tex gpu.Texture) (string, error) {
	e.bindCount++
	return fmt.Sprintf("lut%d", e.bindCount), nil
}

func (e *fakeEmitter) DeclareInt(name string, value int64, dynamic bool) string {
	e.declCount++
	return fmt.Sprintf("var%d", e.declCount)
}

func (e *fakeEmitter) DeclareFloat(name string, value float64, dynamic bool) string {
	e.declCount++
	return fmt.Sprintf("var%d", e.declCount)
}

func (e *fakeEmitter) DeclareVec2(name string, x, y float64) string {
	e.declCount++
	return fmt.Sprintf("var%d", e.declCount)
}

func (e *fakeEmitter) RequestCompute(blockW, blockH int) error {
	e.requestedBlock = [2]int{blockW, blockH}
	return e.computeErr
}

func (e *fakeEmitter) RequireOutputSize(w, h int) error {
	e.requestedSize = [2]int{w, h}
	return e.sizeErr
}
