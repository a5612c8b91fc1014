package usf

import (
	"log/slog"

	"github.com/gogpu/usf/directive"
	"github.com/gogpu/usf/gpu"
	"github.com/gogpu/usf/stage"
)

// hookPass is the registered form of a parsed Hook: the hook itself
// plus the bitset of stages it fires on, the union of
// stage.FromName(hook.HookTex[i]) across its hooked texture names.
type hookPass struct {
	hook       directive.Hook
	execStages stage.Set
}

// passTexture is a (name, texture) binding valid for one frame. It
// borrows its handle from the renderer.
type passTexture struct {
	tex  gpu.Texture
	rect gpu.Rect
}

// HookObject is the public construct produced by Parse. It owns the
// document text, the registered hook passes, the LUT textures, and the
// per-frame dispatcher state.
type HookObject struct {
	text string

	passes []hookPass
	lut    map[string]directive.Texture

	stages     stage.Set
	saveStages stage.Set

	prng  prngState
	frame int64

	passTextures map[string]passTexture

	logger *slog.Logger
}

// Stages returns the bitset of stages this hook object wishes to be
// invoked on (the union of its save-stages and every pass's
// exec_stages, computed once at the end of Parse).
func (h *HookObject) Stages() stage.Set { return h.stages }

// SaveStages returns the bitset of stages at which the currently-hooked
// texture must be captured as a pass-texture before pass selection.
func (h *HookObject) SaveStages() stage.Set { return h.saveStages }
