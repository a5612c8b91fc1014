package usf

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/usf/directive"
	"github.com/gogpu/usf/gpu"
	"github.com/gogpu/usf/stage"
	"github.com/gogpu/usf/szexpr"
)

// Status is the dispatcher's return value: a bitset of SAVE and AGAIN.
type Status uint8

const (
	// StatusSave asks the renderer to capture this invocation's output
	// and report it back via Save.
	StatusSave Status = 1 << iota
	// StatusAgain asks the renderer to invoke Hook again at the same
	// stage, for the next matching pass.
	StatusAgain
)

// Errors returned by Hook/Save. These are runtime failures: reported,
// then surfaced so the renderer can skip the pass for this frame
// rather than aborting the whole session.
var (
	ErrBindFailed  = errors.New("usf: failed to bind texture")
	ErrNoSuchPass  = errors.New("usf: no matching hook pass at this stage/count")
	ErrNilTexture  = errors.New("usf: HookParams.Tex is nil")
)

// HookParams is the per-invocation input the renderer supplies to Hook.
type HookParams struct {
	Stage   stage.Stage
	Count   int
	Tex     gpu.Texture
	TexRect gpu.Rect
	SrcRect gpu.Rect
	DstRect gpu.Rect
	Emitter gpu.Emitter
}

// Hook runs one dispatcher invocation for the given stage/count. Call
// it once per stage per frame with Count starting at 0 and incrementing
// as long as the previous call's Status has StatusAgain set.
func (h *HookObject) Hook(params HookParams) (Status, error) {
	if params.Tex == nil {
		h.logger.Error("hook invoked without a hooked texture")
		return 0, ErrNilTexture
	}

	if params.Count == 0 && h.saveStages.Test(params.Stage) {
		h.passTextures[stage.Name(params.Stage)] = passTexture{tex: params.Tex, rect: params.TexRect}
	}

	pass, totalCount := h.selectPass(params.Stage, params.Count)
	if pass == nil {
		return 0, nil
	}

	lookup := h.lookupFor(params)

	cond, err := szexpr.Eval(pass.hook.Cond, lookup)
	if err != nil {
		h.logger.Error("failed evaluating WHEN condition", slog.Any("err", err))
		return 0, fmt.Errorf("usf: evaluating WHEN condition: %w", err)
	}

	var status Status
	if cond == 0 {
		h.logger.Debug("skipping hook due to condition", slog.String("desc", pass.hook.Desc))
	} else {
		if err := h.runPass(pass, params, lookup); err != nil {
			h.logger.Error("failed running hook pass", slog.String("desc", pass.hook.Desc), slog.Any("err", err))
			return 0, err
		}
		if pass.hook.SaveTex != "" {
			status |= StatusSave
		}
	}

	if params.Count+1 < totalCount {
		status |= StatusAgain
	}
	return status, nil
}

// selectPass walks the registered passes in registration order,
// counting matches at stage. The count-th match (0-indexed) is the
// current pass; the total number of matches is also returned.
func (h *HookObject) selectPass(st stage.Stage, count int) (*hookPass, int) {
	total := 0
	var current *hookPass
	for i := range h.passes {
		if !h.passes[i].execStages.Test(st) {
			continue
		}
		if total == count {
			current = &h.passes[i]
		}
		total++
	}
	return current, total
}

func (h *HookObject) lookupFor(params HookParams) szexpr.Lookup {
	return szexpr.LookupFunc(func(name string) (w, h2 float64, ok bool) {
		switch name {
		case directive.HookedName:
			return float64(params.Tex.Width()), float64(params.Tex.Height()), true
		case "NATIVE_CROPPED":
			return params.SrcRect.W(), params.SrcRect.H(), true
		case "OUTPUT":
			return params.DstRect.W(), params.DstRect.H(), true
		}
		if pt, ok := h.passTextures[name]; ok {
			return float64(pt.tex.Width()), float64(pt.tex.Height()), true
		}
		// Also resolves LUT texture names, a deliberate extension beyond
		// custom.c's lookup_tex, which only consults well-known names and
		// pass-textures. A WHEN/WIDTH/HEIGHT expression referencing a LUT
		// by name now resolves instead of hard-failing.
		if lut, ok := h.lut[name]; ok && lut.Tex != nil {
			return float64(lut.Tex.Width()), float64(lut.Tex.Height()), true
		}
		return 0, 0, false
	})
}

func (h *HookObject) runPass(pass *hookPass, params HookParams, lookup szexpr.Lookup) error {
	hook := &pass.hook
	em := params.Emitter

	if hook.IsCompute {
		if err := em.RequestCompute(hook.BlockW, hook.BlockH); err != nil {
			return fmt.Errorf("usf: dispatching compute shader: %w", err)
		}
	}

	width, err := szexpr.Eval(hook.Width, lookup)
	if err != nil {
		return fmt.Errorf("usf: evaluating WIDTH: %w", err)
	}
	height, err := szexpr.Eval(hook.Height, lookup)
	if err != nil {
		return fmt.Errorf("usf: evaluating HEIGHT: %w", err)
	}
	if err := em.RequireOutputSize(int(width), int(height)); err != nil {
		return fmt.Errorf("usf: incompatible shader size requirement: %w", err)
	}

	stageName := stage.Name(params.Stage)
	for _, name := range hook.BindTex {
		if name == "" {
			break
		}
		if err := h.bindOne(em, name, stageName, params); err != nil {
			return err
		}
	}

	h.frame++
	frameID := em.DeclareInt("frame", h.frame, true)
	em.AppendHeader(fmt.Sprintf("#define frame %s\n", frameID))

	random := h.prng.next()
	randomID := em.DeclareFloat("random", random, true)
	em.AppendHeader(fmt.Sprintf("#define random %s\n", randomID))

	inputSizeID := em.DeclareVec2("input_size", params.SrcRect.W(), params.SrcRect.H())
	em.AppendHeader(fmt.Sprintf("#define input_size %s\n", inputSizeID))

	targetSizeID := em.DeclareVec2("target_size", params.DstRect.W(), params.DstRect.H())
	em.AppendHeader(fmt.Sprintf("#define target_size %s\n", targetSizeID))

	texOffID := em.DeclareVec2("tex_offset", params.TexRect.X0, params.TexRect.Y0)
	em.AppendHeader(fmt.Sprintf("#define tex_offset %s\n", texOffID))

	em.AppendHeader(hook.Body)
	if hook.IsCompute {
		em.AppendHeader("hook();\n")
	} else {
		em.AppendHeader("vec4 color = hook();\n")
	}

	return nil
}

// bindOne binds a single bound texture name under the dispatcher's
// resolution order: the reserved HOOKED name, then LUT textures, then
// pass-textures. Each name is resolved against its own map lookup,
// never against a shared loop index.
func (h *HookObject) bindOne(em gpu.Emitter, name, stageName string, params HookParams) error {
	if name == directive.HookedName {
		if err := bindHookTex(em, stageName, params.Tex, params.TexRect); err != nil {
			return err
		}
		for _, alias := range []string{"raw", "pos", "size", "rot", "off", "pt", "map", "mul", "tex", "texOff"} {
			em.AppendHeader(fmt.Sprintf("#define HOOKED_%s %s_%s\n", alias, stageName, alias))
		}
		return nil
	}

	if lut, ok := h.lut[name]; ok {
		id, err := em.BindSampled(lut.Tex)
		if err != nil {
			return fmt.Errorf("%w: LUT texture %q: %v", ErrBindFailed, name, err)
		}
		em.AppendHeader(fmt.Sprintf("#define %s %s\n", name, id))
		return nil
	}

	if pt, ok := h.passTextures[name]; ok {
		return bindHookTex(em, name, pt.tex, pt.rect)
	}

	return fmt.Errorf("%w: unresolved bind texture %q", ErrBindFailed, name)
}

// bindHookTex binds tex under name and emits the full per-texture macro
// family: sampler/position/size/inverse-size identifiers from the
// emitter, plus the rectangle origin, an identity rotation, a
// normalisation scale, an identity tex_map, and the two sampling
// macros.
func bindHookTex(em gpu.Emitter, name string, tex gpu.Texture, rect gpu.Rect) error {
	ids, err := em.BindTexture(tex, rect)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrBindFailed, name, err)
	}

	em.AppendHeader(fmt.Sprintf("#define %s_raw %s\n", name, ids.Raw))
	em.AppendHeader(fmt.Sprintf("#define %s_pos %s\n", name, ids.Pos))
	em.AppendHeader(fmt.Sprintf("#define %s_size %s\n", name, ids.Size))
	em.AppendHeader(fmt.Sprintf("#define %s_pt %s\n", name, ids.Pt))

	offID := em.DeclareVec2(name+"_offset", rect.X0, rect.Y0)
	em.AppendHeader(fmt.Sprintf("#define %s_off %s\n", name, offID))

	// Color-representation normalisation is the renderer's concern; this
	// core only wires the macro, using an untouched scale of 1.0.
	const scale = 1.0
	em.AppendHeader(fmt.Sprintf("#define %s_mul %g\n", name, float64(scale)))
	em.AppendHeader(fmt.Sprintf("#define %s_map(pos) (pos)\n", name))
	em.AppendHeader(fmt.Sprintf("#define %s_rot mat2(1.0, 0.0, 0.0, 1.0)\n", name))
	em.AppendHeader(fmt.Sprintf("#define %s_tex(pos) (%g * vec4(texture(%s, pos)))\n", name, float64(scale), ids.Raw))
	em.AppendHeader(fmt.Sprintf("#define %s_texOff(off) (%s_tex(%s + %s * vec2(off)))\n", name, name, ids.Pos, ids.Pt))

	return nil
}

// Save records a prior SAVE-requested output as a pass-texture under
// the matching pass's save-texture name. It uses the same selection
// logic as Hook to find the pass that must have produced this output.
func (h *HookObject) Save(st stage.Stage, count int, tex gpu.Texture) error {
	pass, _ := h.selectPass(st, count)
	if pass == nil {
		h.logger.Error("save reported for a stage/count with no hook pass")
		return ErrNoSuchPass
	}
	if pass.hook.SaveTex == "" {
		h.logger.Error("save reported for a pass without SAVE", slog.String("desc", pass.hook.Desc))
		return fmt.Errorf("%w: pass has no save_tex", ErrNoSuchPass)
	}
	h.passTextures[pass.hook.SaveTex] = passTexture{tex: tex}
	return nil
}
