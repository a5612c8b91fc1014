package usf

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gogpu/usf/directive"
	"github.com/gogpu/usf/gpu"
	"github.com/gogpu/usf/internal/lex"
	"github.com/gogpu/usf/stage"
)

// ErrNoSections is returned by Parse when the document contains no
// line beginning with the USF magic prefix "//!".
var ErrNoSections = errors.New("usf: document has no \"//!\" sections")

// Parse scans text for USF sections, dispatching each to the hook or
// texture section parser, and accumulates the result into a new
// *HookObject. provider supplies texture creation and the GPU's
// format/limits tables; it must be non-nil.
//
// On failure, any textures already created for this parse are
// destroyed and a nil *HookObject is returned.
func Parse(provider gpu.Provider, text string, opts ...Option) (*HookObject, error) {
	if provider == nil {
		panic("usf: Parse called with a nil gpu.Provider")
	}

	cfg := newParseConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	logger := cfg.logger
	if !cfg.haveLog {
		logger = Logger()
	}

	text = lex.StripBOM(text)

	idx := strings.Index(text, "//!")
	if idx < 0 {
		return nil, ErrNoSections
	}

	obj := &HookObject{
		text:         text,
		lut:          make(map[string]directive.Texture),
		passTextures: make(map[string]passTexture),
		prng:         cfg.seed,
		logger:       logger,
	}

	body := text[idx:]
	for body != "" {
		if lex.StartsWith(body, "//!TEXTURE") {
			tex, rest, err := directive.ParseTexture(provider, body)
			if err != nil {
				logger.Error("failed parsing texture section", slog.Any("err", err))
				obj.Destroy()
				return nil, fmt.Errorf("usf: parsing texture section: %w", err)
			}
			obj.lut[tex.Name] = tex
			body = rest
			continue
		}

		hook, rest, err := directive.ParseHook(body)
		if err != nil {
			logger.Error("failed parsing hook section", slog.Any("err", err))
			obj.Destroy()
			return nil, fmt.Errorf("usf: parsing hook section: %w", err)
		}
		registerHook(obj, hook)
		body = rest
	}

	obj.stages = obj.saveStages
	for _, p := range obj.passes {
		obj.stages = obj.stages.Union(p.execStages)
	}

	logger.Debug("parsed usf document",
		slog.Int("hook_passes", len(obj.passes)),
		slog.Int("lut_textures", len(obj.lut)))

	return obj, nil
}

// registerHook computes a hook's exec stage set and folds its bound
// texture names into the hook object's running save-stage set: a bound
// name that happens to match a stage name contributes that stage, and
// binding "HOOKED" contributes the whole pass's own exec stages (so the
// renderer is asked to save the input texture at every stage this pass
// might read it back at).
func registerHook(obj *HookObject, hook directive.Hook) {
	var execStages stage.Set
	for _, name := range hook.HookTex {
		execStages = execStages.Add(stage.FromName(name))
	}

	for _, name := range hook.BindTex {
		obj.saveStages = obj.saveStages.Add(stage.FromName(name))
		if name == directive.HookedName {
			obj.saveStages = obj.saveStages.Union(execStages)
		}
	}

	obj.passes = append(obj.passes, hookPass{hook: hook, execStages: execStages})
}
