// Package directive parses the two USF section kinds, HOOK sections
// (this file) and TEXTURE sections (texture.go), into typed records.
package directive

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/gogpu/usf/internal/lex"
	"github.com/gogpu/usf/internal/logx"
	"github.com/gogpu/usf/szexpr"
)

// MaxHookStages and MaxBindTextures are the fixed capacities of a Hook's
// HookTex and BindTex lists. Kept as growable slices rather than inline
// arrays, but overflowing either is still a hard error.
const (
	MaxHookStages   = 16
	MaxBindTextures = 16
)

// Errors returned while parsing a HOOK section.
var (
	ErrTooManyHooks      = errors.New("directive: too many HOOK stages")
	ErrTooManyBinds      = errors.New("directive: too many BIND textures")
	ErrMalformedOffset   = errors.New("directive: malformed OFFSET")
	ErrMalformedCompute  = errors.New("directive: malformed COMPUTE")
	ErrMalformedInt      = errors.New("directive: malformed integer operand")
	ErrUnknownDirective  = errors.New("directive: unrecognized directive")
	ErrMalformedSizeExpr = errors.New("directive: malformed size expression")
)

// Hook is the parsed form of one HOOK section.
type Hook struct {
	Desc string

	HookTex []string
	BindTex []string
	SaveTex string

	Body string

	OffsetX, OffsetY float64
	Components       int

	Width, Height, Cond szexpr.Program

	IsCompute          bool
	BlockW, BlockH     int
	ThreadsW, ThreadsH int
}

// HookedName is the reserved texture name the dispatcher substitutes for
// the texture currently being processed at the active stage.
const HookedName = "HOOKED"

// defaultHook returns a Hook with its documented defaults: a
// description of "(unknown)", an identity offset, width/height that
// resolve HOOKED's own size, and a condition that is always true.
func defaultHook() Hook {
	return Hook{
		Desc:   "(unknown)",
		Width:  szexpr.VarWProgram(HookedName),
		Height: szexpr.VarHProgram(HookedName),
		Cond:   szexpr.ConstProgram(1),
	}
}

// ParseHook parses one HOOK section starting at body, which must begin
// with a magic-prefix ("//!") header line. It returns the parsed Hook and
// the remainder of the document after this section (with the next
// section's magic prefix, if any, still attached).
func ParseHook(body string) (hook Hook, rest string, err error) {
	hook = defaultHook()

	for {
		var line string
		line, rest = lex.GetLine(body)
		line = lex.Strip(line)

		payload, ok := lex.EatPrefix(line, "//!")
		if !ok {
			break
		}
		body = rest

		if err := applyHookDirective(&hook, payload); err != nil {
			return Hook{}, "", err
		}
	}

	// The remainder up to the next magic-prefix line (if any) is the
	// verbatim shader body; re-attach the magic prefix to what's left
	// for the document driver's next iteration.
	if head, tail, found := lex.SplitOnToken(body, "//!"); found {
		hook.Body = head
		rest = "//!" + tail
	} else {
		hook.Body = body
		rest = ""
	}

	if len(hook.HookTex) == 0 {
		// Soft warning: parses successfully, but the hook will never
		// be selected by the dispatcher.
		logx.Get().Warn("pass has no hooked textures, will be ignored",
			slog.String("desc", hook.Desc))
	}

	return hook, rest, nil
}

func applyHookDirective(hook *Hook, line string) error {
	switch {
	case matchKeyword(&line, "HOOK"):
		if len(hook.HookTex) >= MaxHookStages {
			return fmt.Errorf("%w: limit is %d", ErrTooManyHooks, MaxHookStages)
		}
		hook.HookTex = append(hook.HookTex, lex.Strip(line))

	case matchKeyword(&line, "BIND"):
		if len(hook.BindTex) >= MaxBindTextures {
			return fmt.Errorf("%w: limit is %d", ErrTooManyBinds, MaxBindTextures)
		}
		hook.BindTex = append(hook.BindTex, lex.Strip(line))

	case matchKeyword(&line, "SAVE"):
		hook.SaveTex = lex.Strip(line)

	case matchKeyword(&line, "DESC"):
		hook.Desc = lex.Strip(line)

	case matchKeyword(&line, "OFFSET"):
		fields := lex.Fields(line)
		if len(fields) < 2 {
			return fmt.Errorf("%w: need 2 floats, got %d", ErrMalformedOffset, len(fields))
		}
		ox, err1 := strconv.ParseFloat(fields[0], 64)
		oy, err2 := strconv.ParseFloat(fields[1], 64)
		if err1 != nil || err2 != nil {
			return fmt.Errorf("%w: %q", ErrMalformedOffset, line)
		}
		hook.OffsetX, hook.OffsetY = ox, oy

	case matchKeyword(&line, "WIDTH"):
		prog, err := szexpr.Parse(line)
		if err != nil {
			return fmt.Errorf("%w: WIDTH: %v", ErrMalformedSizeExpr, err)
		}
		hook.Width = prog

	case matchKeyword(&line, "HEIGHT"):
		prog, err := szexpr.Parse(line)
		if err != nil {
			return fmt.Errorf("%w: HEIGHT: %v", ErrMalformedSizeExpr, err)
		}
		hook.Height = prog

	case matchKeyword(&line, "WHEN"):
		prog, err := szexpr.Parse(line)
		if err != nil {
			return fmt.Errorf("%w: WHEN: %v", ErrMalformedSizeExpr, err)
		}
		hook.Cond = prog

	case matchKeyword(&line, "COMPONENTS"):
		n, err := strconv.Atoi(lex.Strip(line))
		if err != nil {
			return fmt.Errorf("%w: COMPONENTS: %q", ErrMalformedInt, line)
		}
		hook.Components = n

	case matchKeyword(&line, "COMPUTE"):
		fields := lex.Fields(line)
		var nums [4]int
		for i := 0; i < len(fields) && i < 4; i++ {
			n, err := strconv.Atoi(fields[i])
			if err != nil {
				return fmt.Errorf("%w: %q", ErrMalformedCompute, line)
			}
			nums[i] = n
		}
		switch len(fields) {
		case 2:
			hook.BlockW, hook.BlockH = nums[0], nums[1]
			hook.IsCompute = true
		case 4:
			hook.BlockW, hook.BlockH = nums[0], nums[1]
			hook.ThreadsW, hook.ThreadsH = nums[2], nums[3]
			hook.IsCompute = true
		default:
			return fmt.Errorf("%w: need 2 or 4 operands, got %d", ErrMalformedCompute, len(fields))
		}

	default:
		return fmt.Errorf("%w: %q", ErrUnknownDirective, line)
	}
	return nil
}

// matchKeyword reports whether line begins with kw, space- or
// line-terminated. On a match, *line is updated to the stripped
// payload after the keyword.
func matchKeyword(line *string, kw string) bool {
	rest, ok := lex.EatPrefix(*line, kw)
	if !ok {
		return false
	}
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return false
	}
	*line = lex.Strip(rest)
	return true
}
