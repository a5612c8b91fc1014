package directive

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/gogpu/usf/internal/logx"
	"github.com/gogpu/usf/szexpr"
)

func TestParseHook_Defaults(t *testing.T) {
	body := "//!HOOK MAIN\n//!BIND HOOKED\nvoid hook() {}\n"
	hook, rest, err := ParseHook(body)
	if err != nil {
		t.Fatalf("ParseHook: %v", err)
	}
	if hook.Desc != "(unknown)" {
		t.Errorf("Desc = %q, want (unknown)", hook.Desc)
	}
	if hook.Body != "void hook() {}\n" {
		t.Errorf("Body = %q", hook.Body)
	}
	if rest != "" {
		t.Errorf("rest = %q, want empty", rest)
	}
	if hook.HookTex[0] != "MAIN" {
		t.Errorf("HookTex[0] = %q", hook.HookTex[0])
	}
	if hook.BindTex[0] != "HOOKED" {
		t.Errorf("BindTex[0] = %q", hook.BindTex[0])
	}
	if c, err := szexpr.Eval(hook.Cond, szexpr.LookupFunc(noLookup)); err != nil || c != 1 {
		t.Errorf("default Cond = %v, %v, want 1,nil", c, err)
	}
}

func noLookup(name string) (w, h float64, ok bool) { return 0, 0, false }

func TestParseHook_MultiSection(t *testing.T) {
	body := "//!HOOK LUMA\n//!BIND HOOKED\n//!DESC downscale\nfirst body\n" +
		"//!HOOK CHROMA\n//!BIND HOOKED\nsecond body\n"
	hook1, rest, err := ParseHook(body)
	if err != nil {
		t.Fatalf("ParseHook first: %v", err)
	}
	if hook1.Desc != "downscale" || hook1.Body != "first body\n" {
		t.Errorf("unexpected first hook: %+v", hook1)
	}
	hook2, rest2, err := ParseHook(rest)
	if err != nil {
		t.Fatalf("ParseHook second: %v", err)
	}
	if hook2.Body != "second body\n" || rest2 != "" {
		t.Errorf("unexpected second hook: %+v, rest=%q", hook2, rest2)
	}
}

func TestParseHook_OffsetAndComponents(t *testing.T) {
	body := "//!HOOK MAIN\n//!BIND HOOKED\n//!OFFSET 1.5 -2\n//!COMPONENTS 3\nbody\n"
	hook, _, err := ParseHook(body)
	if err != nil {
		t.Fatalf("ParseHook: %v", err)
	}
	if hook.OffsetX != 1.5 || hook.OffsetY != -2 {
		t.Errorf("offset = %v,%v", hook.OffsetX, hook.OffsetY)
	}
	if hook.Components != 3 {
		t.Errorf("components = %d", hook.Components)
	}
}

func TestParseHook_Compute(t *testing.T) {
	body := "//!HOOK MAIN\n//!BIND HOOKED\n//!COMPUTE 32 32 8 8\nbody\n"
	hook, _, err := ParseHook(body)
	if err != nil {
		t.Fatalf("ParseHook: %v", err)
	}
	if !hook.IsCompute || hook.BlockW != 32 || hook.BlockH != 32 || hook.ThreadsW != 8 || hook.ThreadsH != 8 {
		t.Errorf("unexpected compute fields: %+v", hook)
	}
}

func TestParseHook_ComputeTwoOperands(t *testing.T) {
	body := "//!HOOK MAIN\n//!BIND HOOKED\n//!COMPUTE 16 16\nbody\n"
	hook, _, err := ParseHook(body)
	if err != nil {
		t.Fatalf("ParseHook: %v", err)
	}
	if !hook.IsCompute || hook.BlockW != 16 || hook.BlockH != 16 {
		t.Errorf("unexpected compute fields: %+v", hook)
	}
}

func TestParseHook_ComputeMalformed(t *testing.T) {
	body := "//!HOOK MAIN\n//!COMPUTE 16 16 16\nbody\n"
	_, _, err := ParseHook(body)
	if !errors.Is(err, ErrMalformedCompute) {
		t.Fatalf("err = %v, want ErrMalformedCompute", err)
	}
}

func TestParseHook_WhenAndSizeExprs(t *testing.T) {
	body := "//!HOOK MAIN\n//!BIND HOOKED\n//!WIDTH HOOKED.w 2 *\n//!WHEN 0\nbody\n"
	hook, _, err := ParseHook(body)
	if err != nil {
		t.Fatalf("ParseHook: %v", err)
	}
	c, err := szexpr.Eval(hook.Cond, szexpr.LookupFunc(noLookup))
	if err != nil || c != 0 {
		t.Errorf("Cond = %v,%v, want 0,nil", c, err)
	}
}

func TestParseHook_TooManyHooks(t *testing.T) {
	var body string
	for i := 0; i < MaxHookStages+1; i++ {
		body += "//!HOOK MAIN\n"
	}
	body += "//!BIND HOOKED\nbody\n"
	_, _, err := ParseHook(body)
	if !errors.Is(err, ErrTooManyHooks) {
		t.Fatalf("err = %v, want ErrTooManyHooks", err)
	}
}

func TestParseHook_TooManyBinds(t *testing.T) {
	var body string
	body += "//!HOOK MAIN\n"
	for i := 0; i < MaxBindTextures+1; i++ {
		body += "//!BIND HOOKED\n"
	}
	body += "body\n"
	_, _, err := ParseHook(body)
	if !errors.Is(err, ErrTooManyBinds) {
		t.Fatalf("err = %v, want ErrTooManyBinds", err)
	}
}

func TestParseHook_UnknownDirective(t *testing.T) {
	body := "//!HOOK MAIN\n//!BOGUS foo\nbody\n"
	_, _, err := ParseHook(body)
	if !errors.Is(err, ErrUnknownDirective) {
		t.Fatalf("err = %v, want ErrUnknownDirective", err)
	}
}

func TestParseHook_MalformedOffset(t *testing.T) {
	body := "//!HOOK MAIN\n//!OFFSET 1.0\nbody\n"
	_, _, err := ParseHook(body)
	if !errors.Is(err, ErrMalformedOffset) {
		t.Fatalf("err = %v, want ErrMalformedOffset", err)
	}
}

func TestParseHook_NoHookedTextures_Warns(t *testing.T) {
	var logBuf bytes.Buffer
	logx.Set(slog.New(slog.NewTextHandler(&logBuf, nil)))
	defer logx.Set(nil)

	body := "//!DESC nohooks\nbody\n"
	hook, _, err := ParseHook(body)
	if err != nil {
		t.Fatalf("ParseHook: %v", err)
	}
	if len(hook.HookTex) != 0 {
		t.Errorf("expected no hooked stages, got %v", hook.HookTex)
	}
	if !strings.Contains(logBuf.String(), "will be ignored") {
		t.Errorf("expected a will-be-ignored warning, log = %q", logBuf.String())
	}
}

func TestMatchKeyword(t *testing.T) {
	line := "HOOK MAIN"
	if !matchKeyword(&line, "HOOK") {
		t.Fatal("expected match")
	}
	if line != "MAIN" {
		t.Errorf("line = %q, want MAIN", line)
	}

	line2 := "HOOKED"
	if matchKeyword(&line2, "HOOK") {
		t.Fatal("HOOKED must not match HOOK as a prefix keyword")
	}
}
