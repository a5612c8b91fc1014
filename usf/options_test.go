package usf

import "testing"

func TestWithSeed_OverridesDefault(t *testing.T) {
	doc := "//!HOOK MAIN\n//!BIND HOOKED\nbody\n"
	obj, err := Parse(newFakeProvider(), doc, WithSeed(1, 2, 3, 4))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := prngState{1, 2, 3, 4}
	if obj.prng != want {
		t.Errorf("prng = %v, want %v", obj.prng, want)
	}
}

func TestWithLogger_ScopesLoggerPerParse(t *testing.T) {
	custom := Logger() // default nop logger, just confirm the option is accepted
	_, err := Parse(newFakeProvider(), "//!HOOK MAIN\n//!BIND HOOKED\nbody\n", WithLogger(custom))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
}

func TestWithLogger_NilRestoresDefault(t *testing.T) {
	obj, err := Parse(newFakeProvider(), "//!HOOK MAIN\n//!BIND HOOKED\nbody\n", WithLogger(nil))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if obj.logger == nil {
		t.Fatal("WithLogger(nil) must fall back to a non-nil default logger")
	}
}
