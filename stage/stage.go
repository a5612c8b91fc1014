// Package stage defines the renderer's pipeline stages and the
// bidirectional mapping between USF's textual stage names and this
// package's bit-flag identifiers.
//
// Stage is a single bit; Set is a strict "set of stages" type, so that
// hook registration and the dispatcher never pass around raw integers.
package stage

// Stage identifies a single pipeline stage as one bit.
type Stage uint32

const (
	RGBInput Stage = 1 << iota
	LumaInput
	ChromaInput
	AlphaInput
	XYZInput
	ChromaScaled
	AlphaScaled
	Native
	RGB
	RGBOverlay
	Linear
	Sigmoid
	PreKernel
	PostKernel
	Scaled
	Output
)

// Set is a bitset of Stages.
type Set uint32

// Of builds a Set from individual Stages.
func Of(stages ...Stage) Set {
	var s Set
	for _, st := range stages {
		s = s.Add(st)
	}
	return s
}

// Add returns s with st added.
func (s Set) Add(st Stage) Set { return s | Set(st) }

// Union returns the union of s and other.
func (s Set) Union(other Set) Set { return s | other }

// Test reports whether st is a member of s.
func (s Set) Test(st Stage) bool { return s&Set(st) != 0 }

// Intersects reports whether s and other share any stage.
func (s Set) Intersects(other Set) bool { return s&other != 0 }

// Empty reports whether the set has no members.
func (s Set) Empty() bool { return s == 0 }

// nameToStage is the forward textual table. MAINPRESUB and MAIN name the
// RGB and RGBOverlay stages, so textual names and constant names do not
// line up; both tables are written out by hand.
var nameToStage = map[string]Stage{
	"RGB":           RGBInput,
	"LUMA":          LumaInput,
	"CHROMA":        ChromaInput,
	"ALPHA":         AlphaInput,
	"XYZ":           XYZInput,
	"CHROMA_SCALED": ChromaScaled,
	"ALPHA_SCALED":  AlphaScaled,
	"NATIVE":        Native,
	"MAINPRESUB":    RGB,
	"MAIN":          RGBOverlay,
	"LINEAR":        Linear,
	"SIGMOID":       Sigmoid,
	"PREKERNEL":     PreKernel,
	"POSTKERNEL":    PostKernel,
	"SCALED":        Scaled,
	"OUTPUT":        Output,
}

// stageToName is the canonical reverse mapping, used to name the
// currently-hooked texture's stage-prefixed shader identifiers. It is
// the exact inverse of nameToStage: RGB maps back to "MAINPRESUB" and
// RGBOverlay to "MAIN".
var stageToName = map[Stage]string{
	RGBInput:     "RGB",
	LumaInput:    "LUMA",
	ChromaInput:  "CHROMA",
	AlphaInput:   "ALPHA",
	XYZInput:     "XYZ",
	ChromaScaled: "CHROMA_SCALED",
	AlphaScaled:  "ALPHA_SCALED",
	Native:       "NATIVE",
	RGB:          "MAINPRESUB",
	RGBOverlay:   "MAIN",
	Linear:       "LINEAR",
	Sigmoid:      "SIGMOID",
	PreKernel:    "PREKERNEL",
	PostKernel:   "POSTKERNEL",
	Scaled:       "SCALED",
	Output:       "OUTPUT",
}

// FromName translates a USF textual stage name to its Stage. Unknown
// names map to the zero Stage.
func FromName(name string) Stage {
	return nameToStage[name]
}

// Name translates a Stage back to its canonical USF textual name, used
// to build a hook pass's stage-prefixed shader identifiers. An
// unrecognized Stage returns "UNKNOWN".
func Name(s Stage) string {
	if name, ok := stageToName[s]; ok {
		return name
	}
	return "UNKNOWN"
}
