package szexpr

import (
	"errors"
	"fmt"
	"math"
)

// Errors returned by Eval.
var (
	// ErrStackUnderflow is returned when an operator has too few operands
	// on the stack.
	ErrStackUnderflow = errors.New("szexpr: stack underflow")
	// ErrNonFinite is returned when a dyadic operation produces NaN or an
	// infinity (e.g. division by zero).
	ErrNonFinite = errors.New("szexpr: non-finite result")
	// ErrMalformedStack is returned when the stack does not hold exactly
	// one value at End.
	ErrMalformedStack = errors.New("szexpr: malformed stack")
	// ErrUnknownName is returned when a VarW/VarH token's name is not
	// resolved by the Lookup.
	ErrUnknownName = errors.New("szexpr: unknown variable")
)

// Lookup resolves a texture name to its (width, height) in pixels. It
// composites the well-known names (HOOKED, NATIVE_CROPPED, OUTPUT),
// named pass-textures, and named LUT textures into a single capability
// the evaluator consumes.
type Lookup interface {
	Lookup(name string) (w, h float64, ok bool)
}

// LookupFunc adapts a plain function to the Lookup interface.
type LookupFunc func(name string) (w, h float64, ok bool)

// Lookup calls f.
func (f LookupFunc) Lookup(name string) (w, h float64, ok bool) { return f(name) }

// Eval executes prog over a float stack of capacity MaxSize, using lookup
// to resolve VarW/VarH names. At End the stack must hold exactly one
// value, which is the result.
func Eval(prog Program, lookup Lookup) (float64, error) {
	var stack [MaxSize]float64
	top := 0 // index of the next free slot

	for i := 0; i < MaxSize; i++ {
		tok := prog[i]
		switch tok.Kind {
		case End:
			if top != 1 {
				return 0, fmt.Errorf("%w: stack has %d elements at end", ErrMalformedStack, top)
			}
			return stack[0], nil

		case Const:
			stack[top] = tok.Const
			top++

		case Op1:
			if top < 1 {
				return 0, fmt.Errorf("%w: op1 needs 1 operand", ErrStackUnderflow)
			}
			if stack[top-1] != 0 {
				stack[top-1] = 0
			} else {
				stack[top-1] = 1
			}

		case Op2:
			if top < 2 {
				return 0, fmt.Errorf("%w: op2 needs 2 operands", ErrStackUnderflow)
			}
			right := stack[top-1]
			left := stack[top-2]
			top -= 2

			var res float64
			switch tok.Op {
			case OpAdd:
				res = left + right
			case OpSub:
				res = left - right
			case OpMul:
				res = left * right
			case OpDiv:
				res = left / right
			case OpGT:
				if left > right {
					res = 1
				}
			case OpLT:
				if left < right {
					res = 1
				}
			}
			if math.IsNaN(res) || math.IsInf(res, 0) {
				return 0, fmt.Errorf("%w: result %v", ErrNonFinite, res)
			}
			stack[top] = res
			top++

		case VarW, VarH:
			w, h, ok := lookup.Lookup(tok.Name)
			if !ok {
				return 0, fmt.Errorf("%w: %q", ErrUnknownName, tok.Name)
			}
			if tok.Kind == VarW {
				stack[top] = w
			} else {
				stack[top] = h
			}
			top++
		}
	}

	// Parse accepts up to MaxSize tokens, so a program that uses every
	// slot has no End token; the walk then stops after the last slot and
	// the same one-value depth check applies.
	if top != 1 {
		return 0, fmt.Errorf("%w: program never reached End", ErrMalformedStack)
	}
	return stack[0], nil
}
