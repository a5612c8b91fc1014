// Package szexpr implements the size-expression sub-language: a small
// reverse-Polish expression format used by USF hooks to declare output
// dimensions (WIDTH/HEIGHT) and runtime gating conditions (WHEN) in terms
// of the sizes of named textures.
//
// A Program is a fixed-capacity, 32-slot sequence of Tokens terminated by
// a Kind of End, or by the end of the array when all 32 slots are in
// use. Programs are value types: the zero Program is already a
// valid empty (immediately-terminated) program, since End is the zero
// Kind.
package szexpr

// MaxSize is the fixed capacity of a Program, matching the original
// format's MAX_SZEXP_SIZE.
const MaxSize = 32

// Kind discriminates the variant held by a Token.
type Kind uint8

const (
	// End terminates a program. It is the zero Kind, so a zeroed Token
	// (and therefore a zeroed Program slot) is already an End token.
	End Kind = iota
	// Const pushes a float literal.
	Const
	// VarW pushes the width of a named texture.
	VarW
	// VarH pushes the height of a named texture.
	VarH
	// Op1 applies a monadic operator to the top of the stack.
	Op1
	// Op2 applies a dyadic operator to the top two stack elements.
	Op2
)

// Op identifies a monadic or dyadic operator.
type Op uint8

const (
	// OpNot is the sole monadic operator (Op1): logical negation.
	OpNot Op = iota
	// OpAdd, OpSub, OpMul, OpDiv are the dyadic arithmetic operators.
	OpAdd
	OpSub
	OpMul
	OpDiv
	// OpGT, OpLT are the dyadic comparison operators.
	OpGT
	OpLT
)

// Token is a single instruction of a size-expression Program. Exactly
// one of its fields is meaningful, selected by Kind: Const for Kind ==
// Const, Name for Kind == VarW/VarH, Op for Kind == Op1/Op2.
type Token struct {
	Kind  Kind
	Const float64
	Name  string
	Op    Op
}

// Program is a fixed-capacity sequence of Tokens, End-terminated unless
// every slot is used.
type Program [MaxSize]Token

// ConstProgram returns a one-token program that evaluates to the
// constant v. It is used for a hook's default WHEN condition (cond = 1).
func ConstProgram(v float64) Program {
	var p Program
	p[0] = Token{Kind: Const, Const: v}
	return p
}

// VarWProgram returns a one-token program that evaluates to the width of
// the named texture. It is used for a hook's default WIDTH expression
// (width = HOOKED.w).
func VarWProgram(name string) Program {
	var p Program
	p[0] = Token{Kind: VarW, Name: name}
	return p
}

// VarHProgram returns a one-token program that evaluates to the height of
// the named texture. It is used for a hook's default HEIGHT expression
// (height = HOOKED.h).
func VarHProgram(name string) Program {
	var p Program
	p[0] = Token{Kind: VarH, Name: name}
	return p
}
