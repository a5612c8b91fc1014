package szexpr

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gogpu/usf/internal/lex"
)

// Errors returned by Parse. Use errors.Is to test for them; Parse always
// wraps one of these with positional detail via fmt.Errorf("%w: ...").
var (
	// ErrCapacityExceeded is returned when a program would need more than
	// MaxSize tokens.
	ErrCapacityExceeded = errors.New("szexpr: program exceeds capacity")
	// ErrIllegalToken is returned for a token that is none of a texture
	// size reference, an operator, or a numeric literal.
	ErrIllegalToken = errors.New("szexpr: illegal token")
	// ErrBadNumber is returned when a token that looks like a numeric
	// literal fails to parse as a float.
	ErrBadNumber = errors.New("szexpr: malformed numeric literal")
)

// Parse converts a single whitespace-separated line of size-expression
// source into a Program.
//
// The line is split on whitespace; each token is stripped and, if empty,
// skipped. For each remaining token, in order:
//
//  1. A ".w"/".width" suffix emits VarW with the prefix as the texture
//     name.
//  2. A ".h"/".height" suffix emits VarH.
//  3. A leading '+' '-' '*' '/' '!' '>' '<' emits the corresponding Op1
//     (NOT) or Op2 token.
//  4. A leading decimal digit emits Const, parsed as a float; a parse
//     failure is a hard error.
//  5. Anything else is illegal.
func Parse(line string) (Program, error) {
	var prog Program
	pos := 0

	for _, word := range lex.Fields(line) {
		word = lex.Strip(word)
		if word == "" {
			continue
		}

		if pos >= MaxSize {
			return Program{}, fmt.Errorf("%w: more than %d tokens", ErrCapacityExceeded, MaxSize)
		}

		if name, ok := lex.EatSuffix(word, ".width"); ok {
			prog[pos] = Token{Kind: VarW, Name: name}
			pos++
			continue
		}
		if name, ok := lex.EatSuffix(word, ".w"); ok {
			prog[pos] = Token{Kind: VarW, Name: name}
			pos++
			continue
		}
		if name, ok := lex.EatSuffix(word, ".height"); ok {
			prog[pos] = Token{Kind: VarH, Name: name}
			pos++
			continue
		}
		if name, ok := lex.EatSuffix(word, ".h"); ok {
			prog[pos] = Token{Kind: VarH, Name: name}
			pos++
			continue
		}

		switch word[0] {
		case '+':
			prog[pos] = Token{Kind: Op2, Op: OpAdd}
			pos++
			continue
		case '-':
			prog[pos] = Token{Kind: Op2, Op: OpSub}
			pos++
			continue
		case '*':
			prog[pos] = Token{Kind: Op2, Op: OpMul}
			pos++
			continue
		case '/':
			prog[pos] = Token{Kind: Op2, Op: OpDiv}
			pos++
			continue
		case '!':
			prog[pos] = Token{Kind: Op1, Op: OpNot}
			pos++
			continue
		case '>':
			prog[pos] = Token{Kind: Op2, Op: OpGT}
			pos++
			continue
		case '<':
			prog[pos] = Token{Kind: Op2, Op: OpLT}
			pos++
			continue
		}

		if word[0] >= '0' && word[0] <= '9' {
			v, err := strconv.ParseFloat(word, 64)
			if err != nil {
				return Program{}, fmt.Errorf("%w: %q: %v", ErrBadNumber, word, err)
			}
			prog[pos] = Token{Kind: Const, Const: v}
			pos++
			continue
		}

		return Program{}, fmt.Errorf("%w: %q", ErrIllegalToken, word)
	}

	return prog, nil
}
