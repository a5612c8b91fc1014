package directive

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/gogpu/usf/gpu"
	"github.com/gogpu/usf/internal/lex"
	"github.com/gogpu/usf/internal/logx"
)

// Errors returned while parsing a TEXTURE section.
var (
	ErrMalformedSize    = errors.New("directive: malformed SIZE")
	ErrSizeOutOfRange   = errors.New("directive: SIZE exceeds GPU limits")
	ErrNoFormat         = errors.New("directive: no FORMAT specified")
	ErrUnknownFormat    = errors.New("directive: unrecognized or unavailable FORMAT")
	ErrFormatNotSampler = errors.New("directive: FORMAT is not sampleable")
	ErrFormatNotLinear  = errors.New("directive: FORMAT cannot be linear filtered")
	ErrUnknownFilter    = errors.New("directive: unrecognized FILTER")
	ErrUnknownBorder    = errors.New("directive: unrecognized BORDER")
	ErrHexDecode        = errors.New("directive: TEXTURE body is not valid hex")
	ErrSizeMismatch     = errors.New("directive: decoded TEXTURE size mismatch")
)

// DefaultTextureName is the name a TEXTURE section gets when it has no
// TEXTURE directive.
const DefaultTextureName = "USER_TEX"

// Texture is the parsed form of one TEXTURE section.
type Texture struct {
	Name                 string
	Width, Height, Depth uint32
	Format               gpu.Format
	Filter               gpu.FilterMode
	Border               gpu.AddressMode
	Tex                  gpu.Texture
}

// ParseTexture parses one TEXTURE section starting at body (whose first
// header line must begin with "//!TEXTURE"), creating the decoded
// texture on provider. It returns the parsed Texture and the remainder
// of the document after this section.
func ParseTexture(provider gpu.Provider, body string) (tex Texture, rest string, err error) {
	tex = Texture{Name: DefaultTextureName}

	for {
		var line string
		line, rest = lex.GetLine(body)
		line = lex.Strip(line)

		payload, ok := lex.EatPrefix(line, "//!")
		if !ok {
			break
		}
		body = rest

		if err := applyTextureDirective(provider, &tex, payload); err != nil {
			return Texture{}, "", err
		}
	}

	if tex.Format.Name == "" {
		return Texture{}, "", ErrNoFormat
	}
	if tex.Filter == gpu.FilterLinear && !tex.Format.Linear() {
		return Texture{}, "", fmt.Errorf("%w: %q", ErrFormatNotLinear, tex.Format.Name)
	}

	var hexBody string
	if head, tail, found := lex.SplitOnToken(body, "//!"); found {
		hexBody = head
		rest = "//!" + tail
	} else {
		hexBody = body
		rest = ""
	}

	decoded, err := hex.DecodeString(lex.Strip(hexBody))
	if err != nil {
		return Texture{}, "", fmt.Errorf("%w: %v", ErrHexDecode, err)
	}

	// A TEXTURE section with no SIZE directive at all, or one that
	// declares fewer than three dimensions, counts every undeclared
	// dimension as 1, the same orOne default used for the
	// CreateTexture descriptor below, so a bare 1x1 texture is a valid
	// no-SIZE section rather than a zero-byte one.
	texels := uint64(orOne(tex.Width)) * uint64(orOne(tex.Height)) * uint64(orOne(tex.Depth))
	expected := texels * uint64(tex.Format.TexelSize)
	if uint64(len(decoded)) != expected {
		return Texture{}, "", fmt.Errorf("%w: got %d bytes, expected %d", ErrSizeMismatch, len(decoded), expected)
	}

	handle, err := provider.CreateTexture(gpu.TextureDesc{
		Label:   tex.Name,
		Width:   orOne(tex.Width),
		Height:  orOne(tex.Height),
		Depth:   orOne(tex.Depth),
		Format:  tex.Format,
		Filter:  tex.Filter,
		Address: tex.Border,
		Data:    decoded,
	})
	if err != nil {
		return Texture{}, "", fmt.Errorf("failed uploading custom texture %q: %w", tex.Name, err)
	}
	tex.Tex = handle

	logx.Get().Info("registering named texture", slog.String("name", tex.Name))
	return tex, rest, nil
}

func orOne(v uint32) uint32 {
	if v == 0 {
		return 1
	}
	return v
}

func applyTextureDirective(provider gpu.Provider, tex *Texture, line string) error {
	switch {
	case matchKeyword(&line, "TEXTURE"):
		tex.Name = lex.Strip(line)

	case matchKeyword(&line, "SIZE"):
		fields := lex.Fields(line)
		if len(fields) < 1 || len(fields) > 3 {
			return fmt.Errorf("%w: %q", ErrMalformedSize, line)
		}
		limits := provider.Limits()
		var lim uint32
		switch len(fields) {
		case 1:
			lim = limits.MaxTexture1D
		case 2:
			lim = limits.MaxTexture2D
		case 3:
			lim = limits.MaxTexture3D
		}
		vals := make([]uint32, len(fields))
		for i, f := range fields {
			n, err := strconv.Atoi(f)
			if err != nil || n < 1 {
				return fmt.Errorf("%w: %q", ErrMalformedSize, line)
			}
			if uint32(n) > lim {
				return fmt.Errorf("%w: %d exceeds limit %d", ErrSizeOutOfRange, n, lim)
			}
			vals[i] = uint32(n)
		}
		tex.Width = vals[0]
		if len(vals) >= 2 {
			tex.Height = vals[1]
		} else {
			tex.Height = 0
		}
		if len(vals) >= 3 {
			tex.Depth = vals[2]
		} else {
			tex.Depth = 0
		}

	case matchKeyword(&line, "FORMAT"):
		name := lex.Strip(line)
		var found *gpu.Format
		for _, f := range provider.Formats() {
			if f.Name == name {
				found = &f
				break
			}
		}
		if found == nil || found.Opaque {
			return fmt.Errorf("%w: %q", ErrUnknownFormat, name)
		}
		if !found.Sampleable() {
			return fmt.Errorf("%w: %q", ErrFormatNotSampler, name)
		}
		tex.Format = *found

	case matchKeyword(&line, "FILTER"):
		switch lex.Strip(line) {
		case "LINEAR":
			tex.Filter = gpu.FilterLinear
		case "NEAREST":
			tex.Filter = gpu.FilterNearest
		default:
			return fmt.Errorf("%w: %q", ErrUnknownFilter, line)
		}

	case matchKeyword(&line, "BORDER"):
		switch lex.Strip(line) {
		case "CLAMP":
			tex.Border = gpu.AddressClamp
		case "REPEAT":
			tex.Border = gpu.AddressRepeat
		case "MIRROR":
			tex.Border = gpu.AddressMirror
		default:
			return fmt.Errorf("%w: %q", ErrUnknownBorder, line)
		}

	default:
		return fmt.Errorf("%w: %q", ErrUnknownDirective, line)
	}
	return nil
}
