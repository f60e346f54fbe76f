package types

import (
	"strconv"
	"strings"
)

// PrimitiveKind enumerates builtin scalar types.
type PrimitiveKind uint8

const (
	PrimInt PrimitiveKind = iota
	PrimFloat
	PrimBool
	PrimVoid
	PrimNoReturn
)

// ComptimeBits is the reserved width of compile-time-sized numbers.
const ComptimeBits uint8 = 255

// Primitive describes a builtin scalar. Bits is only meaningful for Int and Float.
type Primitive struct {
	Kind PrimitiveKind
	Bits uint8
}

// Name renders the primitive the same way source code spells it.
func (p Primitive) Name() string {
	switch p.Kind {
	case PrimInt:
		if p.Bits == ComptimeBits {
			return "ComptimeInt"
		}
		return "Int" + strconv.Itoa(int(p.Bits))
	case PrimFloat:
		if p.Bits == ComptimeBits {
			return "ComptimeFloat"
		}
		return "Float" + strconv.Itoa(int(p.Bits))
	case PrimBool:
		return "Bool"
	case PrimVoid:
		return "Void"
	case PrimNoReturn:
		return "NoReturn"
	}
	return "<primitive>"
}

// FromName parses Int<N>, Float<N>, Bool, Void, NoReturn, ComptimeInt and
// ComptimeFloat. N must be a canonical decimal in 1..254; the reserved width
// is only reachable through the Comptime names.
func FromName(name string) (Primitive, bool) {
	switch name {
	case "Bool":
		return Primitive{Kind: PrimBool}, true
	case "Void":
		return Primitive{Kind: PrimVoid}, true
	case "NoReturn":
		return Primitive{Kind: PrimNoReturn}, true
	case "ComptimeInt":
		return Primitive{Kind: PrimInt, Bits: ComptimeBits}, true
	case "ComptimeFloat":
		return Primitive{Kind: PrimFloat, Bits: ComptimeBits}, true
	}
	if rest, ok := strings.CutPrefix(name, "Int"); ok {
		if bits, ok := parseBits(rest); ok {
			return Primitive{Kind: PrimInt, Bits: bits}, true
		}
		return Primitive{}, false
	}
	if rest, ok := strings.CutPrefix(name, "Float"); ok {
		if bits, ok := parseBits(rest); ok {
			return Primitive{Kind: PrimFloat, Bits: bits}, true
		}
	}
	return Primitive{}, false
}

func parseBits(s string) (uint8, bool) {
	if s == "" || s[0] == '0' {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil || uint8(n) == ComptimeBits {
		return 0, false
	}
	return uint8(n), true
}
