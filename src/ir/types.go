// types.go defines the closed type lattice every later phase annotates
// expressions with.
//
// The teacher (vslc, ir/validate.go) keys its own two-type lattice
// (integer/float) with a plain int "dataType" and two lookup tables,
// lutExp and lutAssign, indexed by [operand1][operand2][operator] to
// decide whether a binary expression or assignment is legal. This
// compiler's lattice is richer (Int, Bool, Void, String, Fn, Struct(name),
// StructDef, Error) and struct identity matters for equality, so a single
// flat lookup table doesn't fit; TypeKind stays a small closed enum in the
// same spirit, and the lookup-table idea survives in check.go for the
// binary-operator class tables, where operand typing genuinely collapses
// to a handful of booleans per (kind, kind, operator class) triple.
package ir

import "fmt"

// TypeKind is a closed variant of type tags.
type TypeKind int

const (
	KindInt TypeKind = iota
	KindBool
	KindVoid
	KindString
	KindFn
	KindStruct    // Struct(name): a variable of a declared struct type.
	KindStructDef // the declaration of a struct type itself.
	KindError     // absorbing sentinel; suppresses cascading diagnostics.
)

var typeKindNames = [...]string{
	"int", "bool", "void", "string", "function", "struct", "struct type", "error",
}

func (k TypeKind) String() string {
	if k < 0 || int(k) >= len(typeKindNames) {
		return "invalid"
	}
	return typeKindNames[k]
}

// Type is the printable, comparable type of an expression, declaration, or
// symbol table entry. StructName is only meaningful when TypeKind is KindStruct
// or KindStructDef.
type Type struct {
	Kind       TypeKind
	StructName string
}

// Convenience constructors for the non-struct kinds; struct-typed values are
// built with StructType/StructDefType since they carry a name.
var (
	Int    = Type{Kind: KindInt}
	Bool   = Type{Kind: KindBool}
	Void   = Type{Kind: KindVoid}
	String = Type{Kind: KindString}
	Fn     = Type{Kind: KindFn}
	Error  = Type{Kind: KindError}
)

// StructType returns the type of a variable declared as "struct name".
func StructType(name string) Type { return Type{Kind: KindStruct, StructName: name} }

// StructDefType returns the type of the struct name itself, as opposed to a
// variable of that struct type (e.g. the type of an identifier that names a
// struct in a context expecting a value is StructDef, which is itself never
// a legal operand to any expression).
func StructDefType(name string) Type { return Type{Kind: KindStructDef, StructName: name} }

// Equal reports whether two types are identical. Two struct types are equal
// iff their declared names are equal. Error is not absorbing here
// (Error.Equal(Error) is true, like any other kind), nor in the predicates
// below, which are plain kind tests; cascading diagnostics are suppressed
// by the type checker testing IsError before it applies any other rule.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	if t.Kind == KindStruct || t.Kind == KindStructDef {
		return t.StructName == o.StructName
	}
	return true
}

// IsError reports whether t is the absorbing Error sentinel.
func (t Type) IsError() bool { return t.Kind == KindError }

// IsInt reports whether t is exactly Int, never absorbing Error.
func (t Type) IsInt() bool { return t.Kind == KindInt }

// IsBool reports whether t is exactly Bool.
func (t Type) IsBool() bool { return t.Kind == KindBool }

// IsVoid reports whether t is exactly Void.
func (t Type) IsVoid() bool { return t.Kind == KindVoid }

// IsString reports whether t is exactly String.
func (t Type) IsString() bool { return t.Kind == KindString }

// IsFn reports whether t is a function type.
func (t Type) IsFn() bool { return t.Kind == KindFn }

// IsStructVar reports whether t is a struct-typed variable (not the struct
// name itself).
func (t Type) IsStructVar() bool { return t.Kind == KindStruct }

// IsStructName reports whether t is the type of a struct name (as opposed
// to a variable of that struct type).
func (t Type) IsStructName() bool { return t.Kind == KindStructDef }

// String returns the printable form of t, including the struct name for
// struct-typed values.
func (t Type) String() string {
	switch t.Kind {
	case KindStruct:
		return fmt.Sprintf("struct %s", t.StructName)
	case KindStructDef:
		return fmt.Sprintf("struct type %s", t.StructName)
	default:
		return t.Kind.String()
	}
}
