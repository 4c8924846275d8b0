// Package types implements the type descriptor model used throughout the
// compiler: a named category with a bit size and a base-kind tag.
package types

import "fmt"

// Kind is the base-kind tag of a type descriptor.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindLabel
	KindStruct
	KindFunction
	KindRegister
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindLabel:
		return "label"
	case KindStruct:
		return "struct"
	case KindFunction:
		return "function"
	case KindRegister:
		return "register"
	default:
		return "unknown"
	}
}

// Descriptor is a named type: a bit size plus a base-kind tag.
type Descriptor struct {
	Name     string
	Bits     int
	Kind     Kind
	Signed   bool
	Elements *Descriptor // element type for struct/array descriptors, nil otherwise
}

func (d *Descriptor) String() string {
	if d == nil {
		return "<nil-type>"
	}
	return d.Name
}

// Registry holds the built-in type descriptors plus the counter
// FreshLabel uses to mint uniquely named label descriptors (which it
// returns without storing).
type Registry struct {
	builtins map[string]*Descriptor
	labelSeq int
	regSeq   int
}

// NewRegistry creates a registry pre-populated with PL/0's built-in types.
func NewRegistry() *Registry {
	r := &Registry{builtins: make(map[string]*Descriptor)}
	r.define(&Descriptor{Name: "int", Bits: 32, Kind: KindInt, Signed: true})
	r.define(&Descriptor{Name: "short", Bits: 16, Kind: KindInt, Signed: true})
	r.define(&Descriptor{Name: "char", Bits: 8, Kind: KindInt, Signed: true})
	r.define(&Descriptor{Name: "uint", Bits: 32, Kind: KindInt, Signed: false})
	r.define(&Descriptor{Name: "ushort", Bits: 16, Kind: KindInt, Signed: false})
	r.define(&Descriptor{Name: "uchar", Bits: 8, Kind: KindInt, Signed: false})
	r.define(&Descriptor{Name: "float", Bits: 32, Kind: KindFloat, Signed: true})
	r.define(&Descriptor{Name: "function", Bits: 0, Kind: KindFunction})
	r.define(&Descriptor{Name: "register", Bits: 0, Kind: KindRegister})
	return r
}

func (r *Registry) define(d *Descriptor) { r.builtins[d.Name] = d }

// Lookup returns a builtin type descriptor by name, or nil.
func (r *Registry) Lookup(name string) *Descriptor {
	return r.builtins[name]
}

// Int is the sole integer type PL/0 programs use.
func (r *Registry) Int() *Descriptor { return r.builtins["int"] }

// Function is the 0-sized tag type for procedure symbols.
func (r *Registry) Function() *Descriptor { return r.builtins["function"] }

// Register is the 0-sized tag type for fresh virtual registers.
func (r *Registry) Register() *Descriptor { return r.builtins["register"] }

// FreshLabel mints a new label-kind type descriptor with a unique name.
func (r *Registry) FreshLabel(prefix string) *Descriptor {
	r.labelSeq++
	return &Descriptor{Name: fmt.Sprintf("%s_%d", prefix, r.labelSeq), Bits: 0, Kind: KindLabel}
}
