// Package msg holds the in-memory message catalog parsed from the JSON
// intermediate representation, together with the layout rules (byte sizes,
// variable-length detection) the emitters depend on.
package msg

import (
	"sort"
	"strings"
)

// MaxPacketID is the highest packet identifier the wire protocol can carry.
const MaxPacketID = 255

// MaxArrayLength bounds max_length for array messages and array fields.
const MaxArrayLength = 1024

// MaxPayloadSize is the largest encoded message body the serial framing
// downstream of the generated headers can transport.
const MaxPayloadSize = 251

// Primitive is one of the closed set of scalar wire types.
type Primitive int

const (
	Bool Primitive = iota
	Char
	Int8
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Int64
	Uint64
	Float32
	Float64
)

// ParsePrimitive resolves a case-insensitive primitive alias from the IR.
func ParsePrimitive(s string) (Primitive, bool) {
	switch strings.ToLower(s) {
	case "bool", "boolean":
		return Bool, true
	case "char":
		return Char, true
	case "int8", "i8":
		return Int8, true
	case "uint8", "u8":
		return Uint8, true
	case "int16", "i16":
		return Int16, true
	case "uint16", "u16":
		return Uint16, true
	case "int32", "i32":
		return Int32, true
	case "uint32", "u32":
		return Uint32, true
	case "int64", "i64":
		return Int64, true
	case "uint64", "u64":
		return Uint64, true
	case "float32", "f32":
		return Float32, true
	case "float64", "f64", "double":
		return Float64, true
	default:
		return 0, false
	}
}

// Width returns the fixed encoded size of the primitive in bytes.
func (p Primitive) Width() int {
	switch p {
	case Bool, Char, Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	default:
		return 8
	}
}

// CType returns the C99 spelling of the primitive.
func (p Primitive) CType() string {
	switch p {
	case Bool:
		return "bool"
	case Char:
		return "char"
	case Int8:
		return "int8_t"
	case Uint8:
		return "uint8_t"
	case Int16:
		return "int16_t"
	case Uint16:
		return "uint16_t"
	case Int32:
		return "int32_t"
	case Uint32:
		return "uint32_t"
	case Int64:
		return "int64_t"
	case Uint64:
		return "uint64_t"
	case Float32:
		return "float"
	default:
		return "double"
	}
}

func (p Primitive) String() string { return p.CType() }

// Endian selects the byte order of a primitive on the wire.
type Endian int

const (
	LittleEndian Endian = iota
	BigEndian
)

// ParseEndian resolves an endianness alias from the IR.
func ParseEndian(s string) (Endian, bool) {
	switch strings.ToLower(s) {
	case "little", "le":
		return LittleEndian, true
	case "big", "be":
		return BigEndian, true
	default:
		return 0, false
	}
}

// Suffix returns the helper-function suffix for the byte order.
func (e Endian) Suffix() string {
	if e == BigEndian {
		return "be"
	}
	return "le"
}

// RequestType determines the direction of a message: the server encodes pub
// messages and decodes sub messages; clients do the opposite.
type RequestType int

const (
	Pub RequestType = iota
	Sub
)

// ParseRequestType resolves a request_type value from the IR.
func ParseRequestType(s string) (RequestType, bool) {
	switch strings.ToLower(s) {
	case "pub":
		return Pub, true
	case "sub":
		return Sub, true
	default:
		return 0, false
	}
}

// BroadcastClient is the target_client_id value addressing all clients.
const BroadcastClient = -1

// Body is the message payload variant: scalar, array, or struct. The three
// implementations also carry the layout view of the payload.
type Body interface {
	// MaxSize is the worst-case encoded byte length.
	MaxSize() int
	// MinSize is the best-case encoded byte length; array elements count 0.
	MinSize() int
	// HasVariable reports whether any reachable field is an array.
	HasVariable() bool

	isBody()
}

// ScalarSpec is a single-primitive message body.
type ScalarSpec struct {
	Primitive Primitive
	Endian    Endian
}

// ArraySpec is a bounded array of primitives. SectorBytes is passthrough
// metadata that only surfaces as a generated macro.
type ArraySpec struct {
	Primitive   Primitive
	Endian      Endian
	MaxLength   int
	SectorBytes *int
}

// StructSpec is an ordered, non-empty sequence of fields. Field order is the
// on-wire order.
type StructSpec struct {
	Fields []Field
}

func (ScalarSpec) isBody() {}
func (ArraySpec) isBody()  {}
func (StructSpec) isBody() {}

// Field is one member of a struct body.
type Field struct {
	Name   string
	Type   FieldType
	Endian Endian
}

// FieldType is the struct field variant: primitive, array, or nested struct.
type FieldType interface {
	isFieldType()
}

// PrimitiveField is a single-primitive struct member.
type PrimitiveField struct {
	Primitive Primitive
}

// ArrayField is a bounded primitive array struct member.
type ArrayField struct {
	Primitive Primitive
	MaxLength int
}

// NestedField is an embedded struct member.
type NestedField struct {
	Spec StructSpec
}

func (PrimitiveField) isFieldType() {}
func (ArrayField) isFieldType()     {}
func (NestedField) isFieldType()    {}

// Message is one named, packet-ID-tagged wire record.
type Message struct {
	Name         string
	PacketID     int
	Description  string
	Body         Body
	Request      RequestType
	TargetClient int
}

// Metadata is informational protocol data; it never affects layout.
type Metadata struct {
	Version    string
	MaxAddress *uint32
}

// Catalog is the validated, packet-ID-sorted set of messages for one
// generation run. It is immutable once built.
type Catalog struct {
	Meta     Metadata
	Messages []Message
}

// ClientIDs returns the distinct positive target client ids in ascending
// order. Broadcast messages (target −1) are not included.
func (c *Catalog) ClientIDs() []int {
	seen := make(map[int]bool)
	var ids []int
	for _, m := range c.Messages {
		if m.TargetClient > 0 && !seen[m.TargetClient] {
			seen[m.TargetClient] = true
			ids = append(ids, m.TargetClient)
		}
	}
	sort.Ints(ids)
	return ids
}
