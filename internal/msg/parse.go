package msg

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// Load reads and parses an IR file into a validated catalog.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read input JSON %s: %v", ErrIO, path, err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cat, nil
}

// Parse builds the message catalog from raw IR bytes. Messages may appear
// directly at the top level or under a single "packets" container; both
// shapes are accepted. Validation failures across messages are collected and
// returned joined, so one broken message does not hide the next.
//
// gjson iterates object members in document order, which is what keeps
// struct field order identical to the IR author's declaration order.
func Parse(data []byte) (*Catalog, error) {
	if !gjson.ValidBytes(data) {
		return nil, parseErrorf(ErrMalformed, "", "input is not valid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, parseErrorf(ErrMalformed, "", "top-level JSON must be an object")
	}

	cat := &Catalog{}
	var errs []error

	parseEntry := func(name string, value gjson.Result) {
		if !value.IsObject() {
			errs = append(errs, parseErrorf(ErrMalformed, name, "message must be an object"))
			return
		}
		m, err := parseMessage(name, value)
		if err != nil {
			errs = append(errs, err)
			return
		}
		cat.Messages = append(cat.Messages, m)
	}

	root.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		switch name {
		case "version":
			if value.Type != gjson.String {
				errs = append(errs, parseErrorf(ErrWrongType, name, "'version' must be a string"))
				return true
			}
			cat.Meta.Version = value.String()
		case "max_address":
			if value.Type != gjson.Number {
				errs = append(errs, parseErrorf(ErrWrongType, name, "'max_address' must be an unsigned integer"))
				return true
			}
			addr := uint32(value.Uint())
			cat.Meta.MaxAddress = &addr
		case "packets":
			if !value.IsObject() {
				errs = append(errs, parseErrorf(ErrWrongType, name, "'packets' must be an object"))
				return true
			}
			value.ForEach(func(k, v gjson.Result) bool {
				parseEntry(k.String(), v)
				return true
			})
		default:
			parseEntry(name, value)
		}
		return true
	})

	seen := make(map[int]string)
	for _, m := range cat.Messages {
		if other, dup := seen[m.PacketID]; dup {
			errs = append(errs, parseErrorf(ErrMalformed, m.Name,
				"packet_id %d already used by message '%s'", m.PacketID, other))
			continue
		}
		seen[m.PacketID] = m.Name
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if len(cat.Messages) == 0 {
		return nil, parseErrorf(ErrMalformed, "", "no message definitions found")
	}

	sort.SliceStable(cat.Messages, func(i, j int) bool {
		return cat.Messages[i].PacketID < cat.Messages[j].PacketID
	})
	return cat, nil
}

func parseMessage(name string, v gjson.Result) (Message, error) {
	m := Message{Name: name, TargetClient: BroadcastClient}

	pid := v.Get("packet_id")
	switch {
	case !pid.Exists():
		return m, parseErrorf(ErrMissingField, name, "'packet_id' is required (0-%d)", MaxPacketID)
	case pid.Type != gjson.Number:
		return m, parseErrorf(ErrWrongType, name, "'packet_id' must be an unsigned integer")
	}
	m.PacketID = int(pid.Int())
	if m.PacketID < 0 || m.PacketID > MaxPacketID {
		return m, parseErrorf(ErrRange, name, "packet_id %s exceeds maximum of %d", pid.Raw, MaxPacketID)
	}

	if desc := v.Get("msg_desc"); desc.Exists() {
		if desc.Type != gjson.String {
			return m, parseErrorf(ErrWrongType, name, "'msg_desc' must be a string")
		}
		m.Description = desc.String()
	}

	if rt := v.Get("request_type"); rt.Exists() {
		if rt.Type != gjson.String {
			return m, parseErrorf(ErrWrongType, name, "'request_type' must be a string")
		}
		req, ok := ParseRequestType(rt.String())
		if !ok {
			return m, parseErrorf(ErrMalformed, name,
				"unsupported request_type '%s', expected 'pub' or 'sub'", rt.String())
		}
		m.Request = req
	}

	if tc := v.Get("target_client_id"); tc.Exists() {
		if tc.Type != gjson.Number {
			return m, parseErrorf(ErrWrongType, name, "'target_client_id' must be an integer")
		}
		m.TargetClient = int(tc.Int())
	}

	mt := v.Get("msg_type")
	switch {
	case !mt.Exists():
		return m, parseErrorf(ErrMissingField, name,
			"'msg_type' is required (e.g. 'uint8', 'float32', 'struct')")
	case mt.Type != gjson.String:
		return m, parseErrorf(ErrWrongType, name, "'msg_type' must be a string")
	}

	body, err := parseBody(name, mt.String(), v)
	if err != nil {
		return m, err
	}
	m.Body = body

	if size := body.MaxSize(); size > MaxPayloadSize {
		return m, parseErrorf(ErrRange, name,
			"maximum encoded size is %d bytes, exceeding the %d bytes payload limit",
			size, MaxPayloadSize)
	}
	if s, ok := body.(StructSpec); ok && s.arrayFieldCount() > 1 {
		return m, parseErrorf(ErrMalformed, name,
			"struct has %d array fields; at most one variable-length field can be decoded",
			s.arrayFieldCount())
	}
	return m, nil
}

func parseBody(name, msgType string, v gjson.Result) (Body, error) {
	if strings.EqualFold(msgType, "struct") {
		spec, err := parseStructSpec(name, v)
		if err != nil {
			return nil, err
		}
		return spec, nil
	}

	prim, ok := ParsePrimitive(msgType)
	if !ok {
		return nil, parseErrorf(ErrUnknownPrimitive, name, "unsupported msg_type '%s'", msgType)
	}
	endian, err := optionalEndian(name, v)
	if err != nil {
		return nil, err
	}

	isArray, err := optionalBool(name, v, "array")
	if err != nil {
		return nil, err
	}
	if !isArray {
		return ScalarSpec{Primitive: prim, Endian: endian}, nil
	}

	maxLen, err := requireMaxLength(name, v)
	if err != nil {
		return nil, err
	}
	spec := ArraySpec{Primitive: prim, Endian: endian, MaxLength: maxLen}
	if sb := v.Get("sector_bytes"); sb.Exists() {
		if sb.Type != gjson.Number {
			return nil, parseErrorf(ErrWrongType, name, "'sector_bytes' must be an unsigned integer")
		}
		n := int(sb.Int())
		spec.SectorBytes = &n
	}
	return spec, nil
}

func parseStructSpec(path string, v gjson.Result) (StructSpec, error) {
	fieldsVal := v.Get("fields")
	switch {
	case !fieldsVal.Exists():
		return StructSpec{}, parseErrorf(ErrMissingField, path,
			"struct requires a 'fields' object containing field definitions")
	case !fieldsVal.IsObject():
		return StructSpec{}, parseErrorf(ErrWrongType, path, "'fields' must be an object")
	}

	fields, err := parseFields(path, fieldsVal)
	if err != nil {
		return StructSpec{}, err
	}
	if len(fields) == 0 {
		return StructSpec{}, parseErrorf(ErrMalformed, path,
			"struct must define at least one field")
	}
	return StructSpec{Fields: fields}, nil
}

func parseFields(parentPath string, fieldsVal gjson.Result) ([]Field, error) {
	var fields []Field
	var ferr error
	fieldsVal.ForEach(func(key, value gjson.Result) bool {
		path := parentPath + "." + key.String()
		if !value.IsObject() {
			ferr = parseErrorf(ErrMalformed, path, "field must be an object")
			return false
		}
		f, err := parseField(path, key.String(), value)
		if err != nil {
			ferr = err
			return false
		}
		fields = append(fields, f)
		return true
	})
	if ferr != nil {
		return nil, ferr
	}
	return fields, nil
}

func parseField(path, name string, v gjson.Result) (Field, error) {
	f := Field{Name: name}

	// Fields accept the type under either "type" or "msg_type".
	typeVal := v.Get("type")
	if !typeVal.Exists() {
		typeVal = v.Get("msg_type")
	}
	switch {
	case !typeVal.Exists():
		return f, parseErrorf(ErrMissingField, path, "field requires 'type' or 'msg_type'")
	case typeVal.Type != gjson.String:
		return f, parseErrorf(ErrWrongType, path, "field type must be a string")
	}

	endian, err := optionalEndian(path, v)
	if err != nil {
		return f, err
	}
	f.Endian = endian

	typeStr := typeVal.String()
	if strings.EqualFold(typeStr, "struct") {
		spec, err := parseStructSpec(path, v)
		if err != nil {
			return f, err
		}
		f.Type = NestedField{Spec: spec}
		return f, nil
	}

	prim, ok := ParsePrimitive(typeStr)
	if !ok {
		return f, parseErrorf(ErrUnknownPrimitive, path, "unsupported type '%s'", typeStr)
	}

	isArray, err := optionalBool(path, v, "array")
	if err != nil {
		return f, err
	}
	if isArray {
		maxLen, err := requireMaxLength(path, v)
		if err != nil {
			return f, err
		}
		f.Type = ArrayField{Primitive: prim, MaxLength: maxLen}
		return f, nil
	}
	f.Type = PrimitiveField{Primitive: prim}
	return f, nil
}

// optionalEndian accepts both the "endianess" spelling used throughout the
// existing IR corpus and the correctly spelled "endianness".
func optionalEndian(path string, v gjson.Result) (Endian, error) {
	for _, key := range []string{"endianess", "endianness"} {
		val := v.Get(key)
		if !val.Exists() {
			continue
		}
		if val.Type != gjson.String {
			return 0, parseErrorf(ErrWrongType, path, "'%s' must be a string", key)
		}
		e, ok := ParseEndian(val.String())
		if !ok {
			return 0, parseErrorf(ErrUnknownEndian, path,
				"unsupported endian value '%s', expected little/le/big/be", val.String())
		}
		return e, nil
	}
	return LittleEndian, nil
}

func optionalBool(path string, v gjson.Result, key string) (bool, error) {
	val := v.Get(key)
	if !val.Exists() {
		return false, nil
	}
	if val.Type != gjson.True && val.Type != gjson.False {
		return false, parseErrorf(ErrWrongType, path, "'%s' must be a boolean", key)
	}
	return val.Bool(), nil
}

func requireMaxLength(path string, v gjson.Result) (int, error) {
	val := v.Get("max_length")
	switch {
	case !val.Exists():
		return 0, parseErrorf(ErrMissingField, path,
			"array requires 'max_length' (1-%d)", MaxArrayLength)
	case val.Type != gjson.Number:
		return 0, parseErrorf(ErrWrongType, path, "'max_length' must be an unsigned integer")
	}
	n := int(val.Int())
	if n < 1 || n > MaxArrayLength {
		return 0, parseErrorf(ErrRange, path,
			"max_length %d outside allowed range 1-%d", n, MaxArrayLength)
	}
	return n, nil
}
