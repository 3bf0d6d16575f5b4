package cgen

import (
	"fmt"
	"strings"

	"github.com/Ar-Ray-code/h6xserial-idl/internal/codegen/common"
	"github.com/Ar-Ray-code/h6xserial-idl/internal/msg"
)

func typeName(m msg.Message) string {
	return fmt.Sprintf("h6xserial_msg_%s_t", common.ToSnakeCase(m.Name))
}

func encodeFnName(m msg.Message) string {
	return fmt.Sprintf("h6xserial_msg_%s_encode", common.ToSnakeCase(m.Name))
}

func decodeFnName(m msg.Message) string {
	return fmt.Sprintf("h6xserial_msg_%s_decode", common.ToSnakeCase(m.Name))
}

func macroPrefix(m msg.Message) string {
	return "H6XSERIAL_MSG_" + common.ToMacroIdent(m.Name)
}

// nestedTypeName composes a nested struct typedef name: the parent name with
// its trailing _t stripped, the snake-cased field name, and _t re-appended.
func nestedTypeName(parentTypeName, fieldName string) string {
	return fmt.Sprintf("%s_%s_t", strings.TrimSuffix(parentTypeName, "_t"), common.ToSnakeCase(fieldName))
}

// messageTypes renders the macros and typedefs for one message, as placed in
// the shared types header.
func messageTypes(m msg.Message) string {
	var b strings.Builder
	if m.Description != "" {
		fmt.Fprintf(&b, "/* %s */\n", m.Description)
	}
	prefix := macroPrefix(m)
	fmt.Fprintf(&b, "#define %s_PACKET_ID %d\n", prefix, m.PacketID)

	switch spec := m.Body.(type) {
	case msg.ScalarSpec:
		b.WriteByte('\n')
		fmt.Fprintf(&b, "typedef struct {\n    %s value;\n} %s;\n\n", spec.Primitive.CType(), typeName(m))
	case msg.ArraySpec:
		fmt.Fprintf(&b, "#define %s_MAX_LENGTH %d\n", prefix, spec.MaxLength)
		if spec.SectorBytes != nil {
			fmt.Fprintf(&b, "#define %s_SECTOR_BYTES %d\n", prefix, *spec.SectorBytes)
		}
		b.WriteByte('\n')
		fmt.Fprintf(&b, "typedef struct {\n    size_t length;\n    %s data[%s_MAX_LENGTH];\n} %s;\n\n",
			spec.Primitive.CType(), prefix, typeName(m))
	case msg.StructSpec:
		b.WriteByte('\n')
		structTypedef(&b, typeName(m), prefix, spec)
	}
	return b.String()
}

// structTypedef renders a struct typedef. Nested struct typedefs are emitted
// first so the parent can reference them, and each array field gets its
// ..._MAX_LENGTH macro ahead of the typedef that uses it.
func structTypedef(b *strings.Builder, typeName, prefix string, spec msg.StructSpec) {
	for _, f := range spec.Fields {
		if nested, ok := f.Type.(msg.NestedField); ok {
			structTypedef(b, nestedTypeName(typeName, f.Name),
				prefix+"_"+common.ToMacroIdent(f.Name), nested.Spec)
		}
	}

	for _, f := range spec.Fields {
		if arr, ok := f.Type.(msg.ArrayField); ok {
			fmt.Fprintf(b, "#define %s_%s_MAX_LENGTH %d\n", prefix, common.ToMacroIdent(f.Name), arr.MaxLength)
		}
	}

	b.WriteString("typedef struct {\n")
	for _, f := range spec.Fields {
		ident := common.ToSnakeCase(f.Name)
		switch t := f.Type.(type) {
		case msg.PrimitiveField:
			fmt.Fprintf(b, "    %s %s;\n", t.Primitive.CType(), ident)
		case msg.ArrayField:
			fmt.Fprintf(b, "    size_t %s_length;\n", ident)
			fmt.Fprintf(b, "    %s %s[%s_%s_MAX_LENGTH];\n",
				t.Primitive.CType(), ident, prefix, common.ToMacroIdent(f.Name))
		case msg.NestedField:
			fmt.Fprintf(b, "    %s %s;\n", nestedTypeName(typeName, f.Name), ident)
		}
	}
	fmt.Fprintf(b, "} %s;\n\n", typeName)
}
