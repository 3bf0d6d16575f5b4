package cgen

import (
	"fmt"
	"strings"

	"github.com/Ar-Ray-code/h6xserial-idl/internal/codegen/common"
	"github.com/Ar-Ray-code/h6xserial-idl/internal/msg"
)

// messageFunctions renders the encode/decode definitions for one message, as
// placed in a role header.
func messageFunctions(m msg.Message, mode fnMode) string {
	var b strings.Builder
	if m.Description != "" {
		fmt.Fprintf(&b, "/* %s */\n", m.Description)
	}
	switch spec := m.Body.(type) {
	case msg.ScalarSpec:
		scalarFunctions(&b, m, spec, mode)
	case msg.ArraySpec:
		arrayFunctions(&b, m, spec, mode)
	case msg.StructSpec:
		structFunctions(&b, m, spec, mode)
	}
	return b.String()
}

func wantEncode(mode fnMode) bool { return mode == modeEncode || mode == modeBoth }
func wantDecode(mode fnMode) bool { return mode == modeDecode || mode == modeBoth }

func scalarFunctions(b *strings.Builder, m msg.Message, spec msg.ScalarSpec, mode fnMode) {
	tn := typeName(m)
	size := spec.Primitive.Width()

	if wantEncode(mode) {
		fmt.Fprintf(b, "static inline size_t %s(const %s *msg, uint8_t *out_buf, const size_t out_len) {\n",
			encodeFnName(m), tn)
		b.WriteString("    if (!msg || !out_buf) {\n        return 0;\n    }\n")
		fmt.Fprintf(b, "    if (out_len < %d) {\n        return 0;\n    }\n", size)
		b.WriteString(primitiveEncodeStmt(spec.Primitive, spec.Endian, "msg->value", "out_buf", "    "))
		fmt.Fprintf(b, "    return %d;\n}\n\n", size)
	}

	if wantDecode(mode) {
		fmt.Fprintf(b, "static inline bool %s(%s *msg, const uint8_t *data, const size_t data_len) {\n",
			decodeFnName(m), tn)
		b.WriteString("    if (!msg || !data) {\n        return false;\n    }\n")
		fmt.Fprintf(b, "    if (data_len != %d) {\n        return false;\n    }\n", size)
		b.WriteString(primitiveDecodeStmt(spec.Primitive, spec.Endian, "msg->value", "data", "    "))
		b.WriteString("    return true;\n}\n\n")
	}
}

func arrayFunctions(b *strings.Builder, m msg.Message, spec msg.ArraySpec, mode fnMode) {
	tn := typeName(m)
	maxMacro := macroPrefix(m) + "_MAX_LENGTH"
	elemSize := spec.Primitive.Width()

	if wantEncode(mode) {
		fmt.Fprintf(b, "static inline size_t %s(const %s *msg, uint8_t *out_buf, const size_t out_len) {\n",
			encodeFnName(m), tn)
		b.WriteString("    if (!msg || !out_buf) {\n        return 0;\n    }\n")
		fmt.Fprintf(b, "    if (msg->length > %s) {\n        return 0;\n    }\n", maxMacro)
		fmt.Fprintf(b, "    size_t required = msg->length * %d;\n", elemSize)
		b.WriteString("    if (out_len < required) {\n        return 0;\n    }\n")
		if elemSize == 1 {
			b.WriteString("    if (required > 0) {\n        memcpy(out_buf, msg->data, required);\n    }\n")
			b.WriteString("    return required;\n}\n\n")
		} else {
			b.WriteString("    size_t offset = 0;\n    for (size_t i = 0; i < msg->length; ++i) {\n")
			b.WriteString(primitiveEncodeStmt(spec.Primitive, spec.Endian, "msg->data[i]", "out_buf + offset", "        "))
			fmt.Fprintf(b, "        offset += %d;\n", elemSize)
			b.WriteString("    }\n    return offset;\n}\n\n")
		}
	}

	if wantDecode(mode) {
		fmt.Fprintf(b, "static inline bool %s(%s *msg, const uint8_t *data, const size_t data_len) {\n",
			decodeFnName(m), tn)
		b.WriteString("    if (!msg || !data) {\n        return false;\n    }\n")
		fmt.Fprintf(b, "    if (data_len %% %d != 0) {\n        return false;\n    }\n", elemSize)
		fmt.Fprintf(b, "    size_t element_count = data_len / %d;\n", elemSize)
		fmt.Fprintf(b, "    if (element_count > %s) {\n        return false;\n    }\n", maxMacro)
		b.WriteString("    msg->length = element_count;\n")
		b.WriteString("    if (element_count == 0) {\n")
		if spec.Primitive == msg.Char {
			fmt.Fprintf(b, "        if (%s > 0) {\n            msg->data[0] = '\\0';\n        }\n", maxMacro)
		}
		b.WriteString("        return true;\n    }\n")
		if elemSize == 1 {
			b.WriteString("    memcpy(msg->data, data, element_count);\n")
		} else {
			b.WriteString("    size_t offset = 0;\n    for (size_t i = 0; i < element_count; ++i) {\n")
			b.WriteString(primitiveDecodeStmt(spec.Primitive, spec.Endian, "msg->data[i]", "data + offset", "        "))
			fmt.Fprintf(b, "        offset += %d;\n", elemSize)
			b.WriteString("    }\n")
		}
		if spec.Primitive == msg.Char {
			fmt.Fprintf(b, "    if (element_count < %s) {\n        msg->data[element_count] = '\\0';\n    }\n", maxMacro)
		}
		b.WriteString("    return true;\n}\n\n")
	}
}

func structFunctions(b *strings.Builder, m msg.Message, spec msg.StructSpec, mode fnMode) {
	tn := typeName(m)
	prefix := macroPrefix(m)
	maxSize := spec.MaxSize()
	minSize := spec.MinSize()

	if wantEncode(mode) {
		fmt.Fprintf(b, "static inline size_t %s(const %s *msg, uint8_t *out_buf, const size_t out_len) {\n",
			encodeFnName(m), tn)
		b.WriteString("    if (!msg || !out_buf) {\n        return 0;\n    }\n")
		fmt.Fprintf(b, "    if (out_len < %d) {\n        return 0;\n    }\n", maxSize)
		b.WriteString("    size_t offset = 0;\n")
		fieldEncodeStmts(b, spec.Fields, "msg->", prefix, "    ")
		b.WriteString("    return offset;\n}\n\n")
	}

	if wantDecode(mode) {
		fmt.Fprintf(b, "static inline bool %s(%s *msg, const uint8_t *data, const size_t data_len) {\n",
			decodeFnName(m), tn)
		b.WriteString("    if (!msg || !data) {\n        return false;\n    }\n")

		if spec.HasVariable() {
			fmt.Fprintf(b, "    if (data_len < %d) {\n        return false;\n    }\n", minSize)
			fmt.Fprintf(b, "    if (data_len > %d) {\n        return false;\n    }\n", maxSize)
			if w := variableElemWidth(spec); w > 1 {
				fmt.Fprintf(b, "    if ((data_len - %d) %% %d != 0) {\n        return false;\n    }\n", minSize, w)
			}
			b.WriteString("    size_t offset = 0;\n")
			b.WriteString("    size_t remaining = data_len;\n")
			fmt.Fprintf(b, "    remaining -= %d;\n", minSize)
			fieldDecodeStmts(b, spec.Fields, "msg->", prefix, "    ", "remaining")
		} else {
			fmt.Fprintf(b, "    if (data_len != %d) {\n        return false;\n    }\n", maxSize)
			b.WriteString("    size_t offset = 0;\n")
			fieldDecodeStmts(b, spec.Fields, "msg->", prefix, "    ", "")
		}
		b.WriteString("    return true;\n}\n\n")
	}
}

// variableElemWidth returns the element width of the struct's variable
// field. Validation permits at most one reachable array field, so the
// width is unique; 0 means the struct is fixed-size.
func variableElemWidth(spec msg.StructSpec) int {
	for _, f := range spec.Fields {
		switch t := f.Type.(type) {
		case msg.ArrayField:
			return t.Primitive.Width()
		case msg.NestedField:
			if w := variableElemWidth(t.Spec); w > 0 {
				return w
			}
		}
	}
	return 0
}

// fieldEncodeStmts walks the fields in declaration order, writing each
// primitive at the running offset. Array fields write only the variable
// length, clamped to the max macro; nested structs recurse with a longer
// accessor and macro prefix.
func fieldEncodeStmts(b *strings.Builder, fields []msg.Field, accessor, prefix, indent string) {
	for _, f := range fields {
		ident := common.ToSnakeCase(f.Name)
		fieldAccess := accessor + ident
		switch t := f.Type.(type) {
		case msg.PrimitiveField:
			b.WriteString(primitiveEncodeStmt(t.Primitive, f.Endian, fieldAccess, "out_buf + offset", indent))
			fmt.Fprintf(b, "%soffset += %d;\n", indent, t.Primitive.Width())
		case msg.ArrayField:
			maxMacro := fmt.Sprintf("%s_%s_MAX_LENGTH", prefix, common.ToMacroIdent(f.Name))
			fmt.Fprintf(b, "%sfor (size_t i = 0; i < %s%s_length && i < %s; ++i) {\n",
				indent, accessor, ident, maxMacro)
			b.WriteString(primitiveEncodeStmt(t.Primitive, f.Endian, fieldAccess+"[i]", "out_buf + offset", indent+"    "))
			fmt.Fprintf(b, "%s    offset += %d;\n", indent, t.Primitive.Width())
			fmt.Fprintf(b, "%s}\n", indent)
		case msg.NestedField:
			fieldEncodeStmts(b, t.Spec.Fields, fieldAccess+".",
				prefix+"_"+common.ToMacroIdent(f.Name), indent)
		}
	}
}

// fieldDecodeStmts mirrors fieldEncodeStmts. With a remaining variable the
// array field's element count is recovered from the bytes left over after
// all fixed fields; without one arrays decode at full length.
func fieldDecodeStmts(b *strings.Builder, fields []msg.Field, accessor, prefix, indent, remainingVar string) {
	for _, f := range fields {
		ident := common.ToSnakeCase(f.Name)
		fieldAccess := accessor + ident
		switch t := f.Type.(type) {
		case msg.PrimitiveField:
			b.WriteString(primitiveDecodeStmt(t.Primitive, f.Endian, fieldAccess, "data + offset", indent))
			fmt.Fprintf(b, "%soffset += %d;\n", indent, t.Primitive.Width())
		case msg.ArrayField:
			maxMacro := fmt.Sprintf("%s_%s_MAX_LENGTH", prefix, common.ToMacroIdent(f.Name))
			lengthAccess := accessor + ident + "_length"
			elemSize := t.Primitive.Width()
			if remainingVar != "" {
				fmt.Fprintf(b, "%s{\n", indent)
				fmt.Fprintf(b, "%s    size_t elem_count = %s / %d;\n", indent, remainingVar, elemSize)
				fmt.Fprintf(b, "%s    if (elem_count > %s) {\n", indent, maxMacro)
				fmt.Fprintf(b, "%s        elem_count = %s;\n", indent, maxMacro)
				fmt.Fprintf(b, "%s    }\n", indent)
				fmt.Fprintf(b, "%s    %s = elem_count;\n", indent, lengthAccess)
				fmt.Fprintf(b, "%s    for (size_t i = 0; i < elem_count; ++i) {\n", indent)
				b.WriteString(primitiveDecodeStmt(t.Primitive, f.Endian, fieldAccess+"[i]", "data + offset", indent+"        "))
				fmt.Fprintf(b, "%s        offset += %d;\n", indent, elemSize)
				fmt.Fprintf(b, "%s    }\n", indent)
				fmt.Fprintf(b, "%s}\n", indent)
			} else {
				fmt.Fprintf(b, "%s%s = %s;\n", indent, lengthAccess, maxMacro)
				fmt.Fprintf(b, "%sfor (size_t i = 0; i < %s; ++i) {\n", indent, maxMacro)
				b.WriteString(primitiveDecodeStmt(t.Primitive, f.Endian, fieldAccess+"[i]", "data + offset", indent+"    "))
				fmt.Fprintf(b, "%s    offset += %d;\n", indent, elemSize)
				fmt.Fprintf(b, "%s}\n", indent)
			}
		case msg.NestedField:
			fieldDecodeStmts(b, t.Spec.Fields, fieldAccess+".",
				prefix+"_"+common.ToMacroIdent(f.Name), indent, remainingVar)
		}
	}
}
