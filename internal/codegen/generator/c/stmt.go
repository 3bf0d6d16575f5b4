package cgen

import (
	"fmt"

	"github.com/Ar-Ray-code/h6xserial-idl/internal/msg"
)

// primitiveEncodeStmt renders the statement writing one primitive value to
// destPtr. One-byte primitives are stored directly; wider ones go through
// the endian helper block.
func primitiveEncodeStmt(p msg.Primitive, e msg.Endian, src, destPtr, indent string) string {
	switch p {
	case msg.Bool:
		return fmt.Sprintf("%s(%s)[0] = (%s) ? 1 : 0;\n", indent, destPtr, src)
	case msg.Char, msg.Int8, msg.Uint8:
		return fmt.Sprintf("%s(%s)[0] = (uint8_t)(%s);\n", indent, destPtr, src)
	case msg.Int16, msg.Uint16:
		return fmt.Sprintf("%sh6xserial_write_u16_%s((uint16_t)(%s), %s);\n", indent, e.Suffix(), src, destPtr)
	case msg.Int32, msg.Uint32:
		return fmt.Sprintf("%sh6xserial_write_u32_%s((uint32_t)(%s), %s);\n", indent, e.Suffix(), src, destPtr)
	case msg.Int64, msg.Uint64:
		return fmt.Sprintf("%sh6xserial_write_u64_%s((uint64_t)(%s), %s);\n", indent, e.Suffix(), src, destPtr)
	case msg.Float32:
		return fmt.Sprintf("%sh6xserial_write_f32_%s(%s, %s);\n", indent, e.Suffix(), src, destPtr)
	default:
		return fmt.Sprintf("%sh6xserial_write_f64_%s(%s, %s);\n", indent, e.Suffix(), src, destPtr)
	}
}

// primitiveDecodeStmt renders the statement reading one primitive value from
// srcPtr into dest.
func primitiveDecodeStmt(p msg.Primitive, e msg.Endian, dest, srcPtr, indent string) string {
	switch p {
	case msg.Bool:
		return fmt.Sprintf("%s%s = ((%s)[0]) != 0;\n", indent, dest, srcPtr)
	case msg.Char:
		return fmt.Sprintf("%s%s = (char)((%s)[0]);\n", indent, dest, srcPtr)
	case msg.Int8:
		return fmt.Sprintf("%s%s = (int8_t)((%s)[0]);\n", indent, dest, srcPtr)
	case msg.Uint8:
		return fmt.Sprintf("%s%s = (uint8_t)((%s)[0]);\n", indent, dest, srcPtr)
	case msg.Int16:
		return fmt.Sprintf("%s%s = (int16_t)h6xserial_read_u16_%s(%s);\n", indent, dest, e.Suffix(), srcPtr)
	case msg.Uint16:
		return fmt.Sprintf("%s%s = h6xserial_read_u16_%s(%s);\n", indent, dest, e.Suffix(), srcPtr)
	case msg.Int32:
		return fmt.Sprintf("%s%s = (int32_t)h6xserial_read_u32_%s(%s);\n", indent, dest, e.Suffix(), srcPtr)
	case msg.Uint32:
		return fmt.Sprintf("%s%s = h6xserial_read_u32_%s(%s);\n", indent, dest, e.Suffix(), srcPtr)
	case msg.Int64:
		return fmt.Sprintf("%s%s = (int64_t)h6xserial_read_u64_%s(%s);\n", indent, dest, e.Suffix(), srcPtr)
	case msg.Uint64:
		return fmt.Sprintf("%s%s = h6xserial_read_u64_%s(%s);\n", indent, dest, e.Suffix(), srcPtr)
	case msg.Float32:
		return fmt.Sprintf("%s%s = h6xserial_read_f32_%s(%s);\n", indent, dest, e.Suffix(), srcPtr)
	default:
		return fmt.Sprintf("%s%s = h6xserial_read_f64_%s(%s);\n", indent, dest, e.Suffix(), srcPtr)
	}
}
