package cgen_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cgen "github.com/Ar-Ray-code/h6xserial-idl/internal/codegen/generator/c"
	"github.com/Ar-Ray-code/h6xserial-idl/internal/msg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, ir string) *msg.Catalog {
	t.Helper()
	cat, err := msg.Parse([]byte(ir))
	require.NoError(t, err)
	return cat
}

func fileByName(t *testing.T, files []cgen.OutputFile, name string) string {
	t.Helper()
	for _, f := range files {
		if f.Name == name {
			return f.Content
		}
	}
	t.Fatalf("no generated file named %s (have %v)", name, fileNames(files))
	return ""
}

func fileNames(files []cgen.OutputFile) []string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	return names
}

func TestRenderScalarMessage(t *testing.T) {
	cat := mustParse(t, `{
		"ping": {
			"packet_id": 1,
			"msg_desc": "liveness probe",
			"msg_type": "uint8",
			"request_type": "pub"
		}
	}`)
	files := cgen.Render(cat, "msgs.json", "msgs")
	require.Equal(t, []string{"msgs_types.h", "msgs_server.h", "msgs_client_common.h"}, fileNames(files))

	types := fileByName(t, files, "msgs_types.h")
	assert.Contains(t, types, "#ifndef MSGS_TYPES_H")
	assert.Contains(t, types, "#define MSGS_TYPES_H")
	assert.Contains(t, types, "#include <stdint.h>")
	assert.Contains(t, types, "#include <stdbool.h>")
	assert.Contains(t, types, "static inline void h6xserial_write_u16_le")
	assert.Contains(t, types, "static inline double h6xserial_read_f64_be")
	assert.Contains(t, types, "/* liveness probe */")
	assert.Contains(t, types, "#define H6XSERIAL_MSG_PING_PACKET_ID 1")
	assert.Contains(t, types, "typedef struct {\n    uint8_t value;\n} h6xserial_msg_ping_t;")
	assert.NotContains(t, types, "_encode")
	assert.NotContains(t, types, "_decode")

	// A pub message is encoded by the server and decoded by clients.
	server := fileByName(t, files, "msgs_server.h")
	assert.Contains(t, server, `#include "msgs_types.h"`)
	assert.Contains(t, server, "* Role: Server")
	assert.Contains(t, server, "h6xserial_msg_ping_encode(const h6xserial_msg_ping_t *msg")
	assert.NotContains(t, server, "h6xserial_msg_ping_decode")

	common := fileByName(t, files, "msgs_client_common.h")
	assert.Contains(t, common, "* Role: Client (Common)")
	assert.Contains(t, common, "h6xserial_msg_ping_decode(h6xserial_msg_ping_t *msg")
	assert.NotContains(t, common, "h6xserial_msg_ping_encode")
	assert.Contains(t, common, "if (data_len != 1) {")
}

func TestRenderBigEndianFloat(t *testing.T) {
	cat := mustParse(t, `{
		"pressure": {
			"packet_id": 12,
			"msg_type": "float32",
			"endianess": "big",
			"request_type": "pub"
		}
	}`)
	files := cgen.Render(cat, "msgs.json", "msgs")

	server := fileByName(t, files, "msgs_server.h")
	assert.Contains(t, server, "h6xserial_write_f32_be(msg->value, out_buf);")
	assert.Contains(t, server, "if (out_len < 4) {")

	common := fileByName(t, files, "msgs_client_common.h")
	assert.Contains(t, common, "msg->value = h6xserial_read_f32_be(data);")
	assert.Contains(t, common, "if (data_len != 4) {")
}

func TestRenderCharArray(t *testing.T) {
	cat := mustParse(t, `{
		"log_line": {
			"packet_id": 33,
			"msg_type": "char",
			"array": true,
			"max_length": 32,
			"sector_bytes": 16,
			"request_type": "sub"
		}
	}`)
	files := cgen.Render(cat, "msgs.json", "msgs")

	types := fileByName(t, files, "msgs_types.h")
	assert.Contains(t, types, "#define H6XSERIAL_MSG_LOG_LINE_MAX_LENGTH 32")
	assert.Contains(t, types, "#define H6XSERIAL_MSG_LOG_LINE_SECTOR_BYTES 16")
	assert.Contains(t, types, "char data[H6XSERIAL_MSG_LOG_LINE_MAX_LENGTH];")
	assert.Contains(t, types, "size_t length;")

	// sub: the server decodes, the clients encode.
	server := fileByName(t, files, "msgs_server.h")
	assert.Contains(t, server, "h6xserial_msg_log_line_decode")
	assert.NotContains(t, server, "h6xserial_msg_log_line_encode")
	// Char arrays are NUL-terminated after decode when capacity allows.
	assert.Contains(t, server, "msg->data[element_count] = '\\0';")
	assert.Contains(t, server, "msg->data[0] = '\\0';")
	assert.Contains(t, server, "memcpy(msg->data, data, element_count);")

	common := fileByName(t, files, "msgs_client_common.h")
	assert.Contains(t, common, "h6xserial_msg_log_line_encode")
	assert.Contains(t, common, "memcpy(out_buf, msg->data, required);")
}

func TestRenderWideArrayLoops(t *testing.T) {
	cat := mustParse(t, `{
		"samples": {
			"packet_id": 40,
			"msg_type": "uint16",
			"array": true,
			"max_length": 8,
			"request_type": "pub"
		}
	}`)
	files := cgen.Render(cat, "msgs.json", "msgs")

	server := fileByName(t, files, "msgs_server.h")
	assert.Contains(t, server, "size_t required = msg->length * 2;")
	assert.Contains(t, server, "h6xserial_write_u16_le((uint16_t)(msg->data[i]), out_buf + offset);")

	common := fileByName(t, files, "msgs_client_common.h")
	assert.Contains(t, common, "if (data_len % 2 != 0) {")
	assert.Contains(t, common, "size_t element_count = data_len / 2;")
	assert.Contains(t, common, "msg->data[i] = h6xserial_read_u16_le(data + offset);")
}

func TestRenderFixedStruct(t *testing.T) {
	cat := mustParse(t, `{
		"rgb": {
			"packet_id": 21,
			"msg_type": "struct",
			"request_type": "pub",
			"fields": {
				"r": {"type": "uint8"},
				"g": {"type": "uint8"},
				"b": {"type": "uint8"}
			}
		}
	}`)
	files := cgen.Render(cat, "msgs.json", "msgs")

	types := fileByName(t, files, "msgs_types.h")
	assert.Contains(t, types, "typedef struct {\n    uint8_t r;\n    uint8_t g;\n    uint8_t b;\n} h6xserial_msg_rgb_t;")

	server := fileByName(t, files, "msgs_server.h")
	assert.Contains(t, server, "if (out_len < 3) {")
	assert.Contains(t, server, "(out_buf + offset)[0] = (uint8_t)(msg->r);")
	assert.Contains(t, server, "return offset;")

	common := fileByName(t, files, "msgs_client_common.h")
	assert.Contains(t, common, "if (data_len != 3) {")
	assert.Contains(t, common, "msg->b = (uint8_t)((data + offset)[0]);")
}

func TestRenderVariableTailStruct(t *testing.T) {
	cat := mustParse(t, `{
		"report": {
			"packet_id": 22,
			"msg_type": "struct",
			"request_type": "pub",
			"fields": {
				"kind": {"type": "uint8"},
				"data": {"type": "uint16", "array": true, "max_length": 4}
			}
		}
	}`)
	files := cgen.Render(cat, "msgs.json", "msgs")

	types := fileByName(t, files, "msgs_types.h")
	assert.Contains(t, types, "#define H6XSERIAL_MSG_REPORT_DATA_MAX_LENGTH 4")
	assert.Contains(t, types, "size_t data_length;")
	assert.Contains(t, types, "uint16_t data[H6XSERIAL_MSG_REPORT_DATA_MAX_LENGTH];")

	server := fileByName(t, files, "msgs_server.h")
	// Worst case is 1 + 4*2 bytes.
	assert.Contains(t, server, "if (out_len < 9) {")
	assert.Contains(t, server, "for (size_t i = 0; i < msg->data_length && i < H6XSERIAL_MSG_REPORT_DATA_MAX_LENGTH; ++i) {")

	common := fileByName(t, files, "msgs_client_common.h")
	assert.Contains(t, common, "if (data_len < 1) {")
	assert.Contains(t, common, "if (data_len > 9) {")
	// Lengths that leave a partial trailing element are rejected.
	assert.Contains(t, common, "if ((data_len - 1) % 2 != 0) {")
	assert.Contains(t, common, "remaining -= 1;")
	assert.Contains(t, common, "size_t elem_count = remaining / 2;")
	assert.Contains(t, common, "msg->data_length = elem_count;")
}

func TestRenderNestedStruct(t *testing.T) {
	cat := mustParse(t, `{
		"pose": {
			"packet_id": 25,
			"msg_type": "struct",
			"request_type": "pub",
			"fields": {
				"position": {
					"type": "struct",
					"fields": {
						"x": {"type": "float32"},
						"y": {"type": "float32"}
					}
				},
				"valid": {"type": "bool"}
			}
		}
	}`)
	files := cgen.Render(cat, "msgs.json", "msgs")

	types := fileByName(t, files, "msgs_types.h")
	// The nested typedef is emitted before the parent that uses it.
	nestedAt := strings.Index(types, "} h6xserial_msg_pose_position_t;")
	parentAt := strings.Index(types, "} h6xserial_msg_pose_t;")
	require.GreaterOrEqual(t, nestedAt, 0)
	require.GreaterOrEqual(t, parentAt, 0)
	assert.Less(t, nestedAt, parentAt)
	assert.Contains(t, types, "h6xserial_msg_pose_position_t position;")

	server := fileByName(t, files, "msgs_server.h")
	assert.Contains(t, server, "h6xserial_write_f32_le(msg->position.x, out_buf + offset);")
	assert.Contains(t, server, "(out_buf + offset)[0] = (msg->valid) ? 1 : 0;")
	assert.Contains(t, server, "if (out_len < 9) {")
}

func TestRenderRolePartition(t *testing.T) {
	cat := mustParse(t, `{
		"announce": {"packet_id": 1, "msg_type": "uint8", "request_type": "pub"},
		"telemetry": {"packet_id": 2, "msg_type": "uint16", "request_type": "sub", "target_client_id": 7},
		"command": {"packet_id": 3, "msg_type": "uint32", "request_type": "pub", "target_client_id": 7}
	}`)
	files := cgen.Render(cat, "msgs.json", "msgs")
	require.Equal(t,
		[]string{"msgs_types.h", "msgs_server.h", "msgs_client_common.h", "msgs_client_7.h"},
		fileNames(files))

	// The server sees every message regardless of target.
	server := fileByName(t, files, "msgs_server.h")
	assert.Contains(t, server, "h6xserial_msg_announce_encode")
	assert.Contains(t, server, "h6xserial_msg_telemetry_decode")
	assert.Contains(t, server, "h6xserial_msg_command_encode")

	// The common client header carries only broadcast messages.
	common := fileByName(t, files, "msgs_client_common.h")
	assert.Contains(t, common, "h6xserial_msg_announce_decode")
	assert.NotContains(t, common, "h6xserial_msg_telemetry")
	assert.NotContains(t, common, "h6xserial_msg_command")

	// Client 7 gets its targeted messages with inverted direction and pulls
	// in the common header for the broadcast ones.
	client := fileByName(t, files, "msgs_client_7.h")
	assert.Contains(t, client, "* Role: Client (ID: 7)")
	assert.Contains(t, client, `#include "msgs_types.h"`)
	assert.Contains(t, client, `#include "msgs_client_common.h"`)
	assert.Contains(t, client, "#ifndef MSGS_CLIENT_7_H")
	assert.Contains(t, client, "h6xserial_msg_telemetry_encode")
	assert.Contains(t, client, "h6xserial_msg_command_decode")
	assert.NotContains(t, client, "h6xserial_msg_announce")
}

func TestRenderDeterministic(t *testing.T) {
	ir := `{
		"version": "2.0.1",
		"max_address": 16,
		"a": {"packet_id": 9, "msg_type": "uint8", "request_type": "sub"},
		"b": {"packet_id": 2, "msg_type": "float64", "request_type": "pub", "target_client_id": 3}
	}`
	first := cgen.Render(mustParse(t, ir), "msgs.json", "msgs")
	second := cgen.Render(mustParse(t, ir), "msgs.json", "msgs")
	require.Equal(t, first, second)

	types := fileByName(t, first, "msgs_types.h")
	assert.Contains(t, types, "* Protocol version: 2.0.1")
	assert.Contains(t, types, "* Max address: 16")
	assert.Contains(t, types, "* Source: msgs.json")

	// Messages appear in packet id order regardless of declaration order.
	bAt := strings.Index(types, "H6XSERIAL_MSG_B_PACKET_ID 2")
	aAt := strings.Index(types, "H6XSERIAL_MSG_A_PACKET_ID 9")
	require.GreaterOrEqual(t, bAt, 0)
	require.GreaterOrEqual(t, aAt, 0)
	assert.Less(t, bAt, aAt)
}

func TestGenerateWritesFiles(t *testing.T) {
	cat := mustParse(t, `{
		"ping": {"packet_id": 1, "msg_type": "uint8", "request_type": "pub"}
	}`)
	dir := t.TempDir()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	require.NoError(t, cgen.Generate(logger, dir, "generated", cat, "msgs.json"))

	for _, name := range []string{"generated_types.h", "generated_server.h", "generated_client_common.h"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.NotEmpty(t, data, name)
	}
}
