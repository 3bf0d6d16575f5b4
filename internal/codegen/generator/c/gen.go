// Package cgen emits the C99 headers for a message catalog: one shared types
// header plus role headers holding only encode/decode definitions.
package cgen

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Ar-Ray-code/h6xserial-idl/internal/msg"
)

// OutputFile is one rendered header, named relative to the output directory.
type OutputFile struct {
	Name    string
	Content string
}

// role selects which messages a header carries and in which direction.
type role int

const (
	// roleServer takes every message: pub->encode, sub->decode.
	roleServer role = iota
	// roleClientCommon takes broadcast messages (target −1): pub->decode,
	// sub->encode.
	roleClientCommon
	// roleClient takes messages targeted at one client id, same direction
	// as roleClientCommon.
	roleClient
)

// fnMode determines which functions are emitted for a message.
type fnMode int

const (
	modeEncode fnMode = iota
	modeDecode
	modeBoth
)

// Generate renders all headers for the catalog and writes them into outDir.
func Generate(logger *slog.Logger, outDir, baseName string, cat *msg.Catalog, inputPath string) error {
	for _, file := range Render(cat, inputPath, baseName) {
		path := filepath.Join(outDir, file.Name)
		if err := os.WriteFile(path, []byte(file.Content), 0o644); err != nil {
			return fmt.Errorf("write header %s: %w", path, err)
		}
		logger.Info("Generated header", "file", path)
	}
	return nil
}

// Render produces every header for the catalog in memory. Output is a pure
// function of the catalog and base name: the types header first, then the
// server header, the common client header, and one header per distinct
// positive client id in ascending order.
func Render(cat *msg.Catalog, inputPath, baseName string) []OutputFile {
	typesName := baseName + "_types.h"
	commonName := baseName + "_client_common.h"

	files := []OutputFile{
		{Name: typesName, Content: renderTypesHeader(cat, inputPath, typesName)},
		{
			Name:    baseName + "_server.h",
			Content: renderRoleHeader(cat, inputPath, baseName+"_server.h", typesName, "", roleServer, 0),
		},
		{
			Name:    commonName,
			Content: renderRoleHeader(cat, inputPath, commonName, typesName, "", roleClientCommon, 0),
		},
	}

	for _, id := range cat.ClientIDs() {
		name := fmt.Sprintf("%s_client_%d.h", baseName, id)
		files = append(files, OutputFile{
			Name:    name,
			Content: renderRoleHeader(cat, inputPath, name, typesName, commonName, roleClient, id),
		})
	}
	return files
}

// messageMode reports whether m belongs to the role's header and which
// functions the role needs for it.
func messageMode(m msg.Message, r role, clientID int) (bool, fnMode) {
	serverSide := r == roleServer
	mode := modeDecode
	if (m.Request == msg.Pub) == serverSide {
		mode = modeEncode
	}
	switch r {
	case roleServer:
		return true, mode
	case roleClientCommon:
		return m.TargetClient == msg.BroadcastClient, mode
	default:
		return m.TargetClient == clientID, mode
	}
}
