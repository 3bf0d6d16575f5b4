package cgen

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Ar-Ray-code/h6xserial-idl/internal/codegen/common"
	"github.com/Ar-Ray-code/h6xserial-idl/internal/msg"
)

const headerTmpl = `/*
 * Auto-generated by h6xserial-idl.
 * Source: {{.Source}}
{{- if .Role}}
 * Role: {{.Role}}
{{- else}}
 * Common type definitions and helper functions
{{- end}}
{{- if .Version}}
 * Protocol version: {{.Version}}
{{- end}}
{{- if .MaxAddress}}
 * Max address: {{.MaxAddress}}
{{- end}}
 */

#ifndef {{.Guard}}
#define {{.Guard}}

{{range .SysIncludes}}#include <{{.}}>
{{end -}}
{{range .Includes}}#include "{{.}}"
{{end}}
#ifdef __cplusplus
extern "C" {
#endif

{{.Content}}
#ifdef __cplusplus
}
#endif

#endif /* {{.Guard}} */
`

type headerData struct {
	Source      string
	Role        string
	Version     string
	MaxAddress  string
	Guard       string
	SysIncludes []string
	Includes    []string
	Content     string
}

var headerTemplate = template.Must(template.New("header").Parse(headerTmpl))

func renderHeader(data headerData) string {
	var b strings.Builder
	// The template only references fields of the local data struct; execution
	// cannot fail.
	if err := headerTemplate.Execute(&b, data); err != nil {
		panic(err)
	}
	return b.String()
}

func bannerMeta(meta msg.Metadata) (version, maxAddress string) {
	version = meta.Version
	if meta.MaxAddress != nil {
		maxAddress = fmt.Sprintf("%d", *meta.MaxAddress)
	}
	return
}

// renderTypesHeader emits the shared header: the helper block followed by
// every message's macros and typedefs. No functions live here.
func renderTypesHeader(cat *msg.Catalog, inputPath, fileName string) string {
	version, maxAddress := bannerMeta(cat.Meta)

	var content strings.Builder
	content.WriteString(helperBlock)
	for _, m := range cat.Messages {
		content.WriteByte('\n')
		content.WriteString(messageTypes(m))
	}

	return renderHeader(headerData{
		Source:      inputPath,
		Version:     version,
		MaxAddress:  maxAddress,
		Guard:       common.HeaderGuard(fileName),
		SysIncludes: []string{"stdbool.h", "stddef.h", "stdint.h", "string.h"},
		Content:     content.String(),
	})
}

// renderRoleHeader emits a header carrying only the function definitions the
// role needs. Per-client headers additionally include the common client
// header so a client sees its broadcast messages too.
func renderRoleHeader(cat *msg.Catalog, inputPath, fileName, typesHeader, commonHeader string, r role, clientID int) string {
	version, maxAddress := bannerMeta(cat.Meta)

	roleLine := "Server"
	switch r {
	case roleClientCommon:
		roleLine = "Client (Common)"
	case roleClient:
		roleLine = fmt.Sprintf("Client (ID: %d)", clientID)
	}

	includes := []string{typesHeader}
	if commonHeader != "" {
		includes = append(includes, commonHeader)
	}

	var content strings.Builder
	for _, m := range cat.Messages {
		applies, mode := messageMode(m, r, clientID)
		if !applies {
			continue
		}
		content.WriteByte('\n')
		content.WriteString(messageFunctions(m, mode))
	}

	return renderHeader(headerData{
		Source:     inputPath,
		Role:       roleLine,
		Version:    version,
		MaxAddress: maxAddress,
		Guard:      common.HeaderGuard(fileName),
		Includes:   includes,
		Content:    content.String(),
	})
}
