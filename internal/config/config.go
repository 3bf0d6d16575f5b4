// Package config declares the Kong CLI grammar shared by the binary and
// the config template scaffolding.
package config

import (
	"github.com/Ar-Ray-code/h6xserial-idl/internal/cmd"

	"github.com/alecthomas/kong"
)

// LogConfig holds the logging flags common to every command.
type LogConfig struct {
	Level string `help:"Log level: trace, debug, info, warn, error" enum:"trace,debug,info,warn,error" default:"info" env:"H6XSERIAL_LOG_LEVEL"`
	File  string `help:"Write logs to this file instead of stdout/stderr" env:"H6XSERIAL_LOG_FILE"`
}

// CLI is the root command grammar. Generate is the default command so
// the binary can be invoked with bare positionals.
type CLI struct {
	Log     LogConfig        `embed:"" prefix:"log."`
	Config  string           `help:"Path to a configuration file" env:"H6XSERIAL_CONFIG"`
	Version kong.VersionFlag `help:"Print version and exit"`

	Generate      cmd.Generate      `cmd:"" default:"withargs" help:"Generate C99 headers or documentation from message definitions"`
	ConfigCommand cmd.ConfigCommand `cmd:"" name:"config" help:"Manage configuration files"`
}
