// Package output projects a generation result into the client and server views and encodes them.
package output

import (
	"fmt"
)

// Mode selects the view that is written.
type Mode string

const (
	// ModeServer maps hashes to canonical query text.
	ModeServer Mode = "server"
	// ModeClient maps operation names to hashes.
	ModeClient Mode = "client"
)

type InvalidModeError struct {
	Mode string
}

func (e *InvalidModeError) Error() string {
	if e.Mode == "" {
		return "must configure output to 'server' or 'client'"
	}
	return fmt.Sprintf("must configure output to 'server' or 'client', got %q", e.Mode)
}

func ParseMode(mode string) (Mode, error) {
	switch Mode(mode) {
	case ModeServer, ModeClient:
		return Mode(mode), nil
	default:
		return "", &InvalidModeError{Mode: mode}
	}
}

// Format selects the encoding of a view.
type Format string

const (
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatGo     Format = "go"
	FormatApollo Format = "apollo"
)

type UnsupportedFormatError struct {
	Format string
	Mode   Mode
}

func (e *UnsupportedFormatError) Error() string {
	if e.Mode != "" {
		return fmt.Sprintf("format %q is not supported for %s output", e.Format, e.Mode)
	}
	return fmt.Sprintf("unsupported output format %q, supported formats: json, yaml, go, apollo", e.Format)
}

// ParseFormat parses format, an empty format selects FormatJSON.
func ParseFormat(format string) (Format, error) {
	switch Format(format) {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatYAML, FormatGo, FormatApollo:
		return Format(format), nil
	default:
		return "", &UnsupportedFormatError{Format: format}
	}
}

// CheckFormat returns an error if format cannot encode the view of mode.
func CheckFormat(mode Mode, format Format) error {
	if format == FormatApollo && mode != ModeServer {
		return &UnsupportedFormatError{Format: string(format), Mode: mode}
	}
	return nil
}
