package models

import (
	"fmt"
	"strings"
)

// InputFormat selects how the Loader turns the input into lines.
type InputFormat string

const (
	// InputFormatAuto picks html or text from the extension or content type.
	InputFormatAuto InputFormat = "auto"
	InputFormatText InputFormat = "text" // One record per physical line
	InputFormatHTML InputFormat = "html" // Readable text extracted per block element
)

// ParseInputFormat resolves a flag value into an InputFormat.
func ParseInputFormat(s string) (InputFormat, error) {
	switch InputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", InputFormatAuto:
		return InputFormatAuto, nil
	case InputFormatText, "txt":
		return InputFormatText, nil
	case InputFormatHTML, "htm":
		return InputFormatHTML, nil
	default:
		return "", fmt.Errorf("unknown input format %q (want auto, text or html)", s)
	}
}
