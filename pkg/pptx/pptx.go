// Package pptx inspects PowerPoint files at the container level. A .pptx is
// an OPC zip archive; the checks here catch renamed or truncated uploads
// before they are stored and handed to the slide pipeline.
package pptx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
)

var (
	ErrNotZip         = errors.New("pptx: not a zip archive")
	ErrNotPowerPoint  = errors.New("pptx: archive is not a PowerPoint file")
	ErrEmptyContainer = errors.New("pptx: archive is empty")
)

// Validate checks that data is a readable OPC container holding a
// presentation. It reads only the central directory, not slide content.
func Validate(data []byte) error {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotZip, err)
	}
	if len(reader.File) == 0 {
		return ErrEmptyContainer
	}
	var hasContentTypes, hasPresentation bool
	for _, f := range reader.File {
		switch f.Name {
		case "[Content_Types].xml":
			hasContentTypes = true
		case "ppt/presentation.xml":
			hasPresentation = true
		}
	}
	if !hasContentTypes || !hasPresentation {
		return ErrNotPowerPoint
	}
	return nil
}
