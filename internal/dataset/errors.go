// Package dataset loads the three 13F source tables and joins them into an
// immutable in-memory snapshot.
package dataset

import "fmt"

// MissingDataFileError reports that a required source file is absent.
type MissingDataFileError struct {
	Path string
}

func (e *MissingDataFileError) Error() string {
	return fmt.Sprintf("required data file not found: %s", e.Path)
}

// SchemaMismatchError reports that a required column is absent from a
// source file's header row.
type SchemaMismatchError struct {
	File   string
	Column string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("column %s not found in %s", e.Column, e.File)
}

// MissingChunkError reports a gap in the chunk numbering of a pre-split
// detail file.
type MissingChunkError struct {
	Index int
}

func (e *MissingChunkError) Error() string {
	return fmt.Sprintf("chunk %d is missing from the chunk directory", e.Index)
}

// ChunkHeaderError reports that a chunk's header row differs from the first
// chunk's header. All chunks of one table must share an identical header.
type ChunkHeaderError struct {
	Path string
}

func (e *ChunkHeaderError) Error() string {
	return fmt.Sprintf("chunk %s has a different header than the first chunk", e.Path)
}
