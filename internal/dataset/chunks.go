package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// chunkPattern matches pre-split detail files: INFOTABLE_chunk_001.tsv etc.
var chunkPattern = regexp.MustCompile(`^INFOTABLE_chunk_(\d+)\.tsv$`)

// chunkFile pairs a chunk path with its parsed index.
type chunkFile struct {
	path  string
	index int
}

// listChunks returns the chunk files in a directory ordered by index, after
// verifying the numbering is contiguous starting at 1.
func listChunks(dir string) ([]chunkFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &MissingDataFileError{Path: dir}
	}

	var chunks []chunkFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := chunkPattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		chunks = append(chunks, chunkFile{path: filepath.Join(dir, entry.Name()), index: idx})
	}

	if len(chunks) == 0 {
		return nil, &MissingDataFileError{Path: filepath.Join(dir, "INFOTABLE_chunk_*.tsv")}
	}

	sort.Slice(chunks, func(i, j int) bool { return chunks[i].index < chunks[j].index })

	for i, c := range chunks {
		if c.index != i+1 {
			return nil, &MissingChunkError{Index: i + 1}
		}
	}

	return chunks, nil
}

// chunkReader streams the ordered chunks as one logical file: the first
// chunk's header is kept, subsequent headers are dropped after being checked
// against the first.
type chunkReader struct {
	chunks []chunkFile
	pos    int
	header string
	file   *os.File
	buf    *bufio.Reader
}

// OpenChunks opens the chunk directory as one concatenated reader.
// Validation (contiguous numbering, matching headers) happens as the stream
// advances; a header mismatch surfaces as a read error.
func OpenChunks(dir string) (io.ReadCloser, error) {
	chunks, err := listChunks(dir)
	if err != nil {
		return nil, err
	}
	return &chunkReader{chunks: chunks}, nil
}

func (r *chunkReader) Read(p []byte) (int, error) {
	for {
		if r.buf == nil {
			if r.pos >= len(r.chunks) {
				return 0, io.EOF
			}
			if err := r.openNext(); err != nil {
				return 0, err
			}
		}

		n, err := r.buf.Read(p)
		if err == io.EOF {
			r.file.Close()
			r.file = nil
			r.buf = nil
			r.pos++
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

// openNext opens the chunk at r.pos and consumes its header line when it is
// not the first chunk.
func (r *chunkReader) openNext() error {
	c := r.chunks[r.pos]
	f, err := os.Open(c.path)
	if err != nil {
		return fmt.Errorf("failed to open chunk %s: %w", c.path, err)
	}

	buf := bufio.NewReaderSize(f, 256*1024)

	if r.pos == 0 {
		header, err := buf.ReadString('\n')
		if err != nil && err != io.EOF {
			f.Close()
			return fmt.Errorf("failed to read header of %s: %w", c.path, err)
		}
		r.header = header
		// Re-emit the first header by stitching it in front of the stream.
		r.buf = bufio.NewReader(io.MultiReader(strings.NewReader(header), buf))
		r.file = f
		return nil
	}

	header, err := buf.ReadString('\n')
	if err != nil && err != io.EOF {
		f.Close()
		return fmt.Errorf("failed to read header of %s: %w", c.path, err)
	}
	if header != r.header {
		f.Close()
		return &ChunkHeaderError{Path: c.path}
	}

	r.file = f
	r.buf = buf
	return nil
}

func (r *chunkReader) Close() error {
	if r.file != nil {
		err := r.file.Close()
		r.file = nil
		r.buf = nil
		return err
	}
	return nil
}

// Reassemble concatenates the chunk directory into a single detail file at
// outPath. This is a pure preprocessing step, independent of the loader,
// kept for operators who want the combined file on disk.
func Reassemble(dir, outPath string) (int64, error) {
	reader, err := OpenChunks(dir)
	if err != nil {
		return 0, err
	}
	defer reader.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", outPath, err)
	}

	n, err := io.Copy(out, reader)
	if err != nil {
		out.Close()
		os.Remove(outPath)
		return 0, err
	}

	if err := out.Close(); err != nil {
		return 0, err
	}
	return n, nil
}
