package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// logFileName returns the on-disk name for a generation's log file.
func logFileName(gen generation) string {
	return fmt.Sprintf("%d.log", uint64(gen))
}

// logFilePath joins dir with the generation's file name.
func logFilePath(dir string, gen generation) string {
	return filepath.Join(dir, logFileName(gen))
}

// parseGeneration parses a directory entry name as a generation
// number, returning ok=false for anything not matching `<decimal>.log`.
func parseGeneration(name string) (generation, bool) {
	const suffix = ".log"
	if !strings.HasSuffix(name, suffix) {
		return 0, false
	}
	digits := strings.TrimSuffix(name, suffix)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return generation(n), true
}

// scanGenerations lists the sorted ascending generation numbers of
// every `<decimal>.log` file directly inside dir.
func scanGenerations(dir string) ([]generation, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, wrapIO(err)
	}

	var gens []generation
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if gen, ok := parseGeneration(entry.Name()); ok {
			gens = append(gens, gen)
		}
	}
	sort.Slice(gens, func(i, j int) bool { return gens[i] < gens[j] })
	return gens, nil
}

// registry maps an open generation to the positioned reader serving
// random-access reads against it. The current (append) generation is
// registered here too, so Get can serve keys just written through the
// engine's writer.
type registry struct {
	dir     string
	bufSize int
	readers map[generation]*positionedReader
}

func newRegistry(dir string, bufSize int) *registry {
	return &registry{
		dir:     dir,
		bufSize: bufSize,
		readers: make(map[generation]*positionedReader),
	}
}

// open creates and registers a positioned reader for gen.
func (r *registry) open(gen generation) (*positionedReader, error) {
	reader, err := newPositionedReader(logFilePath(r.dir, gen), r.bufSize)
	if err != nil {
		return nil, err
	}
	r.readers[gen] = reader
	return reader, nil
}

// get returns the reader registered for gen, if any.
func (r *registry) get(gen generation) (*positionedReader, bool) {
	reader, ok := r.readers[gen]
	return reader, ok
}

// retire closes and unregisters the reader for gen and deletes its
// log file. Used by the compactor to release superseded generations.
func (r *registry) retire(gen generation) error {
	if reader, ok := r.readers[gen]; ok {
		reader.close()
		delete(r.readers, gen)
	}
	if err := os.Remove(logFilePath(r.dir, gen)); err != nil {
		return wrapIO(err)
	}
	return nil
}

// closeAll closes every registered reader without deleting files.
func (r *registry) closeAll() error {
	var firstErr error
	for gen, reader := range r.readers {
		if err := reader.close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(r.readers, gen)
	}
	return firstErr
}
