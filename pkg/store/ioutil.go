package store

import (
	"bufio"
	"io"
	"os"
)

// positionedWriter wraps a file handle opened for append with a
// buffer and an absolute byte-offset field. Every accepted write
// advances pos by the number of bytes accepted; flush pushes the
// buffer to the kernel without forcing an fsync (spec §4.2, §9: no
// durability guarantee beyond the kernel is mandated here).
type positionedWriter struct {
	file *os.File
	buf  *bufio.Writer
	pos  int64
}

// newPositionedWriter opens path for append, creating it if absent,
// and positions pos at the file's current size so appends continue
// from the true end of file.
func newPositionedWriter(path string, bufSize int) (*positionedWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, wrapIO(err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, wrapIO(err)
	}
	return &positionedWriter{
		file: f,
		buf:  bufio.NewWriterSize(f, bufSize),
		pos:  info.Size(),
	}, nil
}

// write appends p to the buffer and advances pos. It does not flush.
func (w *positionedWriter) write(p []byte) (int, error) {
	n, err := w.buf.Write(p)
	w.pos += int64(n)
	if err != nil {
		return n, wrapIO(err)
	}
	return n, nil
}

// flush pushes buffered bytes to the kernel.
func (w *positionedWriter) flush() error {
	if err := w.buf.Flush(); err != nil {
		return wrapIO(err)
	}
	return nil
}

// offset returns the writer's current absolute position, which equals
// the file's size once flushed.
func (w *positionedWriter) offset() int64 {
	return w.pos
}

// close flushes and closes the underlying file.
func (w *positionedWriter) close() error {
	if err := w.flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

// positionedReader wraps a read-only file handle with a buffer and an
// absolute byte-offset field. Every successful read advances pos;
// every seek sets pos to the new absolute offset and discards
// buffered bytes.
type positionedReader struct {
	file *os.File
	buf  *bufio.Reader
	pos  int64
	size int // configured buffer size, reapplied after seek
}

// newPositionedReader opens path read-only positioned at offset zero.
func newPositionedReader(path string, bufSize int) (*positionedReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrapIO(err)
	}
	return &positionedReader{
		file: f,
		buf:  bufio.NewReaderSize(f, bufSize),
		size: bufSize,
	}, nil
}

// readFull reads exactly len(p) bytes, advancing pos by the number of
// bytes actually read (which may be less than len(p) on error).
func (r *positionedReader) readFull(p []byte) (int, error) {
	n, err := io.ReadFull(r.buf, p)
	r.pos += int64(n)
	return n, err
}

// seek repositions the reader to an absolute offset, discarding any
// buffered bytes.
func (r *positionedReader) seek(offset int64) error {
	if _, err := r.file.Seek(offset, io.SeekStart); err != nil {
		return wrapIO(err)
	}
	r.buf = bufio.NewReaderSize(r.file, r.size)
	r.pos = offset
	return nil
}

// offset returns the reader's current absolute position.
func (r *positionedReader) offset() int64 {
	return r.pos
}

// close closes the underlying file.
func (r *positionedReader) close() error {
	return r.file.Close()
}
