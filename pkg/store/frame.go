package store

import (
	"encoding/binary"
	"errors"
	"io"
)

// lengthPrefixSize is the width of the little-endian length prefix
// that precedes every record body on disk (spec §4.1, §6).
const lengthPrefixSize = 4

// writeFrame appends a length-prefixed body through w and returns the
// offset at which the frame started. It does not flush.
func writeFrame(w *positionedWriter, body []byte) (start int64, framedLen uint32, err error) {
	start = w.offset()
	var prefix [lengthPrefixSize]byte
	binary.LittleEndian.PutUint32(prefix[:], uint32(len(body)))

	if _, err = w.write(prefix[:]); err != nil {
		return start, 0, err
	}
	if _, err = w.write(body); err != nil {
		return start, 0, err
	}
	return start, uint32(lengthPrefixSize + len(body)), nil
}

// readFrame reads one length-prefixed body from r. A clean EOF while
// reading the prefix (zero bytes available) is returned as io.EOF,
// the normal signal that replay has reached the end of a log file. A
// short prefix, or any failure reading the declared body length, is
// corruption and is returned wrapped in ErrCorruptData.
func readFrame(r *positionedReader) (body []byte, framedLen uint32, err error) {
	var prefix [lengthPrefixSize]byte
	n, err := r.readFull(prefix[:])
	if err != nil {
		if errors.Is(err, io.EOF) && n == 0 {
			return nil, 0, io.EOF
		}
		return nil, 0, wrapCorrupt(err)
	}

	bodyLen := binary.LittleEndian.Uint32(prefix[:])
	body = make([]byte, bodyLen)
	if _, err := r.readFull(body); err != nil {
		return nil, 0, wrapCorrupt(err)
	}

	return body, uint32(lengthPrefixSize) + bodyLen, nil
}

// readFrameAt seeks r to offset and reads one length-prefixed body,
// returning it alongside the total framed length.
func readFrameAt(r *positionedReader, offset int64) (body []byte, framedLen uint32, err error) {
	if err := r.seek(offset); err != nil {
		return nil, 0, err
	}
	return readFrame(r)
}
