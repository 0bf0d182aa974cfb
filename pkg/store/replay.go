package store

import (
	"io"

	"github.com/ssargent/barrow/pkg/codec"
)

// replayResult folds the effect of scanning one generation's log into
// the running engine state Open accumulates across all generations.
type replayResult struct {
	records     int64
	uncompacted int64
	maxSeq      uint64
}

// replayGeneration scans reader from offset zero, feeding idx and
// accumulating staleness exactly as spec §4.5 describes: a clean EOF
// while reading a length prefix ends replay normally; anything else
// that fails to decode or fails its checksum is corruption and aborts
// replay with an error.
func replayGeneration(gen generation, reader *positionedReader, idx *index) (replayResult, error) {
	if err := reader.seek(0); err != nil {
		return replayResult{}, err
	}

	var result replayResult
	for {
		start := reader.offset()
		body, framedLen, err := readFrame(reader)
		if err != nil {
			if err == io.EOF {
				return result, nil
			}
			return result, err
		}

		rec, err := codec.Decode(body)
		if err != nil {
			return result, wrapCorrupt(err)
		}
		if err := rec.Validate(); err != nil {
			return result, wrapCorrupt(err)
		}

		if rec.Sequence > result.maxSeq {
			result.maxSeq = rec.Sequence
		}
		result.records++

		switch rec.Kind {
		case codec.KindSet:
			loc := location{gen: gen, pos: start, len: framedLen}
			if prev, had := idx.set(rec.Key, loc); had {
				result.uncompacted += int64(prev.len)
			}
		case codec.KindRemove:
			if prev, had := idx.remove(rec.Key); had {
				result.uncompacted += int64(prev.len)
			}
			result.uncompacted += int64(framedLen)
		}
	}
}
