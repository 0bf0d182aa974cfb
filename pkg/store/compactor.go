package store

import "fmt"

// compact implements spec §4.9. It must be called with s.mu held.
//
// It rewrites every live record into a single new generation
// (compactionGen = currentGen+1), then opens a further new current
// generation (currentGen+2) for future appends. The two-generation
// jump guarantees that if the process is interrupted mid-compaction,
// replaying a partially-written compaction file on the next Open
// cannot collide with either the retired current generation or the
// generation that becomes current afterward, and that anything
// appended after compaction still sorts last.
func (s *Store) compact() error {
	compactionGen := s.currentGen + 1
	nextGen := s.currentGen + 2

	compactionWriter, err := newPositionedWriter(logFilePath(s.dir, compactionGen), s.config.writerBufferSize())
	if err != nil {
		return fmt.Errorf("create compaction generation %d: %w", compactionGen, err)
	}

	type relocated struct {
		key string
		loc location
	}
	var moved []relocated

	s.idx.forEach(func(key string, loc location) {
		moved = append(moved, relocated{key: key, loc: loc})
	})

	for _, m := range moved {
		reader, ok := s.registry.get(m.loc.gen)
		if !ok {
			compactionWriter.close()
			return fmt.Errorf("no reader for generation %d while compacting key %q", m.loc.gen, m.key)
		}
		if err := reader.seek(m.loc.pos); err != nil {
			compactionWriter.close()
			return fmt.Errorf("seek source record for key %q: %w", m.key, err)
		}

		frame := make([]byte, m.loc.len)
		if _, err := reader.readFull(frame); err != nil {
			compactionWriter.close()
			return wrapCorrupt(err)
		}

		newPos := compactionWriter.offset()
		if _, err := compactionWriter.write(frame); err != nil {
			compactionWriter.close()
			return fmt.Errorf("write compacted record for key %q: %w", m.key, err)
		}

		s.idx.set(m.key, location{gen: compactionGen, pos: newPos, len: m.loc.len})
	}

	if err := compactionWriter.flush(); err != nil {
		compactionWriter.close()
		return fmt.Errorf("flush compaction generation %d: %w", compactionGen, err)
	}
	if _, err := s.registry.open(compactionGen); err != nil {
		return fmt.Errorf("open reader for compaction generation %d: %w", compactionGen, err)
	}

	newWriter, err := newPositionedWriter(logFilePath(s.dir, nextGen), s.config.writerBufferSize())
	if err != nil {
		return fmt.Errorf("create generation %d: %w", nextGen, err)
	}
	if _, err := s.registry.open(nextGen); err != nil {
		newWriter.close()
		return fmt.Errorf("open reader for generation %d: %w", nextGen, err)
	}

	retiring := make([]generation, 0, len(s.registry.readers))
	for gen := range s.registry.readers {
		if gen < compactionGen {
			retiring = append(retiring, gen)
		}
	}
	for _, gen := range retiring {
		if err := s.registry.retire(gen); err != nil {
			s.logger.Printf("barrow: failed to retire generation %d: %v", gen, err)
		}
	}
	if err := s.writer.close(); err != nil {
		s.logger.Printf("barrow: failed to close retired writer for generation %d: %v", s.currentGen, err)
	}

	s.writer = newWriter
	s.currentGen = nextGen
	s.uncompacted = 0

	s.logger.Printf("barrow: compaction complete: %d live record(s) moved to generation %d, new current generation %d",
		len(moved), compactionGen, nextGen)
	s.rec.RecordCompaction()
	s.rec.SetUncompacted(0)

	return nil
}
