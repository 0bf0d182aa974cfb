// Package store implements barrow's log-structured storage engine:
// framed on-disk records, an in-memory index, crash-recovery replay,
// the append path, and compaction. See SPEC_FULL.md for the full
// contract; this file implements Open, Set, Get, Remove and Close
// (spec §4.4, §4.6, §4.7, §4.8).
package store

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/ssargent/barrow/pkg/codec"
	"github.com/ssargent/barrow/pkg/metrics"
)

// Store is an open, single-process, single-writer key/value store
// backed by a directory of generation log files.
type Store struct {
	mu sync.Mutex

	dir    string
	config Config
	logger *log.Logger
	rec    metrics.Recorder

	registry   *registry
	idx        *index
	currentGen generation
	writer     *positionedWriter

	uncompacted int64
	nextSeq     uint64
	closed      bool
}

// Open creates dir if absent, replays every existing generation to
// rebuild the index, and opens a fresh current generation for append
// (spec §4.4). Opening an existing store is idempotent: the resulting
// state is logically identical to the state last flushed.
func Open(dir string, opts ...Option) (*Store, *RecoveryStats, error) {
	return OpenWithLogger(dir, nil, nil, opts...)
}

// OpenWithLogger is Open with an explicit logger and metrics recorder.
// A nil logger discards recovery/compaction messages; a nil recorder
// disables metrics. Most callers should use Open.
func OpenWithLogger(dir string, logger *log.Logger, rec metrics.Recorder, opts ...Option) (*Store, *RecoveryStats, error) {
	start := time.Now()

	if err := ensureDir(dir); err != nil {
		return nil, nil, err
	}

	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if rec == nil {
		rec = metrics.NoOp()
	}

	gens, err := scanGenerations(dir)
	if err != nil {
		return nil, nil, err
	}

	reg := newRegistry(dir, cfg.readerBufferSize())
	idx := newIndex()

	stats := &RecoveryStats{}
	var uncompacted int64
	var maxSeq uint64

	for _, gen := range gens {
		reader, err := reg.open(gen)
		if err != nil {
			reg.closeAll()
			return nil, nil, fmt.Errorf("barrow: open generation %d: %w", gen, err)
		}
		result, err := replayGeneration(gen, reader, idx)
		if err != nil {
			reg.closeAll()
			return nil, nil, fmt.Errorf("barrow: replay generation %d: %w", gen, err)
		}
		uncompacted += result.uncompacted
		stats.RecordsReplayed += result.records
		stats.GenerationsReplayed++
		if result.maxSeq > maxSeq {
			maxSeq = result.maxSeq
		}
	}

	var nextGen generation
	if len(gens) > 0 {
		nextGen = gens[len(gens)-1] + 1
	} else {
		nextGen = 1
	}

	writer, err := newPositionedWriter(logFilePath(dir, nextGen), cfg.writerBufferSize())
	if err != nil {
		reg.closeAll()
		return nil, nil, fmt.Errorf("barrow: create generation %d: %w", nextGen, err)
	}
	// A reader for the current generation lets Get serve keys that
	// were just written, since the writer never serves reads itself.
	if _, err := reg.open(nextGen); err != nil {
		writer.close()
		reg.closeAll()
		return nil, nil, fmt.Errorf("barrow: open reader for current generation %d: %w", nextGen, err)
	}

	st := &Store{
		dir:         dir,
		config:      cfg,
		logger:      logger,
		rec:         rec,
		registry:    reg,
		idx:         idx,
		currentGen:  nextGen,
		writer:      writer,
		uncompacted: uncompacted,
		nextSeq:     maxSeq + 1,
	}

	stats.Uncompacted = uncompacted
	stats.Duration = time.Since(start)
	logger.Printf("barrow: opened %s: %d generation(s) replayed, %d record(s), current generation %d",
		dir, stats.GenerationsReplayed, stats.RecordsReplayed, nextGen)

	rec.SetKeys(idx.size())
	rec.SetUncompacted(uncompacted)

	return st, stats, nil
}

// Set inserts or overwrites key with value (spec §4.6).
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	if key == "" {
		return ErrInvalidKey
	}

	seq := s.nextSeq
	rec := codec.NewSetRecord(seq, uint64(time.Now().Unix()), key, value)
	body := rec.Encode()

	start, framedLen, err := writeFrame(s.writer, body)
	if err != nil {
		s.rec.RecordOp("set", false)
		return fmt.Errorf("barrow: write record: %w", err)
	}
	if err := s.writer.flush(); err != nil {
		s.rec.RecordOp("set", false)
		return fmt.Errorf("barrow: flush record: %w", err)
	}

	s.nextSeq++
	loc := location{gen: s.currentGen, pos: start, len: framedLen}
	if prev, had := s.idx.set(key, loc); had {
		s.uncompacted += int64(prev.len)
	}

	s.rec.RecordOp("set", true)
	s.rec.SetKeys(s.idx.size())
	s.rec.SetUncompacted(s.uncompacted)

	if s.uncompacted > s.config.compactionThreshold() {
		if err := s.compact(); err != nil {
			return fmt.Errorf("barrow: compaction after set: %w", err)
		}
	}
	return nil
}

// Get returns the value for key. found is false when key is absent;
// err is non-nil for a closed store, I/O failure or detected
// corruption, in which case found and value are meaningless (spec §4.7).
func (s *Store) Get(key string) (value string, found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", false, ErrStoreClosed
	}

	loc, ok := s.idx.get(key)
	if !ok {
		s.rec.RecordOp("get", true)
		return "", false, nil
	}

	reader, ok := s.registry.get(loc.gen)
	if !ok {
		s.rec.RecordOp("get", false)
		return "", false, fmt.Errorf("barrow: no reader for generation %d", loc.gen)
	}

	body, _, err := readFrameAt(reader, loc.pos)
	if err != nil {
		s.rec.RecordOp("get", false)
		return "", false, err
	}

	rec, err := codec.Decode(body)
	if err != nil {
		s.rec.RecordOp("get", false)
		return "", false, wrapCorrupt(err)
	}
	if err := rec.Validate(); err != nil {
		s.rec.RecordOp("get", false)
		return "", false, wrapCorrupt(err)
	}
	if rec.Kind != codec.KindSet {
		s.rec.RecordOp("get", false)
		return "", false, ErrUnexpectedCommandType
	}

	s.rec.RecordOp("get", true)
	return rec.Value, true, nil
}

// Remove deletes key, failing with ErrKeyNotFound if it is absent
// (spec §4.8).
func (s *Store) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if _, ok := s.idx.get(key); !ok {
		s.rec.RecordOp("remove", false)
		return ErrKeyNotFound
	}

	seq := s.nextSeq
	rec := codec.NewRemoveRecord(seq, uint64(time.Now().Unix()), key)
	body := rec.Encode()

	_, framedLen, err := writeFrame(s.writer, body)
	if err != nil {
		s.rec.RecordOp("remove", false)
		return fmt.Errorf("barrow: write tombstone: %w", err)
	}
	if err := s.writer.flush(); err != nil {
		s.rec.RecordOp("remove", false)
		return fmt.Errorf("barrow: flush tombstone: %w", err)
	}

	s.nextSeq++
	if prev, had := s.idx.remove(key); had {
		s.uncompacted += int64(prev.len)
	}
	s.uncompacted += int64(framedLen)

	s.rec.RecordOp("remove", true)
	s.rec.SetKeys(s.idx.size())
	s.rec.SetUncompacted(s.uncompacted)

	if s.uncompacted > s.config.compactionThreshold() {
		if err := s.compact(); err != nil {
			return fmt.Errorf("barrow: compaction after remove: %w", err)
		}
	}
	return nil
}

// Stats reports a snapshot of live engine state.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Keys:              s.idx.size(),
		CurrentGeneration: uint64(s.currentGen),
		Uncompacted:       s.uncompacted,
	}
}

// Close releases the current writer and every generation's reader.
// Close is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var firstErr error
	if err := s.writer.close(); err != nil {
		firstErr = err
	}
	if err := s.registry.closeAll(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return wrapIO(err)
	}
	return nil
}
