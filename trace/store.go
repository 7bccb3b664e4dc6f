package trace

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/cockroachdb/pebble"
	"go.uber.org/zap"
)

var ErrInvalidRun = errors.New("trace: invalid run name")

const keyPrefix = "run/"

// Store keeps frames under run/<name>/<tick big-endian> so a prefix scan
// returns a run in tick order.
type Store struct {
	db     *pebble.DB
	path   string
	logger *zap.Logger
}

// Open opens or creates the pebble database at path.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := pebble.Open(path, &pebble.Options{Logger: &pebbleLogger{logger}})
	if err != nil {
		return nil, fmt.Errorf("trace: open %s: %w", path, err)
	}
	logger.Debug("trace store opened", zap.String("path", path))
	return &Store{db: db, path: path, logger: logger}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func validRun(run string) error {
	if run == "" || strings.ContainsRune(run, '/') {
		return fmt.Errorf("%w: %q", ErrInvalidRun, run)
	}
	return nil
}

func runPrefix(run string) []byte {
	return []byte(keyPrefix + run + "/")
}

func frameKey(run string, tick int) []byte {
	key := runPrefix(run)
	return binary.BigEndian.AppendUint64(key, uint64(tick))
}

// prefixEnd returns the smallest key greater than every key with prefix.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

// Put stores one frame, replacing any frame already at that tick.
func (s *Store) Put(run string, f Frame) error {
	if err := validRun(run); err != nil {
		return err
	}
	if f.Tick < 0 {
		return fmt.Errorf("trace: put %s: negative tick %d", run, f.Tick)
	}
	if err := s.db.Set(frameKey(run, f.Tick), encodeFrame(f), pebble.NoSync); err != nil {
		return fmt.Errorf("trace: put %s tick %d: %w", run, f.Tick, err)
	}
	return nil
}

// PutAll writes frames in one synced batch.
func (s *Store) PutAll(run string, frames []Frame) error {
	if err := validRun(run); err != nil {
		return err
	}
	batch := s.db.NewBatch()
	defer batch.Close()
	for _, f := range frames {
		if f.Tick < 0 {
			return fmt.Errorf("trace: put %s: negative tick %d", run, f.Tick)
		}
		if err := batch.Set(frameKey(run, f.Tick), encodeFrame(f), nil); err != nil {
			return fmt.Errorf("trace: put %s tick %d: %w", run, f.Tick, err)
		}
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return fmt.Errorf("trace: commit %s: %w", run, err)
	}
	s.logger.Debug("trace run written", zap.String("run", run), zap.Int("frames", len(frames)))
	return nil
}

// Frames returns every frame of run in tick order. An unknown run yields no
// frames and no error.
func (s *Store) Frames(run string) ([]Frame, error) {
	if err := validRun(run); err != nil {
		return nil, err
	}
	prefix := runPrefix(run)
	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: prefix, UpperBound: prefixEnd(prefix)})
	if err != nil {
		return nil, fmt.Errorf("trace: iter %s: %w", run, err)
	}
	defer iter.Close()

	var frames []Frame
	for iter.First(); iter.Valid(); iter.Next() {
		key := iter.Key()
		if len(key) != len(prefix)+8 {
			return nil, fmt.Errorf("trace: %s: bad key %q: %w", run, key, ErrCorruptFrame)
		}
		tick := int(binary.BigEndian.Uint64(key[len(prefix):]))
		f, err := decodeFrame(tick, iter.Value())
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("trace: iter %s: %w", run, err)
	}
	return frames, nil
}

// Runs lists the stored run names in key order.
func (s *Store) Runs() ([]string, error) {
	prefix := []byte(keyPrefix)
	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: prefix, UpperBound: prefixEnd(prefix)})
	if err != nil {
		return nil, fmt.Errorf("trace: iter runs: %w", err)
	}
	defer iter.Close()

	var runs []string
	for valid := iter.First(); valid; {
		rest := string(iter.Key()[len(prefix):])
		name, _, ok := strings.Cut(rest, "/")
		if !ok {
			valid = iter.Next()
			continue
		}
		runs = append(runs, name)
		// skip the rest of this run
		valid = iter.SeekGE(prefixEnd(runPrefix(name)))
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("trace: iter runs: %w", err)
	}
	return runs, nil
}

// Delete removes every frame of run.
func (s *Store) Delete(run string) error {
	if err := validRun(run); err != nil {
		return err
	}
	prefix := runPrefix(run)
	if err := s.db.DeleteRange(prefix, prefixEnd(prefix), pebble.Sync); err != nil {
		return fmt.Errorf("trace: delete %s: %w", run, err)
	}
	s.logger.Info("trace run deleted", zap.String("run", run))
	return nil
}

// pebbleLogger routes pebble's log output through zap.
type pebbleLogger struct {
	z *zap.Logger
}

func (l *pebbleLogger) Infof(format string, args ...any) {
	l.z.Sugar().Infof(format, args...)
}

func (l *pebbleLogger) Errorf(format string, args ...any) {
	l.z.Sugar().Errorf(format, args...)
}

func (l *pebbleLogger) Fatalf(format string, args ...any) {
	l.z.Sugar().Fatalf(format, args...)
}
