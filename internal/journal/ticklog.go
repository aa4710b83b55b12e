package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/talgya/foodgrid/internal/engine"
)

// DefaultSegmentTicks is how many ticks go into one log segment.
const DefaultSegmentTicks = 1000

// TickLog writes one JSON line per snapshot into zstd-compressed segments
// named ticks-<first tick>.jsonl.zst.
type TickLog struct {
	dir          string
	segmentTicks uint64

	mu      sync.Mutex
	segment uint64
	open    bool
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
}

// NewTickLog creates a log under dir. Segments are opened lazily.
func NewTickLog(dir string, segmentTicks uint64) *TickLog {
	if segmentTicks == 0 {
		segmentTicks = DefaultSegmentTicks
	}
	return &TickLog{dir: dir, segmentTicks: segmentTicks}
}

// Write appends a snapshot, rotating to a new segment when the tick crosses
// a segment boundary.
func (l *TickLog) Write(snap engine.Snapshot) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	seg := snap.Tick / l.segmentTicks
	if !l.open || seg != l.segment {
		if err := l.rotateLocked(seg); err != nil {
			return err
		}
	}

	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if _, err := l.w.Write(b); err != nil {
		return err
	}
	return l.w.WriteByte('\n')
}

// Flush pushes buffered lines through the encoder without closing the segment.
func (l *TickLog) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.open {
		return nil
	}
	if err := l.w.Flush(); err != nil {
		return err
	}
	return l.enc.Flush()
}

// Close finishes the current segment.
func (l *TickLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closeLocked()
}

func (l *TickLog) rotateLocked(seg uint64) error {
	if err := l.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(l.segmentPath(seg), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	l.f = f
	l.enc = enc
	l.w = bufio.NewWriterSize(enc, 64*1024)
	l.segment = seg
	l.open = true
	return nil
}

func (l *TickLog) closeLocked() error {
	if !l.open {
		return nil
	}
	var err error
	if ferr := l.w.Flush(); ferr != nil {
		err = ferr
	}
	if cerr := l.enc.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if cerr := l.f.Close(); cerr != nil && err == nil {
		err = cerr
	}
	l.f, l.enc, l.w = nil, nil, nil
	l.open = false
	return err
}

func (l *TickLog) segmentPath(seg uint64) string {
	return filepath.Join(l.dir, fmt.Sprintf("ticks-%08d.jsonl.zst", seg*l.segmentTicks))
}

// ReadTickLog decodes every snapshot stored under dir, in tick order.
func ReadTickLog(dir string) ([]engine.Snapshot, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "ticks-*.jsonl.zst"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var out []engine.Snapshot
	for _, p := range paths {
		snaps, err := readSegment(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		out = append(out, snaps...)
	}
	return out, nil
}

func readSegment(path string) ([]engine.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []engine.Snapshot
	jd := json.NewDecoder(dec)
	for {
		var snap engine.Snapshot
		if err := jd.Decode(&snap); err == io.EOF {
			return out, nil
		} else if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
}
