// Package calltrace records native GL calls to a compact binary log.
//
// Each record is laid out as:
//   - 2 bytes kind (1 = call, 2 = error)
//   - 2 bytes op length
//   - 4 bytes detail length
//   - 8 bytes sequence number
//   - 8 bytes timestamp (nanoseconds since epoch)
//   - op bytes
//   - detail bytes
//
// Writers reserve space by atomically advancing the file offset, so records
// from concurrent writers never overlap even though they may land out of
// sequence order.
package calltrace

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

const headerSize = 24

// Kind distinguishes a plain call from an error report.
type Kind uint16

const (
	KindInvalid Kind = iota
	KindCall
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindCall:
		return "call"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("kind(%d)", uint16(k))
	}
}

// Record is one decoded log entry.
type Record struct {
	Seq    uint64
	Time   time.Time
	Kind   Kind
	Op     string
	Detail string
}

func (r Record) String() string {
	if r.Kind == KindError {
		return fmt.Sprintf("#%d %s: %s", r.Seq, r.Op, r.Detail)
	}
	return fmt.Sprintf("#%d %s(%s)", r.Seq, r.Op, r.Detail)
}

// WriterAt is the sink a Log writes into.
type WriterAt interface {
	io.WriterAt
	io.Closer
}

var ErrClosed = errors.New("calltrace: log closed")

// Log appends records to a WriterAt.
type Log struct {
	w      atomic.Pointer[WriterAt]
	offset atomic.Int64
	seq    atomic.Uint64
}

// New returns a Log writing to w from offset zero.
func New(w WriterAt) *Log {
	l := &Log{}
	l.w.Store(&w)
	return l
}

// Create truncates filename and returns a Log writing to it.
func Create(filename string) (*Log, error) {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}
	return New(f), nil
}

// Call records an invocation of op. detail is usually the formatted arguments.
func (l *Log) Call(op, detail string) error {
	return l.write(KindCall, op, detail)
}

// Error records that op failed.
func (l *Log) Error(op, detail string) error {
	return l.write(KindError, op, detail)
}

// Len returns the number of records written so far.
func (l *Log) Len() uint64 {
	return l.seq.Load()
}

// Close closes the underlying writer. Further writes return ErrClosed.
func (l *Log) Close() error {
	w := l.w.Swap(nil)
	if w == nil {
		return nil
	}
	return (*w).Close()
}

func (l *Log) write(kind Kind, op, detail string) error {
	w := l.w.Load()
	if w == nil {
		return ErrClosed
	}
	if len(op) > math.MaxUint16 {
		op = op[:math.MaxUint16]
	}

	rec := make([]byte, headerSize+len(op)+len(detail))
	seq := l.seq.Add(1)
	binary.LittleEndian.PutUint16(rec[0:2], uint16(kind))
	binary.LittleEndian.PutUint16(rec[2:4], uint16(len(op)))
	binary.LittleEndian.PutUint32(rec[4:8], uint32(len(detail)))
	binary.LittleEndian.PutUint64(rec[8:16], seq)
	binary.LittleEndian.PutUint64(rec[16:24], uint64(time.Now().UnixNano()))
	copy(rec[headerSize:], op)
	copy(rec[headerSize+len(op):], detail)

	size := int64(len(rec))
	off := l.offset.Add(size) - size
	if _, err := (*w).WriteAt(rec, off); err != nil {
		return fmt.Errorf("write trace record %d: %w", seq, err)
	}
	return nil
}

type header struct {
	kind      Kind
	opLen     uint16
	detailLen uint32
	seq       uint64
	unixNano  int64
}

func decodeHeader(b []byte) header {
	return header{
		kind:      Kind(binary.LittleEndian.Uint16(b[0:2])),
		opLen:     binary.LittleEndian.Uint16(b[2:4]),
		detailLen: binary.LittleEndian.Uint32(b[4:8]),
		seq:       binary.LittleEndian.Uint64(b[8:16]),
		unixNano:  int64(binary.LittleEndian.Uint64(b[16:24])),
	}
}

func (h header) size() int64 {
	return headerSize + int64(h.opLen) + int64(h.detailLen)
}

// Buffer is an in-memory WriterAt. Writes may arrive in any order.
type Buffer struct {
	mu   sync.Mutex
	data []byte
}

func (b *Buffer) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("calltrace: negative offset %d", off)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if end := off + int64(len(p)); end > int64(len(b.data)) {
		b.data = append(b.data, make([]byte, end-int64(len(b.data)))...)
	}
	return copy(b.data[off:], p), nil
}

func (b *Buffer) Close() error { return nil }

// Bytes returns a copy of everything written so far.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.data...)
}
