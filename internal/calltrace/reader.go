package calltrace

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"
)

// SearchOptions narrows the records a Reader visits.
type SearchOptions struct {
	// Ops keeps only records whose op is one of these.
	Ops []string

	// Kind keeps only records of this kind. KindInvalid means any.
	Kind Kind

	// Match, when set, is applied to each candidate record.
	Match func(Record) bool

	// LimitStart keeps only the first N matches, LimitEnd only the last N.
	// Setting both is an error.
	LimitStart int
	LimitEnd   int
}

type indexEntry struct {
	offset int64
	seq    uint64
	kind   Kind
	op     string
}

// Reader indexes a trace log for ordered iteration and search.
type Reader struct {
	r       io.ReaderAt
	entries []indexEntry
	ops     map[string]int

	earliest int64
	latest   int64
}

// NewReader indexes the log by streaming it from index, then serves record
// bodies from r. Both must present the same bytes.
func NewReader(r io.ReaderAt, index io.Reader) (*Reader, error) {
	ret := &Reader{
		r:   r,
		ops: make(map[string]int),
	}
	if err := ret.indexAll(index); err != nil {
		return nil, fmt.Errorf("index trace: %w", err)
	}
	return ret, nil
}

// NewReaderFromBytes indexes an in-memory log.
func NewReaderFromBytes(data []byte) (*Reader, error) {
	return NewReader(bytes.NewReader(data), bytes.NewReader(data))
}

// NewReaderFromFile opens and indexes filename. The returned Closer releases
// the file.
func NewReaderFromFile(filename string) (*Reader, io.Closer, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("open trace: %w", err)
	}
	r, err := NewReader(f, f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return r, f, nil
}

func (r *Reader) indexAll(src io.Reader) error {
	br := bufio.NewReaderSize(src, 1<<20)
	var hdr [headerSize]byte
	var off int64
	opBuf := make([]byte, 0, 64)

	for {
		if _, err := io.ReadFull(br, hdr[:]); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("read header at %d: %w", off, err)
		}
		h := decodeHeader(hdr[:])
		if h.kind == KindInvalid {
			// A hole left by a writer that reserved space but never wrote.
			return fmt.Errorf("invalid record at offset %d", off)
		}

		opBuf = opBuf[:h.opLen]
		if _, err := io.ReadFull(br, opBuf); err != nil {
			return fmt.Errorf("read op at %d: %w", off, err)
		}
		if _, err := br.Discard(int(h.detailLen)); err != nil {
			return fmt.Errorf("skip detail at %d: %w", off, err)
		}

		op := string(opBuf)
		r.entries = append(r.entries, indexEntry{offset: off, seq: h.seq, kind: h.kind, op: op})
		r.ops[op]++
		if r.earliest == 0 || h.unixNano < r.earliest {
			r.earliest = h.unixNano
		}
		if h.unixNano > r.latest {
			r.latest = h.unixNano
		}
		off += h.size()
	}

	sort.SliceStable(r.entries, func(i, j int) bool {
		return r.entries[i].seq < r.entries[j].seq
	})
	return nil
}

// Len returns the number of records in the log.
func (r *Reader) Len() int {
	return len(r.entries)
}

// Ops returns how many records each op has.
func (r *Reader) Ops() map[string]int {
	out := make(map[string]int, len(r.ops))
	for op, n := range r.ops {
		out[op] = n
	}
	return out
}

// TimeRange returns the earliest and latest record timestamps.
func (r *Reader) TimeRange() (time.Time, time.Time) {
	return time.Unix(0, r.earliest), time.Unix(0, r.latest)
}

func (r *Reader) read(e indexEntry) (Record, error) {
	var hdr [headerSize]byte
	if _, err := r.r.ReadAt(hdr[:], e.offset); err != nil {
		return Record{}, fmt.Errorf("read record %d: %w", e.seq, err)
	}
	h := decodeHeader(hdr[:])
	body := make([]byte, int(h.opLen)+int(h.detailLen))
	if _, err := r.r.ReadAt(body, e.offset+headerSize); err != nil {
		return Record{}, fmt.Errorf("read record %d: %w", e.seq, err)
	}
	return Record{
		Seq:    h.seq,
		Time:   time.Unix(0, h.unixNano),
		Kind:   h.kind,
		Op:     string(body[:h.opLen]),
		Detail: string(body[h.opLen:]),
	}, nil
}

// Each visits every record in sequence order.
func (r *Reader) Each(fn func(Record) error) error {
	return r.Search(SearchOptions{}, fn)
}

// Search visits the records selected by opts in sequence order.
func (r *Reader) Search(opts SearchOptions, fn func(Record) error) error {
	recs, err := r.collect(opts)
	if err != nil {
		return err
	}
	for _, rec := range recs {
		if err := fn(rec); err != nil {
			return err
		}
	}
	return nil
}

// Count returns how many records Search would visit.
func (r *Reader) Count(opts SearchOptions) (int, error) {
	recs, err := r.collect(opts)
	if err != nil {
		return 0, err
	}
	return len(recs), nil
}

func (r *Reader) collect(opts SearchOptions) ([]Record, error) {
	if opts.LimitStart > 0 && opts.LimitEnd > 0 {
		return nil, fmt.Errorf("cannot set both LimitStart and LimitEnd")
	}

	var ops map[string]struct{}
	if len(opts.Ops) > 0 {
		ops = make(map[string]struct{}, len(opts.Ops))
		for _, op := range opts.Ops {
			ops[op] = struct{}{}
		}
	}

	var out []Record
	for _, e := range r.entries {
		if opts.Kind != KindInvalid && e.kind != opts.Kind {
			continue
		}
		if ops != nil {
			if _, ok := ops[e.op]; !ok {
				continue
			}
		}
		rec, err := r.read(e)
		if err != nil {
			return nil, err
		}
		if opts.Match != nil && !opts.Match(rec) {
			continue
		}
		out = append(out, rec)
		if opts.LimitStart > 0 && len(out) == opts.LimitStart {
			break
		}
	}

	if opts.LimitEnd > 0 && len(out) > opts.LimitEnd {
		out = out[len(out)-opts.LimitEnd:]
	}
	return out, nil
}
