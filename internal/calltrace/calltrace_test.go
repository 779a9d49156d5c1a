package calltrace

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestLogRoundTrip(t *testing.T) {
	buf := &Buffer{}
	log := New(buf)

	if err := log.Call("glBindBuffer", "0x8892, 1"); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if err := log.Error("glBindBuffer", "GL_INVALID_OPERATION"); err != nil {
		t.Fatalf("Error: %v", err)
	}
	if err := log.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := NewReaderFromBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("NewReaderFromBytes: %v", err)
	}

	var got []Record
	if err := r.Each(func(rec Record) error {
		got = append(got, rec)
		return nil
	}); err != nil {
		t.Fatalf("Each: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Kind != KindCall || got[0].Op != "glBindBuffer" || got[0].Detail != "0x8892, 1" {
		t.Fatalf("unexpected first record: %+v", got[0])
	}
	if got[1].Kind != KindError || got[1].Detail != "GL_INVALID_OPERATION" {
		t.Fatalf("unexpected second record: %+v", got[1])
	}
	if got[0].Seq != 1 || got[1].Seq != 2 {
		t.Fatalf("unexpected sequence numbers %d, %d", got[0].Seq, got[1].Seq)
	}
	if s := got[1].String(); s != "#2 glBindBuffer: GL_INVALID_OPERATION" {
		t.Fatalf("String() = %q", s)
	}
}

func TestLogClosed(t *testing.T) {
	log := New(&Buffer{})
	log.Close()
	if err := log.Call("glClear", ""); err != ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if err := log.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.bin")
	log, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	log.Call("glClear", "0x4000")
	if err := log.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, closer, err := NewReaderFromFile(path)
	if err != nil {
		t.Fatalf("NewReaderFromFile: %v", err)
	}
	defer closer.Close()

	if r.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", r.Len())
	}
	if n := r.Ops()["glClear"]; n != 1 {
		t.Fatalf("expected glClear count 1, got %d", n)
	}
}

func TestConcurrentWritersKeepSequenceOrder(t *testing.T) {
	buf := &Buffer{}
	log := New(buf)

	const writers, per = 8, 100
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < per; i++ {
				log.Call(fmt.Sprintf("op%d", w), fmt.Sprint(i))
			}
		}(w)
	}
	wg.Wait()

	r, err := NewReaderFromBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("NewReaderFromBytes: %v", err)
	}
	if r.Len() != writers*per {
		t.Fatalf("expected %d records, got %d", writers*per, r.Len())
	}

	var last uint64
	if err := r.Each(func(rec Record) error {
		if rec.Seq <= last {
			return fmt.Errorf("sequence %d after %d", rec.Seq, last)
		}
		last = rec.Seq
		return nil
	}); err != nil {
		t.Fatalf("Each: %v", err)
	}
}

func TestSearch(t *testing.T) {
	buf := &Buffer{}
	log := New(buf)
	for i := 0; i < 5; i++ {
		log.Call("glUniform1fv", fmt.Sprintf("loc=%d", i))
		log.Call("glDrawArrays", "4, 0, 3")
	}
	log.Error("glDrawArrays", "GL_INVALID_OPERATION")

	r, err := NewReaderFromBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("NewReaderFromBytes: %v", err)
	}

	tests := []struct {
		name string
		opts SearchOptions
		want int
	}{
		{"all", SearchOptions{}, 11},
		{"by op", SearchOptions{Ops: []string{"glDrawArrays"}}, 6},
		{"errors", SearchOptions{Kind: KindError}, 1},
		{"match", SearchOptions{Match: func(r Record) bool { return strings.Contains(r.Detail, "loc=3") }}, 1},
		{"first", SearchOptions{LimitStart: 3}, 3},
		{"last", SearchOptions{Ops: []string{"glUniform1fv"}, LimitEnd: 2}, 2},
	}
	for _, tt := range tests {
		n, err := r.Count(tt.opts)
		if err != nil {
			t.Fatalf("%s: Count: %v", tt.name, err)
		}
		if n != tt.want {
			t.Fatalf("%s: expected %d, got %d", tt.name, tt.want, n)
		}
	}

	var tail []string
	r.Search(SearchOptions{Ops: []string{"glUniform1fv"}, LimitEnd: 2}, func(rec Record) error {
		tail = append(tail, rec.Detail)
		return nil
	})
	if strings.Join(tail, ",") != "loc=3,loc=4" {
		t.Fatalf("unexpected tail %v", tail)
	}

	if _, err := r.Count(SearchOptions{LimitStart: 1, LimitEnd: 1}); err == nil {
		t.Fatalf("expected error when both limits are set")
	}
}

func TestReaderRejectsHole(t *testing.T) {
	buf := &Buffer{}
	// Reserve space for one record without writing it.
	buf.WriteAt([]byte{0}, headerSize+3)
	if _, err := NewReaderFromBytes(buf.Bytes()); err == nil {
		t.Fatalf("expected error for zeroed record")
	}
}
