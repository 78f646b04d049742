// Package archive exports history entries as zstd-compressed JSON Lines.
package archive

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"soloville/internal/domain/village"

	"github.com/klauspost/compress/zstd"
)

// Source is satisfied by history.UseCase.
type Source interface {
	Window(ctx context.Context, from, to time.Time, limit int) ([]village.HistoryEntry, error)
}

// Export writes every entry with from <= occurred_at < to to w, one JSON
// object per line, and returns the number written.
func Export(ctx context.Context, src Source, from, to time.Time, w io.Writer) (int, error) {
	entries, err := src.Window(ctx, from, to, 0)
	if err != nil {
		return 0, fmt.Errorf("list history: %w", err)
	}
	return Write(w, entries)
}

func Write(w io.Writer, entries []village.HistoryEntry) (int, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return 0, fmt.Errorf("zstd writer: %w", err)
	}
	buf := bufio.NewWriter(enc)
	je := json.NewEncoder(buf)
	n := 0
	for _, e := range entries {
		if err := je.Encode(e); err != nil {
			_ = enc.Close()
			return n, fmt.Errorf("encode entry %d: %w", e.ID, err)
		}
		n++
	}
	if err := buf.Flush(); err != nil {
		_ = enc.Close()
		return n, err
	}
	if err := enc.Close(); err != nil {
		return n, fmt.Errorf("close zstd: %w", err)
	}
	return n, nil
}

// Read decodes an archive produced by Write.
func Read(r io.Reader) ([]village.HistoryEntry, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()

	var out []village.HistoryEntry
	jd := json.NewDecoder(dec)
	for {
		var e village.HistoryEntry
		if err := jd.Decode(&e); err != nil {
			if err == io.EOF {
				return out, nil
			}
			return out, fmt.Errorf("decode entry: %w", err)
		}
		out = append(out, e)
	}
}
