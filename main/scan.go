package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"unsafe"

	"github.com/klauspost/compress/zstd"
	"github.com/sirupsen/logrus"
	"github.com/sugawarayuuta/sonnet"
	"golang.org/x/crypto/sha3"

	"github.com/rawbytedev/widespan"
	"github.com/rawbytedev/widespan/pkg/native"
)

// Report is the outcome of one scan.
type Report struct {
	Elements     int    `json:"elements"`
	Loaded       int    `json:"loaded"`
	WindowStart  int    `json:"window_start"`
	WindowLength int    `json:"window_length"`
	Needle       uint8  `json:"needle"`
	First        int    `json:"first"`
	Last         int    `json:"last"`
	Matches      int    `json:"matches"`
	Digest       string `json:"digest,omitempty"`
}

// Run allocates the buffer, loads and plants data, then scans the window.
func Run(cfg Config, log *logrus.Logger) (Report, error) {
	rep := Report{Elements: cfg.Elements, Needle: cfg.Needle}
	buf, err := native.Alloc[byte](cfg.Elements, native.WithLogger(log))
	if err != nil {
		return rep, err
	}
	defer buf.Close()
	s := buf.Span()

	if cfg.Input != "" {
		n, err := load(s, cfg.Input)
		if err != nil {
			return rep, err
		}
		rep.Loaded = n
		log.WithFields(logrus.Fields{"input": cfg.Input, "bytes": n}).Info("input loaded")
	}

	for _, off := range cfg.Plant {
		cell, err := s.TrySlice(off, 1)
		if err != nil {
			return rep, fmt.Errorf("plant at %d: %w", off, err)
		}
		cell.Set(0, cfg.Needle)
	}

	length := s.Len() - cfg.Window.Start
	if cfg.Window.Length != nil {
		length = *cfg.Window.Length
	}
	win, err := s.TrySlice(cfg.Window.Start, length)
	if err != nil {
		return rep, fmt.Errorf("window: %w", err)
	}
	rep.WindowStart, rep.WindowLength = cfg.Window.Start, win.Len()

	ro := win.ReadOnly()
	rep.First = widespan.IndexOf(ro, cfg.Needle)
	rep.Last = widespan.LastIndexOf(ro, cfg.Needle)
	if rep.First >= 0 {
		// only the range between the first and last hit can hold more
		e := ro.Slice(rep.First, rep.Last-rep.First+1).Enumerate()
		for e.MoveNext() {
			if e.Current() == cfg.Needle {
				rep.Matches++
			}
		}
	}

	if cfg.Digest {
		err := win.Fixed(func(p *byte, n int) error {
			sum := sha3.Sum256(unsafe.Slice(p, n))
			rep.Digest = hex.EncodeToString(sum[:])
			return nil
		})
		if err != nil {
			return rep, err
		}
	}
	return rep, nil
}

// load decompresses a zstd file into s and returns how many bytes landed.
// Input beyond the end of s is ignored.
func load(s widespan.Span[byte], path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return 0, fmt.Errorf("open zstd stream %s: %w", path, err)
	}
	defer dec.Close()
	n, err := io.ReadFull(dec, s.ToSlice())
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		err = nil
	}
	if err != nil {
		return n, fmt.Errorf("read %s: %w", path, err)
	}
	return n, nil
}

// Write renders rep to w, as one JSON document or as one logfmt line.
func Write(w io.Writer, rep Report, format string, log *logrus.Logger) error {
	var data []byte
	var err error
	if format == "json" {
		if data, err = sonnet.Marshal(rep); err != nil {
			return err
		}
		data = append(data, '\n')
	} else {
		data, err = textReport(rep, log)
		if err != nil {
			return err
		}
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	log.WithField("format", format).Debug("report written")
	return nil
}

func textReport(rep Report, log *logrus.Logger) ([]byte, error) {
	fields := logrus.Fields{
		"elements": rep.Elements,
		"loaded":   rep.Loaded,
		"window":   fmt.Sprintf("[%d, %d)", rep.WindowStart, rep.WindowStart+rep.WindowLength),
		"needle":   rep.Needle,
		"first":    rep.First,
		"last":     rep.Last,
		"matches":  rep.Matches,
	}
	if rep.Digest != "" {
		fields["digest"] = rep.Digest
	}
	entry := log.WithFields(fields)
	entry.Level = logrus.InfoLevel
	entry.Message = "scan complete"
	f := &logrus.TextFormatter{DisableTimestamp: true, DisableColors: true}
	return f.Format(entry)
}
