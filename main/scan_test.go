package main

import (
	"bytes"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sugawarayuuta/sonnet"
	"golang.org/x/crypto/sha3"

	"github.com/rawbytedev/widespan"
	"github.com/rawbytedev/widespan/pkg/native"
)

func quietLogger() *logrus.Logger {
	l, _ := test.NewNullLogger()
	return l
}

func run(t *testing.T, cfg Config) Report {
	t.Helper()
	rep, err := Run(cfg, quietLogger())
	if errors.Is(err, native.ErrUnsupportedPlatform) {
		t.Skip(err)
	}
	require.NoError(t, err)
	return rep
}

func intPtr(v int) *int { return &v }

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.yaml")
	doc := `
elements: 4096
needle: 7
plant: [10, 20]
window:
  start: 5
  length: 100
digest: true
format: json
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 4096, cfg.Elements)
	assert.Equal(t, uint8(7), cfg.Needle)
	assert.Equal(t, []int{10, 20}, cfg.Plant)
	assert.Equal(t, 5, cfg.Window.Start)
	require.NotNil(t, cfg.Window.Length)
	assert.Equal(t, 100, *cfg.Window.Length)
	assert.True(t, cfg.Digest)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "info", cfg.LogLevel, "defaults survive")
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: xml\n"), 0o644))
	_, err = LoadConfig(path)
	require.ErrorIs(t, err, ErrInvalidConfig)

	require.ErrorIs(t, Config{Elements: -1, Format: "text"}.Validate(), ErrInvalidConfig)
}

func TestRunPlantedNeedles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Elements = 1 << 16
	cfg.Needle = 0x2a
	cfg.Plant = []int{99, 100, 5000, 60000}
	cfg.Window = Window{Start: 100, Length: intPtr(50000)}

	rep := run(t, cfg)
	assert.Equal(t, 100, rep.WindowStart)
	assert.Equal(t, 50000, rep.WindowLength)
	assert.Equal(t, 0, rep.First)
	assert.Equal(t, 4900, rep.Last)
	assert.Equal(t, 2, rep.Matches, "needles outside the window do not count")
}

func TestRunWindowToEnd(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Elements = 256
	cfg.Plant = []int{255}
	cfg.Window.Start = 200

	rep := run(t, cfg)
	assert.Equal(t, 56, rep.WindowLength)
	assert.Equal(t, 55, rep.First)
	assert.Equal(t, 1, rep.Matches)
}

func TestRunRejectsBadRanges(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Elements = 16
	cfg.Plant = []int{16}
	_, err := Run(cfg, quietLogger())
	if errors.Is(err, native.ErrUnsupportedPlatform) {
		t.Skip(err)
	}
	require.ErrorIs(t, err, widespan.ErrOutOfRange)

	cfg.Plant = nil
	cfg.Window = Window{Start: 8, Length: intPtr(9)}
	_, err = Run(cfg, quietLogger())
	require.ErrorIs(t, err, widespan.ErrOutOfRange)
}

func TestRunLoadsZstdInput(t *testing.T) {
	payload := bytes.Repeat([]byte("abcdefgh"), 512)
	payload[1234] = 0xff

	path := filepath.Join(t.TempDir(), "input.zst")
	f, err := os.Create(path)
	require.NoError(t, err)
	enc, err := zstd.NewWriter(f)
	require.NoError(t, err)
	_, err = enc.Write(payload)
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	cfg := DefaultConfig()
	cfg.Elements = len(payload) + 100
	cfg.Input = path
	cfg.Needle = 0xff
	cfg.Digest = true
	cfg.Window = Window{Start: 1000, Length: intPtr(1000)}

	rep := run(t, cfg)
	assert.Equal(t, len(payload), rep.Loaded)
	assert.Equal(t, 234, rep.First)
	assert.Equal(t, 234, rep.Last)
	assert.Equal(t, 1, rep.Matches)

	sum := sha3.Sum256(payload[1000:2000])
	assert.Equal(t, hex.EncodeToString(sum[:]), rep.Digest)

	// input longer than the buffer is cut off
	cfg.Elements = 100
	cfg.Window = Window{}
	cfg.Digest = false
	rep = run(t, cfg)
	assert.Equal(t, 100, rep.Loaded)
	assert.Equal(t, -1, rep.First)
}

func TestDigestOfEmptyWindow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Elements = 32
	cfg.Digest = true
	cfg.Window = Window{Start: 32}

	rep := run(t, cfg)
	sum := sha3.Sum256(nil)
	assert.Equal(t, hex.EncodeToString(sum[:]), rep.Digest)
	assert.Equal(t, -1, rep.First)
	assert.Zero(t, rep.Matches)
}

func TestWriteJSON(t *testing.T) {
	rep := Report{Elements: 10, WindowLength: 10, Needle: 1, First: 2, Last: 3, Matches: 2}
	var out bytes.Buffer
	require.NoError(t, Write(&out, rep, "json", quietLogger()))

	var back Report
	require.NoError(t, sonnet.Unmarshal(out.Bytes(), &back))
	assert.Equal(t, rep, back)
	assert.NotContains(t, out.String(), "digest")
}

func TestWriteText(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	var out bytes.Buffer
	require.NoError(t, Write(&out, Report{Elements: 8, WindowLength: 8, First: -1, Last: -1}, "text", logger))

	line := out.String()
	assert.Contains(t, line, `msg="scan complete"`)
	assert.Contains(t, line, "first=-1")
	assert.Contains(t, line, `window="[0, 8)"`)
	assert.NotContains(t, line, "digest")
	assert.NotContains(t, line, "time=")
	assert.Equal(t, 1, bytes.Count(out.Bytes(), []byte("\n")))

	require.Len(t, hook.AllEntries(), 1, "the report goes to w, not to the logger")
	assert.Equal(t, "report written", hook.LastEntry().Message)
}

func TestParseNeedle(t *testing.T) {
	v, err := ParseNeedle(255)
	require.NoError(t, err)
	assert.Equal(t, uint8(255), v)

	_, err = ParseNeedle(300)
	require.ErrorIs(t, err, ErrInvalidConfig)
}
