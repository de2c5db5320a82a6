package store

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// MetadataFile is the tab-separated index of recorded takes, one
// (filename, prompt) row per take. It is the sole source of truth for
// recorded status across sessions.
const MetadataFile = "recorder.tsv"

// ErrNotFound is returned by Delete when neither the audio artifact nor
// its metadata row exists.
var ErrNotFound = errors.New("take not found")

// Row is one metadata entry from the take index.
type Row struct {
	Filename string
	Prompt   string
}

// Store persists one WAV artifact plus one metadata row per recorded take
// under a session directory.
type Store struct {
	dir        string
	sampleRate int
	channels   int

	mu sync.Mutex
}

// New opens a take store rooted at dir, creating the directory if needed.
// sampleRate and channels describe the PCM passed to Save.
func New(dir string, sampleRate, channels int) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create save dir: %w", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat save dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("save dir %q is not a directory", dir)
	}
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	if channels <= 0 {
		channels = 1
	}
	return &Store{dir: dir, sampleRate: sampleRate, channels: channels}, nil
}

// Dir returns the session directory.
func (s *Store) Dir() string { return s.dir }

// Path resolves a take filename to its path inside the session directory.
func (s *Store) Path(filename string) string {
	return filepath.Join(s.dir, filename)
}

// Save writes pcm (s16le interleaved) as a WAV artifact and commits its
// metadata row. The row is written only after the artifact is fully on
// disk, so a crash mid-save never leaves a row without an artifact.
// Saving an existing filename replaces both the artifact and the row.
func (s *Store) Save(filename, promptText string, pcm []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(filename)
	if err := s.writeWAV(path, pcm); err != nil {
		return err
	}

	rows, err := s.readRows()
	if err != nil {
		return err
	}
	replaced := false
	for i := range rows {
		if rows[i].Filename == filename {
			rows[i].Prompt = sanitize(promptText)
			replaced = true
			break
		}
	}
	if !replaced {
		rows = append(rows, Row{Filename: filename, Prompt: sanitize(promptText)})
	}
	if err := s.writeRows(rows); err != nil {
		// Keep the invariant: no artifact without a row for a fresh
		// take. Replaced takes keep the new artifact with the old row.
		if !replaced {
			_ = os.Remove(path)
		}
		return err
	}
	return nil
}

// Delete removes a take's metadata row and audio artifact, row first so
// an interruption leaves at worst an unlisted artifact, never a row
// pointing at a missing file. Either half may already be gone; Delete
// only fails with ErrNotFound when both are.
func (s *Store) Delete(filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readRows()
	if err != nil {
		return err
	}
	kept := rows[:0]
	removedRow := false
	for _, r := range rows {
		if r.Filename == filename {
			removedRow = true
			continue
		}
		kept = append(kept, r)
	}
	if removedRow {
		if err := s.writeRows(kept); err != nil {
			return err
		}
	}

	removedArtifact := false
	err = os.Remove(s.Path(filename))
	switch {
	case err == nil:
		removedArtifact = true
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("remove artifact: %w", err)
	}

	if !removedArtifact && !removedRow {
		return fmt.Errorf("%w: %s", ErrNotFound, filename)
	}
	return nil
}

// LoadAll returns the metadata rows in file order.
func (s *Store) LoadAll() ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readRows()
}

func (s *Store) readRows() ([]Row, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, MetadataFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", MetadataFile, err)
	}
	var rows []Row
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed %s row: %q", MetadataFile, line)
		}
		rows = append(rows, Row{Filename: parts[0], Prompt: parts[1]})
	}
	return rows, nil
}

// writeRows rewrites the metadata file through a temp file and rename so a
// crash never leaves a partially written index.
func (s *Store) writeRows(rows []Row) error {
	var sb strings.Builder
	for _, r := range rows {
		sb.WriteString(r.Filename)
		sb.WriteByte('\t')
		sb.WriteString(r.Prompt)
		sb.WriteByte('\n')
	}
	path := filepath.Join(s.dir, MetadataFile)
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("write %s: %w", MetadataFile, err)
	}
	if _, err := f.WriteString(sb.String()); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", MetadataFile, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync %s: %w", MetadataFile, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s: %w", MetadataFile, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("commit %s: %w", MetadataFile, err)
	}
	return nil
}

// writeWAV encodes pcm to path through a temp file and rename.
func (s *Store) writeWAV(path string, pcm []byte) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create artifact: %w", err)
	}

	enc := wav.NewEncoder(f, s.sampleRate, 16, s.channels, 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: s.channels,
			SampleRate:  s.sampleRate,
		},
		Data:           pcmToSamples(pcm),
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		enc.Close()
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode artifact: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("finalize artifact: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("commit artifact: %w", err)
	}
	return nil
}

func pcmToSamples(pcm []byte) []int {
	samples := make([]int, len(pcm)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(pcm[2*i:])))
	}
	return samples
}

// sanitize keeps prompt text single-line and tab-free so the TSV stays
// one row per take.
func sanitize(text string) string {
	text = strings.ReplaceAll(text, "\t", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.ReplaceAll(text, "\r", " ")
	return strings.TrimSpace(text)
}
