// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package topics persists paper records under named topics. Each topic is a
// directory below the store root holding one JSON file with the ordered
// array of papers. Saving a topic replaces its previous contents.
package topics

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/pdiddy/arxiv-agent/pkg/types"
)

// papersFile is the file name of a topic's persisted paper array.
const papersFile = "papers_info.json"

// Store manages topic containers below a root directory.
type Store struct {
	root   string
	logger *zap.Logger
}

// NewStore returns a store rooted at root. The directory is created on the
// first save, not here.
func NewStore(root string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{root: root, logger: logger}
}

// Root returns the store root directory.
func (s *Store) Root() string { return s.root }

// Normalize maps a caller-supplied topic name to its storage key: lowercase
// with every space replaced by an underscore. Names that normalize the same
// share one container.
func Normalize(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// DisplayName turns a storage key back into a heading: underscores become
// spaces and each word is title-cased.
func DisplayName(key string) string {
	var b strings.Builder
	startOfWord := true
	for _, r := range strings.ReplaceAll(key, "_", " ") {
		isLetter := unicode.IsLetter(r)
		switch {
		case isLetter && startOfWord:
			b.WriteRune(unicode.ToUpper(r))
		case isLetter:
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
		startOfWord = !isLetter
	}
	return b.String()
}

// validateKey rejects keys that would escape the store root or address it directly.
func validateKey(name, key string) error {
	switch {
	case strings.TrimSpace(key) == "" || strings.Trim(key, "_") == "":
		return fmt.Errorf("topic name %q is empty", name)
	case key == "." || key == "..":
		return fmt.Errorf("topic name %q is not allowed", name)
	case strings.ContainsAny(key, `/\`):
		return fmt.Errorf("topic name %q must not contain path separators", name)
	}
	return nil
}

// Path returns the location of the persisted file for a topic name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.root, Normalize(name), papersFile)
}

// Save writes papers as the complete contents of the named topic, replacing
// anything saved before, and returns the file location. Every paper must be
// complete; nothing is written otherwise.
func (s *Store) Save(name string, papers []types.Paper) (string, error) {
	const op = "save topic"

	key := Normalize(name)
	if err := validateKey(name, key); err != nil {
		return "", types.Fail(types.KindInvalid, op, err)
	}
	for i, p := range papers {
		if err := p.Validate(); err != nil {
			return "", types.Failf(types.KindInvalid, op, "paper %d: %w", i, err)
		}
	}
	if papers == nil {
		papers = []types.Paper{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(papers); err != nil {
		return "", types.Failf(types.KindIO, op, "encoding papers: %w", err)
	}

	dir := filepath.Join(s.root, key)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", types.Failf(types.KindIO, op, "creating topic directory: %w", err)
	}

	path := filepath.Join(dir, papersFile)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", types.Failf(types.KindIO, op, "writing %s: %w", path, err)
	}

	s.logger.Info("topic saved",
		zap.String("topic", key),
		zap.Int("papers", len(papers)),
		zap.String("path", path))
	return path, nil
}

// Load reads the papers saved under a topic name. A missing topic is an I/O
// failure wrapping fs.ErrNotExist; unparsable contents are a corruption failure.
func (s *Store) Load(name string) ([]types.Paper, error) {
	const op = "load topic"

	key := Normalize(name)
	if err := validateKey(name, key); err != nil {
		return nil, types.Fail(types.KindInvalid, op, err)
	}
	return readPapers(filepath.Join(s.root, key, papersFile))
}

func readPapers(path string) ([]types.Paper, error) {
	const op = "load topic"

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, types.Failf(types.KindIO, op, "reading %s: %w", path, err)
	}
	papers, err := decodePapers(data)
	if err != nil {
		return nil, types.Failf(types.KindCorruption, op, "parsing %s: %w", path, err)
	}
	return papers, nil
}

// decodePapers requires a JSON array of paper objects.
func decodePapers(data []byte) ([]types.Paper, error) {
	var papers []types.Paper
	if err := json.Unmarshal(data, &papers); err != nil {
		return nil, err
	}
	if papers == nil {
		return nil, fmt.Errorf("expected an array of papers, got null")
	}
	return papers, nil
}

// TopicSummary describes one topic container found by List.
type TopicSummary struct {
	// Key is the normalized directory name.
	Key string `json:"key" yaml:"key"`

	// Path is the persisted file location.
	Path string `json:"path" yaml:"path"`

	// ModTime is the persisted file's modification time.
	ModTime time.Time `json:"mod_time" yaml:"mod_time"`

	// Count is the number of papers; meaningful only when Err is nil.
	Count int `json:"count" yaml:"count"`

	// Err is set when the container could not be read or parsed.
	Err error `json:"-" yaml:"-"`
}

// Papers re-reads the topic's persisted papers.
func (t TopicSummary) Papers() ([]types.Paper, error) {
	return readPapers(t.Path)
}

// Corrupted reports whether the topic's file exists but does not parse.
func (t TopicSummary) Corrupted() bool {
	return types.IsKind(t.Err, types.KindCorruption)
}

// Listing is the result of enumerating the store.
type Listing struct {
	// RootMissing is true when the store root does not exist yet.
	RootMissing bool `json:"root_missing" yaml:"root_missing"`

	// Topics holds one entry per topic container, in key order.
	Topics []TopicSummary `json:"topics" yaml:"topics"`
}

// List enumerates every topic container. A topic whose file fails to parse
// is reported as corrupted and never hides the others. Only an unreadable
// root returns an error.
func (s *Store) List() (Listing, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Listing{RootMissing: true}, nil
		}
		return Listing{}, types.Failf(types.KindIO, "list topics", "reading %s: %w", s.root, err)
	}

	var listing Listing
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		path := filepath.Join(s.root, entry.Name(), papersFile)
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			listing.Topics = append(listing.Topics, TopicSummary{
				Key:  entry.Name(),
				Path: path,
				Err:  types.Failf(types.KindIO, "list topics", "stat %s: %w", path, err),
			})
			continue
		}
		if info.IsDir() {
			continue
		}

		summary := TopicSummary{Key: entry.Name(), Path: path, ModTime: info.ModTime()}
		papers, err := readPapers(path)
		if err != nil {
			s.logger.Warn("topic unreadable", zap.String("topic", entry.Name()), zap.Error(err))
			summary.Err = err
		} else {
			summary.Count = len(papers)
		}
		listing.Topics = append(listing.Topics, summary)
	}
	return listing, nil
}

// Report renders the listing as the Markdown text served by papers://list.
func (l Listing) Report() string {
	if l.RootMissing {
		return "No topics found. Use the search_arxiv_papers tool to start collecting papers."
	}
	if len(l.Topics) == 0 {
		return "No saved topics found."
	}

	lines := make([]string, 0, len(l.Topics))
	for _, t := range l.Topics {
		name := DisplayName(t.Key)
		switch {
		case t.Err == nil:
			lines = append(lines, fmt.Sprintf("- %s: %d papers", name, t.Count))
		case t.Corrupted():
			lines = append(lines, fmt.Sprintf("- %s: [Corrupted data]", name))
		default:
			lines = append(lines, fmt.Sprintf("- %s: [Unreadable data]", name))
		}
	}
	return "# Saved Research Topics\n\n" + strings.Join(lines, "\n")
}
