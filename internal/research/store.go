// ABOUTME: Per-topic JSON paper store on the local filesystem
// ABOUTME: Each topic directory holds one papers_info.json keyed by arXiv id
package research

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// StoreFile is the file name inside each topic directory.
const StoreFile = "papers_info.json"

// ErrTopicNotFound is returned when a topic has no store file.
var ErrTopicNotFound = errors.New("topic not found")

// Paper is one stored arXiv record.
type Paper struct {
	Title     string   `json:"title"`
	Authors   []string `json:"authors"`
	Summary   string   `json:"summary"`
	PDFURL    string   `json:"pdf_url"`
	Published string   `json:"published"`
}

// Store reads and writes topic files under a root directory.
type Store struct {
	root string
	mu   sync.Mutex
}

// NewStore creates a store rooted at root. The directory is created on
// first write.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the storage directory.
func (s *Store) Root() string {
	return s.root
}

// TopicDir maps a topic to its directory name: lower case with spaces
// replaced by underscores.
func TopicDir(topic string) string {
	dir := strings.ToLower(strings.TrimSpace(topic))
	dir = strings.NewReplacer(" ", "_", "/", "_", `\`, "_").Replace(dir)
	if dir == "." || dir == ".." {
		dir = strings.ReplaceAll(dir, ".", "_")
	}
	return dir
}

// Path returns the store file for topic.
func (s *Store) Path(topic string) string {
	return filepath.Join(s.root, TopicDir(topic), StoreFile)
}

// Load reads every paper stored under topic.
func (s *Store) Load(topic string) (map[string]Paper, error) {
	return s.loadFile(s.Path(topic))
}

func (s *Store) loadFile(path string) (map[string]Paper, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is built from the storage root
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrTopicNotFound
	}
	if err != nil {
		return nil, err
	}

	papers := make(map[string]Paper)
	if err := json.Unmarshal(data, &papers); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return papers, nil
}

// Merge adds papers to topic. Entries with the same id are replaced and
// all others are kept. The file is rewritten whole.
func (s *Store) Merge(topic string, papers map[string]Paper) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.Load(topic)
	if errors.Is(err, ErrTopicNotFound) {
		existing = make(map[string]Paper)
	} else if err != nil {
		return err
	}
	for id, p := range papers {
		existing[id] = p
	}

	return writeJSON(s.Path(topic), existing)
}

// Find looks for id in every topic. It returns the topic it was found
// under.
func (s *Store) Find(id string) (Paper, string, bool, error) {
	topics, err := s.Topics()
	if err != nil {
		return Paper{}, "", false, err
	}
	for _, topic := range topics {
		papers, err := s.loadFile(filepath.Join(s.root, topic, StoreFile))
		if err != nil {
			// One unreadable topic should not hide the others.
			continue
		}
		if p, ok := papers[id]; ok {
			return p, topic, true, nil
		}
	}
	return Paper{}, "", false, nil
}

// Topics lists topic directories that contain a store file, sorted.
func (s *Store) Topics() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var topics []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(s.root, e.Name(), StoreFile)); err == nil {
			topics = append(topics, e.Name())
		}
	}
	sort.Strings(topics)
	return topics, nil
}

// writeJSON replaces path with the indented JSON of v via a temp file
// in the same directory.
func writeJSON(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil { //nolint:gosec // Standard directory permissions for user data
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".papers_info-*.json")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
