package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// FileStore implements Store on flat JSON files, one file per key, under a
// single directory. It is the zero-dependency fallback backend for local
// development and small deployments.
type FileStore struct {
	dir string
	mu  sync.Mutex // guards index read-modify-write cycles
}

type fileRecord struct {
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
	Data      json.RawMessage `json:"data"`
}

// NewFileStore creates the backing directory if needed.
func NewFileStore(dataDir string) (*FileStore, error) {
	dir := filepath.Join(dataDir, "store")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// path maps a logical key to a file. Key separators are flattened so the
// whole namespace lives in one directory, mirroring the cache key layout.
func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, strings.ReplaceAll(key, ":", "-")+".json")
}

func (s *FileStore) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	if rec.ExpiresAt != nil && time.Now().After(*rec.ExpiresAt) {
		_ = os.Remove(s.path(key))
		return false, nil
	}
	if err := json.Unmarshal(rec.Data, dest); err != nil {
		return false, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return true, nil
}

func (s *FileStore) SetJSON(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	rec := fileRecord{Data: data}
	if ttl > 0 {
		exp := time.Now().Add(ttl)
		rec.ExpiresAt = &exp
	}
	out, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.writeAtomic(s.path(key), out); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// writeAtomic replaces path via a temp file and rename, so a concurrent
// reader sees either the previous or the new content, never a torn write.
func (s *FileStore) writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, "write-*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, key string) (bool, error) {
	err := os.Remove(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", key, err)
	}
	return true, nil
}

func (s *FileStore) Exists(ctx context.Context, key string) (bool, error) {
	// Route through GetJSON so expired records count as absent.
	var raw json.RawMessage
	return s.GetJSON(ctx, key, &raw)
}

// Indexes are stored as a member-to-score map in a regular key file.

func (s *FileStore) readIndex(indexKey string) (map[string]float64, error) {
	idx := make(map[string]float64)
	data, err := os.ReadFile(s.path(indexKey))
	if errors.Is(err, os.ErrNotExist) {
		return idx, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read index %s: %w", indexKey, err)
	}
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("decode index %s: %w", indexKey, err)
	}
	return idx, nil
}

func (s *FileStore) writeIndex(indexKey string, idx map[string]float64) error {
	data, err := json.Marshal(idx)
	if err != nil {
		return fmt.Errorf("encode index %s: %w", indexKey, err)
	}
	if err := s.writeAtomic(s.path(indexKey), data); err != nil {
		return fmt.Errorf("write index %s: %w", indexKey, err)
	}
	return nil
}

func (s *FileStore) AddToIndex(_ context.Context, indexKey, member string, score float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, err := s.readIndex(indexKey)
	if err != nil {
		return err
	}
	idx[member] = score
	return s.writeIndex(indexKey, idx)
}

func (s *FileStore) GetIndex(_ context.Context, indexKey string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, err := s.readIndex(indexKey)
	if err != nil {
		return nil, err
	}
	return sortedMembers(idx, false), nil
}

func (s *FileStore) RemoveFromIndex(_ context.Context, indexKey, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, err := s.readIndex(indexKey)
	if err != nil {
		return err
	}
	delete(idx, member)
	return s.writeIndex(indexKey, idx)
}

func (s *FileStore) CountIndex(_ context.Context, indexKey string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, err := s.readIndex(indexKey)
	if err != nil {
		return 0, err
	}
	return int64(len(idx)), nil
}

func (s *FileStore) OldestN(_ context.Context, indexKey string, n int64) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, err := s.readIndex(indexKey)
	if err != nil {
		return nil, err
	}
	members := sortedMembers(idx, true)
	if int64(len(members)) > n {
		members = members[:n]
	}
	return members, nil
}

// UsageRatio is always 0: the filesystem imposes no quota the store can see.
func (s *FileStore) UsageRatio(context.Context) (float64, error) {
	return 0, nil
}

func (s *FileStore) Ping(context.Context) error {
	_, err := os.Stat(s.dir)
	return err
}

func (s *FileStore) Close() error {
	return nil
}

// sortedMembers orders by score, member name breaking ties for determinism.
func sortedMembers(idx map[string]float64, ascending bool) []string {
	members := make([]string, 0, len(idx))
	for m := range idx {
		members = append(members, m)
	}
	sort.Slice(members, func(i, j int) bool {
		si, sj := idx[members[i]], idx[members[j]]
		if si != sj {
			if ascending {
				return si < sj
			}
			return si > sj
		}
		if ascending {
			return members[i] < members[j]
		}
		return members[i] > members[j]
	})
	return members
}
