package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/cinedex/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketGenres  = []byte("genres")
	bucketDetails = []byte("details")
)

var allBuckets = [][]byte{bucketGenres, bucketDetails}

// entry stores a value together with the time it was fetched
type entry struct {
	FetchedAt time.Time       `json:"fetched_at"`
	Value     json.RawMessage `json:"value"`
}

// MetadataStore implements domain.Store using BoltDB.
type MetadataStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte

	now func() time.Time
}

// NewMetadataStore opens the cache for one provider. An empty baseCacheDir
// keeps everything in memory.
func NewMetadataStore(baseCacheDir, providerURL string) (*MetadataStore, error) {
	if baseCacheDir == "" {
		return &MetadataStore{cache: make(map[string][]byte), now: time.Now}, nil
	}

	dir := baseCacheDir
	if providerURL != "" {
		dir = filepath.Join(baseCacheDir, hashProviderURL(providerURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "cinedex.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &MetadataStore{db: db, cache: make(map[string][]byte), now: time.Now}, nil
}

// hashProviderURL keeps caches for different API hosts apart
func hashProviderURL(providerURL string) string {
	normalized := strings.TrimRight(strings.ToLower(providerURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *MetadataStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *MetadataStore) get(bucket []byte, key string, dest interface{}) (time.Time, bool) {
	cacheKey := string(bucket) + ":" + key

	s.mu.RLock()
	data, ok := s.cache[cacheKey]
	s.mu.RUnlock()

	if !ok {
		if s.db == nil {
			return time.Time{}, false
		}
		s.db.View(func(tx *bolt.Tx) error {
			b := tx.Bucket(bucket)
			if b == nil {
				return nil
			}
			if v := b.Get([]byte(key)); v != nil {
				data = make([]byte, len(v))
				copy(data, v)
			}
			return nil
		})
		if data == nil {
			return time.Time{}, false
		}

		// Promote to memory cache
		s.mu.Lock()
		s.cache[cacheKey] = data
		s.mu.Unlock()
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return time.Time{}, false
	}
	if err := json.Unmarshal(e.Value, dest); err != nil {
		return time.Time{}, false
	}
	return e.FetchedAt, true
}

func (s *MetadataStore) set(bucket []byte, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	data, err := json.Marshal(entry{FetchedAt: s.now(), Value: raw})
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
}

func (s *MetadataStore) delete(bucket []byte, key string) {
	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	delete(s.cache, cacheKey)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		if b := tx.Bucket(bucket); b != nil {
			b.Delete([]byte(key))
		}
		return nil
	})
}

func (s *MetadataStore) clearBucket(bucket []byte) {
	s.mu.Lock()
	prefix := string(bucket) + ":"
	for k := range s.cache {
		if strings.HasPrefix(k, prefix) {
			delete(s.cache, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucket) == nil {
			return nil
		}
		if err := tx.DeleteBucket(bucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucket)
		return err
	})
}

// === Genres ===

func (s *MetadataStore) GetGenres() ([]domain.Genre, time.Time, bool) {
	var genres []domain.Genre
	at, ok := s.get(bucketGenres, "list", &genres)
	return genres, at, ok
}

func (s *MetadataStore) SaveGenres(genres []domain.Genre) error {
	return s.set(bucketGenres, "list", genres)
}

// === Details ===

func detailsKey(movieID int) string {
	return strconv.Itoa(movieID)
}

func (s *MetadataStore) GetDetails(movieID int) (*domain.MovieDetails, time.Time, bool) {
	var details domain.MovieDetails
	at, ok := s.get(bucketDetails, detailsKey(movieID), &details)
	if !ok {
		return nil, time.Time{}, false
	}
	return &details, at, true
}

func (s *MetadataStore) SaveDetails(details *domain.MovieDetails) error {
	if details == nil {
		return fmt.Errorf("nil details")
	}
	return s.set(bucketDetails, detailsKey(details.ID), details)
}

// === Invalidation ===

func (s *MetadataStore) InvalidateGenres() {
	s.delete(bucketGenres, "list")
}

func (s *MetadataStore) InvalidateDetails(movieID int) {
	s.delete(bucketDetails, detailsKey(movieID))
}

func (s *MetadataStore) InvalidateAll() {
	for _, bucket := range allBuckets {
		s.clearBucket(bucket)
	}
}

var _ domain.Store = (*MetadataStore)(nil)
