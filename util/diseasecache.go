package util

import (
	"container/list"
	"os"
	"strconv"
	"sync"

	"github.com/pragun3669/DERMIFY/model"
	"gorm.io/gorm"
)

// LRU cache for stored disease name -> Disease record. Disease records
// are read-only at the API surface, so entries never need invalidation
// beyond capacity eviction.
type diseaseEntry struct {
	name   string
	record model.Disease
}

type diseaseLRU struct {
	mu       sync.Mutex
	ll       *list.List
	cache    map[string]*list.Element
	capacity int
}

var diseaseCache *diseaseLRU

// InitDiseaseCache initializes the LRU cache with given capacity.
// If capacity <= 0, a default of 100 is used.
func InitDiseaseCache(capacity int) {
	if capacity <= 0 {
		capacity = 100
	}
	diseaseCache = &diseaseLRU{
		ll:       list.New(),
		cache:    make(map[string]*list.Element),
		capacity: capacity,
	}
}

// DiseaseCacheGet returns the cached record and true if present.
func DiseaseCacheGet(name string) (model.Disease, bool) {
	if diseaseCache == nil {
		return model.Disease{}, false
	}
	diseaseCache.mu.Lock()
	defer diseaseCache.mu.Unlock()
	if ele, ok := diseaseCache.cache[name]; ok {
		diseaseCache.ll.MoveToFront(ele)
		if e, ok := ele.Value.(diseaseEntry); ok {
			return e.record, true
		}
	}
	return model.Disease{}, false
}

// DiseaseCacheSet stores a record under the given name in the cache.
func DiseaseCacheSet(name string, record model.Disease) {
	if diseaseCache == nil {
		return
	}
	diseaseCache.mu.Lock()
	defer diseaseCache.mu.Unlock()
	if ele, ok := diseaseCache.cache[name]; ok {
		diseaseCache.ll.MoveToFront(ele)
		ele.Value = diseaseEntry{name: name, record: record}
		return
	}
	ele := diseaseCache.ll.PushFront(diseaseEntry{name: name, record: record})
	diseaseCache.cache[name] = ele
	if diseaseCache.ll.Len() > diseaseCache.capacity {
		// evict least recently used
		tail := diseaseCache.ll.Back()
		if tail != nil {
			if e, ok := tail.Value.(diseaseEntry); ok {
				delete(diseaseCache.cache, e.name)
			}
			diseaseCache.ll.Remove(tail)
		}
	}
}

// GetDiseaseByName returns the record for the exact stored name using the
// cache, falling back to the DB. If found in DB, caches the result. The cache
// is keyed on the exact stored name; names that only match after
// normalization are distinct records and must never share a slot.
func GetDiseaseByName(db *gorm.DB, name string) (model.Disease, error) {
	if record, ok := DiseaseCacheGet(name); ok {
		return record, nil
	}
	var record model.Disease
	if err := db.Where("name = ?", name).First(&record).Error; err != nil {
		return model.Disease{}, err
	}
	DiseaseCacheSet(record.Name, record)
	return record, nil
}

// InitDiseaseCacheFromEnv initializes the cache using the env var DISEASE_CACHE_SIZE
func InitDiseaseCacheFromEnv() {
	sizeStr := os.Getenv("DISEASE_CACHE_SIZE")
	if sizeStr == "" {
		InitDiseaseCache(0)
		return
	}
	if n, err := strconv.Atoi(sizeStr); err == nil {
		InitDiseaseCache(n)
		return
	}
	InitDiseaseCache(0)
}
