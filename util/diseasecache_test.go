package util

import (
	"fmt"
	"testing"
	"time"

	"github.com/pragun3669/DERMIFY/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCacheTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:testdb_%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&model.Disease{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func TestDiseaseCacheGetSet(t *testing.T) {
	InitDiseaseCache(10)

	if _, ok := DiseaseCacheGet("Eczema"); ok {
		t.Fatal("expected miss on empty cache")
	}

	DiseaseCacheSet("Eczema", model.Disease{Name: "Eczema", Description: "Itchy skin"})

	record, ok := DiseaseCacheGet("Eczema")
	if !ok {
		t.Fatal("expected hit after set")
	}
	if record.Description != "Itchy skin" {
		t.Fatalf("unexpected cached record: %+v", record)
	}
}

func TestDiseaseCacheEviction(t *testing.T) {
	InitDiseaseCache(2)

	DiseaseCacheSet("A", model.Disease{Name: "A"})
	DiseaseCacheSet("B", model.Disease{Name: "B"})

	// Touch A so B becomes the least recently used entry.
	if _, ok := DiseaseCacheGet("A"); !ok {
		t.Fatal("expected A to be cached")
	}

	DiseaseCacheSet("C", model.Disease{Name: "C"})

	if _, ok := DiseaseCacheGet("B"); ok {
		t.Fatal("expected B to be evicted")
	}
	if _, ok := DiseaseCacheGet("A"); !ok {
		t.Fatal("expected A to survive eviction")
	}
	if _, ok := DiseaseCacheGet("C"); !ok {
		t.Fatal("expected C to be cached")
	}
}

func TestGetDiseaseByNameReadThrough(t *testing.T) {
	InitDiseaseCache(10)
	db := setupCacheTestDB(t, "readthrough")

	seeded := model.Disease{Name: "Psoriasis", Description: "Scaly patches"}
	if err := db.Create(&seeded).Error; err != nil {
		t.Fatalf("failed to seed disease: %v", err)
	}

	record, err := GetDiseaseByName(db, "Psoriasis")
	if err != nil {
		t.Fatalf("GetDiseaseByName returned error: %v", err)
	}
	if record.Description != "Scaly patches" {
		t.Fatalf("unexpected record: %+v", record)
	}

	// Second lookup must come from the cache: delete the row and re-fetch.
	if err := db.Unscoped().Delete(&model.Disease{}, seeded.ID).Error; err != nil {
		t.Fatalf("failed to delete disease: %v", err)
	}
	record, err = GetDiseaseByName(db, "Psoriasis")
	if err != nil {
		t.Fatalf("expected cache hit after delete, got error: %v", err)
	}
	if record.Name != "Psoriasis" {
		t.Fatalf("unexpected cached record: %+v", record)
	}
}

func TestGetDiseaseByNameDistinguishesSimilarNames(t *testing.T) {
	InitDiseaseCache(10)
	db := setupCacheTestDB(t, "similarnames")

	// Two stored records whose names differ only in internal whitespace
	// must never share a cache slot.
	doubleSpace := model.Disease{Name: "Tinea  Versicolor", Description: "double space"}
	singleSpace := model.Disease{Name: "Tinea Versicolor", Description: "single space"}
	if err := db.Create(&doubleSpace).Error; err != nil {
		t.Fatalf("failed to seed disease: %v", err)
	}
	if err := db.Create(&singleSpace).Error; err != nil {
		t.Fatalf("failed to seed disease: %v", err)
	}

	record, err := GetDiseaseByName(db, "Tinea  Versicolor")
	if err != nil {
		t.Fatalf("GetDiseaseByName returned error: %v", err)
	}
	if record.Name != "Tinea  Versicolor" || record.Description != "double space" {
		t.Fatalf("unexpected record for double-space name: %+v", record)
	}

	// Warm cache from the first lookup must not shadow the second record.
	record, err = GetDiseaseByName(db, "Tinea Versicolor")
	if err != nil {
		t.Fatalf("GetDiseaseByName returned error: %v", err)
	}
	if record.Name != "Tinea Versicolor" || record.Description != "single space" {
		t.Fatalf("unexpected record for single-space name: %+v", record)
	}
}

func TestGetDiseaseByNameNotFound(t *testing.T) {
	InitDiseaseCache(10)
	db := setupCacheTestDB(t, "notfound")

	if _, err := GetDiseaseByName(db, "Unknown Condition"); err != gorm.ErrRecordNotFound {
		t.Fatalf("expected gorm.ErrRecordNotFound, got %v", err)
	}
}

func TestInitDiseaseCacheFromEnv(t *testing.T) {
	t.Setenv("DISEASE_CACHE_SIZE", "5")
	InitDiseaseCacheFromEnv()

	for i := 0; i < 6; i++ {
		DiseaseCacheSet(fmt.Sprintf("disease-%d", i), model.Disease{})
	}
	if _, ok := DiseaseCacheGet("disease-0"); ok {
		t.Fatal("expected oldest entry to be evicted at capacity 5")
	}
}
