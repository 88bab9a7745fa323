package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiseaseAliasModel_Create(t *testing.T) {
	db := setupTestDB(t, "alias_create", &DiseaseAlias{})

	alias := DiseaseAlias{Label: "Eczema Photos", DiseaseName: "Eczema"}
	err := db.Create(&alias).Error
	assert.NoError(t, err)
	assert.NotZero(t, alias.ID)
}

func TestDiseaseAliasModel_UniqueLabel(t *testing.T) {
	db := setupTestDB(t, "alias_unique", &DiseaseAlias{})

	assert.NoError(t, db.Create(&DiseaseAlias{Label: "Acne and Rosacea Photos", DiseaseName: "Acne"}).Error)
	err := db.Create(&DiseaseAlias{Label: "Acne and Rosacea Photos", DiseaseName: "Rosacea"}).Error
	assert.Error(t, err)
}

func TestSeedDiseaseAliases(t *testing.T) {
	db := setupTestDB(t, "alias_seed", &DiseaseAlias{})

	seed := `[
		{"label": "Eczema Photos", "disease_name": "Eczema"},
		{"label": "Acne and Rosacea Photos", "disease_name": "Acne"}
	]`
	path := writeSeedFile(t, "aliases.json", seed)

	if err := SeedDiseaseAliases(db, path); err != nil {
		t.Fatalf("SeedDiseaseAliases returned error: %v", err)
	}

	var count int64
	assert.NoError(t, db.Model(&DiseaseAlias{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	// Seeding again must not duplicate mappings.
	if err := SeedDiseaseAliases(db, path); err != nil {
		t.Fatalf("second SeedDiseaseAliases returned error: %v", err)
	}
	assert.NoError(t, db.Model(&DiseaseAlias{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}
