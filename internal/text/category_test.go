package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectCategory_FirstMatchWins(t *testing.T) {
	// "nisn" is listed under both Pendidikan and the synonym table; the
	// router must return the first table row that matches, Pendidikan.
	cat, ok := DetectCategory("cek nisn anak sekolah")
	require.True(t, ok)
	assert.Equal(t, "Pendidikan", cat.Name)
}

func TestDetectCategory_TableOrderBeatsCoverage(t *testing.T) {
	// A query hitting both the population row ("ktp") and the services row
	// ("izin") routes to the earlier row.
	cat, ok := DetectCategory("izin fotokopi ktp untuk usaha")
	require.True(t, ok)
	assert.Equal(t, "Kependudukan", cat.Name)
}

func TestDetectCategory_SubstringMatch(t *testing.T) {
	cat, ok := DetectCategory("jadwal imunisasi posyandu terdekat")
	require.True(t, ok)
	assert.Equal(t, "Kesehatan", cat.Name)
}

func TestDetectCategory_NoMatch(t *testing.T) {
	_, ok := DetectCategory("jadwal kereta api hari ini")
	assert.False(t, ok)
}

func TestCategoryName(t *testing.T) {
	cat, ok := DetectCategory("perwali tentang parkir")
	require.True(t, ok)
	assert.Equal(t, "Peraturan", CategoryName(cat.ID))
	assert.Equal(t, "Global", CategoryName("no-such-id"))
}
