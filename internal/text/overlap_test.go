package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordOverlap_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"cara membuat ktp baru", "prosedur penerbitan kartu tanda penduduk"},
		{"pendaftaran bpjs kesehatan", "daftar bpjs di puskesmas"},
		{"beasiswa siswa berprestasi", "bantuan pendidikan sekolah"},
	}

	for _, p := range pairs {
		assert.InDelta(t, KeywordOverlap(p[0], p[1]), KeywordOverlap(p[1], p[0]), 1e-12)
	}
}

func TestKeywordOverlap_Identity(t *testing.T) {
	// Any non-empty input with at least one surviving token overlaps itself
	// perfectly.
	assert.Equal(t, 1.0, KeywordOverlap("perpanjangan paspor online", "perpanjangan paspor online"))
}

func TestKeywordOverlap_Deterministic(t *testing.T) {
	a := "syarat pembuatan kartu keluarga baru"
	b := "dokumen untuk kk baru"

	first := KeywordOverlap(a, b)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, KeywordOverlap(a, b))
	}
}

func TestKeywordOverlap_SynonymExpansion(t *testing.T) {
	// "ktp" expands to "kartu tanda penduduk", so the abbreviation and the
	// long form must intersect.
	score := KeywordOverlap("pembuatan ktp hilang", "penggantian kartu tanda penduduk hilang")
	assert.Greater(t, score, 0.0)
}

func TestKeywordOverlap_EmptyTokenSets(t *testing.T) {
	// Stopwords and short tokens only: both sets empty.
	assert.Equal(t, 0.0, KeywordOverlap("apa itu ini", "yang dan ke"))
	assert.Equal(t, 0.0, KeywordOverlap("", "pembuatan akta kelahiran"))
	assert.Equal(t, 0.0, KeywordOverlap("pembuatan akta kelahiran", ""))
}

func TestTokenizeAndFilter_DropsStopwordsAndShortTokens(t *testing.T) {
	tokens := TokenizeAndFilter("bagaimana cara membuat ktp di medan")
	assert.Equal(t, []string{"ktp", "medan"}, tokens)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "cara membuat ktp", Normalize("  Cara   membuat KTP??!  "))
}

func TestCleanLocationTerms(t *testing.T) {
	assert.Equal(t, "cara membuat ktp", CleanLocationTerms("cara membuat ktp di kota medan"))
	assert.Equal(t, "cara membuat ktp", CleanLocationTerms("cara membuat ktp di medan"))
	assert.Equal(t, "rsud pirngadi", CleanLocationTerms("rsud pirngadi"))
}
