package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHardFilter_RejectsOutsideServiceArea(t *testing.T) {
	res := HardFilter("bagaimana cara membuat ktp di Jakarta?")
	assert.False(t, res.Valid)
	assert.Contains(t, res.Reason, "Jakarta")
}

func TestHardFilter_WordBoundary(t *testing.T) {
	// "belawan" is on the exclusion list but must only match as a whole
	// word, not inside another token.
	res := HardFilter("pendaftaran sekolah di kecamatan medan belawan raya")
	assert.False(t, res.Valid)

	res = HardFilter("cara mengurus surat pindah domisili warga")
	assert.True(t, res.Valid)
}

func TestHardFilter_RejectsOpinionQuestions(t *testing.T) {
	res := HardFilter("siapa kepala dinas paling rajin di kantor?")
	assert.False(t, res.Valid)
	assert.Contains(t, res.Reason, "opini")
}

func TestHardFilter_RejectsTooShort(t *testing.T) {
	res := HardFilter("ktp hilang")
	assert.False(t, res.Valid)
	assert.Contains(t, res.Reason, "pendek")
}

func TestHardFilter_PassesInDomainQuestion(t *testing.T) {
	res := HardFilter("bagaimana cara membuat ktp di kota medan")
	assert.True(t, res.Valid)
	assert.Equal(t, "bagaimana cara membuat ktp di kota medan", res.CleanQuestion)
}
