package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pemkomedan/rag-layanan/internal/domain"
	"github.com/pemkomedan/rag-layanan/internal/index"
)

func TestClassify_TierPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		dense    float64
		overlap  float64
		relevant bool
		note     string
		accepted bool
	}{
		{"dense alone above 0.90", 0.91, 0.0, false, domain.NoteAutoAcceptedByDense, true},
		{"dense at exactly 0.90", 0.90, 0.0, false, domain.NoteAutoAcceptedByDense, true},
		{"overlap tier", 0.87, 0.30, false, domain.NoteAcceptedByOverlap, true},
		{"overlap tier lower bound", 0.86, 0.25, false, domain.NoteAcceptedByOverlap, true},
		{"overlap too low for tier two", 0.87, 0.10, false, domain.NoteRejected, false},
		{"judge unlocks tier three", 0.84, 0.20, true, domain.NoteAcceptedByAIRelevance, true},
		{"judge negative keeps tier three closed", 0.84, 0.20, false, domain.NoteRejected, false},
		{"dense below all tiers", 0.80, 0.90, true, domain.NoteRejected, false},
		{"tier one wins over tier three", 0.95, 0.50, true, domain.NoteAutoAcceptedByDense, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			note, accepted := Classify(tc.dense, tc.overlap, tc.relevant)
			assert.Equal(t, tc.note, note)
			assert.Equal(t, tc.accepted, accepted)
		})
	}
}

func TestFinalScore_BlendAndRounding(t *testing.T) {
	assert.Equal(t, 0.65, FinalScore(1.0, 0.0))
	assert.Equal(t, 0.35, FinalScore(0.0, 1.0))
	assert.Equal(t, 1.0, FinalScore(1.0, 1.0))
	// 0.65*0.876 + 0.35*0.333 = 0.68595 -> 0.686
	assert.Equal(t, 0.686, FinalScore(0.876, 0.333))
}

func TestRound3(t *testing.T) {
	assert.Equal(t, 0.123, Round3(0.1234))
	assert.Equal(t, 0.124, Round3(0.1235))
	assert.Equal(t, 1.0, Round3(0.9999))
}

func TestScoreHits_PartitionsAndSorts(t *testing.T) {
	hits := []index.SearchHit{
		{ID: "a", Score: 0.84, Payload: map[string]any{"question_rag_name": "cara mendaftar bpjs kesehatan"}},
		{ID: "b", Score: 0.95, Payload: map[string]any{"question_rag_name": "cara membuat ktp baru"}},
		{ID: "c", Score: 0.60, Payload: map[string]any{"question_rag_name": "jadwal posyandu"}},
	}

	accepted, rejected := scoreHits("cara membuat ktp", hits, false)
	// only the 0.95 hit clears a tier without judge help
	assert.Len(t, accepted, 1)
	assert.Equal(t, "b", accepted[0].Entry.ID)
	assert.Equal(t, domain.NoteAutoAcceptedByDense, accepted[0].Note)

	assert.Len(t, rejected, 2)
	assert.GreaterOrEqual(t, rejected[0].FinalScore, rejected[1].FinalScore)
	for _, r := range rejected {
		assert.Equal(t, domain.NoteRejected, r.Note)
		assert.False(t, r.Accepted)
	}
}

func TestPayloadString_ToleratesNumbers(t *testing.T) {
	p := map[string]any{"answer_id": float64(42), "question": "teks", "category_id": nil}
	assert.Equal(t, "42", payloadString(p, "answer_id"))
	assert.Equal(t, "teks", payloadString(p, "question"))
	assert.Equal(t, "", payloadString(p, "category_id"))
	assert.Equal(t, "", payloadString(p, "missing"))
}
