package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pemkomedan/rag-layanan/internal/domain"
	"github.com/pemkomedan/rag-layanan/internal/index"
)

type mockPassageEmbedder struct {
	single []string
	batch  [][]string
}

func (m *mockPassageEmbedder) EmbedPassage(_ context.Context, text string) ([]float32, error) {
	m.single = append(m.single, text)
	return []float32{1, 0}, nil
}

func (m *mockPassageEmbedder) EmbedPassages(_ context.Context, texts []string) ([][]float32, error) {
	m.batch = append(m.batch, texts)
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

type mockIndexWriter struct {
	ensured map[string]int
	upserts map[string][]index.Point
	deletes map[string][]string
}

func newMockIndexWriter() *mockIndexWriter {
	return &mockIndexWriter{
		ensured: map[string]int{},
		upserts: map[string][]index.Point{},
		deletes: map[string][]string{},
	}
}

func (m *mockIndexWriter) EnsureCollection(_ context.Context, name string, dim int) error {
	m.ensured[name] = dim
	return nil
}

func (m *mockIndexWriter) Upsert(_ context.Context, collection string, points []index.Point) error {
	m.upserts[collection] = append(m.upserts[collection], points...)
	return nil
}

func (m *mockIndexWriter) DeletePoints(_ context.Context, collection string, ids []string) error {
	m.deletes[collection] = append(m.deletes[collection], ids...)
	return nil
}

func newSync(emb *mockPassageEmbedder, w *mockIndexWriter) *SyncService {
	return NewSyncService(emb, w, "knowledge_bank", "usulan_bank")
}

func TestBulkSyncKnowledge(t *testing.T) {
	emb := &mockPassageEmbedder{}
	w := newMockIndexWriter()
	svc := newSync(emb, w)

	n, err := svc.BulkSyncKnowledge(context.Background(), []domain.KnowledgeEntry{
		{ID: "k1", QuestionID: "q1", QuestionText: "Bagaimana cara membuat KTP?", RAGText: "cara membuat ktp", AnswerID: "a1", CategoryID: "c1"},
		{ID: "k2", QuestionID: "q2", QuestionText: "Syarat KK baru?", RAGText: "syarat kartu keluarga baru", AnswerID: "a2", CategoryID: "c1"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.Len(t, emb.batch, 1)
	assert.Equal(t, []string{"cara membuat ktp", "syarat kartu keluarga baru"}, emb.batch[0])
	assert.Equal(t, 2, w.ensured["knowledge_bank"])

	points := w.upserts["knowledge_bank"]
	require.Len(t, points, 2)
	assert.Equal(t, "k1", points[0].ID)
	assert.Equal(t, "cara membuat ktp", points[0].Payload["question_rag_name"])
	assert.Equal(t, "a1", points[0].Payload["answer_id"])
}

func TestBulkSyncKnowledge_ValidationError(t *testing.T) {
	w := newMockIndexWriter()
	svc := newSync(&mockPassageEmbedder{}, w)

	_, err := svc.BulkSyncKnowledge(context.Background(), []domain.KnowledgeEntry{
		{ID: "", RAGText: "teks"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingEntryID)
	assert.Empty(t, w.upserts)
}

func TestUpsertKnowledge_IdempotentID(t *testing.T) {
	w := newMockIndexWriter()
	svc := newSync(&mockPassageEmbedder{}, w)

	entry := domain.KnowledgeEntry{ID: "k1", RAGText: "cara membuat ktp"}
	require.NoError(t, svc.UpsertKnowledge(context.Background(), entry))
	require.NoError(t, svc.UpsertKnowledge(context.Background(), entry))

	points := w.upserts["knowledge_bank"]
	require.Len(t, points, 2)
	// same entry id maps to the same point id both times
	assert.Equal(t, points[0].ID, points[1].ID)
}

func TestDeleteKnowledge(t *testing.T) {
	w := newMockIndexWriter()
	svc := newSync(&mockPassageEmbedder{}, w)

	require.NoError(t, svc.DeleteKnowledge(context.Background(), "k1"))
	assert.Equal(t, []string{"k1"}, w.deletes["knowledge_bank"])

	assert.ErrorIs(t, svc.DeleteKnowledge(context.Background(), ""), domain.ErrMissingEntryID)
}

func TestBulkSyncProposals(t *testing.T) {
	emb := &mockPassageEmbedder{}
	w := newMockIndexWriter()
	svc := newSync(emb, w)

	n, err := svc.BulkSyncProposals(context.Background(), []domain.ProposalEntry{
		{ID: "u1", RequestID: "r1", OrganizationID: "o1", RequestName: "Perbaikan jalan", RAGText: "pengaduan perbaikan jalan rusak"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	points := w.upserts["usulan_bank"]
	require.Len(t, points, 1)
	assert.Equal(t, "u1", points[0].ID)
	assert.Equal(t, "r1", points[0].Payload["request_id"])
	assert.Equal(t, "pengaduan perbaikan jalan rusak", points[0].Payload["request_rag_name"])
}

func TestUpsertAndDeleteProposal(t *testing.T) {
	w := newMockIndexWriter()
	svc := newSync(&mockPassageEmbedder{}, w)

	require.NoError(t, svc.UpsertProposal(context.Background(), domain.ProposalEntry{ID: "u1", RAGText: "usulan drainase"}))
	require.Len(t, w.upserts["usulan_bank"], 1)

	require.NoError(t, svc.DeleteProposal(context.Background(), "u1"))
	assert.Equal(t, []string{"u1"}, w.deletes["usulan_bank"])
}
