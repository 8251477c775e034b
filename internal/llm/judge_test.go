package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockChat struct {
	content string
	err     error
	system  string
	user    string
}

func (m *mockChat) ChatCompletion(_ context.Context, system, user string, _, _ float32, _ int) (string, error) {
	m.system = system
	m.user = user
	if m.err != nil {
		return "", m.err
	}
	return m.content, nil
}

type mapPromptStore map[string]string

func (m mapPromptStore) Get(_ context.Context, name string) (string, error) {
	return m[name], nil
}

func TestCheckRelevance_ParsesVerdict(t *testing.T) {
	chat := &mockChat{content: `{"relevant": false, "reason": "topik berbeda", "reformulated_question": "bagaimana cara membuat kartu kuning?"}`}
	j := NewJudge(chat, nil, 0)

	res := j.CheckRelevance(context.Background(), "cara membuat ktp", "beasiswa siswa berprestasi")
	assert.False(t, res.Relevant)
	assert.Equal(t, "topik berbeda", res.Reason)
	assert.Equal(t, "bagaimana cara membuat kartu kuning?", res.Reformulated)
	assert.False(t, res.Degraded)
}

func TestCheckRelevance_WrappedJSON(t *testing.T) {
	chat := &mockChat{content: "Berikut penilaiannya:\n```json\n{\"relevant\": true, \"reason\": \"topik sama\"}\n```"}
	j := NewJudge(chat, nil, 0)

	res := j.CheckRelevance(context.Background(), "cara membuat ktp", "prosedur penerbitan ktp")
	assert.True(t, res.Relevant)
	assert.Equal(t, "topik sama", res.Reason)
}

func TestCheckRelevance_FailureDefaultsToRelevant(t *testing.T) {
	chat := &mockChat{err: errors.New("upstream timeout")}
	j := NewJudge(chat, nil, 0)

	res := j.CheckRelevance(context.Background(), "cara membuat ktp", "prosedur penerbitan ktp")
	assert.True(t, res.Relevant)
	assert.True(t, res.Degraded)
}

func TestCheckRelevance_GarbageDefaultsToRelevant(t *testing.T) {
	chat := &mockChat{content: "maaf, saya tidak bisa menilai itu"}
	j := NewJudge(chat, nil, 0)

	res := j.CheckRelevance(context.Background(), "q", "r")
	assert.True(t, res.Relevant)
	assert.True(t, res.Degraded)
}

func TestCheckRelevance_TruncatesReformulationTo12Words(t *testing.T) {
	long := strings.Repeat("kata ", 20)
	chat := &mockChat{content: `{"relevant": false, "reason": "-", "reformulated_question": "` + strings.TrimSpace(long) + `"}`}
	j := NewJudge(chat, nil, 0)

	res := j.CheckRelevance(context.Background(), "q", "r")
	words := strings.Fields(strings.TrimSuffix(res.Reformulated, "..."))
	assert.Len(t, words, 12)
	assert.True(t, strings.HasSuffix(res.Reformulated, "..."))
}

func TestCheckRelevance_UsesPromptOverride(t *testing.T) {
	chat := &mockChat{content: `{"relevant": true, "reason": "-"}`}
	store := mapPromptStore{VarRelevanceRAG: "prompt khusus operator"}
	j := NewJudge(chat, store, 0)

	j.CheckRelevance(context.Background(), "q", "r")
	assert.Equal(t, "prompt khusus operator", chat.system)
}

func TestCheckTopic_NoReformulation(t *testing.T) {
	chat := &mockChat{content: `{"relevant": false, "reason": "konteks berbeda total"}`}
	j := NewJudge(chat, nil, 0)

	res := j.CheckTopic(context.Background(), "pengurusan ktp", "beasiswa pelajar")
	assert.False(t, res.Relevant)
	assert.Empty(t, res.Reformulated)
}

func TestPreFilter_ParsesVerdict(t *testing.T) {
	chat := &mockChat{content: `{"valid": false, "reason": "Topik membahas daerah lain (Jakarta)", "clean_question": "Bagaimana cara membuat kartu kuning di Jakarta?"}`}
	p := NewPreFilter(chat, nil, 0)

	res := p.Check(context.Background(), "gmn cara bikin kartu kuning di jakarta??")
	assert.False(t, res.Valid)
	assert.Contains(t, res.Reason, "Jakarta")
}

func TestPreFilter_FailurePassesThrough(t *testing.T) {
	chat := &mockChat{err: errors.New("connection refused")}
	p := NewPreFilter(chat, nil, 0)

	res := p.Check(context.Background(), "cara membuat ktp")
	assert.True(t, res.Valid)
	assert.True(t, res.Degraded)
	assert.Equal(t, "cara membuat ktp", res.CleanQuestion)
}

func TestPreFilter_EmptyCleanQuestionKeepsOriginal(t *testing.T) {
	chat := &mockChat{content: `{"valid": true, "reason": "ok", "clean_question": ""}`}
	p := NewPreFilter(chat, nil, 0)

	res := p.Check(context.Background(), "cara membuat ktp")
	assert.Equal(t, "cara membuat ktp", res.CleanQuestion)
}

func TestReformulate_ReturnsCleanRequest(t *testing.T) {
	chat := &mockChat{content: `{"clean_request": "pembuatan Kartu Tanda Penduduk atau KTP"}`}
	r := NewReformulator(chat, nil, 0)

	got := r.Reformulate(context.Background(), "saya mau urus ktp")
	assert.Equal(t, "pembuatan Kartu Tanda Penduduk atau KTP", got)
}

func TestReformulate_FailureReturnsOriginal(t *testing.T) {
	chat := &mockChat{err: errors.New("timeout")}
	r := NewReformulator(chat, nil, 0)

	got := r.Reformulate(context.Background(), "saya mau urus ktp")
	assert.Equal(t, "saya mau urus ktp", got)
}

func TestSummarize_UsesModelOutput(t *testing.T) {
	chat := &mockChat{content: "Ringkasan singkat dokumen."}
	s := NewSummarizer(chat, 0)

	got := s.Summarize(context.Background(), strings.Repeat("isi dokumen ", 100))
	assert.Equal(t, "Ringkasan singkat dokumen.", got)
}

func TestSummarize_FallbackTruncates(t *testing.T) {
	chat := &mockChat{err: errors.New("rate limited")}
	s := NewSummarizer(chat, 0)

	long := strings.Repeat("a", 1000)
	got := s.Summarize(context.Background(), long)
	require.True(t, strings.HasSuffix(got, "..."))
	assert.Len(t, got, 350+3)
}

func TestSummarize_CapsInputAt4000Chars(t *testing.T) {
	chat := &mockChat{content: "ok"}
	s := NewSummarizer(chat, 0)

	s.Summarize(context.Background(), strings.Repeat("b", 10000))
	assert.LessOrEqual(t, len(chat.user), 4200)
}

func TestExtractFirstJSON_NoObject(t *testing.T) {
	var out map[string]any
	err := ExtractFirstJSON("tidak ada json di sini", &out)
	assert.Error(t, err)
}
