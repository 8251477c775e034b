package ocr

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReader struct {
	mu        sync.Mutex
	pageCount int
	countErr  error
	failPages map[int]bool
	calls     []int
}

func (m *mockReader) PageCount(context.Context, string) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.pageCount, nil
}

func (m *mockReader) ExtractPage(_ context.Context, _ string, page int) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, page)
	m.mu.Unlock()
	if m.failPages[page] {
		return "", errors.New("render failed")
	}
	return fmt.Sprintf("isi halaman %d", page), nil
}

func TestExtractPages_AllPagesPresent(t *testing.T) {
	reader := &mockReader{pageCount: 3}
	e, err := NewExtractor(reader, WithPoolSize(2))
	require.NoError(t, err)
	defer e.Release()

	pages, err := e.ExtractPages(context.Background(), "/tmp/perda.pdf")
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, "isi halaman 1", pages[1])
	assert.Equal(t, "isi halaman 2", pages[2])
	assert.Equal(t, "isi halaman 3", pages[3])
	assert.Len(t, reader.calls, 3)
}

func TestExtractPages_FailedPageBecomesEmpty(t *testing.T) {
	reader := &mockReader{pageCount: 3, failPages: map[int]bool{2: true}}
	e, err := NewExtractor(reader, WithPoolSize(2))
	require.NoError(t, err)
	defer e.Release()

	pages, err := e.ExtractPages(context.Background(), "/tmp/perda.pdf")
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, "isi halaman 1", pages[1])
	assert.Equal(t, "", pages[2])
	assert.Equal(t, "isi halaman 3", pages[3])
}

func TestExtractPages_PageCountError(t *testing.T) {
	reader := &mockReader{countErr: errors.New("sidecar down")}
	e, err := NewExtractor(reader)
	require.NoError(t, err)
	defer e.Release()

	_, err = e.ExtractPages(context.Background(), "/tmp/perda.pdf")
	assert.Error(t, err)
}

func TestExtractText_JoinsInPageOrder(t *testing.T) {
	reader := &mockReader{pageCount: 3, failPages: map[int]bool{2: true}}
	e, err := NewExtractor(reader, WithPoolSize(3))
	require.NoError(t, err)
	defer e.Release()

	full, total, err := e.ExtractText(context.Background(), "/tmp/perda.pdf")
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, "isi halaman 1\n\nisi halaman 3", full)
}

func TestExtractText_AllPagesEmpty(t *testing.T) {
	reader := &mockReader{pageCount: 2, failPages: map[int]bool{1: true, 2: true}}
	e, err := NewExtractor(reader)
	require.NoError(t, err)
	defer e.Release()

	_, _, err = e.ExtractText(context.Background(), "/tmp/kosong.pdf")
	assert.Error(t, err)
}
