package services

import (
	"context"
	"fmt"

	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/core/domain"
	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbedder implements driven.EmbeddingService for testing. Vectors are
// deterministic: one float per text, increasing with call order.
type mockEmbedder struct {
	dimensions int
	embedErr   error
	batchErr   error

	embedCalls []string
	batchCalls [][]string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	m.embedCalls = append(m.embedCalls, text)
	return []float32{0.1, 0.2}, nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	m.batchCalls = append(m.batchCalls, texts)
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{float32(i)}
	}
	return vectors, nil
}

func (m *mockEmbedder) Dimensions() int {
	if m.dimensions != 0 {
		return m.dimensions
	}
	return 1536
}

func (m *mockEmbedder) ModelName() string { return "mock-embedding" }

// mockVectorStore implements driven.VectorStore for testing. failBatchOver
// makes Upsert fail for any slice longer than one point; failPointIDs makes
// single-point upserts for those IDs fail too.
type mockVectorStore struct {
	hits     []driven.ScoredPoint
	queryErr error

	recreateErr error
	indexErr    error
	upsertErr   error

	failBatchOver int
	failPointIDs  map[string]bool

	recreatedDim  int
	indexedFields []string
	upserts       [][]domain.IndexPoint
	queryOpts     []driven.QueryOptions
}

func (m *mockVectorStore) RecreateCollection(_ context.Context, dimension int) error {
	if m.recreateErr != nil {
		return m.recreateErr
	}
	m.recreatedDim = dimension
	return nil
}

func (m *mockVectorStore) CreatePayloadIndex(_ context.Context, field string) error {
	if m.indexErr != nil {
		return m.indexErr
	}
	m.indexedFields = append(m.indexedFields, field)
	return nil
}

func (m *mockVectorStore) Upsert(_ context.Context, points []domain.IndexPoint) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	if m.failBatchOver > 0 && len(points) > m.failBatchOver {
		return fmt.Errorf("batch too large")
	}
	if len(points) == 1 && m.failPointIDs[points[0].ID] {
		return fmt.Errorf("point rejected")
	}
	m.upserts = append(m.upserts, points)
	return nil
}

func (m *mockVectorStore) Query(_ context.Context, _ []float32, opts driven.QueryOptions) ([]driven.ScoredPoint, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	m.queryOpts = append(m.queryOpts, opts)
	if opts.TopK < len(m.hits) {
		return m.hits[:opts.TopK], nil
	}
	return m.hits, nil
}

func (m *mockVectorStore) CollectionInfo(_ context.Context) (driven.CollectionInfo, error) {
	var count int64
	for _, batch := range m.upserts {
		count += int64(len(batch))
	}
	return driven.CollectionInfo{PointCount: count, Status: "green"}, nil
}

// mockChatModel implements driven.ChatModel with a scripted sequence of
// responses. Each response's deltas are pushed through onDelta before the
// message is returned.
type mockChatModel struct {
	responses []scriptedResponse
	calls     [][]driven.ChatMessage
	toolDefs  [][]driven.ToolDef
	err       error
}

type scriptedResponse struct {
	deltas  []string
	message driven.ChatMessage
}

func (m *mockChatModel) StreamChat(_ context.Context, messages []driven.ChatMessage, tools []driven.ToolDef, onDelta func(string)) (driven.ChatMessage, error) {
	if m.err != nil {
		return driven.ChatMessage{}, m.err
	}
	m.calls = append(m.calls, messages)
	m.toolDefs = append(m.toolDefs, tools)
	if len(m.responses) == 0 {
		return driven.ChatMessage{Role: driven.RoleAssistant}, nil
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	for _, d := range resp.deltas {
		onDelta(d)
	}
	return resp.message, nil
}

// mockRetriever implements driving.RetrieverService for testing.
type mockRetriever struct {
	chunks []domain.RetrievedChunk
	err    error
	calls  []retrieveCall
}

type retrieveCall struct {
	query   string
	topK    int
	chapter string
}

func (m *mockRetriever) Retrieve(_ context.Context, query string, topK int, chapter string) ([]domain.RetrievedChunk, error) {
	m.calls = append(m.calls, retrieveCall{query: query, topK: topK, chapter: chapter})
	if m.err != nil {
		return nil, m.err
	}
	return m.chunks, nil
}

// mockClassifier implements driven.TopicClassifier for testing.
type mockClassifier struct {
	check driven.TopicCheck
	err   error
}

func (m *mockClassifier) Classify(_ context.Context, _ string) (driven.TopicCheck, error) {
	if m.err != nil {
		return driven.TopicCheck{}, m.err
	}
	return m.check, nil
}

// mockHistory implements driven.HistoryStore in memory.
type mockHistory struct {
	turns     map[string][]driven.Turn
	appendErr error
	recentErr error
}

func newMockHistory() *mockHistory {
	return &mockHistory{turns: map[string][]driven.Turn{}}
}

func (m *mockHistory) Append(_ context.Context, sessionID string, turn driven.Turn) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.turns[sessionID] = append(m.turns[sessionID], turn)
	return nil
}

func (m *mockHistory) Recent(_ context.Context, sessionID string, limit int) ([]driven.Turn, error) {
	if m.recentErr != nil {
		return nil, m.recentErr
	}
	turns := m.turns[sessionID]
	if len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	return turns, nil
}

func (m *mockHistory) Close() error { return nil }
