package sitesage_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	sitesage "github.com/sitesage/sitesage"
	"github.com/sitesage/sitesage/pkg/graph"
	"github.com/sitesage/sitesage/pkg/passage"
	"github.com/sitesage/sitesage/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbedder struct {
	calls  atomic.Int64
	vector []float32
	err    error
}

func (s *stubEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = s.vector
	}
	return out, nil
}

func (s *stubEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	s.calls.Add(1)
	return s.vector, s.err
}

func (s *stubEmbedder) Dimensions() int { return len(s.vector) }
func (s *stubEmbedder) Close() error    { return nil }

type stubIndex struct {
	calls     atomic.Int64
	neighbors []types.Neighbor
	err       error
}

func (s *stubIndex) FindNeighbors(ctx context.Context, vector []float32, k int) ([]types.Neighbor, error) {
	s.calls.Add(1)
	return s.neighbors, s.err
}

type stubExtractor struct {
	calls    atomic.Int64
	mentions map[string][]types.Mention
	err      error
}

func (s *stubExtractor) Extract(ctx context.Context, text string) ([]types.Mention, []types.Triple, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, nil, s.err
	}
	return s.mentions[text], nil, nil
}

func (s *stubExtractor) Close() error { return nil }

type mapStore map[string]string

func (m mapStore) Get(id string) (string, error) {
	text, ok := m[id]
	if !ok {
		return "", fmt.Errorf("passage %q: %w", id, passage.ErrNotFound)
	}
	return text, nil
}

type stubGen struct {
	calls    atomic.Int64
	messages []types.Message
	content  string
	err      error
}

func (s *stubGen) Chat(ctx context.Context, messages []types.Message) (*types.Response, error) {
	s.calls.Add(1)
	s.messages = messages
	if s.err != nil {
		return nil, s.err
	}
	return &types.Response{Content: s.content}, nil
}

func (s *stubGen) Close() error { return nil }

type fixture struct {
	embedder  *stubEmbedder
	index     *stubIndex
	extractor *stubExtractor
	store     mapStore
	graph     *graph.MemoryDriver
	gen       *stubGen
	client    *sitesage.Client
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		embedder:  &stubEmbedder{vector: []float32{0.1, 0.2, 0.3}},
		index:     &stubIndex{},
		extractor: &stubExtractor{mentions: map[string][]types.Mention{}},
		store:     mapStore{},
		graph:     graph.NewMemoryDriver(),
		gen:       &stubGen{content: "generated answer"},
	}

	client, err := sitesage.NewClient(f.embedder, f.extractor, f.index, f.store, f.graph, f.gen, nil, nil)
	require.NoError(t, err)
	f.client = client
	return f
}

func TestBuildContextRejectsEmptyQuery(t *testing.T) {
	f := newFixture(t)

	for _, query := range []string{"", "   ", "\n\t"} {
		_, err := f.client.BuildContext(context.Background(), query)
		assert.ErrorIs(t, err, sitesage.ErrEmptyQuery)
	}

	assert.Zero(t, f.embedder.calls.Load(), "no embedding call for a blank query")
	assert.Zero(t, f.index.calls.Load(), "no search call for a blank query")
	assert.Zero(t, f.extractor.calls.Load())
}

func TestBuildContextEndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p1 := "Nestle makes KitKat. https://example.com/kitkat"
	p2 := "KitKat contains chocolate. https://example.com/kitkat"
	f.store["p1"] = p1
	f.store["p2"] = p2
	f.index.neighbors = []types.Neighbor{{ID: "p1", Score: 0.9}, {ID: "p2", Score: 0.8}}
	f.extractor.mentions[p1] = []types.Mention{{Text: "Nestle", Label: "ORG"}, {Text: "KitKat", Label: "PRODUCT"}}
	f.extractor.mentions[p2] = []types.Mention{{Text: "KitKat", Label: "PRODUCT"}}

	require.NoError(t, f.graph.UpsertRelation(ctx, "Nestle", "KitKat", "make", "https://example.com/kitkat"))
	require.NoError(t, f.graph.UpsertRelation(ctx, "KitKat", "chocolate", "contain", "https://example.com/kitkat"))

	gc, err := f.client.BuildContext(ctx, "Who makes KitKat?")
	require.NoError(t, err)

	assert.Equal(t, p1+"\n"+p2, gc.Passages, "passages joined in retrieval rank order")
	assert.Equal(t, "Nestle -[make]-> KitKat\nKitKat -[contain]-> chocolate", gc.Relations,
		"relations follow entity first-seen order")
	assert.EqualValues(t, 2, f.extractor.calls.Load(), "one extraction per passage")
}

func TestBuildContextMissingPassageFailsClosed(t *testing.T) {
	f := newFixture(t)
	f.store["p1"] = "known passage"
	f.index.neighbors = []types.Neighbor{{ID: "p1"}, {ID: "p404"}}

	_, err := f.client.BuildContext(context.Background(), "anything")
	require.Error(t, err)
	assert.ErrorIs(t, err, sitesage.ErrPassageMissing)
	assert.Contains(t, err.Error(), "p404")
}

type brokenStore struct{ err error }

func (s brokenStore) Get(id string) (string, error) { return "", s.err }

func TestBuildContextStoreFailureKeepsItsIdentity(t *testing.T) {
	f := newFixture(t)
	f.index.neighbors = []types.Neighbor{{ID: "p1"}}

	store := brokenStore{err: errors.New("disk read failed")}
	client, err := sitesage.NewClient(f.embedder, f.extractor, f.index, store, f.graph, f.gen, nil, nil)
	require.NoError(t, err)

	_, err = client.BuildContext(context.Background(), "anything")
	require.Error(t, err)
	assert.NotErrorIs(t, err, sitesage.ErrPassageMissing,
		"an infrastructure failure is not index/store drift")
	assert.Contains(t, err.Error(), "disk read failed")
}

func TestBuildContextSearchFailurePropagates(t *testing.T) {
	f := newFixture(t)
	f.index.err = errors.New("index unavailable")

	_, err := f.client.BuildContext(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vector search")
	assert.EqualValues(t, 1, f.index.calls.Load(), "no retry on search failure")
}

func TestBuildContextExpansionFailureIsFatal(t *testing.T) {
	f := newFixture(t)
	f.store["p1"] = "text"
	f.index.neighbors = []types.Neighbor{{ID: "p1"}}
	f.extractor.mentions["text"] = []types.Mention{{Text: "Nestle"}}

	failing := &failingDriver{}
	client, err := sitesage.NewClient(f.embedder, f.extractor, f.index, f.store, failing, f.gen, nil, nil)
	require.NoError(t, err)

	_, err = client.BuildContext(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `expand entity "Nestle"`)
}

type failingDriver struct {
	graph.MemoryDriver
}

func (d *failingDriver) OneHopOut(ctx context.Context, name string) ([]types.Triple, error) {
	return nil, errors.New("graph down")
}

func TestBuildContextManyEntitiesFanOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	text := "a dense passage"
	f.store["p1"] = text
	f.index.neighbors = []types.Neighbor{{ID: "p1"}}

	var mentions []types.Mention
	for i := 0; i < 50; i++ {
		name := fmt.Sprintf("entity-%02d", i)
		mentions = append(mentions, types.Mention{Text: name})
		require.NoError(t, f.graph.UpsertRelation(ctx, name, "hub", "link", "src"))
	}
	f.extractor.mentions[text] = mentions

	gc, err := f.client.BuildContext(ctx, "anything")
	require.NoError(t, err)

	var want string
	for i := 0; i < 50; i++ {
		if i > 0 {
			want += "\n"
		}
		want += fmt.Sprintf("entity-%02d -[link]-> hub", i)
	}
	assert.Equal(t, want, gc.Relations, "merge preserves entity order despite concurrent expansion")
}

func TestAnswerForwardsPromptVerbatim(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p1 := "Nestle makes KitKat. https://example.com/kitkat"
	f.store["p1"] = p1
	f.index.neighbors = []types.Neighbor{{ID: "p1"}}
	f.extractor.mentions[p1] = []types.Mention{{Text: "Nestle"}}
	require.NoError(t, f.graph.UpsertRelation(ctx, "Nestle", "KitKat", "make", "https://example.com/kitkat"))

	answer, err := f.client.Answer(ctx, "Who makes KitKat?")
	require.NoError(t, err)
	assert.Equal(t, "generated answer", answer)

	require.Len(t, f.gen.messages, 2)
	assert.Equal(t, types.RoleSystem, f.gen.messages[0].Role)
	user := f.gen.messages[1].Content
	assert.Contains(t, user, "### Information:\n"+p1)
	assert.Contains(t, user, "Nestle -[make]-> KitKat")
	assert.Contains(t, user, "### Query:\nWho makes KitKat?")
}

func TestAnswerEmptyQueryMakesNoGenerationCall(t *testing.T) {
	f := newFixture(t)

	_, err := f.client.Answer(context.Background(), "  ")
	assert.ErrorIs(t, err, sitesage.ErrEmptyQuery)
	assert.Zero(t, f.gen.calls.Load())
}

func TestAnswerGenerationFailurePropagates(t *testing.T) {
	f := newFixture(t)
	f.index.neighbors = nil
	f.gen.err = errors.New("model overloaded")

	_, err := f.client.Answer(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generate answer")
	assert.EqualValues(t, 1, f.gen.calls.Load(), "no retry on generation failure")
}
