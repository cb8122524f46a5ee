package elasticsearch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-auth-service/internal/application"
)

type fakeES struct {
	mu     sync.Mutex
	paths  []string
	bodies []map[string]any
	status int
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, _ := io.ReadAll(r.Body)
	var doc map[string]any
	_ = json.Unmarshal(b, &doc)
	f.paths = append(f.paths, r.Method+" "+r.URL.Path)
	f.bodies = append(f.bodies, doc)

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.status)
	_, _ = w.Write([]byte(`{"_id":"1","result":"created"}`))
}

func newSink(t *testing.T, status int) (*AuditSink, *fakeES) {
	t.Helper()
	fake := &fakeES{status: status}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := es.NewClient(es.Config{Addresses: []string{srv.URL}, DisableRetry: true})
	require.NoError(t, err)
	return NewAuditSink(client, "auth-audit"), fake
}

func TestAuditSink_Record(t *testing.T) {
	sink, fake := newSink(t, http.StatusCreated)

	err := sink.Record(context.Background(), application.AuditEvent{
		Action:     application.ActionLoginRejected,
		Email:      "ada@x.com",
		Reason:     "wrong_password",
		IP:         "10.0.0.1",
		OccurredAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.Len(t, fake.paths, 1)
	assert.Equal(t, "POST /auth-audit/_doc", fake.paths[0])
	assert.Equal(t, "login_rejected", fake.bodies[0]["action"])
	assert.Equal(t, "wrong_password", fake.bodies[0]["reason"])
	assert.Equal(t, "2026-01-01T00:00:00Z", fake.bodies[0]["occurred_at"])
	assert.NotContains(t, fake.bodies[0], "user_id")
}

func TestAuditSink_ErrorStatus(t *testing.T) {
	sink, _ := newSink(t, http.StatusServiceUnavailable)
	err := sink.Record(context.Background(), application.AuditEvent{Action: application.ActionLogin})
	assert.Error(t, err)
}

func TestAuditSink_Unconfigured(t *testing.T) {
	var sink *AuditSink
	assert.NoError(t, sink.Record(context.Background(), application.AuditEvent{}))
	assert.NoError(t, NewAuditSink(nil, "idx").Record(context.Background(), application.AuditEvent{}))
}
