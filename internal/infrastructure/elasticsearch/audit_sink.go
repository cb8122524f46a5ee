package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/go-auth-service/internal/application"
)

// AuditSink indexes authentication audit events, one document per event.
type AuditSink struct {
	client  *es.Client
	index   string
	timeout time.Duration
}

func NewAuditSink(client *es.Client, index string) *AuditSink {
	return &AuditSink{client: client, index: index, timeout: 3 * time.Second}
}

// Record indexes ev. Documents get server-assigned ids.
func (s *AuditSink) Record(ctx context.Context, ev application.AuditEvent) error {
	if s == nil || s.client == nil || s.index == "" {
		return nil
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: s.index, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	res, err := req.Do(c, s.client)
	if err != nil {
		return fmt.Errorf("es index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

var _ application.AuditSink = (*AuditSink)(nil)
