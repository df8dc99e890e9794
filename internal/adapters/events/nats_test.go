package events

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ipwatch/internal/platform/logging"
)

func TestEncode(t *testing.T) {
	at := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	b, err := encode(SubjectCaseAutoCreated, map[string]any{"caseId": "c1", "riskScore": 85}, at)
	require.NoError(t, err)
	assert.JSONEq(t, `{"subject":"ipwatch.cases.auto_created","occurredAt":"2026-10-01T12:00:00Z","data":{"caseId":"c1","riskScore":85}}`, string(b))

	_, err = encode("x", make(chan int), at)
	assert.Error(t, err)
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.Publish(context.Background(), "x", nil))
}

func TestNATSPublisher_RoundTrip(t *testing.T) {
	url := os.Getenv("TEST_NATS_URL")
	if url == "" {
		t.Skip("TEST_NATS_URL not set")
	}
	sub, err := nats.Connect(url)
	require.NoError(t, err)
	defer sub.Close()
	ch := make(chan *nats.Msg, 1)
	s, err := sub.ChanSubscribe(SubjectCaseAutoCreated, ch)
	require.NoError(t, err)
	defer func() { _ = s.Unsubscribe() }()
	require.NoError(t, sub.Flush())

	p, err := Connect(url, logging.Discard())
	require.NoError(t, err)
	defer p.Close()
	require.NoError(t, p.Publish(context.Background(), SubjectCaseAutoCreated, map[string]string{"caseId": "c1"}))

	select {
	case msg := <-ch:
		var env Envelope
		require.NoError(t, json.Unmarshal(msg.Data, &env))
		assert.Equal(t, SubjectCaseAutoCreated, env.Subject)
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}
