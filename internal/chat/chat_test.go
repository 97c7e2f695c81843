package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gotrs-io/gotrs-console/internal/apiclient"
	"github.com/gotrs-io/gotrs-console/internal/models"
)

type fakeUpstream struct {
	reply    string
	err      error
	requests []models.ChatRequest
}

func (f *fakeUpstream) Chat(_ context.Context, _ string, request models.ChatRequest) (*models.ChatResponse, error) {
	f.requests = append(f.requests, request)
	if f.err != nil {
		return nil, f.err
	}
	return &models.ChatResponse{Response: f.reply}, nil
}

var supportBot = models.AIAgent{
	ID:          "1",
	Name:        "Customer Support Bot",
	Description: "Handles general customer inquiries and basic support",
}

func newService(upstream Upstream) *Service {
	sim := NewSimulator(map[string][]string{
		"Customer Support Bot": {"Let me help you with that."},
	}, "I apologize, but I did not understand your message. Could you please rephrase?", 0, 0)
	return NewService(upstream, sim, nil)
}

func TestOpenStartsWithWelcome(t *testing.T) {
	svc := newService(&fakeUpstream{})
	book := NewBook()

	conv := svc.Open(book, supportBot)
	msgs := conv.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, models.ChatRoleBot, msgs[0].Role)
	assert.Equal(t,
		"Hello! I'm Customer Support Bot. Handles general customer inquiries and basic support How can I assist you today?",
		msgs[0].Content)
	assert.NotEmpty(t, msgs[0].ID)

	assert.Same(t, conv, svc.Open(book, supportBot))
	assert.NotSame(t, conv, svc.Restart(book, supportBot))
}

func TestSendUsesUpstream(t *testing.T) {
	upstream := &fakeUpstream{reply: "Your order shipped."}
	svc := newService(upstream)
	conv := svc.Open(NewBook(), supportBot)

	user, reply, err := svc.Send(context.Background(), supportBot, conv, "  where is my order? ")
	require.NoError(t, err)
	assert.Equal(t, "where is my order?", user.Content)
	assert.Equal(t, "Your order shipped.", reply.Content)
	assert.Len(t, conv.Messages(), 3)

	_, _, err = svc.Send(context.Background(), supportBot, conv, "thanks")
	require.NoError(t, err)
	require.Len(t, upstream.requests, 2)
	assert.Empty(t, upstream.requests[0].ConversationHistory, "welcome line is not sent upstream")
	assert.Equal(t, []models.ChatTurn{
		{Role: "user", Content: "where is my order?"},
		{Role: "assistant", Content: "Your order shipped."},
	}, upstream.requests[1].ConversationHistory)
}

func TestSendFallsBackToSimulator(t *testing.T) {
	svc := newService(&fakeUpstream{err: &apiclient.NetworkError{Operation: "POST", Err: errors.New("refused")}})
	book := NewBook()

	_, reply, err := svc.Send(context.Background(), supportBot, svc.Open(book, supportBot), "hi")
	require.NoError(t, err)
	assert.Equal(t, "Let me help you with that.", reply.Content)

	unknown := models.AIAgent{ID: "9", Name: "Night Shift"}
	_, reply, err = svc.Send(context.Background(), unknown, svc.Open(book, unknown), "hi")
	require.NoError(t, err)
	assert.Equal(t, "I apologize, but I did not understand your message. Could you please rephrase?", reply.Content)
}

func TestSendPropagatesUnauthorized(t *testing.T) {
	svc := newService(&fakeUpstream{err: apiclient.ErrUnauthorized})
	conv := svc.Open(NewBook(), supportBot)

	_, _, err := svc.Send(context.Background(), supportBot, conv, "hi")
	assert.True(t, apiclient.IsUnauthorized(err))
	assert.Len(t, conv.Messages(), 2, "no bot reply after a 401")
}

func TestSendRejectsBlank(t *testing.T) {
	svc := newService(&fakeUpstream{})
	conv := svc.Open(NewBook(), supportBot)
	_, _, err := svc.Send(context.Background(), supportBot, conv, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Len(t, conv.Messages(), 1)
}

func TestSimulatorHonoursCancellation(t *testing.T) {
	sim := NewSimulator(nil, "sorry", time.Hour, 2*time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := sim.Reply(ctx, "anyone")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSimulatorDelayWithinBounds(t *testing.T) {
	sim := NewSimulator(nil, "sorry", time.Second, 2*time.Second)
	for i := 0; i < 50; i++ {
		_, delay := sim.pick("x")
		assert.GreaterOrEqual(t, delay, time.Second)
		assert.Less(t, delay, 2*time.Second)
	}
}
