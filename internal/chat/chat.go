// Package chat runs the AI agent test chat. Messages go to the upstream
// agent endpoint; when that fails the console answers from the agent's
// canned replies after a short typing delay.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gotrs-io/gotrs-console/internal/apiclient"
	"github.com/gotrs-io/gotrs-console/internal/metrics"
	"github.com/gotrs-io/gotrs-console/internal/models"
)

// ErrEmptyMessage is returned for blank input.
var ErrEmptyMessage = errors.New("chat message is empty")

// Upstream is the agent chat endpoint.
type Upstream interface {
	Chat(ctx context.Context, id string, request models.ChatRequest) (*models.ChatResponse, error)
}

// WelcomeText is the first bot line of every conversation.
func WelcomeText(agent models.AIAgent) string {
	return fmt.Sprintf("Hello! I'm %s. %s How can I assist you today?", agent.Name, agent.Description)
}

// Conversation is the message log of one agent test chat.
type Conversation struct {
	mu       sync.Mutex
	agentID  string
	messages []models.ChatMessage
}

// AgentID returns the agent the conversation talks to.
func (c *Conversation) AgentID() string { return c.agentID }

// Messages returns a copy of the log.
func (c *Conversation) Messages() []models.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.ChatMessage(nil), c.messages...)
}

func (c *Conversation) append(m models.ChatMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, m)
}

// history converts the log to upstream turns, skipping the welcome line.
func (c *Conversation) history() []models.ChatTurn {
	c.mu.Lock()
	defer c.mu.Unlock()
	turns := make([]models.ChatTurn, 0, len(c.messages))
	for i, m := range c.messages {
		if i == 0 && m.Role == models.ChatRoleBot {
			continue
		}
		role := "user"
		if m.Role == models.ChatRoleBot {
			role = "assistant"
		}
		turns = append(turns, models.ChatTurn{Role: role, Content: m.Content})
	}
	return turns
}

// Book holds one browser session's conversations by agent id.
type Book struct {
	mu    sync.Mutex
	convs map[string]*Conversation
}

// NewBook returns an empty book.
func NewBook() *Book {
	return &Book{convs: make(map[string]*Conversation)}
}

// Service sends messages and keeps conversations.
type Service struct {
	upstream Upstream
	sim      *Simulator
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// NewService wires the upstream endpoint and the local fallback.
func NewService(upstream Upstream, sim *Simulator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		upstream: upstream,
		sim:      sim,
		logger:   logger,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

func (s *Service) message(role models.ChatRole, content string) models.ChatMessage {
	return models.ChatMessage{ID: s.newID(), Role: role, Content: content, Timestamp: s.now()}
}

// Open returns the agent's conversation in book, starting it with the
// welcome line when absent.
func (s *Service) Open(book *Book, agent models.AIAgent) *Conversation {
	book.mu.Lock()
	defer book.mu.Unlock()
	if c, ok := book.convs[agent.ID]; ok {
		return c
	}
	return s.start(book, agent)
}

// Restart replaces the agent's conversation with a fresh one.
func (s *Service) Restart(book *Book, agent models.AIAgent) *Conversation {
	book.mu.Lock()
	defer book.mu.Unlock()
	return s.start(book, agent)
}

func (s *Service) start(book *Book, agent models.AIAgent) *Conversation {
	c := &Conversation{agentID: agent.ID}
	c.messages = []models.ChatMessage{s.message(models.ChatRoleBot, WelcomeText(agent))}
	book.convs[agent.ID] = c
	return c
}

// Send appends text as a user message and returns the user message and the
// bot reply. A 401 or a cancelled ctx is returned as is; any other upstream
// failure is answered by the simulator.
func (s *Service) Send(ctx context.Context, agent models.AIAgent, conv *Conversation, text string) (models.ChatMessage, models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.ChatMessage{}, models.ChatMessage{}, ErrEmptyMessage
	}

	history := conv.history()
	user := s.message(models.ChatRoleUser, text)
	conv.append(user)

	resp, err := s.upstream.Chat(ctx, agent.ID, models.ChatRequest{Message: text, ConversationHistory: history})
	var content string
	switch {
	case err == nil:
		content = resp.Response
	case apiclient.IsUnauthorized(err):
		return user, models.ChatMessage{}, err
	case ctx.Err() != nil:
		return user, models.ChatMessage{}, ctx.Err()
	default:
		s.logger.Info("agent chat unavailable, simulating reply",
			slog.String("agent", agent.ID),
			slog.String("kind", apiclient.Kind(err)),
			slog.Any("error", err))
		content, err = s.sim.Reply(ctx, agent.Name)
		if err != nil {
			return user, models.ChatMessage{}, err
		}
	}

	reply := s.message(models.ChatRoleBot, content)
	conv.append(reply)
	return user, reply, nil
}

// Simulator answers from canned per-agent replies.
type Simulator struct {
	responses map[string][]string
	fallback  string
	minDelay  time.Duration
	maxDelay  time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulator builds a simulator over responses keyed by agent name.
// Agents without replies get fallback.
func NewSimulator(responses map[string][]string, fallback string, minDelay, maxDelay time.Duration) *Simulator {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &Simulator{
		responses: responses,
		fallback:  fallback,
		minDelay:  minDelay,
		maxDelay:  maxDelay,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Reply waits the typing delay and returns a canned reply. It returns
// ctx.Err() when ctx ends first.
func (s *Simulator) Reply(ctx context.Context, agentName string) (string, error) {
	reply, delay := s.pick(agentName)

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return "", ctx.Err()
	}

	metrics.SimulatedReply()
	return reply, nil
}

func (s *Simulator) pick(agentName string) (string, time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delay := s.minDelay
	if span := s.maxDelay - s.minDelay; span > 0 {
		delay += time.Duration(s.rng.Int63n(int64(span)))
	}

	replies := s.responses[agentName]
	if len(replies) == 0 {
		return s.fallback, delay
	}
	return replies[s.rng.Intn(len(replies))], delay
}
