package models

import "time"

// AgentStatus is the activation state of an AI agent.
type AgentStatus string

const (
	AgentStatusActive   AgentStatus = "active"
	AgentStatusInactive AgentStatus = "inactive"
)

// Toggled returns the opposite status.
func (s AgentStatus) Toggled() AgentStatus {
	if s == AgentStatusActive {
		return AgentStatusInactive
	}
	return AgentStatusActive
}

// AgentIntent is one intent an agent recognizes.
type AgentIntent struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Examples []string `json:"examples" yaml:"examples"`
	Response string   `json:"response" yaml:"response"`
}

// AIAgent is an automated support agent configuration.
type AIAgent struct {
	ID                 string        `json:"id" yaml:"id"`
	Name               string        `json:"name" yaml:"name"`
	Description        string        `json:"description" yaml:"description"`
	Status             AgentStatus   `json:"status" yaml:"status"`
	Intents            []AgentIntent `json:"intents" yaml:"intents"`
	KnowledgeBaseIDs   []string      `json:"knowledgeBaseIds" yaml:"knowledgeBaseIds"`
	TotalConversations int           `json:"totalConversations" yaml:"totalConversations"`
	Model              string        `json:"model" yaml:"model"`
	Temperature        float64       `json:"temperature" yaml:"temperature"`
	CreatedAt          Timestamp     `json:"createdAt" yaml:"createdAt"`
	UpdatedAt          Timestamp     `json:"updatedAt" yaml:"updatedAt"`
}

// GetID returns the agent id.
func (a AIAgent) GetID() string { return a.ID }

// IsActive reports whether the agent is enabled.
func (a AIAgent) IsActive() bool { return a.Status == AgentStatusActive }

// AgentCreateRequest is the payload for creating an agent.
type AgentCreateRequest struct {
	Name             string        `json:"name"`
	Description      string        `json:"description"`
	Status           AgentStatus   `json:"status,omitempty"`
	Intents          []AgentIntent `json:"intents,omitempty"`
	KnowledgeBaseIDs []string      `json:"knowledgeBaseIds,omitempty"`
	Model            string        `json:"model,omitempty"`
	Temperature      *float64      `json:"temperature,omitempty"`
}

// AgentUpdateRequest is the partial payload for updating an agent.
type AgentUpdateRequest struct {
	Name             *string       `json:"name,omitempty"`
	Description      *string       `json:"description,omitempty"`
	Status           *AgentStatus  `json:"status,omitempty"`
	Intents          []AgentIntent `json:"intents,omitempty"`
	KnowledgeBaseIDs []string      `json:"knowledgeBaseIds,omitempty"`
	Model            *string       `json:"model,omitempty"`
	Temperature      *float64      `json:"temperature,omitempty"`
}

// AgentListResponse is the list envelope for agents.
type AgentListResponse struct {
	Data []AIAgent `json:"data"`
}

// ChatTurn is one entry of conversation history sent upstream.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a test-chat message for an agent.
type ChatRequest struct {
	Message             string     `json:"message"`
	ConversationHistory []ChatTurn `json:"conversationHistory,omitempty"`
}

// ChatResponse is an agent reply.
type ChatResponse struct {
	Response  string    `json:"response"`
	Agent     string    `json:"agent"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatRole is the author of a test-chat message.
type ChatRole string

const (
	ChatRoleUser ChatRole = "user"
	ChatRoleBot  ChatRole = "bot"
)

// ChatMessage is one line of an agent test chat as the console shows it.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      ChatRole  `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
