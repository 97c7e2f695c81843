package models

// Pagination accompanies list responses when the upstream pages results.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// TrendPoint is one day of the dashboard ticket trend.
type TrendPoint struct {
	Date  string `json:"date" yaml:"date"`
	Count int    `json:"count" yaml:"count"`
}

// DashboardStats are the headline numbers on the dashboard.
type DashboardStats struct {
	TotalTickets    int          `json:"totalTickets" yaml:"totalTickets"`
	OpenTickets     int          `json:"openTickets" yaml:"openTickets"`
	ResolvedToday   int          `json:"resolvedToday" yaml:"resolvedToday"`
	AvgResponseTime float64      `json:"avgResponseTime" yaml:"avgResponseTime"`
	TicketTrend     []TrendPoint `json:"ticketTrend" yaml:"ticketTrend"`
}

// VolumePoint is one period of ticket volume.
type VolumePoint struct {
	Month    string `json:"month" yaml:"month"`
	Tickets  int    `json:"tickets" yaml:"tickets"`
	Resolved int    `json:"resolved" yaml:"resolved"`
}

// TicketVolume is created vs. resolved tickets per period.
type TicketVolume struct {
	Period string        `json:"period" yaml:"period"`
	Data   []VolumePoint `json:"data" yaml:"data"`
}

// ResponseTimePoint is the average first response time in hours.
type ResponseTimePoint struct {
	Month   string  `json:"month" yaml:"month"`
	AvgTime float64 `json:"avgTime" yaml:"avgTime"`
}

// ResponseTime is the response time series.
type ResponseTime struct {
	Data []ResponseTimePoint `json:"data" yaml:"data"`
}

// ResolutionRate is the share of resolved tickets, overall and per priority.
type ResolutionRate struct {
	Overall    float64                    `json:"overall" yaml:"overall"`
	ByPriority map[TicketPriority]float64 `json:"byPriority" yaml:"byPriority"`
}

// SatisfactionLevel is one bucket of the satisfaction distribution.
type SatisfactionLevel struct {
	Level      string  `json:"level" yaml:"level"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
	Color      string  `json:"color,omitempty" yaml:"color,omitempty"`
}

// SatisfactionTrendPoint is the monthly satisfaction score.
type SatisfactionTrendPoint struct {
	Month string  `json:"month" yaml:"month"`
	Score float64 `json:"score" yaml:"score"`
}

// Satisfaction is the customer satisfaction report.
type Satisfaction struct {
	Score        float64                  `json:"score" yaml:"score"`
	Distribution []SatisfactionLevel      `json:"distribution" yaml:"distribution"`
	Trend        []SatisfactionTrendPoint `json:"trend" yaml:"trend"`
}

// ChannelShare is the share of tickets arriving through one channel.
type ChannelShare struct {
	Channel    string  `json:"channel" yaml:"channel"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
	Count      int     `json:"count" yaml:"count"`
}

// Channels is the channel breakdown report.
type Channels struct {
	Data []ChannelShare `json:"data" yaml:"data"`
}

// AgentPerformanceRow is one support agent's numbers.
type AgentPerformanceRow struct {
	AgentID         string  `json:"agentId" yaml:"agentId"`
	Name            string  `json:"name" yaml:"name"`
	TicketsResolved int     `json:"ticketsResolved" yaml:"ticketsResolved"`
	AvgResponseTime float64 `json:"avgResponseTime" yaml:"avgResponseTime"`
	Satisfaction    float64 `json:"satisfaction" yaml:"satisfaction"`
}

// AgentPerformance is the per-agent performance report.
type AgentPerformance struct {
	Data []AgentPerformanceRow `json:"data" yaml:"data"`
}

// RecentTicket is a dashboard row for a recently touched ticket.
type RecentTicket struct {
	ID       string         `json:"id" yaml:"id"`
	Subject  string         `json:"subject" yaml:"subject"`
	Customer string         `json:"customer" yaml:"customer"`
	Status   TicketStatus   `json:"status" yaml:"status"`
	Priority TicketPriority `json:"priority" yaml:"priority"`
	Time     string         `json:"time" yaml:"time"`
}

// CategoryShare is one slice of the dashboard ticket category breakdown.
type CategoryShare struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
}
