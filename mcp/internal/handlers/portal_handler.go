package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/techsbuilds/pgsphere-customer/client"
)

// PortalHandler exposes dashboard and complaint tools.
type PortalHandler struct {
	client *client.Client
}

func NewPortalHandler(c *client.Client) *PortalHandler { return &PortalHandler{client: c} }

func (ph *PortalHandler) RegisterTools(s *server.MCPServer) error {
	stats := mcp.NewTool("dashboard_stats",
		mcp.WithDescription("Get the tenant's dashboard counters: updates, complaints and pending rent"),
	)
	list := mcp.NewTool("list_complaints",
		mcp.WithDescription("List the tenant's complaints with their status"),
	)
	submit := mcp.NewTool("submit_complaint",
		mcp.WithDescription("Raise a complaint with the PG staff"),
		mcp.WithString("subject", mcp.Required(), mcp.Description("Short subject")),
		mcp.WithString("description", mcp.Required(), mcp.Description("What is wrong")),
		mcp.WithString("category", mcp.Required(), mcp.Description("Category, e.g. Plumbing, Electrical, Food")),
	)
	s.AddTool(stats, ph.handleDashboard)
	s.AddTool(list, ph.handleListComplaints)
	s.AddTool(submit, ph.handleSubmitComplaint)
	return nil
}

func (ph *PortalHandler) handleDashboard(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log.Debug().Msg("dashboard_stats invoked")

	st, err := ph.client.GetDashboardStats(ctx)
	if err != nil {
		log.Error().Err(err).Msg("dashboard_stats failed")
		return mcp.NewToolResultError(client.UserMessage(err)), nil
	}
	b, _ := json.Marshal(st)
	return mcp.NewToolResultText(string(b)), nil
}

func (ph *PortalHandler) handleListComplaints(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log.Debug().Msg("list_complaints invoked")

	start := time.Now()
	cs, err := ph.client.ListComplaints(ctx)
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Dur("elapsed", elapsed).Msg("list_complaints failed")
		return mcp.NewToolResultError(client.UserMessage(err)), nil
	}

	// reduce to what an assistant needs
	type lite struct {
		ID        string    `json:"id"`
		Subject   string    `json:"subject"`
		Category  string    `json:"category"`
		Status    string    `json:"status"`
		CreatedAt time.Time `json:"createdAt"`
	}
	out := make([]lite, len(cs))
	for i, c := range cs {
		out[i] = lite{ID: c.ID, Subject: c.Subject, Category: c.Category, Status: c.Status, CreatedAt: c.CreatedAt}
	}
	b, _ := json.Marshal(out)
	return mcp.NewToolResultText(string(b)), nil
}

func (ph *PortalHandler) handleSubmitComplaint(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	subject, _ := req.RequireString("subject")
	description, _ := req.RequireString("description")
	category, _ := req.RequireString("category")

	log.Debug().Str("subject", subject).Str("category", category).Msg("submit_complaint invoked")

	err := ph.client.SubmitComplaint(ctx, client.SubmitComplaintRequest{Subject: subject, Description: description, Category: category})
	if err != nil {
		log.Error().Err(err).Msg("submit_complaint failed")
		return mcp.NewToolResultError(client.UserMessage(err)), nil
	}
	return mcp.NewToolResultText(`{"message":"Complaint submitted"}`), nil
}
