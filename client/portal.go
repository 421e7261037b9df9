package client

import (
	"context"

	"github.com/techsbuilds/pgsphere-customer/client/internal/api"
)

// --------------------------------------------------------------------
// Portal operations - delegated to internal/api
// --------------------------------------------------------------------

// GetDashboardStats returns the tenant's dashboard counters.
func (c *Client) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	s, err := api.GetDashboardStats(ctx, c.http, c.baseURL)
	if err != nil {
		return nil, wrapBackend("get dashboard stats", "Failed to fetch dashboard stats", err)
	}
	return s, nil
}

// ListDailyUpdates returns the announcements of the tenant's branch.
func (c *Client) ListDailyUpdates(ctx context.Context) ([]DailyUpdate, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	u, err := api.ListDailyUpdates(ctx, c.http, c.baseURL)
	if err != nil {
		return nil, wrapBackend("list daily updates", "Failed to fetch daily updates", err)
	}
	return u, nil
}

// ListComplaints returns the tenant's complaints.
func (c *Client) ListComplaints(ctx context.Context) ([]Complaint, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	cs, err := api.ListComplaints(ctx, c.http, c.baseURL)
	if err != nil {
		return nil, wrapBackend("list complaints", "Failed to fetch complaints", err)
	}
	return cs, nil
}

// SubmitComplaint raises a complaint. Subject, description and category are
// all required.
func (c *Client) SubmitComplaint(ctx context.Context, req SubmitComplaintRequest) error {
	if err := c.requireToken(); err != nil {
		return err
	}
	return wrapBackend("submit complaint", "Failed to submit complaint", api.SubmitComplaint(ctx, c.http, c.baseURL, req))
}

// ListRentPayments returns the tenant's rent ledger.
func (c *Client) ListRentPayments(ctx context.Context) (*RentLedger, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	l, err := api.ListRentPayments(ctx, c.http, c.baseURL)
	if err != nil {
		return nil, wrapBackend("list rent payments", "Failed to fetch rent payments", err)
	}
	return l, nil
}

// GetProfile returns the tenant's profile.
func (c *Client) GetProfile(ctx context.Context) (*CustomerProfile, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	p, err := api.GetProfile(ctx, c.http, c.baseURL)
	if err != nil {
		return nil, wrapBackend("get profile", "Failed to fetch customer profile", err)
	}
	return p, nil
}

// UpdateProfile changes the tenant's name, mobile and email.
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) error {
	if err := c.requireToken(); err != nil {
		return err
	}
	return wrapBackend("update profile", "Failed to update profile", api.UpdateProfile(ctx, c.http, c.baseURL, req))
}
