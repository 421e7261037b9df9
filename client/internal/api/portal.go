package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/techsbuilds/pgsphere-customer/client/internal/types"
)

// Login signs a tenant in. It does not require an existing session.
func Login(ctx context.Context, httpClient types.HTTPClient, baseURL string, req types.LoginRequest) (*types.Session, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.UserType = types.CustomerUserType
	var s types.Session
	if err := doEnvelope(ctx, httpClient, http.MethodPost, baseURL+"/api/auth/customer/sign-in", "login", req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// VerifySignupToken resolves a signup invitation token to the branch it was
// issued for.
func VerifySignupToken(ctx context.Context, httpClient types.HTTPClient, baseURL, token string) (*types.SignupInvite, error) {
	if err := types.ValidateRequired(token, "token"); err != nil {
		return nil, err
	}
	var inv types.SignupInvite
	u := fmt.Sprintf("%s/api/auth/verify/customer/signup/%s", baseURL, url.PathEscape(token))
	if err := doEnvelope(ctx, httpClient, http.MethodGet, u, "verify signup token", nil, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetDashboardStats returns the tenant's dashboard counters.
func GetDashboardStats(ctx context.Context, httpClient types.HTTPClient, baseURL string) (*types.DashboardStats, error) {
	var s types.DashboardStats
	if err := doEnvelope(ctx, httpClient, http.MethodGet, baseURL+"/api/customer/dashboard/me", "get dashboard stats", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListDailyUpdates returns the announcements for the tenant's branch.
func ListDailyUpdates(ctx context.Context, httpClient types.HTTPClient, baseURL string) ([]types.DailyUpdate, error) {
	updates := []types.DailyUpdate{}
	if err := doEnvelope(ctx, httpClient, http.MethodGet, baseURL+"/api/dailyupdate/customer", "list daily updates", nil, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// ListComplaints returns the complaints the tenant has raised.
func ListComplaints(ctx context.Context, httpClient types.HTTPClient, baseURL string) ([]types.Complaint, error) {
	complaints := []types.Complaint{}
	if err := doEnvelope(ctx, httpClient, http.MethodGet, baseURL+"/api/complaint/customer", "list complaints", nil, &complaints); err != nil {
		return nil, err
	}
	return complaints, nil
}

// SubmitComplaint raises a new complaint.
func SubmitComplaint(ctx context.Context, httpClient types.HTTPClient, baseURL string, req types.SubmitComplaintRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return doEnvelope(ctx, httpClient, http.MethodPost, baseURL+"/api/complaint", "submit complaint", req, nil)
}

// ListRentPayments returns the tenant's month-by-month rent ledger.
func ListRentPayments(ctx context.Context, httpClient types.HTTPClient, baseURL string) (*types.RentLedger, error) {
	var l types.RentLedger
	if err := doEnvelope(ctx, httpClient, http.MethodGet, baseURL+"/api/customer/me/rent-list", "list rent payments", nil, &l); err != nil {
		return nil, err
	}
	if l.RentList == nil {
		l.RentList = []types.RentPayment{}
	}
	return &l, nil
}

// GetProfile returns the tenant's profile with room and branch details.
func GetProfile(ctx context.Context, httpClient types.HTTPClient, baseURL string) (*types.CustomerProfile, error) {
	var p types.CustomerProfile
	if err := doEnvelope(ctx, httpClient, http.MethodGet, baseURL+"/api/customer/me", "get profile", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile changes the tenant's name, mobile and email.
func UpdateProfile(ctx context.Context, httpClient types.HTTPClient, baseURL string, req types.UpdateProfileRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return doEnvelope(ctx, httpClient, http.MethodPut, baseURL+"/api/customer/me", "update profile", req, nil)
}
