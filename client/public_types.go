package client

import "github.com/techsbuilds/pgsphere-customer/client/internal/types"

// Public type aliases so SDK consumers can import only the client package.
type (
	// Requests
	SubmitComplaintRequest = types.SubmitComplaintRequest
	UpdateProfileRequest   = types.UpdateProfileRequest

	// Portal entities
	LoginResult     = types.Session
	DashboardStats  = types.DashboardStats
	DailyUpdate     = types.DailyUpdate
	Complaint       = types.Complaint
	RentLedger      = types.RentLedger
	RentPayment     = types.RentPayment
	CustomerProfile = types.CustomerProfile
	SignupInvite    = types.SignupInvite
	Branch          = types.Branch
)
