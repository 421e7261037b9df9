package types

import "github.com/go-openapi/strfmt"

// ------------------------------
// Request bodies
// ------------------------------

// CustomerUserType is the userType every tenant login carries.
const CustomerUserType = "Customer"

// LoginRequest is the body of POST auth/customer/sign-in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"userType"`
}

// SelectionRequest is the body of PUT meals/selection. strfmt.Date
// marshals as yyyy-MM-dd, the format this endpoint expects.
type SelectionRequest struct {
	Date       strfmt.Date `json:"date"`
	MealID     string      `json:"mealId"`
	IsSelected bool        `json:"isSelected"`
}

// CancelRequest is the body of PUT meal. Date is DD-MM-YYYY and Type is the
// capitalized meal name.
type CancelRequest struct {
	Date string `json:"date"`
	Type string `json:"type"`
}

// SubmitComplaintRequest is the body of POST complaint.
type SubmitComplaintRequest struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// UpdateProfileRequest is the body of PUT customer/me.
type UpdateProfileRequest struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
	Email  string `json:"email"`
}
