package server

import (
	"encoding/json"
	"time"
)

// Wire shapes served by the development backend. They mirror what the real
// portal backend returns.

type sessionData struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	UserType string `json:"userType"`
	PGCode   string `json:"pgcode"`
}

type branch struct {
	ID            string `json:"_id"`
	BranchName    string `json:"branch_name"`
	BranchAddress string `json:"branch_address"`
	PGCode        string `json:"pgcode"`
}

type dailyUpdate struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	ContentType string    `json:"content_type"`
	PGCode      string    `json:"pgcode"`
	Branch      branch    `json:"branch"`
	AddedByType string    `json:"added_by_type"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type complaint struct {
	ID          string    `json:"_id"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	AddedBy     *string   `json:"added_by"`
	PGCode      string    `json:"pgcode"`
	Branch      string    `json:"branch"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type rentPayment struct {
	Month      int     `json:"month"`
	Year       int     `json:"year"`
	Status     string  `json:"status"`
	RentAmount float64 `json:"rent_amount"`
	Pending    float64 `json:"pending"`
}

type rentLedger struct {
	CustomerID     string        `json:"customerId"`
	CustomerName   string        `json:"customer_name"`
	MobileNo       string        `json:"mobile_no"`
	RentList       []rentPayment `json:"rentList"`
	ScannerDetails any           `json:"scannerDetails"`
}

type room struct {
	ID          string `json:"_id"`
	RoomID      string `json:"room_id"`
	RoomType    string `json:"room_type"`
	ServiceType string `json:"service_type"`
	Capacity    int    `json:"capacity"`
	Filled      int    `json:"filled"`
}

type customer struct {
	ID           string    `json:"_id"`
	CustomerName string    `json:"customer_name"`
	Email        string    `json:"email"`
	MobileNo     string    `json:"mobile_no"`
	RentAmount   float64   `json:"rent_amount"`
	Room         room      `json:"room"`
	Branch       branch    `json:"branch"`
	JoiningDate  time.Time `json:"joining_date"`
}

type profile struct {
	Customer customer `json:"customer"`
	PGName   string   `json:"pgname"`
	PGLogo   string   `json:"pglogo"`
}

type pgDetails struct {
	ID        string `json:"_id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	PGName    string `json:"pgname"`
	Address   string `json:"address"`
	ContactNo string `json:"contactno"`
}

type signupInvite struct {
	Branch    branch    `json:"branch"`
	PGDetails pgDetails `json:"pgDetails"`
	PGCode    string    `json:"pgcode"`
	Rooms     []room    `json:"rooms"`
}

type dashboardStats struct {
	DailyUpdateCount  int     `json:"dailyUpdateCount"`
	ComplaintCount    int     `json:"complaintCount"`
	PendingRentAmount float64 `json:"pendingRentAmount"`
	PendingRentMonths int     `json:"pendingRentMonths"`
}

type rawMeal struct {
	Type        string            `json:"type"`
	Description string            `json:"description"`
	Items       []string          `json:"items"`
	Cancelled   []json.RawMessage `json:"cancelled"`
}

type rawDay struct {
	Date  string    `json:"date"`
	Meals []rawMeal `json:"meals"`
}

// mealsResponse is the one payload that does not use the data field.
type mealsResponse struct {
	Success bool     `json:"success"`
	Meal    []rawDay `json:"meal"`
}

// Request bodies.

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"userType"`
}

type cancelRequest struct {
	Date string `json:"date"`
	Type string `json:"type"`
}

type selectionRequest struct {
	Date       string `json:"date"`
	MealID     string `json:"mealId"`
	IsSelected bool   `json:"isSelected"`
}

type complaintRequest struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type profileRequest struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
	Email  string `json:"email"`
}
