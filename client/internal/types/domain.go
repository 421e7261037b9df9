package types

import "time"

// ------------------------------
// Portal entities
// ------------------------------

// Session is the authenticated identity returned by customer sign-in.
type Session struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	UserType string `json:"userType"`
	PGCode   string `json:"pgcode"`
}

// DashboardStats summarizes the tenant's open items.
type DashboardStats struct {
	DailyUpdateCount  int     `json:"dailyUpdateCount"`
	ComplaintCount    int     `json:"complaintCount"`
	PendingRentAmount float64 `json:"pendingRentAmount"`
	PendingRentMonths int     `json:"pendingRentMonths"`
}

// Branch is a PG branch as embedded in updates and profiles.
type Branch struct {
	ID            string `json:"_id"`
	BranchImage   string `json:"branch_image,omitempty"`
	BranchName    string `json:"branch_name"`
	BranchAddress string `json:"branch_address"`
	PGCode        string `json:"pgcode"`
}

// DailyUpdate is an announcement posted by the PG staff.
type DailyUpdate struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	ContentType string    `json:"content_type"`
	PGCode      string    `json:"pgcode"`
	Branch      Branch    `json:"branch"`
	AddedBy     string    `json:"added_by,omitempty"`
	AddedByType string    `json:"added_by_type,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Complaint is a tenant-raised issue and its handling state.
type Complaint struct {
	ID          string    `json:"_id"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority,omitempty"`
	AddedBy     *string   `json:"added_by"`
	PGCode      string    `json:"pgcode"`
	Branch      string    `json:"branch"`
	CloseBy     string    `json:"close_by,omitempty"`
	CloseByType string    `json:"close_by_type,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ExtraCharge is an additional line item on a month's rent.
type ExtraCharge struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// PaymentRequest is a payment the tenant submitted against a month.
type PaymentRequest struct {
	Amount       float64 `json:"amount"`
	PaymentProof string  `json:"payment_proof,omitempty"`
	Month        int     `json:"month"`
	Year         int     `json:"year"`
	Status       string  `json:"status"`
	PaymentMode  string  `json:"payment_mode"`
}

// RentPayment is one month of the tenant's rent ledger.
type RentPayment struct {
	Month        int              `json:"month"`
	Year         int              `json:"year"`
	Status       string           `json:"status"`
	RentAmount   float64          `json:"rent_amount"`
	Pending      float64          `json:"pending"`
	ExtraCharges []ExtraCharge    `json:"extra_charges,omitempty"`
	RequestList  []PaymentRequest `json:"requestList,omitempty"`
}

// Floor locates a room inside a branch.
type Floor struct {
	ID        string `json:"_id"`
	FloorName string `json:"floor_name"`
	Branch    string `json:"branch"`
}

// Room is the tenant's allotted room.
type Room struct {
	ID          string `json:"_id"`
	RoomID      string `json:"room_id"`
	RoomType    string `json:"room_type"`
	Floor       Floor  `json:"floor_id"`
	ServiceType string `json:"service_type"`
	Capacity    int    `json:"capacity"`
	Filled      int    `json:"filled"`
	Remark      string `json:"remark,omitempty"`
}

// Customer is the tenant record.
type Customer struct {
	ID                 string    `json:"_id"`
	CustomerName       string    `json:"customer_name"`
	Email              string    `json:"email"`
	MobileNo           string    `json:"mobile_no"`
	DepositAmount      float64   `json:"deposite_amount,omitempty"`
	PaidDepositAmount  float64   `json:"paid_deposite_amount,omitempty"`
	DepositStatus      string    `json:"deposite_status,omitempty"`
	RentAmount         float64   `json:"rent_amount,omitempty"`
	Room               Room      `json:"room"`
	Branch             Branch    `json:"branch"`
	JoiningDate        time.Time `json:"joining_date"`
	RefPersonName      string    `json:"ref_person_name,omitempty"`
	RefPersonContactNo string    `json:"ref_person_contact_no,omitempty"`
}

// CustomerProfile is the payload of GET customer/me.
type CustomerProfile struct {
	Customer Customer `json:"customer"`
	PGName   string   `json:"pgname"`
	PGLogo   string   `json:"pglogo"`
}

// PGDetails describes the PG operator behind a branch.
type PGDetails struct {
	ID        string `json:"_id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	PGName    string `json:"pgname"`
	Address   string `json:"address"`
	ContactNo string `json:"contactno"`
}

// SignupInvite is what a valid signup token resolves to.
type SignupInvite struct {
	Branch    Branch    `json:"branch"`
	PGDetails PGDetails `json:"pgDetails"`
	PGCode    string    `json:"pgcode"`
	Rooms     []Room    `json:"rooms,omitempty"`
}

// RentLedger is the payload of GET customer/me/rent-list.
type RentLedger struct {
	CustomerID   string        `json:"customerId"`
	CustomerName string        `json:"customer_name"`
	MobileNo     string        `json:"mobile_no"`
	RentList     []RentPayment `json:"rentList"`
}
