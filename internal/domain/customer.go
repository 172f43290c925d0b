package domain

const DefaultCustomerType = "Walk-in customer"

// RemoteCustomer is a customer of the remote system. The same shape is used
// for partial update payloads, so every field is optional on input.
type RemoteCustomer struct {
	ID             int64    `json:"id,omitempty"`
	Email          string   `json:"email,omitempty"`
	FirstName      string   `json:"first_name,omitempty"`
	LastName       string   `json:"last_name,omitempty"`
	Username       string   `json:"username,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	Billing        Address  `json:"billing"`
	Shipping       Address  `json:"shipping"`
	DateCreated    string   `json:"date_created,omitempty"`
	DateCreatedGMT string   `json:"date_created_gmt,omitempty"`
	MetaData       MetaList `json:"meta_data,omitempty"`
}

// CustomerRecord is a customer row of the secondary store.
type CustomerRecord struct {
	RowID         int64    `json:"id,omitempty"`
	WooCustomerID *FlexInt `json:"woo_customer_id"`
	FirstName     string   `json:"first_name"`
	LastName      string   `json:"last_name"`
	Phone         string   `json:"phone" validate:"required_without=WooCustomerID"`
	Email         string   `json:"email" validate:"omitempty,email"`
	Address       string   `json:"address"`
	AddressLine2  string   `json:"address_line_2"`
	City          string   `json:"city"`
	State         string   `json:"state"`
	Postcode      string   `json:"postcode"`
	Country       string   `json:"country"`
	CustomerType  string   `json:"customer_type"`
	CreatedAt     string   `json:"created_at,omitempty"`
	UpdatedAt     string   `json:"updated_at"`
}
