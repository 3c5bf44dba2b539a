package customers

// CreateCustomerRequest is the payload for registering a customer.
type CreateCustomerRequest struct {
	Name     string  `json:"name" validate:"required"`
	WhatsApp *string `json:"whatsapp,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Notes    *string `json:"notes,omitempty"`
}

// UpdateCustomerRequest carries a partial update; nil fields keep stored values.
type UpdateCustomerRequest struct {
	Name     *string `json:"name,omitempty"`
	WhatsApp *string `json:"whatsapp,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Notes    *string `json:"notes,omitempty"`
}

// ListCustomersRequest paginates the customer listing.
type ListCustomersRequest struct {
	Limit  int
	Offset int
}
