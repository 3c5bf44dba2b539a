package customers

import "time"

// Customer is a buyer contact record.
type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	WhatsApp  *string   `json:"whatsapp,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
