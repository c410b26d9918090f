package models

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Catalog is a product group shown on the landing page
type Catalog struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Image *string   `json:"image,omitempty"`
}

// Price is a decimal amount as sent by the API. It accepts both the quoted
// and the bare JSON number form and is never rounded through a float.
type Price string

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Price(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = Price(n.String())
	return nil
}

// Product is a single catalog item
type Product struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Price       Price      `json:"price"`
	Quantity    int        `json:"quantity"`
	Description *string    `json:"description,omitempty"`
	Image       *string    `json:"image,omitempty"`
	CatalogID   *uuid.UUID `json:"catalog_id,omitempty"`
}

// LeadRequest is a stored lead as returned by GET /requests
type LeadRequest struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// Token is the login response of the Insight API
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
