package models

// LeadFormData is the body accepted by the lead form endpoints.
type LeadFormData struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

// LeadPayload is what gets sent to the Insight API when a lead is submitted
type LeadPayload struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// LoginForm represents the admin login form
type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// CatalogForm represents the admin catalog create/edit form
type CatalogForm struct {
	Name string `form:"name" binding:"required"`
}

// ProductForm represents the admin product create/edit form
type ProductForm struct {
	Title       string `form:"title" binding:"required"`
	Price       string `form:"price" binding:"required"`
	Quantity    string `form:"quantity"`
	Description string `form:"description"`
	CatalogID   string `form:"catalog_id"`
}
