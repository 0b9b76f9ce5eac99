package pipeline

import "context"

// Order is the slice of a 3DCart order the integration needs.
type Order struct {
	ID            string  `json:"OrderID"`
	CustomerName  string  `json:"BillingFirstName"`
	CustomerEmail string  `json:"BillingEmail"`
	Total         float64 `json:"OrderAmount"`
	Status        string  `json:"OrderStatus"`
}

// Contact is the slice of a HubSpot contact the integration needs.
type Contact struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Company   string `json:"company"`
}

// Customer is a NetSuite customer record reference.
type Customer struct {
	InternalID string `json:"internalId"`
	Email      string `json:"email"`
	Name       string `json:"companyName"`
}

// InventoryItem pairs a SKU with its NetSuite stock level.
type InventoryItem struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// ThreeDCartClient reads order data from the 3DCart REST API.
type ThreeDCartClient interface {
	GetOrder(ctx context.Context, orderID string) (*Order, error)
	UpdateStock(ctx context.Context, sku string, quantity int) error
}

// HubSpotClient reads contact data from the HubSpot CRM API.
type HubSpotClient interface {
	GetContact(ctx context.Context, contactID string) (*Contact, error)
}

// NetSuiteClient talks to the NetSuite side of the integration.
type NetSuiteClient interface {
	FindCustomerByEmail(ctx context.Context, email string) (*Customer, error)
	CreateCustomer(ctx context.Context, c Customer) (string, error)
	CreateSalesOrder(ctx context.Context, customerID string, o Order) (string, error)
	ListInventory(ctx context.Context) ([]InventoryItem, error)
}
