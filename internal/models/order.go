package models

// OrderStatus represents the status of a purchase order.
type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusApproved OrderStatus = "approved"
)

// ValidStatus reports whether s is one of the recognized wire values.
func ValidStatus(s string) bool {
	return s == string(OrderStatusPending) || s == string(OrderStatusApproved)
}

// Order is a purchase order as the store serves it. ID is the store-assigned
// identity used for update and delete; OrderID is the human-facing reference
// used as the filter key and is not guaranteed unique.
//
// Quantity and the price fields are carried as entered text rather than
// numbers: the edit form preserves raw user input, including intermediate
// states that do not parse yet.
type Order struct {
	ID              string `db:"id" json:"id"`
	OrderID         string `db:"order_id" json:"orderId"`
	ItemName        string `db:"item_name" json:"itemName"`
	Quantity        string `db:"quantity" json:"quantity"`
	SupplierName    string `db:"supplier_name" json:"supplierName"`
	UnitPrice       string `db:"unit_price" json:"unitPrice"`
	DeliveryCharges string `db:"delivery_charges" json:"deliveryCharges"`
	TotalPrice      string `db:"total_price" json:"totalPrice"`
	Status          string `db:"status" json:"status"`
}

// NewOrder creates an order with a fresh store-assigned identity.
func NewOrder(orderID, itemName, quantity, supplierName, unitPrice, deliveryCharges, totalPrice string) *Order {
	return &Order{
		ID:              GenerateID("ord"),
		OrderID:         orderID,
		ItemName:        itemName,
		Quantity:        quantity,
		SupplierName:    supplierName,
		UnitPrice:       unitPrice,
		DeliveryCharges: deliveryCharges,
		TotalPrice:      totalPrice,
		Status:          string(OrderStatusPending),
	}
}
