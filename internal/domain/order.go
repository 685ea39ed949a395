package domain

import "time"

type ItemKind string

const (
	ItemKindRent    ItemKind = "rent"
	ItemKindBuy     ItemKind = "buy"
	ItemKindProduct ItemKind = "product"
)

type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "COD"
	PaymentMethodOnline PaymentMethod = "Online"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

const DefaultCurrency = "INR"

// CartLineItem is one rentable or purchasable unit in a pending order.
// Exactly one of PetID and ProductID is set.
type CartLineItem struct {
	Name          string   `json:"name" validate:"required"`
	Kind          ItemKind `json:"type" validate:"required,oneof=rent buy product"`
	PetID         string   `json:"petId,omitempty"`
	ProductID     string   `json:"productId,omitempty"`
	UnitRentPrice Amount   `json:"rentPrice"`
	UnitBuyPrice  Amount   `json:"buyPrice"`
	DepositAmount Amount   `json:"deposit"`
	RentalDays    Count    `json:"days"`
	FromDate      Date     `json:"fromDate" validate:"required"`
	ToDate        Date     `json:"toDate" validate:"required"`
}

// ReferenceID returns whichever of the pet or product identifiers is set
func (i CartLineItem) ReferenceID() string {
	if i.PetID != "" {
		return i.PetID
	}
	return i.ProductID
}

type ContactInfo struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required,phone10"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address" validate:"required"`
}

// OrderTotals mirrors the price breakdown computed at checkout
type OrderTotals struct {
	TotalRent       float64 `json:"totalRent"`
	TotalBuy        float64 `json:"totalBuy"`
	TotalDeposit    float64 `json:"totalDeposit"`
	Subtotal        float64 `json:"subtotal"`
	CouponCode      string  `json:"couponCode,omitempty"`
	DiscountPercent float64 `json:"discountPercent"`
	DiscountAmount  float64 `json:"discountAmount"`
	GST             float64 `json:"gst"`
	Amount          float64 `json:"amount"`
}

type Order struct {
	ID               string         `json:"id"`
	UserID           string         `json:"userId"`
	Items            []CartLineItem `json:"items"`
	ContactInfo      ContactInfo    `json:"userInfo"`
	PaymentMethod    PaymentMethod  `json:"paymentMethod"`
	Totals           OrderTotals    `json:"totals"`
	Currency         string         `json:"currency"`
	Status           OrderStatus    `json:"status"`
	PaymentStatus    PaymentStatus  `json:"paymentStatus"`
	GatewayOrderID   string         `json:"gatewayOrderId,omitempty"`
	GatewayPaymentID string         `json:"gatewayPaymentId,omitempty"`
	GatewaySignature string         `json:"gatewaySignature,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// IsPaid reports whether the payment for this order has been verified
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentStatusCompleted
}

// MarkPaid applies the verified-payment transition: pending/pending -> processing/completed
func (o *Order) MarkPaid(paymentID, signature string) {
	o.GatewayPaymentID = paymentID
	o.GatewaySignature = signature
	o.Status = OrderStatusProcessing
	o.PaymentStatus = PaymentStatusCompleted
}

// GatewayOrderRef identifies an order created on the payment gateway
type GatewayOrderRef struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
	Status   string `json:"status,omitempty"`
}
