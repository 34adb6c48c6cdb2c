package model

import (
	"strings"
	"time"
)

// minTrackingNumberLen is the shortest tracking number any supported carrier
// issues.
const minTrackingNumberLen = 10

// ShipmentInfo captures the dispatch details of an order once it leaves the
// warehouse. Immutable so the dispatch record stays intact.
type ShipmentInfo struct {
	Carrier           string    `json:"carrier" db:"carrier"`
	TrackingNumber    string    `json:"trackingNumber" db:"tracking_number"`
	EstimatedDelivery time.Time `json:"estimatedDelivery" db:"estimated_delivery"`
}

// NewShipmentInfo validates and creates shipment information.
func NewShipmentInfo(carrier, trackingNumber string, estimatedDelivery time.Time) (ShipmentInfo, error) {
	if strings.TrimSpace(carrier) == "" {
		return ShipmentInfo{}, InvalidArgument("carrier must not be blank")
	}
	if strings.TrimSpace(trackingNumber) == "" {
		return ShipmentInfo{}, InvalidArgument("tracking number must not be blank")
	}
	if len(strings.TrimSpace(trackingNumber)) < minTrackingNumberLen {
		return ShipmentInfo{}, InvalidArgument("tracking number is too short")
	}
	if estimatedDelivery.IsZero() {
		return ShipmentInfo{}, InvalidArgument("estimated delivery must be set")
	}
	return ShipmentInfo{
		Carrier:           carrier,
		TrackingNumber:    trackingNumber,
		EstimatedDelivery: estimatedDelivery,
	}, nil
}

// TrackingURL builds a tracking link based on the carrier.
func (s ShipmentInfo) TrackingURL() string {
	base := "https://rastreo.ejemplo.com/"
	switch carrier := strings.ToLower(s.Carrier); {
	case strings.Contains(carrier, "fedex"):
		base = "https://www.fedex.com/track?tracknumbers="
	case strings.Contains(carrier, "dhl"):
		base = "https://www.dhl.com/track?tracking_id="
	case strings.Contains(carrier, "estafeta"):
		base = "https://www.estafeta.com/rastreo?guia="
	}
	return base + s.TrackingNumber
}

// PaymentStatus describes the state of a processed payment.
type PaymentStatus string

const (
	PaymentStatusApproved PaymentStatus = "APPROVED"
	PaymentStatusRejected PaymentStatus = "REJECTED"
	PaymentStatusPending  PaymentStatus = "PENDING"
)

// PaymentSummary records the payment attached to an order. The payment
// gateway itself lives outside this system; only the opaque result is kept.
type PaymentSummary struct {
	Method            string        `json:"method" db:"method"`
	ExternalReference string        `json:"externalReference" db:"external_reference"`
	Status            PaymentStatus `json:"status" db:"status"`
	ProcessedAt       time.Time     `json:"processedAt" db:"processed_at"`
}

// NewPaymentSummary validates and creates a payment summary.
func NewPaymentSummary(method, externalReference string, status PaymentStatus, processedAt time.Time) (PaymentSummary, error) {
	if strings.TrimSpace(method) == "" {
		return PaymentSummary{}, InvalidArgument("payment method must not be blank")
	}
	if strings.TrimSpace(externalReference) == "" {
		return PaymentSummary{}, InvalidArgument("payment reference must not be blank")
	}
	if status == "" {
		return PaymentSummary{}, InvalidArgument("payment status must be set")
	}
	if processedAt.IsZero() {
		return PaymentSummary{}, InvalidArgument("payment processing time must be set")
	}
	return PaymentSummary{
		Method:            method,
		ExternalReference: externalReference,
		Status:            status,
		ProcessedAt:       processedAt,
	}, nil
}
