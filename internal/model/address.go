package model

import (
	"fmt"
	"strings"
)

var postalCodeLen = 5

// ShippingAddress is an immutable destination for an order. A new order needs
// a newly constructed address even when it is logically the same place.
type ShippingAddress struct {
	RecipientName string `json:"recipientName" db:"recipient_name"`
	Street        string `json:"street" db:"street"`
	City          string `json:"city" db:"city"`
	State         string `json:"state" db:"state"`
	PostalCode    string `json:"postalCode" db:"postal_code"`
	Country       string `json:"country" db:"country"`
	Phone         string `json:"phone" db:"phone"`
	Instructions  string `json:"instructions,omitempty" db:"instructions"`
}

// NewShippingAddress validates and creates a shipping address. Only national
// (Mexico) destinations are accepted for now.
func NewShippingAddress(recipientName, street, city, state, postalCode, country, phone, instructions string) (ShippingAddress, error) {
	required := []struct {
		value string
		field string
	}{
		{recipientName, "recipient name"},
		{street, "street"},
		{city, "city"},
		{state, "state"},
		{postalCode, "postal code"},
		{country, "country"},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return ShippingAddress{}, InvalidArgument(f.field + " must not be blank")
		}
	}

	if !isMexico(country) {
		return ShippingAddress{}, InvalidArgument("only national (Mexico) shipping is supported")
	}
	if !isDigits(postalCode, postalCodeLen) {
		return ShippingAddress{}, InvalidArgument(fmt.Sprintf("postal code must be exactly %d digits", postalCodeLen))
	}
	if !isDigits(phone, 10) {
		return ShippingAddress{}, InvalidArgument("phone must be exactly 10 digits")
	}

	return ShippingAddress{
		RecipientName: recipientName,
		Street:        street,
		City:          city,
		State:         state,
		PostalCode:    postalCode,
		Country:       country,
		Phone:         phone,
		Instructions:  instructions,
	}, nil
}

// Format renders the address as a multi-line shipping label.
func (a ShippingAddress) Format() string {
	var sb strings.Builder
	sb.WriteString(a.RecipientName)
	sb.WriteString("\n")
	sb.WriteString(a.Street)
	sb.WriteString("\n")
	sb.WriteString(a.PostalCode)
	sb.WriteString(" ")
	sb.WriteString(a.City)
	sb.WriteString(", ")
	sb.WriteString(a.State)
	sb.WriteString("\n")
	sb.WriteString(a.Country)
	if a.Phone != "" {
		sb.WriteString("\nTel: ")
		sb.WriteString(a.Phone)
	}
	if a.Instructions != "" {
		sb.WriteString("\nObs: ")
		sb.WriteString(a.Instructions)
	}
	return sb.String()
}

func isMexico(country string) bool {
	c := strings.ToLower(strings.TrimSpace(country))
	return c == "mexico" || c == "méxico"
}

func isDigits(s string, length int) bool {
	if len(s) != length {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
