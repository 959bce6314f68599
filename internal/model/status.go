package model

import (
	"encoding/json"
	"fmt"
	"slices"
)

// CustomerStatus is the account state of a customer.
type CustomerStatus string

const (
	CustomerActive   CustomerStatus = "Active"
	CustomerInactive CustomerStatus = "Inactive"
	CustomerVacation CustomerStatus = "Vacation"
)

// CustomerStatuses lists every valid CustomerStatus.
var CustomerStatuses = []CustomerStatus{CustomerActive, CustomerInactive, CustomerVacation}

// ParseCustomerStatus validates s as a CustomerStatus.
func ParseCustomerStatus(s string) (CustomerStatus, error) {
	return parseEnum("customer status", s, CustomerStatuses)
}

// UnmarshalJSON rejects unknown customer statuses.
func (s *CustomerStatus) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, s, ParseCustomerStatus)
}

// OrderStatus is the delivery state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderInTransit OrderStatus = "In Transit"
	OrderCompleted OrderStatus = "Completed"
	OrderCancelled OrderStatus = "Cancelled"
)

// OrderStatuses lists every valid OrderStatus.
var OrderStatuses = []OrderStatus{OrderPending, OrderInTransit, OrderCompleted, OrderCancelled}

// ParseOrderStatus validates s as an OrderStatus.
// "Delivered" was written by older driver views and maps to Completed.
func ParseOrderStatus(s string) (OrderStatus, error) {
	if s == "Delivered" {
		return OrderCompleted, nil
	}
	return parseEnum("order status", s, OrderStatuses)
}

// UnmarshalJSON rejects unknown order statuses.
func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, s, ParseOrderStatus)
}

// Active reports whether the order is still on a delivery run.
func (s OrderStatus) Active() bool {
	return s == OrderPending || s == OrderInTransit
}

// InvoiceStatus is the payment state of an invoice.
type InvoiceStatus string

const (
	InvoiceUnpaid InvoiceStatus = "Unpaid"
	InvoicePaid   InvoiceStatus = "Paid"
)

// InvoiceStatuses lists every valid InvoiceStatus.
var InvoiceStatuses = []InvoiceStatus{InvoiceUnpaid, InvoicePaid}

// ParseInvoiceStatus validates s as an InvoiceStatus.
func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	return parseEnum("invoice status", s, InvoiceStatuses)
}

// UnmarshalJSON rejects unknown invoice statuses.
func (s *InvoiceStatus) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, s, ParseInvoiceStatus)
}

// FeedbackStatus is the reply state of a feedback message.
type FeedbackStatus string

const (
	FeedbackNew     FeedbackStatus = "New"
	FeedbackReplied FeedbackStatus = "Replied"
)

// FeedbackStatuses lists every valid FeedbackStatus.
var FeedbackStatuses = []FeedbackStatus{FeedbackNew, FeedbackReplied}

// ParseFeedbackStatus validates s as a FeedbackStatus.
func ParseFeedbackStatus(s string) (FeedbackStatus, error) {
	return parseEnum("feedback status", s, FeedbackStatuses)
}

// UnmarshalJSON rejects unknown feedback statuses. An empty string decodes
// as unset so schema upgrades can fill it in.
func (s *FeedbackStatus) UnmarshalJSON(data []byte) error {
	return unmarshalOptionalEnum(data, s, ParseFeedbackStatus)
}

// CashStatus classifies a driver's cash submission.
type CashStatus string

const (
	CashMatched CashStatus = "Matched"
	CashShort   CashStatus = "Short"
	CashExcess  CashStatus = "Excess"
)

// CashStatuses lists every valid CashStatus.
var CashStatuses = []CashStatus{CashMatched, CashShort, CashExcess}

// ParseCashStatus validates s as a CashStatus.
func ParseCashStatus(s string) (CashStatus, error) {
	return parseEnum("cash status", s, CashStatuses)
}

// UnmarshalJSON rejects unknown cash statuses. An empty string decodes as
// unset so schema upgrades can derive it from the difference.
func (s *CashStatus) UnmarshalJSON(data []byte) error {
	return unmarshalOptionalEnum(data, s, ParseCashStatus)
}

// CashStatusForDiff derives the status from driverCash - systemCash.
func CashStatusForDiff(diff int64) CashStatus {
	switch {
	case diff < 0:
		return CashShort
	case diff > 0:
		return CashExcess
	default:
		return CashMatched
	}
}

// AuditAction is the verb recorded in an audit entry.
type AuditAction string

const (
	ActionCreate  AuditAction = "CREATE"
	ActionUpdate  AuditAction = "UPDATE"
	ActionDelete  AuditAction = "DELETE"
	ActionLogin   AuditAction = "LOGIN"
	ActionLogout  AuditAction = "LOGOUT"
	ActionPayment AuditAction = "PAYMENT"
	ActionReply   AuditAction = "REPLY"
	ActionExport  AuditAction = "EXPORT"
	ActionVerify  AuditAction = "VERIFY"
	ActionClear   AuditAction = "CLEAR"
)

// AuditActions lists every valid AuditAction.
var AuditActions = []AuditAction{
	ActionCreate, ActionUpdate, ActionDelete, ActionLogin, ActionLogout,
	ActionPayment, ActionReply, ActionExport, ActionVerify, ActionClear,
}

// ParseAuditAction validates s as an AuditAction.
func ParseAuditAction(s string) (AuditAction, error) {
	return parseEnum("audit action", s, AuditActions)
}

// UnmarshalJSON rejects unknown audit actions.
func (a *AuditAction) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, a, ParseAuditAction)
}

// Role is the identity class held by the session marker.
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleDriver   Role = "Driver"
	RoleCustomer Role = "Customer"
)

// Roles lists every valid Role.
var Roles = []Role{RoleAdmin, RoleDriver, RoleCustomer}

// ParseRole validates s as a Role.
func ParseRole(s string) (Role, error) {
	return parseEnum("role", s, Roles)
}

// UnmarshalJSON rejects unknown roles.
func (r *Role) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, r, ParseRole)
}

func parseEnum[T ~string](kind, s string, valid []T) (T, error) {
	if slices.Contains(valid, T(s)) {
		return T(s), nil
	}
	return "", fmt.Errorf("invalid %s %q: must be one of %v", kind, s, valid)
}

func unmarshalEnum[T ~string](data []byte, dst *T, parse func(string) (T, error)) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := parse(s)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// unmarshalOptionalEnum is unmarshalEnum with "" decoding to the zero value.
func unmarshalOptionalEnum[T ~string](data []byte, dst *T, parse func(string) (T, error)) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*dst = ""
		return nil
	}
	v, err := parse(s)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
