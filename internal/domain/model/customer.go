package model

import "time"

// Customer is the reseller snapshot embedded into orders and schedules.
// Snapshots are taken at order time and never re-fetched.
type Customer struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	City       string `json:"city"`
}

// CustomerAccount is a registered reseller able to authenticate with an
// access code.
type CustomerAccount struct {
	CustomerID string
	Name       string
	City       string
	ChatID     int64
	CodeHash   string
	CreatedAt  time.Time
}

// Snapshot returns the order-time value copy of the account.
func (a CustomerAccount) Snapshot() Customer {
	return Customer{CustomerID: a.CustomerID, Name: a.Name, City: a.City}
}
