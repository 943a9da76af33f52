package domain

import "strconv"

// Caller is the authenticated identity an operation runs on behalf of.
type Caller struct {
	CustomerID int64
	Username   string
	Role       Role
}

func (c Caller) IsEmployee() bool {
	return c.Role == RoleEmployee
}

// CanAccess reports whether the caller may act on the wallet: employees act on
// any wallet, customers only on their own.
func (c Caller) CanAccess(w Wallet) bool {
	return c.IsEmployee() || w.CustomerID == c.CustomerID
}

// Name identifies the caller in logs and audit records.
func (c Caller) Name() string {
	if c.Username != "" {
		return c.Username
	}

	return "customer:" + strconv.FormatInt(c.CustomerID, 10)
}
