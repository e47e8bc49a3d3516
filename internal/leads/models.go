package leads

import "time"

// Lead is a tenant-scoped prospect record.
//
// Multi-tenant invariant: TenantID is required on every row.
//
// Attribute fields are optional; scoring and condition extraction treat
// zero values as "absent" rather than errors.
type Lead struct {
	ID       string `json:"id" db:"id"`
	TenantID string `json:"tenant_id" db:"tenant_id"`

	FirstName string `json:"first_name,omitempty" db:"first_name"`
	LastName  string `json:"last_name,omitempty" db:"last_name"`
	Email     string `json:"email,omitempty" db:"email"`
	Phone     string `json:"phone,omitempty" db:"phone"`
	Street    string `json:"street,omitempty" db:"street"`
	City      string `json:"city,omitempty" db:"city"`

	// Urgency is one of urgent, high, medium, low (free text tolerated).
	Urgency string `json:"urgency,omitempty" db:"urgency"`

	// PestType is the reported pest category (e.g., "termites", "ants").
	PestType string `json:"pest_type,omitempty" db:"pest_type"`

	// HomeSize is the property size in square feet; 0 means unknown.
	// A non-zero value also marks the lead as residential.
	HomeSize int `json:"home_size,omitempty" db:"home_size"`

	// Source is the acquisition channel (referral, organic, paid_search, ...).
	Source string `json:"lead_source,omitempty" db:"lead_source"`

	Status string `json:"lead_status,omitempty" db:"lead_status"`

	ContactedOtherCompanies bool `json:"contacted_other_companies,omitempty" db:"contacted_other_companies"`

	// CreatedAt zero value means the creation instant is unknown.
	CreatedAt time.Time `json:"created_at,omitempty" db:"created_at"`
}
