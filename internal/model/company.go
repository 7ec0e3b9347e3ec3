package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ContactDetails is a free-form contact blob (phone, email, contact person)
// persisted as jsonb.
type ContactDetails map[string]interface{}

func (c ContactDetails) Value() (driver.Value, error) {
	if c == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (c *ContactDetails) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*c = ContactDetails{}
		return nil
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return fmt.Errorf("cannot scan %T into ContactDetails", src)
	}
}

type Company struct {
	ID              int64
	CompanyName     string
	VisitAddress    *string
	ContactDetails  ContactDetails
	CompanySize     *string
	Branch          *string
	RelationManager *string
	CreatedAt       time.Time
}

// CompanyPatch carries the fields of an update request. Nil fields are left
// untouched by ApplyTo.
type CompanyPatch struct {
	CompanyName     *string
	VisitAddress    *string
	ContactDetails  ContactDetails
	CompanySize     *string
	Branch          *string
	RelationManager *string
}

func (p CompanyPatch) Empty() bool {
	return p.CompanyName == nil &&
		p.VisitAddress == nil &&
		p.ContactDetails == nil &&
		p.CompanySize == nil &&
		p.Branch == nil &&
		p.RelationManager == nil
}

func (p CompanyPatch) ApplyTo(c *Company) {
	if p.CompanyName != nil {
		c.CompanyName = *p.CompanyName
	}
	if p.VisitAddress != nil {
		c.VisitAddress = p.VisitAddress
	}
	if p.ContactDetails != nil {
		c.ContactDetails = p.ContactDetails
	}
	if p.CompanySize != nil {
		c.CompanySize = p.CompanySize
	}
	if p.Branch != nil {
		c.Branch = p.Branch
	}
	if p.RelationManager != nil {
		c.RelationManager = p.RelationManager
	}
}
