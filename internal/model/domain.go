package model

// DomainState represents where a registered domain sits in its lifecycle
type DomainState string

const (
	DomainStateUnknown   DomainState = "unknown"
	DomainStateDNSNeeded DomainState = "dns_needed"
	DomainStateReady     DomainState = "ready"
	DomainStateOnHold    DomainState = "on_hold"
	DomainStateDeleted   DomainState = "deleted"
)

// Domain represents a registered .gov domain owned by an agency
type Domain struct {
	BaseModel
	Name         string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Organisation string      `gorm:"type:varchar(255)" json:"organisation"`
	State        DomainState `gorm:"type:varchar(16);default:'dns_needed'" json:"state"`
}

// TableName specifies the table name for Domain model
func (Domain) TableName() string {
	return "domains"
}
