package model

// DNSSOAConfig holds the SOA parameters a zone is provisioned with. Exactly
// one row carries IsDefault=true; zones reference it unless overridden.
type DNSSOAConfig struct {
	BaseModel
	MName      string `gorm:"type:varchar(255);not null" json:"mname"`
	RName      string `gorm:"type:varchar(255);not null" json:"rname"`
	Refresh    int    `gorm:"default:86400" json:"refresh"`
	Retry      int    `gorm:"default:7200" json:"retry"`
	Expire     int    `gorm:"default:3600000" json:"expire"`
	MinimumTTL int    `gorm:"default:3600" json:"minimum_ttl"`
	IsDefault  bool   `gorm:"not null;default:false;index:ux_dns_soa_default,unique,where:is_default = true" json:"is_default"`
}

// TableName specifies the table name for DNSSOAConfig model
func (DNSSOAConfig) TableName() string {
	return "dns_soa_configs"
}
