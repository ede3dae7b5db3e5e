package models

import "time"

/************************************************
/**** MARK: STATUS DA SOLICITAÇÃO ****/
/************************************************/
const REQUEST_STATUS_ACTIVE = "ACTIVE"
const REQUEST_STATUS_DENIED = "DENIED"
const REQUEST_STATUS_CANCELED = "CANCELED"

// Limites de negócio da solicitação.
const REQUEST_MIN_MODULES = 1
const REQUEST_MAX_MODULES = 3
const REQUEST_VALIDITY_DAYS = 180
const REQUEST_RENEW_WINDOW_DAYS = 30

// AccessRequest representa uma solicitação de acesso. A avaliação é síncrona
// e terminal: a solicitação nasce ACTIVE ou DENIED, nunca fica pendente.
type AccessRequest struct {
	ID              int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	UserID          int64      `gorm:"not null;index" json:"user_id"`
	Justification   string     `gorm:"type:text;not null" json:"justification"`
	Urgent          bool       `gorm:"not null;default:false" json:"urgent"`
	Status          string     `gorm:"not null" json:"status"`
	Protocol        string     `gorm:"not null;unique" json:"protocol"`
	CreatedAt       time.Time  `gorm:"not null" json:"created_at"`
	ExpiresAt       *time.Time `json:"expires_at"`     // preenchido apenas quando ACTIVE
	DeniedReason    *string    `json:"denied_reason"`  // preenchido apenas quando DENIED/CANCELED
	OriginRequestID *int64     `gorm:"index" json:"origin_request_id"` // solicitação original, em renovações
}

// AccessRequestModule representa o vínculo "solicitação -> módulo pedido".
type AccessRequestModule struct {
	ID              int64 `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	AccessRequestID int64 `gorm:"not null;index" json:"access_request_id"`
	ModuleID        int64 `gorm:"not null;index" json:"module_id"`
}
