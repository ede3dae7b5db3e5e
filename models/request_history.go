package models

import "time"

/************************************************
/**** MARK: AÇÕES DO HISTÓRICO ****/
/************************************************/
const HISTORY_ACTION_CANCELED = "CANCELED"
const HISTORY_ACTION_RENEWED = "RENEWED"

// RequestHistory é a trilha de auditoria de uma solicitação. Apenas inserção,
// nunca atualização ou remoção.
type RequestHistory struct {
	ID              int64     `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	AccessRequestID int64     `gorm:"not null;index" json:"access_request_id"`
	Action          string    `gorm:"not null" json:"action"`
	Description     string    `gorm:"type:text" json:"description"`
	Timestamp       time.Time `gorm:"not null" json:"timestamp"`
}
