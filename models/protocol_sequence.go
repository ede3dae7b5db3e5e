package models

// ProtocolSequence guarda o contador diário de protocolos.
// Uma linha por dia (date_key no formato yyyyMMdd); o contador só cresce.
type ProtocolSequence struct {
	DateKey string `gorm:"primary_key;column:date_key" json:"date_key"`
	Counter int    `gorm:"not null" json:"counter"`
}
