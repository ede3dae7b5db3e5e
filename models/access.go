package models

import "time"

// Access representa um acesso concedido "1 usuário -> 1 módulo" com janela de validade.
// A expiração é avaliada comparando expires_at com o relógio: uma linha vencida
// continua existindo até ser revogada ou substituída.
type Access struct {
	ID        int64     `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	ModuleID  int64     `gorm:"not null;index" json:"module_id"`
	GrantedAt time.Time `gorm:"not null" json:"granted_at"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}

// ActiveAt diz se o acesso ainda vale no instante informado.
func (access Access) ActiveAt(now time.Time) bool {
	return access.ExpiresAt.After(now)
}
