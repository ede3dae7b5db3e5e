package models

import "time"

// Module representa um módulo protegido do sistema (ex: GESTAO_FINANCEIRA, ESTOQUE, PORTAL).
type Module struct {
	ID          int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Name        string     `gorm:"not null;unique" json:"name" form:"name"` // código único, ex: GESTAO_FINANCEIRA
	Description string     `gorm:"type:text" json:"description" form:"description"`
	Active      bool       `gorm:"not null;default:true" json:"active" form:"active"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// ModuleDepartment representa o vínculo "módulo -> departamento autorizado a solicitar".
type ModuleDepartment struct {
	ID         int64  `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	ModuleID   int64  `gorm:"not null;index" json:"module_id"`
	Department string `gorm:"not null" json:"department"`
}

// ModuleIncompatibility representa o par "módulo A é incompatível com módulo B".
// A relação é simétrica: gravamos em uma direção e consultamos nas duas.
type ModuleIncompatibility struct {
	ID             int64 `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	ModuleID       int64 `gorm:"not null;index" json:"module_id"`
	IncompatibleID int64 `gorm:"not null;index" json:"incompatible_id"`
}
