package models

import "time"

/************************************************
/**** MARK: DEPARTAMENTOS ****/
/************************************************/
const DEPARTMENT_TI = "TI"
const DEPARTMENT_FINANCE = "FINANCE"
const DEPARTMENT_RH = "RH"
const DEPARTMENT_OPERATIONS = "OPERATIONS"
const DEPARTMENT_OTHER = "OTHER"

// User representa um colaborador que pode solicitar acesso a módulos.
type User struct {
	ID         int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Name       string     `gorm:"not null" json:"name" form:"name"`
	Email      string     `gorm:"not null;unique" json:"email" form:"email"`
	Password   string     `gorm:"not null" json:"password,omitempty" form:"password"`
	Department string     `gorm:"not null" json:"department" form:"department"`
	CreatedAt  *time.Time `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}

func IsDepartmentValid(department string) bool {
	switch department {
	case DEPARTMENT_TI, DEPARTMENT_FINANCE, DEPARTMENT_RH, DEPARTMENT_OPERATIONS, DEPARTMENT_OTHER:
		return true
	}
	return false
}

func (user User) MissingFields() string {
	if user.Name == "" {
		return "name"
	} else if user.Email == "" {
		return "email"
	} else if user.Password == "" {
		return "password"
	} else if user.Department == "" {
		return "department"
	}
	return ""
}
