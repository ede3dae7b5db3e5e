package db

import (
	"log"
	"time"

	"accesscontrol/models"
	"accesscontrol/tools"

	"github.com/jinzhu/gorm"
)

// Seed popula o catálogo de módulos, usuários de demonstração e acessos
// iniciais. Só roda em banco vazio; é seguro chamar em todo boot.
func Seed(db *gorm.DB) error {
	var count int
	if err := db.Model(&models.Module{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		if err := seedModules(db); err != nil {
			return err
		}
	}

	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		if err := seedUsers(db); err != nil {
			return err
		}
	}

	if err := db.Model(&models.Access{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		if err := seedAccesses(db); err != nil {
			return err
		}
	}

	log.Printf("Seed concluído")
	return nil
}

var allDepartments = []string{
	models.DEPARTMENT_TI,
	models.DEPARTMENT_FINANCE,
	models.DEPARTMENT_RH,
	models.DEPARTMENT_OPERATIONS,
	models.DEPARTMENT_OTHER,
}

func seedModules(db *gorm.DB) error {
	catalog := []struct {
		name        string
		description string
		departments []string
	}{
		{"PORTAL", "Acesso geral ao portal", allDepartments},
		{"RELATORIOS", "Acesso a relatórios corporativos", allDepartments},
		{"GESTAO_FINANCEIRA", "Módulo financeiro", []string{models.DEPARTMENT_TI, models.DEPARTMENT_FINANCE}},
		{"APROVADOR_FINANCEIRO", "Aprovação de finanças", []string{models.DEPARTMENT_TI, models.DEPARTMENT_FINANCE}},
		{"SOLICITANTE_FINANCEIRO", "Solicitação de recursos", []string{models.DEPARTMENT_TI, models.DEPARTMENT_FINANCE}},
		{"ADMINISTRADOR_RH", "Administração de recursos humanos", []string{models.DEPARTMENT_TI, models.DEPARTMENT_RH}},
		{"COLABORADOR_RH", "Funcionalidades básicas de RH", []string{models.DEPARTMENT_TI, models.DEPARTMENT_RH}},
		{"ESTOQUE", "Controle de estoque", []string{models.DEPARTMENT_TI, models.DEPARTMENT_OPERATIONS}},
		{"COMPRAS", "Módulo compras", []string{models.DEPARTMENT_TI, models.DEPARTMENT_OPERATIONS}},
		{"AUDITORIA", "Acesso auditoria", []string{models.DEPARTMENT_TI}},
	}

	ids := map[string]int64{}
	for _, item := range catalog {
		module := models.Module{Name: item.name, Description: item.description, Active: true}
		if err := db.Create(&module).Error; err != nil {
			return err
		}
		ids[item.name] = module.ID
		for _, department := range item.departments {
			md := models.ModuleDepartment{ModuleID: module.ID, Department: department}
			if err := db.Create(&md).Error; err != nil {
				return err
			}
		}
	}

	// Pares incompatíveis (gravados numa direção, checados nas duas).
	pairs := [][2]string{
		{"APROVADOR_FINANCEIRO", "SOLICITANTE_FINANCEIRO"},
		{"ADMINISTRADOR_RH", "COLABORADOR_RH"},
	}
	for _, pair := range pairs {
		link := models.ModuleIncompatibility{ModuleID: ids[pair[0]], IncompatibleID: ids[pair[1]]}
		if err := db.Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedUsers(db *gorm.DB) error {
	users := []models.User{
		{Name: "Alice Dev", Email: "alice@corp.com", Department: models.DEPARTMENT_TI},
		{Name: "Bruno Finance", Email: "bruno@corp.com", Department: models.DEPARTMENT_FINANCE},
		{Name: "Carla RH", Email: "carla@corp.com", Department: models.DEPARTMENT_RH},
		{Name: "Diego Ops", Email: "diego@corp.com", Department: models.DEPARTMENT_OPERATIONS},
		{Name: "Eva Other", Email: "eva@corp.com", Department: models.DEPARTMENT_OTHER},
	}
	for i := range users {
		users[i].Password = tools.EncodePassword(users[i].Email, "mudar123")
		if err := db.Create(&users[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedAccesses(db *gorm.DB) error {
	grants := []struct {
		email  string
		module string
		days   int
	}{
		{"bruno@corp.com", "APROVADOR_FINANCEIRO", 180},
		{"carla@corp.com", "ADMINISTRADOR_RH", 180},
		{"diego@corp.com", "ESTOQUE", 180},
		{"diego@corp.com", "COMPRAS", 180},
		{"alice@corp.com", "RELATORIOS", 180},
		{"alice@corp.com", "GESTAO_FINANCEIRA", 15}, // perto de vencer, útil para testar renovação
		{"eva@corp.com", "RELATORIOS", 180},
	}

	now := time.Now()
	for _, grant := range grants {
		var user models.User
		if err := db.Where("email = ?", grant.email).First(&user).Error; err != nil {
			return err
		}
		var module models.Module
		if err := db.Where("name = ?", grant.module).First(&module).Error; err != nil {
			return err
		}
		access := models.Access{
			UserID:    user.ID,
			ModuleID:  module.ID,
			GrantedAt: now,
			ExpiresAt: now.AddDate(0, 0, grant.days),
		}
		if err := db.Create(&access).Error; err != nil {
			return err
		}
	}
	return nil
}
