package services

import (
	"time"

	"accesscontrol/models"
	"accesscontrol/rules"

	"github.com/jinzhu/gorm"
)

// loadRuleContext consulta o estado atual do usuário e monta o contexto que
// a cadeia de regras avalia em memória. Toda leitura acontece na mesma
// transação da operação chamadora.
func loadRuleContext(tx *gorm.DB, user models.User, modules []models.Module, justification string, urgent bool, now time.Time) (*rules.Context, error) {
	ctx := &rules.Context{
		User:                 user,
		Modules:              modules,
		Justification:        justification,
		Urgent:               urgent,
		Now:                  now,
		ActiveRequestModules: map[int64]bool{},
		PermittedDepartments: map[int64][]string{},
		ModuleNames:          map[int64]string{},
	}

	moduleIDs := make([]int64, 0, len(modules))
	for _, module := range modules {
		moduleIDs = append(moduleIDs, module.ID)
		ctx.ModuleNames[module.ID] = module.Name
	}

	// Acessos do usuário (vencidos inclusive; as regras filtram pela data).
	if err := tx.Where("user_id = ?", user.ID).Find(&ctx.Accesses).Error; err != nil {
		return nil, err
	}

	// Módulos cobertos por solicitações ACTIVE do usuário.
	var requestLinks []models.AccessRequestModule
	err := tx.
		Where("access_request_id IN (SELECT id FROM access_requests WHERE user_id = ? AND status = ?)",
			user.ID, models.REQUEST_STATUS_ACTIVE).
		Find(&requestLinks).Error
	if err != nil {
		return nil, err
	}
	for _, link := range requestLinks {
		ctx.ActiveRequestModules[link.ModuleID] = true
	}

	// Incompatibilidades que tocam os módulos pedidos, nas duas direções.
	err = tx.
		Where("module_id in (?) OR incompatible_id in (?)", moduleIDs, moduleIDs).
		Find(&ctx.Incompatibilities).Error
	if err != nil {
		return nil, err
	}

	// Departamentos autorizados por módulo pedido.
	var departments []models.ModuleDepartment
	if err := tx.Where("module_id in (?)", moduleIDs).Find(&departments).Error; err != nil {
		return nil, err
	}
	for _, md := range departments {
		ctx.PermittedDepartments[md.ModuleID] = append(ctx.PermittedDepartments[md.ModuleID], md.Department)
	}

	// Nomes dos módulos com acesso ativo, para as mensagens de negação.
	activeIDs := ctx.ActiveModuleIDs()
	if len(activeIDs) > 0 {
		var activeModules []models.Module
		if err := tx.Where("id in (?)", activeIDs).Find(&activeModules).Error; err != nil {
			return nil, err
		}
		for _, module := range activeModules {
			ctx.ModuleNames[module.ID] = module.Name
		}
	}

	return ctx, nil
}
