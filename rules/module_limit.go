package rules

import (
	"fmt"

	"accesscontrol/models"
)

const MODULE_LIMIT_TI = 10
const MODULE_LIMIT_DEFAULT = 5

// ModuleLimitRule nega a solicitação se a soma "acessos ativos + módulos
// pedidos" estoura o teto do departamento (TI tem teto maior).
type ModuleLimitRule struct{}

func (ModuleLimitRule) Name() string { return "ModuleLimitRule" }

func (ModuleLimitRule) Validate(ctx *Context) Result {
	limit := MODULE_LIMIT_DEFAULT
	if ctx.User.Department == models.DEPARTMENT_TI {
		limit = MODULE_LIMIT_TI
	}

	activeCount := len(ctx.ActiveAccesses())
	if activeCount+len(ctx.Modules) > limit {
		return Fail(fmt.Sprintf("Limite de módulos excedido para o departamento %s: máximo de %d acessos ativos", ctx.User.Department, limit))
	}
	return Pass()
}
