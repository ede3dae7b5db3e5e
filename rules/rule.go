package rules

import (
	"time"

	"accesscontrol/models"
)

// Result é o resultado de uma regra. Negação é um resultado de negócio,
// não um erro: a razão vira o denied_reason da solicitação.
type Result struct {
	OK     bool
	Reason string
}

func Pass() Result {
	return Result{OK: true}
}

func Fail(reason string) Result {
	return Result{Reason: reason}
}

// Rule é uma checagem de elegibilidade sobre uma solicitação de acesso.
type Rule interface {
	Name() string
	Validate(ctx *Context) Result
}

// Context carrega o estado já consultado do banco, para que as regras sejam
// funções puras sobre dados em memória.
type Context struct {
	User          models.User
	Modules       []models.Module // módulos solicitados, na ordem pedida
	Justification string
	Urgent        bool
	Now           time.Time

	Accesses             []models.Access                // todos os acessos do usuário (vencidos inclusive)
	ActiveRequestModules map[int64]bool                 // módulos cobertos por solicitações ACTIVE do usuário
	Incompatibilities    []models.ModuleIncompatibility // pares envolvendo os módulos solicitados (nas duas direções)
	PermittedDepartments map[int64][]string             // module_id -> departamentos autorizados
	ModuleNames          map[int64]string               // nomes para mensagens (solicitados + ativos)
}

// ActiveAccesses filtra os acessos ainda válidos no instante do contexto.
func (ctx *Context) ActiveAccesses() []models.Access {
	var active []models.Access
	for _, access := range ctx.Accesses {
		if access.ActiveAt(ctx.Now) {
			active = append(active, access)
		}
	}
	return active
}

// ActiveModuleIDs lista os módulos com acesso ativo, sem repetição.
func (ctx *Context) ActiveModuleIDs() []int64 {
	seen := map[int64]bool{}
	var ids []int64
	for _, access := range ctx.ActiveAccesses() {
		if !seen[access.ModuleID] {
			seen[access.ModuleID] = true
			ids = append(ids, access.ModuleID)
		}
	}
	return ids
}

// Chain devolve a cadeia de regras na ordem oficial de avaliação.
// A ordem importa: a primeira falha define a mensagem de negação.
func Chain() []Rule {
	return []Rule{
		ModuleActiveRule{},
		DepartmentPermissionRule{},
		DuplicateActiveAccessRule{},
		DuplicateActiveRequestRule{},
		ModuleCompatibilityRule{},
		ModuleLimitRule{},
		JustificationRule{},
	}
}

// Evaluate roda as regras em ordem com curto-circuito: para na primeira falha.
func Evaluate(chain []Rule, ctx *Context) Result {
	for _, rule := range chain {
		if result := rule.Validate(ctx); !result.OK {
			return result
		}
	}
	return Pass()
}
