package rules

// DepartmentPermissionRule nega a solicitação se o departamento do usuário
// não consta na lista de departamentos autorizados de algum módulo pedido.
type DepartmentPermissionRule struct{}

func (DepartmentPermissionRule) Name() string { return "DepartmentPermissionRule" }

func (DepartmentPermissionRule) Validate(ctx *Context) Result {
	for _, module := range ctx.Modules {
		permitted := false
		for _, department := range ctx.PermittedDepartments[module.ID] {
			if department == ctx.User.Department {
				permitted = true
				break
			}
		}
		if !permitted {
			return Fail("Departamento sem permissão para solicitar o módulo: " + module.Name)
		}
	}
	return Pass()
}
