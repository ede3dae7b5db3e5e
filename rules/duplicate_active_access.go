package rules

// DuplicateActiveAccessRule nega a solicitação se o usuário já possui um
// acesso não vencido para algum dos módulos pedidos.
type DuplicateActiveAccessRule struct{}

func (DuplicateActiveAccessRule) Name() string { return "DuplicateActiveAccessRule" }

func (DuplicateActiveAccessRule) Validate(ctx *Context) Result {
	for _, module := range ctx.Modules {
		for _, access := range ctx.Accesses {
			if access.ModuleID == module.ID && access.ActiveAt(ctx.Now) {
				return Fail("Usuário já possui acesso ativo ao módulo: " + module.Name)
			}
		}
	}
	return Pass()
}
