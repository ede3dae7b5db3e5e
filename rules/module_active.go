package rules

// ModuleActiveRule nega a solicitação se algum módulo pedido está inativo.
type ModuleActiveRule struct{}

func (ModuleActiveRule) Name() string { return "ModuleActiveRule" }

func (ModuleActiveRule) Validate(ctx *Context) Result {
	for _, module := range ctx.Modules {
		if !module.Active {
			return Fail("Módulo inativo: " + module.Name)
		}
	}
	return Pass()
}
