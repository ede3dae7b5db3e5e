package rules

// ModuleCompatibilityRule nega a solicitação se algum módulo pedido é
// incompatível com um módulo que o usuário acessa ativamente. A relação de
// incompatibilidade é simétrica, então os pares valem nas duas direções.
type ModuleCompatibilityRule struct{}

func (ModuleCompatibilityRule) Name() string { return "ModuleCompatibilityRule" }

func (ModuleCompatibilityRule) Validate(ctx *Context) Result {
	activeIDs := ctx.ActiveModuleIDs()

	for _, module := range ctx.Modules {
		for _, activeID := range activeIDs {
			for _, pair := range ctx.Incompatibilities {
				conflict := (pair.ModuleID == module.ID && pair.IncompatibleID == activeID) ||
					(pair.ModuleID == activeID && pair.IncompatibleID == module.ID)
				if conflict {
					return Fail("Módulo " + module.Name + " é incompatível com o módulo ativo " + ctx.ModuleNames[activeID])
				}
			}
		}
	}
	return Pass()
}
