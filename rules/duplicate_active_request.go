package rules

// DuplicateActiveRequestRule nega a solicitação se outra solicitação ACTIVE
// do usuário já cobre algum dos módulos pedidos.
type DuplicateActiveRequestRule struct{}

func (DuplicateActiveRequestRule) Name() string { return "DuplicateActiveRequestRule" }

func (DuplicateActiveRequestRule) Validate(ctx *Context) Result {
	for _, module := range ctx.Modules {
		if ctx.ActiveRequestModules[module.ID] {
			return Fail("Usuário já possui solicitação ativa para o módulo: " + module.Name)
		}
	}
	return Pass()
}
