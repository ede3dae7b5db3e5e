package rules

import (
	"strings"

	"accesscontrol/tools"
)

// Palavras e frases genéricas que não valem como justificativa.
var genericWords = []string{
	"teste", "testando", "aaa", "aaaa", "aaaaa", "preciso", "favor liberar",
	"ok", "libera", "liberação", "kkk", "kkkk", "kkkkkk",
}

const JUSTIFICATION_MIN_LEN = 20
const JUSTIFICATION_MAX_LEN = 500

// JustificationRule nega a solicitação quando a justificativa é vazia, curta
// demais, longa demais ou genérica (lista negra, caractere repetido, palavra
// única muito curta). O texto é normalizado antes: sem acentos, minúsculo.
type JustificationRule struct{}

func (JustificationRule) Name() string { return "JustificationRule" }

func (JustificationRule) Validate(ctx *Context) Result {
	if ctx.Justification == "" {
		return Fail("Justificativa é obrigatória")
	}

	clean := tools.NormalizeText(ctx.Justification)

	if len(clean) < JUSTIFICATION_MIN_LEN || len(clean) > JUSTIFICATION_MAX_LEN {
		return Fail("Justificativa deve ter entre 20 e 500 caracteres")
	}

	for _, word := range genericWords {
		if strings.Contains(clean, word) {
			return Fail("Justificativa genérica não é aceita")
		}
	}

	if isSingleRuneRepeated(clean, 5) {
		return Fail("Justificativa genérica não é aceita")
	}

	if len(strings.Fields(clean)) == 1 && len(clean) <= 10 {
		return Fail("Justificativa genérica não é aceita")
	}

	return Pass()
}

// isSingleRuneRepeated diz se o texto inteiro é um único caractere repetido
// pelo menos min vezes (ex: "aaaaaaaa").
func isSingleRuneRepeated(text string, min int) bool {
	runes := []rune(text)
	if len(runes) < min {
		return false
	}
	for _, r := range runes {
		if r != runes[0] {
			return false
		}
	}
	return true
}
