package budgeting

import (
	"fmt"
	"strings"

	"github.com/opst/orcaobra/pkg/domain"
	"github.com/opst/orcaobra/pkg/llm"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const systemPrompt = `Você é um engenheiro orçamentista brasileiro experiente.
Elabore planilhas orçamentárias de obras com preços de mercado atuais, em reais (BRL),
usando composições no padrão SINAPI sempre que possível.
Responda somente com JSON válido, sem comentários, no formato:
{"items":[{"stage":"etapa","code":"código","description":"descrição do serviço","unit":"unidade","quantity":0,"unitPrice":0}]}
"quantity" e "unitPrice" são números; "unitPrice" é o preço unitário em reais, sem BDI.`

var standardNames = map[domain.Standard]string{
	domain.StandardLow:    "baixo",
	domain.StandardMedium: "médio",
	domain.StandardHigh:   "alto",
}

var printer = message.NewPrinter(language.BrazilianPortuguese)

func project(b *strings.Builder, h domain.BudgetHeader) {
	if h.ProjectType != "" {
		fmt.Fprintf(b, "Tipo de obra: %s\n", h.ProjectType)
	}
	if h.AreaM2 > 0 {
		b.WriteString(printer.Sprintf("Área construída: %.2f m²\n", h.AreaM2))
	}
	if name, ok := standardNames[h.Standard]; ok {
		fmt.Fprintf(b, "Padrão de acabamento: %s\n", name)
	}
	if h.Location != "" {
		fmt.Fprintf(b, "Localização: %s\n", h.Location)
	}
	if h.Description != "" {
		fmt.Fprintf(b, "Descrição: %s\n", h.Description)
	}
}

func references(b *strings.Builder, refs []domain.CatalogItem) {
	if len(refs) == 0 {
		return
	}
	b.WriteString("\nPreços de referência (use-os quando o serviço corresponder):\n")
	for _, r := range refs {
		b.WriteString(printer.Sprintf(
			"- %s | %s | %s | R$ %.2f\n",
			r.Code, r.Description, r.Unit, float64(r.UnitPrice)/100,
		))
	}
}

// BudgetPrompt builds the prompt to generate the items of a new budget.
func BudgetPrompt(h domain.BudgetHeader, refs []domain.CatalogItem) llm.Prompt {
	b := &strings.Builder{}
	b.WriteString("Elabore o orçamento completo da obra abaixo, organizado por etapas ")
	b.WriteString("(serviços preliminares, fundação, estrutura, alvenaria, cobertura, instalações, ")
	b.WriteString("revestimentos, pisos, pintura, esquadrias, limpeza), com quantitativos ")
	b.WriteString("coerentes com a área.\n\n")
	project(b, h)
	references(b, refs)
	return llm.Prompt{System: systemPrompt, User: b.String(), JSON: true}
}

// SuggestPrompt builds the prompt to suggest more items of a stage of a budget.
func SuggestPrompt(budget *domain.Budget, stage string, hint string, refs []domain.CatalogItem) llm.Prompt {
	b := &strings.Builder{}
	fmt.Fprintf(b, "Sugira itens adicionais para a etapa \"%s\" do orçamento abaixo. ", stage)
	b.WriteString("Não repita itens já existentes.\n\n")
	project(b, budget.BudgetHeader)
	if hint = strings.TrimSpace(hint); hint != "" {
		fmt.Fprintf(b, "Observação: %s\n", hint)
	}

	existing := []string{}
	for _, it := range budget.Items {
		if it.Stage == stage {
			existing = append(existing, printer.Sprintf("- %s (%.2f %s)", it.Description, it.Quantity, it.Unit))
		}
	}
	if len(existing) != 0 {
		b.WriteString("\nItens existentes nesta etapa:\n")
		b.WriteString(strings.Join(existing, "\n"))
		b.WriteString("\n")
	}
	references(b, refs)
	return llm.Prompt{System: systemPrompt, User: b.String(), JSON: true}
}
