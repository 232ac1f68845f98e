package pricing

import (
	"github.com/shopspring/decimal"

	"go-htr-bench/pkg/models"
)

// costPrecision is the observable rounding of reported costs.
const costPrecision = 12

// Cost computes prompt_tokens x prompt_price + completion_tokens x
// completion_price, rounded to 12 decimal places. Decimal arithmetic
// avoids float drift on sub-cent unit prices.
func Cost(usage models.Usage, price Price) float64 {
	prompt := decimal.NewFromInt(int64(usage.PromptTokens)).
		Mul(decimal.NewFromFloat(price.Prompt))
	completion := decimal.NewFromInt(int64(usage.CompletionTokens)).
		Mul(decimal.NewFromFloat(price.Completion))

	total, _ := prompt.Add(completion).Round(costPrecision).Float64()
	return total
}
