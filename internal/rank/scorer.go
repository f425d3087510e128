package rank

import "leadflow-engine/internal/domain"

type Scorer interface {
	Score(lead domain.Lead) (score int, reasons []string)
}
