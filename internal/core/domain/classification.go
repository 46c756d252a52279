package domain

// ClassificationResult é a saída de um modelo zero-shot: rótulos candidatos
// e suas pontuações, na ordem devolvida pelo modelo.
type ClassificationResult struct {
	Sequence string    `json:"sequence"`
	Labels   []string  `json:"labels"`
	Scores   []float64 `json:"scores"`
}

// Pairs percorre os pares (rótulo, pontuação) até o menor dos dois slices.
func (r ClassificationResult) Pairs(fn func(label string, score float64)) {
	n := len(r.Labels)
	if len(r.Scores) < n {
		n = len(r.Scores)
	}
	for i := 0; i < n; i++ {
		fn(r.Labels[i], r.Scores[i])
	}
}

// Resolution junta a categoria escolhida e, quando houve chamada ao modelo,
// o resultado bruto da classificação.
type Resolution struct {
	Category Category
	Raw      *ClassificationResult
}

// Result é o que o serviço de classificação devolve para a camada HTTP.
type Result struct {
	Category       Category
	SuggestedReply string
	Raw            *ClassificationResult
}
