package domain

// Category é a classificação grossa de um e-mail.
type Category string

const (
	CategoryProductive   Category = "Produtivo"
	CategoryUnproductive Category = "Improdutivo"
	CategoryUnclassified Category = "Não Classificado"
)

func (c Category) String() string { return string(c) }

// Valid informa se c pertence ao conjunto fechado de categorias.
func (c Category) Valid() bool {
	switch c {
	case CategoryProductive, CategoryUnproductive, CategoryUnclassified:
		return true
	}
	return false
}
