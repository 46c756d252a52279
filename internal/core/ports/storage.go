// Package ports define contratos que conectam o domínio a implementações externas.
package ports

import (
	"context"
	"time"
)

// WindowStorage mantém as janelas de timestamps por cliente.
//
// Record remove os timestamps anteriores a now-window e, se ainda houver
// espaço (count < limit), registra now. Devolve a contagem após a operação,
// se houve registro e o timestamp mais antigo que permaneceu na janela.
type WindowStorage interface {
	Record(ctx context.Context, key string, now time.Time, window time.Duration, limit int) (WindowState, error)
}

type WindowState struct {
	Count    int
	Recorded bool
	Oldest   time.Time
}
