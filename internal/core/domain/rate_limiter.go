// Package domain concentra entidades e estruturas centrais do classificador de e-mails.
package domain

import "time"

// RateLimitRule define quantas requisições um cliente pode fazer dentro da janela.
type RateLimitRule struct {
	Requests int
	Window   time.Duration
}

// Decision é o resultado de uma consulta ao rate limiter.
type Decision struct {
	Allowed    bool
	Identifier string
	Count      int
	Limit      int
	RetryAfter time.Duration
}

// Remaining devolve quantas requisições ainda cabem na janela atual.
func (d Decision) Remaining() int {
	if d.Count >= d.Limit {
		return 0
	}
	return d.Limit - d.Count
}
