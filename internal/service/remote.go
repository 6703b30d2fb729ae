package service

import (
	"context"
	"log"
	"time"
)

const (
	remoteWriteAttempts = 3
	remoteWriteBackoff  = 200 * time.Millisecond
	remoteWriteTimeout  = 5 * time.Second
)

// persistRemote выполняет сквозную запись в удаленное хранилище с повторами.
// Локальная мутация к этому моменту уже применена; отказ удаленной стороны
// только логируется - локальное состояние остается авторитетным и расхождение
// устраняется следующей успешной записью, а не откатом.
func persistRemote(op string, fn func(ctx context.Context) error) {
	if fn == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), remoteWriteTimeout)
	defer cancel()

	var err error
	for attempt := 1; attempt <= remoteWriteAttempts; attempt++ {
		if err = fn(ctx); err == nil {
			return
		}
		if attempt == remoteWriteAttempts || ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
		case <-time.After(time.Duration(attempt) * remoteWriteBackoff):
		}
	}

	log.Printf("[RemoteStore] %s: запись в удаленное хранилище не удалась, локальное состояние остается авторитетным: %v", op, err)
}
