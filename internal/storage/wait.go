package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/user-auth-service/internal/lib/sl"
)

// waitInterval — фиксированная пауза между попытками подключения.
const waitInterval = time.Second

// WaitForReady блокируется до тех пор, пока база данных не начнёт отвечать
// на ping, опрашивая её с интервалом в одну секунду и логируя прогресс.
// Возвращает ошибку только при отмене контекста.
func (s *Storage) WaitForReady(ctx context.Context, log *slog.Logger) error {
	const op = "storage.WaitForReady"

	log.Info("waiting for database...")
	for {
		err := s.DB.PingContext(ctx)
		if err == nil {
			log.Info("database available")
			return nil
		}
		log.Info("database unavailable, waiting 1 second...", sl.Err(err))

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", op, ctx.Err())
		case <-time.After(waitInterval):
		}
	}
}
