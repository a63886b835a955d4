package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"perfume-proxy/api/internal/logger"
)

const RequestIDHeader = "X-Request-ID"

// New http.Server с разумными таймаутами. WriteTimeout больше таймаута LLM,
// иначе ответ модели не успеет уйти клиенту.
func New(addr string, h http.Handler, upstreamTimeout time.Duration) *http.Server {
	write := upstreamTimeout + 30*time.Second
	if upstreamTimeout <= 0 {
		write = 0
	}
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      write,
		IdleTimeout:       60 * time.Second,
	}
}

// Run слушает addr до SIGINT/SIGTERM или отмены ctx, затем гасит сервер за shutdownTimeout.
func Run(ctx context.Context, srv *http.Server, log logger.Logger, shutdownTimeout time.Duration) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("shutting down", logger.Duration("timeout", shutdownTimeout))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

// WithRequestLog вешает request id (берёт входящий X-Request-ID, если есть)
// и кладёт логгер запроса в контекст.
func WithRequestLog(log logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		reqLog := log.With(
			logger.String("request_id", id),
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
		)
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context(), reqLog)))
		reqLog.Debug("request done", logger.Duration("took", time.Since(start)))
	})
}

// Healthz отвечает "ok" на любой метод.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
