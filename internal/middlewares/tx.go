package middlewares

import (
	"bytes"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/sbilibin2017/gw-payment-ledger/internal/logger"
	"github.com/sbilibin2017/gw-payment-ledger/internal/repositories"
)

// TxMiddleware wraps an HTTP handler with a database transaction. The
// response is held back until the transaction commits; a 5xx response rolls
// it back.
func TxMiddleware(db *sqlx.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tx, err := db.Beginx()
			if err != nil {
				logger.FromContext(r.Context()).Errorw("failed to begin transaction", "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}

			defer func() {
				if rec := recover(); rec != nil {
					tx.Rollback()
					panic(rec)
				}
			}()

			ctx := repositories.WithTx(r.Context(), tx)
			bw := &bufferedWriter{header: w.Header(), statusCode: http.StatusOK}

			next.ServeHTTP(bw, r.WithContext(ctx))

			if bw.statusCode >= http.StatusInternalServerError {
				if err := tx.Rollback(); err != nil {
					logger.FromContext(ctx).Errorw("failed to rollback transaction", "error", err)
				}
				bw.flush(w)
				return
			}

			if err := tx.Commit(); err != nil {
				logger.FromContext(ctx).Errorw("failed to commit transaction", "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			repositories.RunCommitHooks(ctx)
			bw.flush(w)
		})
	}
}

type bufferedWriter struct {
	header     http.Header
	statusCode int
	body       bytes.Buffer
}

func (bw *bufferedWriter) Header() http.Header { return bw.header }

func (bw *bufferedWriter) WriteHeader(code int) { bw.statusCode = code }

func (bw *bufferedWriter) Write(b []byte) (int, error) { return bw.body.Write(b) }

func (bw *bufferedWriter) flush(w http.ResponseWriter) {
	w.WriteHeader(bw.statusCode)
	_, _ = w.Write(bw.body.Bytes())
}
