package logger

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// EchoMiddleware records an access log line and, when New Relic is enabled,
// a web transaction for every request
func EchoMiddleware(logger *AppLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var txn *newrelic.Transaction

			if logger.nrApp != nil {
				txn = logger.nrApp.StartTransaction(c.Request().Method + " " + c.Path())
				defer txn.End()

				c.Set("nr_txn", txn)
				txn.SetWebRequestHTTP(c.Request())
				txn.SetWebResponse(c.Response().Writer)
			}

			start := time.Now()
			path := c.Request().URL.Path
			if raw := c.Request().URL.RawQuery; raw != "" {
				path = path + "?" + raw
			}

			err := next(c)
			if err != nil {
				// let echo write the error response so the logged status is the real one
				c.Error(err)
			}

			latency := time.Since(start)
			statusCode := c.Response().Status
			requestID := c.Response().Header().Get(echo.HeaderXRequestID)

			if txn != nil {
				txn.AddAttribute("http.status_code", statusCode)
				txn.AddAttribute("response_time_ms", latency.Milliseconds())
				txn.AddAttribute("request_id", requestID)
				if err != nil {
					txn.NoticeError(err)
				}
			}

			logger.LogHTTPRequest(txn, c.Request().Method, path, c.RealIP(), requestID, statusCode, latency, err)

			return nil
		}
	}
}

// GetTransactionFromContext retrieves the New Relic transaction from the Echo context
func GetTransactionFromContext(c echo.Context) *newrelic.Transaction {
	if txn, ok := c.Get("nr_txn").(*newrelic.Transaction); ok {
		return txn
	}
	return nil
}
