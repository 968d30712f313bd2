package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// AddAttribute adds a custom attribute to the current transaction
func AddAttribute(c echo.Context, key string, value interface{}) {
	if txn := getNewRelicTransaction(c); txn != nil {
		txn.AddAttribute(key, value)
	}
}

// NoticeError reports an error to New Relic
func NoticeError(c echo.Context, err error) {
	if txn := getNewRelicTransaction(c); txn != nil {
		txn.NoticeError(err)
	}
}

// SetPublisherID tags the current transaction with the driver's publisher id
func SetPublisherID(c echo.Context, publisherID string) {
	AddAttribute(c, "publisher.id", publisherID)
}

// StartSegment opens a named segment on the current transaction. The
// returned segment is nil-safe to End.
func StartSegment(c echo.Context, name string) *newrelic.Segment {
	return getNewRelicTransaction(c).StartSegment(name)
}
