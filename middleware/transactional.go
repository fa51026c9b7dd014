package middleware

import (
	"context"
	"log"
	"net/http"

	"github.com/eaglebank/servicekit/container"
	"github.com/eaglebank/servicekit/tx"
	"github.com/gin-gonic/gin"
)

// Transactional wraps every request handled downstream in a transaction
// boundary governed by def's policy. It is the HTTP counterpart of a
// method-level boundary: handlers and everything they call see the open
// transaction through the request context, so repositories using
// tx.Manager.Querier join it automatically.
//
// An error recorded on the gin context (c.Error) rolls the transaction
// back; a panic rolls it back and continues unwinding into the recovery
// middleware. Components registered without a policy get a pass-through.
func Transactional(mgr *tx.Manager, def *container.Definition) gin.HandlerFunc {
	policy, ok := def.TxPolicy()
	if !ok {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		err := mgr.Run(c.Request.Context(), policy, func(ctx context.Context) error {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
			if len(c.Errors) > 0 {
				return c.Errors[0].Err
			}
			return nil
		})
		if err != nil {
			log.Printf("%s %s: transaction for %q rolled back: %v", c.Request.Method, c.Request.URL.Path, def.Name(), err)
			if !c.Writer.Written() {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Transaction failed"})
			}
		}
	}
}
