package middleware

import "github.com/gin-gonic/gin"

// contextKey is a private type for context keys to prevent collisions.
type contextKey string

const (
	loggerKey     = contextKey("logger")
	operatorIDKey = contextKey("operatorID")
	branchIDKey   = contextKey("branchID")
)

// GetOperatorIDFromContext retrieves the authenticated operator ID from the
// Gin context. It returns the ID and a boolean indicating if it was found.
func GetOperatorIDFromContext(c *gin.Context) (string, bool) {
	return stringFromContext(c, operatorIDKey)
}

// GetBranchIDFromContext retrieves the branch ID from the Gin context.
func GetBranchIDFromContext(c *gin.Context) (string, bool) {
	return stringFromContext(c, branchIDKey)
}

func stringFromContext(c *gin.Context, key contextKey) (string, bool) {
	val, exists := c.Get(string(key))
	if !exists {
		// check in the request context as well
		ctxVal := c.Request.Context().Value(key)
		if ctxVal != nil {
			s, ok := ctxVal.(string)
			return s, ok
		}
		return "", false
	}
	s, ok := val.(string)
	return s, ok
}
