package auth

import "github.com/gin-gonic/gin"

const (
	ctxKeyUserID  = "userID"
	ctxKeyIsStaff = "isStaff"
)

// GetUserID returns the authenticated user's ID or empty string.
func GetUserID(c *gin.Context) string {
	return c.GetString(ctxKeyUserID)
}

// IsStaff reports whether the authenticated user is clinic staff.
// It is only meaningful after AuthRequired has run.
func IsStaff(c *gin.Context) bool {
	return c.GetBool(ctxKeyIsStaff)
}

// Principal is the authenticated caller as seen by the service layer.
type Principal struct {
	UserID  string
	IsStaff bool
}

// GetPrincipal bundles the caller identity stored in the gin context.
func GetPrincipal(c *gin.Context) Principal {
	return Principal{UserID: GetUserID(c), IsStaff: IsStaff(c)}
}

// SetPrincipal stores the caller identity in the gin context.
func SetPrincipal(c *gin.Context, p Principal) {
	c.Set(ctxKeyUserID, p.UserID)
	c.Set(ctxKeyIsStaff, p.IsStaff)
}
