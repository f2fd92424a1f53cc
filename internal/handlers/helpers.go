package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"atlascrm/internal/apperrors"
	"atlascrm/internal/authz"
)

// tolerant of claim value types (int / int64 / float64 / string)
func getIntFromCtx(c *gin.Context, key string) (int, bool) {
	v, ok := c.Get(key)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case string:
		if n, err := strconv.Atoi(t); err == nil {
			return n, true
		}
	}
	return 0, false
}

func getPrincipal(c *gin.Context) authz.Principal {
	var p authz.Principal
	if id, ok := getIntFromCtx(c, "user_id"); ok {
		p.ID = id
	}
	if v, ok := c.Get("role"); ok {
		if role, ok := v.(string); ok {
			p.Role = role
		}
	}
	return p
}

// respondError maps the error taxonomy onto HTTP statuses. Forbidden and
// InvalidTransition reasons are business-rule explanations and go to the
// client verbatim; unknown-stage and persistence failures are logged and
// surfaced as a generic failure.
func respondError(c *gin.Context, err error) {
	var fe *apperrors.ForbiddenError
	var te *apperrors.InvalidTransitionError
	var ve *apperrors.ValidationError
	switch {
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.As(err, &fe):
		c.JSON(http.StatusForbidden, gin.H{"error": fe.Reason})
	case errors.As(err, &te):
		c.JSON(http.StatusConflict, gin.H{"error": te.Reason})
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Reason})
	case errors.Is(err, apperrors.ErrConflictOnConvert):
		c.JSON(http.StatusConflict, gin.H{"error": "record was converted concurrently, refresh and retry"})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func pageParams(c *gin.Context) (limit, offset int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "100"))
	if err != nil || size < 1 {
		size = 100
	}
	return size, (page - 1) * size
}
