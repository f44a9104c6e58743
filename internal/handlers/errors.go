package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/tutor-marketplace/internal/httperr"
	"github.com/BruksfildServices01/tutor-marketplace/internal/logger"
)

var notFoundCodes = map[string]bool{
	"teacher_not_found": true,
	"booking_not_found": true,
	"receipt_not_found": true,
	"user_not_found":    true,
}

var conflictCodes = map[string]bool{
	"slot_taken":               true,
	"receipt_already_reviewed": true,
	"already_reviewed":         true,
	"already_paid":             true,
	"email_already_registered": true,
}

var forbiddenCodes = map[string]bool{
	"forbidden":            true,
	"forbidden_transition": true,
}

// statusFor maps a business code to its HTTP status.
func statusFor(code string) int {
	switch {
	case notFoundCodes[code]:
		return http.StatusNotFound
	case conflictCodes[code]:
		return http.StatusConflict
	case forbiddenCodes[code]:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

// writeError renders err. Business errors carry their code; anything else
// is logged and reported as a generic 500.
func writeError(c *gin.Context, err error, internalCode string) {
	if code, ok := httperr.Code(err); ok {
		httperr.Write(c, statusFor(code), code, code)
		return
	}

	logger.FromContext(c).Error(internalCode,
		zap.Error(err),
		zap.String("path", c.FullPath()),
	)
	httperr.Internal(c, internalCode, "Internal error.")
}
