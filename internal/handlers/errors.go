// internal/handlers/errors.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/campus-marketplace/internal/services"
	"github.com/javajoker/campus-marketplace/internal/utils"
)

var kindCodes = map[services.ErrorKind]utils.ErrorCode{
	services.KindPermissionDenied: utils.CodeForbidden,
	services.KindForbidden:        utils.CodeForbidden,
	services.KindNotFound:         utils.CodeNotFound,
	services.KindConflict:         utils.CodeConflict,
	services.KindInvalidArgument:  utils.CodeBadRequest,
	services.KindInvalidIdentity:  utils.CodeUnauthorized,
}

// respondError writes err with the code matching its kind. Gate failures
// use the localized permission message.
func respondError(c *gin.Context, err error) {
	kind := services.KindOf(err)
	code, ok := kindCodes[kind]
	if !ok {
		logrus.WithError(err).WithField("path", c.FullPath()).Error("Request failed")
		utils.Fail(c, utils.CodeInternal, "", nil)
		return
	}

	var (
		message string
		details interface{}
	)
	switch kind {
	case services.KindPermissionDenied:
	case services.KindInvalidArgument:
		message = services.PublicMessage(err)
		details = services.PublicMessages(err)
	default:
		message = services.PublicMessage(err)
	}
	utils.Fail(c, code, message, details)
}
