package response

import "github.com/gin-gonic/gin"

const (
	CodeOK                = 0
	CodeBadRequest        = 40000
	CodeInvalidQuestion   = 40001
	CodeInvalidSubject    = 40002
	CodeUploadTooLarge    = 40003
	CodeUnauthorized      = 40100
	CodeForbidden         = 40300
	CodeSessionNotFound   = 40401
	CodeSubjectNotFound   = 40402
	CodeReferenceNotFound = 40403
	CodeSubjectExists     = 40901
	CodeInternalServer    = 50000
)

type APIResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(200, APIResponse{
		Code:    CodeOK,
		Message: "ok",
		Data:    data,
	})
}

// OKWithMessage is OK with a user-facing message instead of "ok".
func OKWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(200, APIResponse{
		Code:    CodeOK,
		Message: message,
		Data:    data,
	})
}

func Error(c *gin.Context, httpStatus, code int, message string) {
	c.JSON(httpStatus, APIResponse{
		Code:    code,
		Message: message,
	})
}
