package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

const (
	StatusOK    = "success"
	StatusError = "error"
)

// Response - единый конверт всех ответов API.
type Response struct {
	Status string      `json:"status" example:"success/error"`
	Error  string      `json:"error,omitempty" example:"Error message if status is 'error'"`
	Data   interface{} `json:"data,omitempty"`
}

// SuccessResponse и ErrorResponse существуют только ради Swagger-аннотаций.
type SuccessResponse struct {
	Status string      `json:"status" example:"success"`
	Data   interface{} `json:"data"`
}

type ErrorResponse struct {
	Status string `json:"status" example:"error"`
	Error  string `json:"error" example:"Error message"`
}

// AccessTokenData - тело ответа с новым access token.
type AccessTokenData struct {
	AccessToken string `json:"access_token"`
}

func send(w http.ResponseWriter, r *http.Request, statusCode int, body Response) {
	render.Status(r, statusCode)
	render.JSON(w, r, body)
}

func SendSuccess(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	send(w, r, statusCode, Response{Status: StatusOK, Data: data})
}

// SendOK отвечает конвертом без data. Используется вебхуком и операциями
// без полезной нагрузки.
func SendOK(w http.ResponseWriter, r *http.Request, statusCode int) {
	send(w, r, statusCode, Response{Status: StatusOK})
}

func SendError(w http.ResponseWriter, r *http.Request, statusCode int, errorMessage string) {
	send(w, r, statusCode, Response{Status: StatusError, Error: errorMessage})
}

// SendValidationError разворачивает ошибки validator в человекочитаемый
// список и всегда отвечает 400.
func SendValidationError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		SendError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	msgs := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field '%s' is required", field))
		case "email":
			msgs = append(msgs, fmt.Sprintf("field '%s' must be a valid email", field))
		case "min":
			msgs = append(msgs, fmt.Sprintf("field '%s' must be at least %s characters", field, fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("field '%s' must be at most %s characters", field, fe.Param()))
		case "len":
			msgs = append(msgs, fmt.Sprintf("field '%s' must be exactly %s characters", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("field '%s' failed on a '%s' validation", field, fe.Tag()))
		}
	}

	SendError(w, r, http.StatusBadRequest, strings.Join(msgs, "; "))
}
