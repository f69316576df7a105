// Package action is the gate every operation passes through before its
// body runs: it validates the bound parameter struct and, when required,
// resolves the caller's session. It knows nothing about the operation it
// guards.
package action

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/emilythestrangee/devflow/backend/internal/apperr"
)

// Session is the authenticated identity for the current request.
type Session struct {
	UserID int
}

// Result is what an operation body receives once the gate passes.
type Result[T any] struct {
	Params  T
	Session *Session
}

// Resolver yields the current session, or nil when unauthenticated.
// It must not mutate state.
type Resolver interface {
	Resolve(c *gin.Context) *Session
}

// ContextResolver reads the identity the auth middleware stored on the
// gin context.
type ContextResolver struct{}

func (ContextResolver) Resolve(c *gin.Context) *Session {
	raw, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	switch v := raw.(type) {
	case int:
		return &Session{UserID: v}
	case uint:
		return &Session{UserID: int(v)}
	case float64:
		return &Session{UserID: int(v)}
	default:
		return nil
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report errors under the json field name so the UI can attach
	// messages to individual form fields.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks params against its struct tags and returns a
// *apperr.ValidationError carrying a field -> messages map on failure.
func Validate(params any) error {
	err := validate.Struct(params)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// Not a field failure (e.g. params is not a struct); a
		// programming error, not user input.
		return err
	}

	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = append(fields[fe.Field()], message(fe))
	}
	return &apperr.ValidationError{Fields: fields}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		return fe.Field() + " must be at most " + fe.Param()
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}

// Run validates params and, when authorize is set, resolves the session
// via r. On success the operation body gets {params, session}; otherwise
// a typed failure, and the body never runs.
func Run[T any](c *gin.Context, r Resolver, params T, authorize bool) (*Result[T], error) {
	if err := Validate(params); err != nil {
		return nil, err
	}

	res := &Result[T]{Params: params}

	if authorize {
		session := r.Resolve(c)
		if session == nil {
			return nil, &apperr.UnauthorizedError{}
		}
		res.Session = session
	}

	return res, nil
}
