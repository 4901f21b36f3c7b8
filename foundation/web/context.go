package web

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// Context carries the gin context together with the request context and the
// query/param parse errors collected by the typed getters.
type Context struct {
	*gin.Context
	Ctx context.Context

	queryErrs []error
	paramErrs []error
}

// BindFunc binds the request body into data and checks that the listed struct
// fields are present (non-nil pointers / non-zero values).
func (c *Context) BindFunc(data interface{}, required ...string) error {
	if err := c.ShouldBind(data); err != nil {
		return NewRequestError(errors.Wrap(err, "binding request body"), http.StatusBadRequest)
	}

	v := reflect.ValueOf(data).Elem()
	var missing []string
	for _, name := range required {
		for _, part := range strings.Split(name, ",") {
			field := v.FieldByName(strings.TrimSpace(part))
			if !field.IsValid() {
				continue
			}
			if field.Kind() == reflect.Ptr && field.IsNil() {
				missing = append(missing, part)
				continue
			}
			if field.Kind() != reflect.Ptr && field.IsZero() {
				missing = append(missing, part)
			}
		}
	}
	if len(missing) > 0 {
		return NewRequestError(errors.Errorf("required fields: %s", strings.Join(missing, ", ")), http.StatusBadRequest)
	}

	return nil
}

// GetQueryFunc parses an optional query parameter into *int, *string or *bool.
// Absent parameters yield an untyped nil; parse failures are reported by ValidQuery.
func (c *Context) GetQueryFunc(kind reflect.Kind, key string) interface{} {
	value, ok := c.GetQuery(key)
	if !ok || value == "" {
		return nil
	}

	switch kind {
	case reflect.Int:
		number, err := strconv.Atoi(value)
		if err != nil {
			c.queryErrs = append(c.queryErrs, errors.Wrapf(err, "query %q", key))
			return nil
		}
		return &number
	case reflect.Bool:
		flag, err := strconv.ParseBool(value)
		if err != nil {
			c.queryErrs = append(c.queryErrs, errors.Wrapf(err, "query %q", key))
			return nil
		}
		return &flag
	case reflect.String:
		return &value
	default:
		c.queryErrs = append(c.queryErrs, errors.Errorf("query %q: unsupported kind %s", key, kind))
		return nil
	}
}

// GetParam parses a path parameter. Failures are reported by ValidParam.
func (c *Context) GetParam(kind reflect.Kind, key string) interface{} {
	value := c.Param(key)

	switch kind {
	case reflect.Int:
		number, err := strconv.Atoi(value)
		if err != nil {
			c.paramErrs = append(c.paramErrs, errors.Wrapf(err, "param %q", key))
			return 0
		}
		return number
	case reflect.String:
		return value
	default:
		c.paramErrs = append(c.paramErrs, errors.Errorf("param %q: unsupported kind %s", key, kind))
		return ""
	}
}

func (c *Context) ValidQuery() error {
	return joinParseErrors(c.queryErrs)
}

func (c *Context) ValidParam() error {
	return joinParseErrors(c.paramErrs)
}

func joinParseErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	parts := make([]string, 0, len(errs))
	for _, err := range errs {
		parts = append(parts, err.Error())
	}
	return NewRequestError(errors.New(strings.Join(parts, "; ")), http.StatusBadRequest)
}

// Respond writes the payload and reports success to the handler chain.
func (c *Context) Respond(data map[string]interface{}, status int) error {
	c.JSON(status, data)
	return nil
}

// RespondError writes the error payload. Unknown error types surface as 500.
func (c *Context) RespondError(err error) error {
	status := http.StatusInternalServerError
	kind := KindInternal
	message := "internal server error"

	var webErr *Error
	if errors.As(err, &webErr) {
		status = webErr.Status
		kind = webErr.Kind
		message = webErr.Err.Error()
	} else if err != nil {
		message = fmt.Sprintf("internal server error: %v", err)
	}

	c.JSON(status, map[string]interface{}{
		"status": false,
		"kind":   kind,
		"error":  message,
	})
	return nil
}
