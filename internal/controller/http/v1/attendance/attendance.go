package attendance

import (
	"net/http"
	"reflect"

	"lunch/backend/foundation/web"
	"lunch/backend/internal/auth"
	"lunch/backend/internal/repository/postgres/attendance"

	"github.com/pkg/errors"
)

type Controller struct {
	attendance Attendance
}

func NewController(attendance Attendance) *Controller {
	return &Controller{attendance}
}

func (uc Controller) Mark(c *web.Context) error {
	var request attendance.MarkRequest
	if err := c.BindFunc(&request, "UserID", "Date", "Status"); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.attendance.Mark(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

// GetHistory serves both the range history and, when ?date= is given, the
// single-day lookup. A missing record responds with null data, not an error.
func (uc Controller) GetHistory(c *web.Context) error {
	userID := c.GetParam(reflect.Int, "user_id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	var filter attendance.Filter
	var day *string

	if from, ok := c.GetQueryFunc(reflect.String, "from").(*string); ok {
		filter.From = from
	}
	if to, ok := c.GetQueryFunc(reflect.String, "to").(*string); ok {
		filter.To = to
	}
	if date, ok := c.GetQueryFunc(reflect.String, "date").(*string); ok {
		day = date
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	if day != nil {
		record, err := uc.attendance.GetAttendance(c.Ctx, userID, *day)
		if err != nil {
			return c.RespondError(err)
		}
		return c.Respond(map[string]interface{}{
			"data":   record,
			"status": true,
		}, http.StatusOK)
	}

	list, summary, err := uc.attendance.GetHistory(c.Ctx, userID, filter)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"results": list,
			"summary": summary,
		},
		"status": true,
	}, http.StatusOK)
}

// Today resolves the caller's effective status for today; admins may pass
// ?user_id= to resolve someone else's.
func (uc Controller) Today(c *web.Context) error {
	claims, ok := c.Ctx.Value(auth.Key).(auth.Claims)
	if !ok {
		return c.RespondError(web.NewRequestError(errors.New("claims not found"), http.StatusUnauthorized))
	}

	userID := claims.UserId
	if id, ok := c.GetQueryFunc(reflect.Int, "user_id").(*int); ok && id != nil {
		userID = *id
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.attendance.ResolveToday(c.Ctx, userID)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}
