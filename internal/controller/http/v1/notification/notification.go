package notification

import (
	"net/http"
	"reflect"

	"lunch/backend/foundation/web"
	"lunch/backend/internal/repository/postgres/notification"
)

type Controller struct {
	notification Notification
}

func NewController(notification Notification) *Controller {
	return &Controller{notification}
}

func (uc Controller) GetList(c *web.Context) error {
	var filter notification.Filter

	if limit, ok := c.GetQueryFunc(reflect.Int, "limit").(*int); ok {
		filter.Limit = limit
	}
	if page, ok := c.GetQueryFunc(reflect.Int, "page").(*int); ok {
		filter.Page = page
	}
	if status, ok := c.GetQueryFunc(reflect.String, "status").(*string); ok {
		filter.Status = status
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	list, count, err := uc.notification.GetList(c.Ctx, filter)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"results": list,
			"count":   count,
		},
		"status": true,
	}, http.StatusOK)
}
