package web

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestNewRequestErrorKinds(t *testing.T) {
	cases := []struct {
		status int
		kind   string
	}{
		{http.StatusBadRequest, KindValidation},
		{http.StatusUnauthorized, KindValidation},
		{http.StatusForbidden, KindValidation},
		{http.StatusNotFound, KindNotFound},
		{http.StatusConflict, KindValidation},
		{http.StatusInternalServerError, KindInternal},
		{http.StatusBadGateway, KindInternal},
	}

	for _, tc := range cases {
		err := NewRequestError(errors.New("boom"), tc.status)

		var e *Error
		require.True(t, errors.As(err, &e))
		require.Equal(t, tc.status, e.Status)
		require.Equal(t, tc.kind, e.Kind, "status %d", tc.status)
	}
}

func TestNewKindErrorOverridesStatusKind(t *testing.T) {
	cause := errors.New("marking window for today is closed")
	err := NewKindError(cause, http.StatusConflict, KindCutoffExceeded)

	var e *Error
	require.True(t, errors.As(err, &e))
	require.Equal(t, http.StatusConflict, e.Status)
	require.Equal(t, KindCutoffExceeded, e.Kind)
	require.True(t, errors.Is(err, cause))
	require.Equal(t, cause.Error(), err.Error())
}
