package httpserver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/cartstore"
	"github.com/Skotchmaster/storefront/internal/service"
)

func TestFail_ConflictMessagesAreFixed(t *testing.T) {
	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"email", service.ErrEmailTaken, "email is already registered"},
		{"cart changed", fmt.Errorf("%v: %w", cartstore.ErrConcurrentUpdate, service.ErrCartChanged), "cart was changed by another request, please retry"},
		{"cart ordered", service.ErrCartOrdered, "this cart has already been ordered"},
		{"other", fmt.Errorf("row 42 in table users: %w", service.ErrConflict), "conflict"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := echo.New().NewContext(httptest.NewRequest(http.MethodPost, "/", nil), httptest.NewRecorder())

			var he *echo.HTTPError
			require.True(t, errors.As(fail(c, l, "test", tt.err, nil), &he))
			assert.Equal(t, http.StatusConflict, he.Code)
			assert.Equal(t, tt.want, he.Message)
		})
	}
}
