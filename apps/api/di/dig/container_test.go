package dig_container

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/edutrack/apps/api/echo"
	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/core/user"
)

func TestNew(t *testing.T) {
	conf := core.NewTestConfig(t.TempDir())
	c := New(func() *core.Config { return conf })

	err := c.Invoke(func(server *echoapi.Server, repo user.Repository, svc *user.Service) {
		defer func() { _ = server.Close() }()

		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)

		// the service and the server share the configured storage
		usr := user.User{Name: "Mrs Zulu", Email: "zulu@example.com", Role: user.RoleTeacher}
		usr, err := repo.CreateUser(context.Background(), usr)
		require.NoError(t, err)
		got, err := svc.GetByID(context.Background(), usr.ID)
		require.NoError(t, err)
		assert.Equal(t, usr.Email, got.Email)
	})
	require.NoError(t, err)
}
