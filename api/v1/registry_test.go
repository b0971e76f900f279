package v1

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/releaserite/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironmentEndpoints(t *testing.T) {
	api := newTestAPI(t)
	token := api.login(adminEmail, adminPassword)

	w := api.do(http.MethodPost, "/api/v1/environment", token, map[string]interface{}{"name": "staging"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	env := decode[models.Environment](t, w)
	assert.NotEmpty(t, env.ID)

	w = api.do(http.MethodPost, "/api/v1/environment", token, map[string]interface{}{"name": "staging"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(http.MethodPost, "/api/v1/environment", token, map[string]interface{}{"description": "no name"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodGet, "/api/v1/environment/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodGet, "/api/v1/environment/"+uuid.NewString(), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(http.MethodPatch, "/api/v1/environment/"+env.ID, token, map[string]interface{}{"description": "pre-production"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[models.Environment](t, w)
	assert.Equal(t, "staging", updated.Name)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "pre-production", *updated.Description)

	w = api.do(http.MethodPost, "/api/v1/service", token, map[string]interface{}{"name": "billing", "environment_id": env.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	svc := decode[models.Service](t, w)

	w = api.do(http.MethodDelete, "/api/v1/environment/"+env.ID, token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "environment with services cannot be deleted")

	require.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/api/v1/service/"+svc.ID, token, nil).Code)
	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/api/v1/environment/"+env.ID, token, nil).Code)

	w = api.do(http.MethodGet, "/api/v1/environment", token, nil)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestServiceEndpoints(t *testing.T) {
	api := newTestAPI(t)
	token := api.login(adminEmail, adminPassword)

	w := api.do(http.MethodPost, "/api/v1/service", token, map[string]interface{}{
		"name":           "billing",
		"environment_id": uuid.NewString(),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "unknown environment")

	w = api.do(http.MethodPost, "/api/v1/service", token, map[string]interface{}{
		"name":      "billing",
		"owner":     "payments-team",
		"repo_link": "https://git.example.com/payments/billing",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	svc := decode[models.Service](t, w)
	require.NotNil(t, svc.Status)
	assert.Equal(t, models.ServiceStatusActive, *svc.Status)

	w = api.do(http.MethodPatch, "/api/v1/service/"+svc.ID, token, map[string]interface{}{"owner": nil})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Nil(t, decode[models.Service](t, w).Owner)

	w = api.do(http.MethodGet, "/api/v1/service/"+svc.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "billing", decode[models.Service](t, w).Name)
}

func TestRoleEndpoints(t *testing.T) {
	api := newTestAPI(t)
	token := api.login(adminEmail, adminPassword)

	w := api.do(http.MethodPost, "/api/v1/roles", token, map[string]interface{}{"name": models.AdminRoleName})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(http.MethodPost, "/api/v1/roles", token, map[string]interface{}{"name": "qa", "permissions": "read:releases"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	role := decode[models.Role](t, w)

	w = api.do(http.MethodPost, "/api/v1/users", token, map[string]interface{}{
		"email":    "qa@example.com",
		"password": "qa-password",
		"role_id":  role.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	user := decode[models.User](t, w)

	w = api.do(http.MethodDelete, "/api/v1/roles/"+role.ID, token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "role in use cannot be deleted")

	require.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/api/v1/users/"+user.ID, token, nil).Code)
	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/api/v1/roles/"+role.ID, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/v1/roles/"+role.ID, token, nil).Code)
}

func TestUserEndpoints(t *testing.T) {
	api := newTestAPI(t)
	token := api.login(adminEmail, adminPassword)

	w := api.do(http.MethodPost, "/api/v1/users", token, map[string]interface{}{
		"email":    adminEmail,
		"password": "another-password",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email already registered", errorMessage(t, w))

	w = api.do(http.MethodPost, "/api/v1/users", token, map[string]interface{}{
		"email":    "short@example.com",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPost, "/api/v1/users", token, map[string]interface{}{
		"email":    "dev@example.com",
		"password": "dev-password",
		"role_id":  uuid.NewString(),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "unknown role")

	w = api.do(http.MethodPost, "/api/v1/users", token, map[string]interface{}{
		"email":     "dev@example.com",
		"password":  "dev-password",
		"full_name": "Dev Eloper",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "dev-password")
	dev := decode[models.User](t, w)
	assert.True(t, dev.IsActive)

	w = api.do(http.MethodPatch, "/api/v1/users/"+dev.ID, token, map[string]interface{}{"is_active": false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.False(t, decode[models.User](t, w).IsActive)
	assert.Equal(t, http.StatusUnauthorized, api.postLogin("dev@example.com", "dev-password").Code)

	w = api.do(http.MethodGet, "/api/v1/users?limit=1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.User](t, w), 1)

	w = api.do(http.MethodGet, "/api/v1/users?limit=0&skip=-1", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	me := decode[models.User](t, api.do(http.MethodGet, "/api/v1/auth/me", token, nil))
	w = api.do(http.MethodDelete, "/api/v1/users/"+me.ID, token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "users cannot delete themselves")
}
