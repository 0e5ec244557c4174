package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"app/internal/domain/model"
	infraRepo "app/internal/infra/repository"
	"app/internal/repository"
	"app/internal/token"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestUserRepo(t *testing.T) (repository.UserRepository, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.User{}))

	return infraRepo.NewUserGormRepository(db), db
}

func seedUser(t *testing.T, db *gorm.DB, role model.Role) model.User {
	t.Helper()
	u := model.User{Name: "tester", Email: string(role) + "@example.com", PasswordHash: "x", Role: role}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// AuthJWT通過後にuser_id/roleをcontextから読んで返すだけのハンドラ
func okHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"user_id": c.Get(CtxUserIDKey),
		"role":    c.Get(CtxUserRoleKey),
	})
}

func doRequest(e *echo.Echo, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthJWT_ValidToken_Passes(t *testing.T) {
	users, db := newTestUserRepo(t)
	tokens := token.NewService("secret")
	u := seedUser(t, db, model.RoleUser)

	raw, err := tokens.IssueSessionToken(u.ID, u.Role)
	require.NoError(t, err)

	e := echo.New()
	e.GET("/protected", okHandler, AuthJWT(tokens, users))

	rec := doRequest(e, "Bearer "+raw)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthJWT_MissingOrMalformedHeader(t *testing.T) {
	users, _ := newTestUserRepo(t)
	tokens := token.NewService("secret")

	e := echo.New()
	e.GET("/protected", okHandler, AuthJWT(tokens, users))

	assert.Equal(t, http.StatusUnauthorized, doRequest(e, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(e, "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(e, "Bearer ").Code)
}

func TestAuthJWT_ExpiredToken(t *testing.T) {
	users, db := newTestUserRepo(t)
	past := func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tokens := token.NewServiceWithClock("secret", past)
	u := seedUser(t, db, model.RoleUser)

	raw, err := tokens.IssueSessionToken(u.ID, u.Role)
	require.NoError(t, err)

	e := echo.New()
	e.GET("/protected", okHandler, AuthJWT(tokens, users))

	assert.Equal(t, http.StatusUnauthorized, doRequest(e, "Bearer "+raw).Code)
}

func TestAuthJWT_ResetToken_Rejected(t *testing.T) {
	users, db := newTestUserRepo(t)
	tokens := token.NewService("secret")
	u := seedUser(t, db, model.RoleUser)

	raw, err := tokens.IssueResetToken(u.ID)
	require.NoError(t, err)

	e := echo.New()
	e.GET("/protected", okHandler, AuthJWT(tokens, users))

	assert.Equal(t, http.StatusUnauthorized, doRequest(e, "Bearer "+raw).Code)
}

func TestAuthJWT_DeletedUser(t *testing.T) {
	users, db := newTestUserRepo(t)
	tokens := token.NewService("secret")
	u := seedUser(t, db, model.RoleUser)

	raw, err := tokens.IssueSessionToken(u.ID, u.Role)
	require.NoError(t, err)

	//トークン発行後にアカウント削除
	require.NoError(t, db.Delete(&model.User{}, u.ID).Error)

	e := echo.New()
	e.GET("/protected", okHandler, AuthJWT(tokens, users))

	assert.Equal(t, http.StatusUnauthorized, doRequest(e, "Bearer "+raw).Code)
}

func TestAdminRoleGuard_UserForbidden(t *testing.T) {
	users, db := newTestUserRepo(t)
	tokens := token.NewService("secret")
	u := seedUser(t, db, model.RoleUser)

	raw, err := tokens.IssueSessionToken(u.ID, u.Role)
	require.NoError(t, err)

	e := echo.New()
	e.GET("/protected", okHandler, AuthJWT(tokens, users), AdminRoleGuard())

	assert.Equal(t, http.StatusForbidden, doRequest(e, "Bearer "+raw).Code)
}

func TestAdminRoleGuard_AdminAllowed(t *testing.T) {
	users, db := newTestUserRepo(t)
	tokens := token.NewService("secret")
	u := seedUser(t, db, model.RoleAdmin)

	raw, err := tokens.IssueSessionToken(u.ID, u.Role)
	require.NoError(t, err)

	e := echo.New()
	e.GET("/protected", okHandler, AuthJWT(tokens, users), AdminRoleGuard())

	assert.Equal(t, http.StatusOK, doRequest(e, "Bearer "+raw).Code)
}

func TestUserRoleGuard_AdminForbidden(t *testing.T) {
	users, db := newTestUserRepo(t)
	tokens := token.NewService("secret")
	u := seedUser(t, db, model.RoleAdmin)

	raw, err := tokens.IssueSessionToken(u.ID, u.Role)
	require.NoError(t, err)

	e := echo.New()
	e.GET("/protected", okHandler, AuthJWT(tokens, users), UserRoleGuard())

	assert.Equal(t, http.StatusForbidden, doRequest(e, "Bearer "+raw).Code)
}
