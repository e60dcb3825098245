package service_test

import (
	"context"
	"testing"
	"time"

	"avyyan/internal/config"
	"avyyan/internal/dto"
	"avyyan/internal/model"
	"avyyan/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-0123456789-0123456789-abcdef"

func testConfig() *config.Config {
	return &config.Config{JWTSecret: testSecret, JWTExpirationHours: 8, JWTRefreshHours: 24}
}

func newUser(t *testing.T, username, password, role string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &model.User{Username: username, FullName: username, PasswordHash: string(hash), RoleName: role, Active: true}
}

func buildAuthSvc(t *testing.T, users ...*model.User) (service.AuthService, *stubUserRepo) {
	t.Helper()
	userRepo := newStubUserRepo(users...)
	roleRepo := newStubRoleRepo()
	perms := service.NewPermissionService(roleRepo, nil, time.Minute)
	return service.NewAuthService(userRepo, roleRepo, perms, testConfig()), userRepo
}

func TestLogin_Success(t *testing.T) {
	svc, _ := buildAuthSvc(t, newUser(t, "ravi", "knit1234", model.RoleSales))

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ravi", Password: "knit1234"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, model.RoleSales, resp.User.Role)
	assert.Contains(t, resp.Permissions, model.PermSalesOrdersWrite)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(resp.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ravi", claims["username"])
	assert.Equal(t, model.RoleSales, claims["role"])
	assert.Equal(t, service.TokenAccess, claims["token_type"])
}

func TestLogin_ByEmail(t *testing.T) {
	u := newUser(t, "ravi", "knit1234", model.RoleSales)
	email := "Ravi@Avyyan.in"
	u.Email = &email
	svc, _ := buildAuthSvc(t, u)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ravi@avyyan.in", Password: "knit1234"})
	assert.NoError(t, err)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := buildAuthSvc(t, newUser(t, "ravi", "knit1234", model.RoleSales))

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ravi", Password: "wrong"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLogin_InactiveUser(t *testing.T) {
	u := newUser(t, "ravi", "knit1234", model.RoleSales)
	u.Active = false
	svc, _ := buildAuthSvc(t, u)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ravi", Password: "knit1234"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestRefresh_IssuesNewPair(t *testing.T) {
	svc, _ := buildAuthSvc(t, newUser(t, "ravi", "knit1234", model.RoleSales))
	ctx := context.Background()

	login, err := svc.Login(ctx, dto.LoginRequest{Username: "ravi", Password: "knit1234"})
	require.NoError(t, err)

	resp, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "ravi", resp.User.Username)
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	svc, _ := buildAuthSvc(t, newUser(t, "ravi", "knit1234", model.RoleSales))
	ctx := context.Background()

	login, err := svc.Login(ctx, dto.LoginRequest{Username: "ravi", Password: "knit1234"})
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, login.AccessToken)
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestRefresh_RejectsDeactivatedUser(t *testing.T) {
	u := newUser(t, "ravi", "knit1234", model.RoleSales)
	svc, _ := buildAuthSvc(t, u)
	ctx := context.Background()

	login, err := svc.Login(ctx, dto.LoginRequest{Username: "ravi", Password: "knit1234"})
	require.NoError(t, err)
	require.NoError(t, svc.DeactivateUser(ctx, u.ID))

	_, err = svc.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestRefresh_Garbage(t *testing.T) {
	svc, _ := buildAuthSvc(t)
	_, err := svc.Refresh(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestMe_ReturnsPermissions(t *testing.T) {
	u := newUser(t, "meena", "knit1234", model.RoleInspector)
	svc, _ := buildAuthSvc(t, u)

	me, err := svc.Me(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "meena", me.User.Username)
	assert.ElementsMatch(t, []string{
		model.PermAllotmentsRead, model.PermInspectionsRead, model.PermInspectionsWrite,
		model.PermChatUse, model.PermNotificationsRead,
	}, me.Permissions)
}

func TestCreateUser_HashesAndValidatesRole(t *testing.T) {
	svc, repo := buildAuthSvc(t)
	ctx := context.Background()

	resp, err := svc.CreateUser(ctx, dto.CreateUserRequest{
		Username: "arun", FullName: "Arun K", Password: "longpassword", Role: "Production",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleProduction, resp.Role)
	assert.True(t, resp.Active)

	var stored *model.User
	for _, u := range repo.users {
		stored = u
	}
	require.NotNil(t, stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("longpassword")))

	_, err = svc.CreateUser(ctx, dto.CreateUserRequest{
		Username: "ghost", FullName: "Ghost", Password: "longpassword", Role: "weaver",
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = svc.CreateUser(ctx, dto.CreateUserRequest{
		Username: "arun", FullName: "Arun Again", Password: "longpassword", Role: model.RoleSales,
	})
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestUpdateUser_ChangesRoleAndPassword(t *testing.T) {
	u := newUser(t, "ravi", "knit1234", model.RoleSales)
	svc, _ := buildAuthSvc(t, u)
	ctx := context.Background()

	resp, err := svc.UpdateUser(ctx, u.ID, dto.UpdateUserRequest{Role: model.RoleManager, Password: "newpassword"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleManager, resp.Role)

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "ravi", Password: "newpassword"})
	assert.NoError(t, err)
}

func TestListUsers_InactiveFilter(t *testing.T) {
	active := newUser(t, "a", "knit1234", model.RoleSales)
	inactive := newUser(t, "b", "knit1234", model.RoleSales)
	inactive.Active = false
	svc, _ := buildAuthSvc(t, active, inactive)
	ctx := context.Background()

	list, err := svc.ListUsers(ctx, false)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = svc.ListUsers(ctx, true)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, svc.ReactivateUser(ctx, inactive.ID))
	list, err = svc.ListUsers(ctx, false)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
