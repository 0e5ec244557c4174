package usecase

import (
	"context"
	"net/http"
	"testing"

	"app/internal/domain/model"
	infraRepo "app/internal/infra/repository"
	"app/internal/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// =====================
// Mocks
// =====================

type MailerMock struct{ mock.Mock }

func (m *MailerMock) SendResetEmail(ctx context.Context, toEmail string, resetToken string) error {
	args := m.Called(ctx, toEmail, resetToken)
	return args.Error(0)
}

// validatorパッケージと同等の検証を行うテスト用実装
type stubValidator struct{}

func (stubValidator) ValidateSignup(ctx context.Context, name, email, password string, role model.Role) error {
	if len(name) < 2 || email == "" || len(password) < 6 {
		return ErrInvalidInput
	}
	return nil
}

func (stubValidator) ValidateSignin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return ErrInvalidInput
	}
	return nil
}

func (stubValidator) ValidateResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if resetToken == "" || len(newPassword) < 6 {
		return ErrInvalidInput
	}
	return nil
}

func newAuthUsecaseForTest(t *testing.T) (*AuthUsecase, *MailerMock, *token.Service, func(email, password string, role model.Role) int64) {
	t.Helper()

	db := newTestDB(t)
	users := infraRepo.NewUserGormRepository(db)
	tokens := token.NewService("test-secret")
	mailer := &MailerMock{}

	uc := NewAuthUsecase(users, tokens, mailer, stubValidator{})

	seedUser := func(email, password string, role model.Role) int64 {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		require.NoError(t, err)
		u := model.User{Name: "tester", Email: email, PasswordHash: string(hash), Role: role}
		require.NoError(t, db.Create(&u).Error)
		return u.ID
	}

	return uc, mailer, tokens, seedUser
}

func TestAuthUsecase_Signup_Success(t *testing.T) {
	uc, _, _, _ := newAuthUsecaseForTest(t)
	ctx := context.Background()

	out, err := uc.Signup(ctx, SignupInput{
		Name:     "Taro",
		Email:    "taro@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	assert.NotZero(t, out.ID)
	assert.Equal(t, "taro@example.com", out.Email)
	//role未指定はuser
	assert.Equal(t, string(model.RoleUser), out.Role)
}

func TestAuthUsecase_Signup_DuplicateEmail(t *testing.T) {
	uc, _, _, seedUser := newAuthUsecaseForTest(t)
	ctx := context.Background()

	seedUser("taro@example.com", "secret123", model.RoleUser)

	_, err := uc.Signup(ctx, SignupInput{
		Name:     "Taro",
		Email:    "taro@example.com",
		Password: "secret123",
	})
	require.Error(t, err)

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)
}

// Createが失敗してemailも重複していないケース用
type brokenUserRepo struct{}

func (brokenUserRepo) Create(ctx context.Context, user *model.User) error {
	return assert.AnError
}

func (brokenUserRepo) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	return nil, nil
}

func (brokenUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}

func (brokenUserRepo) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	return assert.AnError
}

func TestAuthUsecase_Signup_StoreFault_Is500(t *testing.T) {
	tokens := token.NewService("test-secret")
	uc := NewAuthUsecase(brokenUserRepo{}, tokens, &MailerMock{}, stubValidator{})

	_, err := uc.Signup(context.Background(), SignupInput{
		Name:     "Taro",
		Email:    "taro@example.com",
		Password: "secret123",
	})
	require.Error(t, err)

	//DB障害を409に化けさせない
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, he.Status)
}

func TestAuthUsecase_Signin_Success(t *testing.T) {
	uc, _, tokens, seedUser := newAuthUsecaseForTest(t)
	ctx := context.Background()

	userID := seedUser("taro@example.com", "secret123", model.RoleUser)

	out, err := uc.Signin(ctx, SigninInput{Email: "taro@example.com", Password: "secret123"})
	require.NoError(t, err)

	assert.Equal(t, "bearer", out.TokenType)

	gotID, gotRole, err := tokens.VerifySessionToken(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, gotID)
	assert.Equal(t, model.RoleUser, gotRole)
}

func TestAuthUsecase_Signin_WrongPassword(t *testing.T) {
	uc, _, _, seedUser := newAuthUsecaseForTest(t)
	ctx := context.Background()

	seedUser("taro@example.com", "secret123", model.RoleUser)

	_, err := uc.Signin(ctx, SigninInput{Email: "taro@example.com", Password: "wrongpass"})
	require.Error(t, err)

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Status)
	//存在しないemailと同じメッセージにする
	assert.Equal(t, "invalid email or password", he.Message)
}

func TestAuthUsecase_Signin_UnknownEmail(t *testing.T) {
	uc, _, _, _ := newAuthUsecaseForTest(t)

	_, err := uc.Signin(context.Background(), SigninInput{Email: "none@example.com", Password: "secret123"})
	require.Error(t, err)

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Status)
	assert.Equal(t, "invalid email or password", he.Message)
}

func TestAuthUsecase_ForgotPassword_UnknownEmail(t *testing.T) {
	uc, mailer, _, _ := newAuthUsecaseForTest(t)

	err := uc.ForgotPassword(context.Background(), "none@example.com")
	require.Error(t, err)

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)

	//メールは送られない
	mailer.AssertNotCalled(t, "SendResetEmail")
}

func TestAuthUsecase_ForgotPassword_MailFailure(t *testing.T) {
	uc, mailer, _, seedUser := newAuthUsecaseForTest(t)
	ctx := context.Background()

	seedUser("taro@example.com", "secret123", model.RoleUser)
	mailer.On("SendResetEmail", mock.Anything, "taro@example.com", mock.Anything).
		Return(assert.AnError)

	err := uc.ForgotPassword(ctx, "taro@example.com")
	require.Error(t, err)

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, he.Status)
	assert.Equal(t, "failed to send email", he.Message)
}

func TestAuthUsecase_ResetPassword_FullFlow(t *testing.T) {
	uc, mailer, _, seedUser := newAuthUsecaseForTest(t)
	ctx := context.Background()

	seedUser("taro@example.com", "oldpass123", model.RoleUser)

	//発行されたリセットトークンを捕まえる
	var capturedToken string
	mailer.On("SendResetEmail", mock.Anything, "taro@example.com", mock.Anything).
		Run(func(args mock.Arguments) {
			capturedToken = args.String(2)
		}).
		Return(nil)

	require.NoError(t, uc.ForgotPassword(ctx, "taro@example.com"))
	require.NotEmpty(t, capturedToken)

	require.NoError(t, uc.ResetPassword(ctx, capturedToken, "newpass123"))

	//旧パスワードでは入れない
	_, err := uc.Signin(ctx, SigninInput{Email: "taro@example.com", Password: "oldpass123"})
	require.Error(t, err)

	//新パスワードでは入れる
	_, err = uc.Signin(ctx, SigninInput{Email: "taro@example.com", Password: "newpass123"})
	require.NoError(t, err)
}

func TestAuthUsecase_ResetPassword_RejectsSessionToken(t *testing.T) {
	uc, _, tokens, seedUser := newAuthUsecaseForTest(t)
	ctx := context.Background()

	userID := seedUser("taro@example.com", "secret123", model.RoleUser)

	sessionToken, err := tokens.IssueSessionToken(userID, model.RoleUser)
	require.NoError(t, err)

	err = uc.ResetPassword(ctx, sessionToken, "newpass123")
	require.Error(t, err)

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, "invalid or expired token", he.Message)
}
