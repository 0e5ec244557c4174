package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	"app/internal/logging"
	"app/internal/repository"
	"app/internal/token"

	"golang.org/x/crypto/bcrypt"
)

// usecaseがValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateSignup(ctx context.Context, name string, email string, password string, role model.Role) error
	ValidateSignin(ctx context.Context, email string, password string) error
	ValidateResetPassword(ctx context.Context, resetToken string, newPassword string) error
}

// リセットメール送信の約束（mail.ResetMailerが実装）
type ResetMailSender interface {
	SendResetEmail(ctx context.Context, toEmail string, resetToken string) error
}

type UserDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// OAS: TokenOut
type TokenOutput struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
	Role     model.Role
}

type SigninInput struct {
	Email    string
	Password string
}

type AuthUsecase struct {
	users     repository.UserRepository
	tokens    *token.Service
	mailer    ResetMailSender
	validator AuthValidator
}

func NewAuthUsecase(
	users repository.UserRepository,
	tokens *token.Service,
	mailer ResetMailSender,
	validator AuthValidator,
) *AuthUsecase {
	return &AuthUsecase{
		users:     users,
		tokens:    tokens,
		mailer:    mailer,
		validator: validator,
	}
}

func (u *AuthUsecase) Signup(ctx context.Context, in SignupInput) (UserDTO, error) {
	//roleが空ならuser
	role := in.Role
	if role == "" {
		role = model.RoleUser
	}

	//入力検証（validatorに寄せる）
	if err := u.validator.ValidateSignup(ctx, in.Name, in.Email, in.Password, role); err != nil {
		if err == ErrEmailAlreadyUsed {
			logging.FromContext(ctx).Info("signup_conflict", "email", in.Email)
			return UserDTO{}, NewHTTPError(http.StatusConflict, "email already registered")
		}
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "invalid input")
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user := &model.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: string(pwHash),
		Role:         role,
	}

	//保存。同時リクエストのemail重複はunique制約で弾かれるので、
	//失敗時はemailを引き直して重複だけ409にする。それ以外はDB障害
	if err := u.users.Create(ctx, user); err != nil {
		if existing, ferr := u.users.FindByEmail(ctx, user.Email); ferr == nil && existing != nil {
			return UserDTO{}, NewHTTPError(http.StatusConflict, "email already registered")
		}
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	logging.FromContext(ctx).Info("signup", "user_id", user.ID, "email", user.Email)

	return toUserDTO(user), nil
}

func (u *AuthUsecase) Signin(ctx context.Context, in SigninInput) (TokenOutput, error) {
	if err := u.validator.ValidateSignin(ctx, in.Email, in.Password); err != nil {
		return TokenOutput{}, NewHTTPError(http.StatusBadRequest, "invalid input")
	}

	user, err := u.users.FindByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		return TokenOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil {
		logging.FromContext(ctx).Warn("signin_failed", "email", in.Email)
		return TokenOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}

	//パスワード照合（bcrypt）
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		logging.FromContext(ctx).Warn("signin_failed", "email", in.Email)
		return TokenOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}

	signed, err := u.tokens.IssueSessionToken(user.ID, user.Role)
	if err != nil {
		return TokenOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	logging.FromContext(ctx).Info("signin", "user_id", user.ID)

	return TokenOutput{
		AccessToken: signed,
		TokenType:   "bearer",
	}, nil
}

func (u *AuthUsecase) Profile(ctx context.Context, userID int64) (UserDTO, error) {
	if userID <= 0 {
		return UserDTO{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil {
		return UserDTO{}, NewHTTPError(http.StatusUnauthorized, "account not found")
	}

	return toUserDTO(user), nil
}

// リセットトークンを発行してメールを送る
func (u *AuthUsecase) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid input")
	}

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil {
		return NewHTTPError(http.StatusNotFound, "user not found")
	}

	resetToken, err := u.tokens.IssueResetToken(user.ID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	//送信失敗はリクエストエラーとして返す。リトライしない
	if err := u.mailer.SendResetEmail(ctx, user.Email, resetToken); err != nil {
		logging.FromContext(ctx).Error("reset_mail_failed", "user_id", user.ID, "error", err.Error())
		return NewHTTPError(http.StatusBadGateway, "failed to send email")
	}

	logging.FromContext(ctx).Info("reset_requested", "user_id", user.ID)
	return nil
}

func (u *AuthUsecase) ResetPassword(ctx context.Context, resetToken string, newPassword string) error {
	if err := u.validator.ValidateResetPassword(ctx, resetToken, newPassword); err != nil {
		return NewHTTPError(http.StatusBadRequest, "invalid input")
	}

	//セッショントークンはここでは通らない
	userID, err := u.tokens.VerifyResetToken(resetToken)
	if err != nil {
		return NewHTTPError(http.StatusBadRequest, "invalid or expired token")
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil {
		return NewHTTPError(http.StatusNotFound, "user not found")
	}

	pwHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	if err := u.users.UpdatePassword(ctx, user.ID, string(pwHash)); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	logging.FromContext(ctx).Info("reset_completed", "user_id", user.ID)
	return nil
}

// model.UserをAPI返却用DTOに変換。
func toUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  string(u.Role),
	}
}
