package validator

import (
	"context"
	"regexp"
	"strings"

	"app/internal/domain/model"
	"app/internal/repository"
	"app/internal/usecase"
)

type authValidator struct {
	users repository.UserRepository
}

// Usecaseは interface を依存注入
func NewAuthValidator(users repository.UserRepository) usecase.AuthValidator {
	return &authValidator{users: users}
}

// サインアップの入力を検証
func (v *authValidator) ValidateSignup(ctx context.Context, name string, email string, password string, role model.Role) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	// 必須チェック
	if name == "" || email == "" || password == "" {
		return usecase.ErrInvalidInput
	}

	// 名前は2文字以上
	if len(name) < 2 {
		return usecase.ErrInvalidInput
	}

	// email形式
	if !isEmailLike(email) {
		return usecase.ErrInvalidInput
	}

	// パスワード最低文字数（6）
	if len(password) < 6 {
		return usecase.ErrInvalidInput
	}

	// roleはuser/adminのみ
	if role != model.RoleUser && role != model.RoleAdmin {
		return usecase.ErrInvalidInput
	}

	// email重複チェック（DBが必要）
	u, err := v.users.FindByEmail(ctx, email)
	if err == nil && u != nil {
		return usecase.ErrEmailAlreadyUsed
	}

	return nil
}

// サインインの入力を検証
func (v *authValidator) ValidateSignin(ctx context.Context, email string, password string) error {
	email = strings.TrimSpace(email)

	if email == "" || password == "" {
		return usecase.ErrInvalidInput
	}

	if !isEmailLike(email) {
		return usecase.ErrInvalidInput
	}

	return nil
}

// パスワード再設定の入力を検証
func (v *authValidator) ValidateResetPassword(ctx context.Context, resetToken string, newPassword string) error {
	if strings.TrimSpace(resetToken) == "" {
		return usecase.ErrInvalidInput
	}
	if len(newPassword) < 6 {
		return usecase.ErrInvalidInput
	}
	return nil
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// 簡易メール形式をチェック
func isEmailLike(s string) bool {
	return emailRe.MatchString(s)
}
