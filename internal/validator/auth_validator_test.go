package validator

import (
	"context"
	"testing"

	"app/internal/domain/model"
	infraRepo "app/internal/infra/repository"
	"app/internal/usecase"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newValidatorForTest(t *testing.T) (usecase.AuthValidator, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.User{}))

	return NewAuthValidator(infraRepo.NewUserGormRepository(db)), db
}

func TestValidateSignup(t *testing.T) {
	v, db := newValidatorForTest(t)
	ctx := context.Background()

	//正常系
	assert.NoError(t, v.ValidateSignup(ctx, "Taro", "taro@example.com", "secret123", model.RoleUser))
	assert.NoError(t, v.ValidateSignup(ctx, "Admin", "admin@example.com", "secret123", model.RoleAdmin))

	//入力不正
	cases := []struct {
		name     string
		email    string
		password string
		role     model.Role
	}{
		{"T", "taro@example.com", "secret123", model.RoleUser},  //名前1文字
		{"Taro", "not-an-email", "secret123", model.RoleUser},   //email形式
		{"Taro", "taro@example.com", "12345", model.RoleUser},   //パスワード5文字
		{"Taro", "taro@example.com", "secret123", "superuser"},  //不明role
		{"", "taro@example.com", "secret123", model.RoleUser},   //名前なし
		{"Taro", "", "secret123", model.RoleUser},               //emailなし
	}
	for _, c := range cases {
		err := v.ValidateSignup(ctx, c.name, c.email, c.password, c.role)
		assert.ErrorIs(t, err, usecase.ErrInvalidInput)
	}

	//email重複
	require.NoError(t, db.Create(&model.User{
		Name: "Taro", Email: "taken@example.com", PasswordHash: "x", Role: model.RoleUser,
	}).Error)
	err := v.ValidateSignup(ctx, "Jiro", "taken@example.com", "secret123", model.RoleUser)
	assert.ErrorIs(t, err, usecase.ErrEmailAlreadyUsed)
}

func TestValidateSignin(t *testing.T) {
	v, _ := newValidatorForTest(t)
	ctx := context.Background()

	assert.NoError(t, v.ValidateSignin(ctx, "taro@example.com", "secret123"))

	assert.ErrorIs(t, v.ValidateSignin(ctx, "", "secret123"), usecase.ErrInvalidInput)
	assert.ErrorIs(t, v.ValidateSignin(ctx, "taro@example.com", ""), usecase.ErrInvalidInput)
	assert.ErrorIs(t, v.ValidateSignin(ctx, "not-an-email", "secret123"), usecase.ErrInvalidInput)
}

func TestValidateResetPassword(t *testing.T) {
	v, _ := newValidatorForTest(t)
	ctx := context.Background()

	assert.NoError(t, v.ValidateResetPassword(ctx, "some-token", "secret123"))

	assert.ErrorIs(t, v.ValidateResetPassword(ctx, "", "secret123"), usecase.ErrInvalidInput)
	assert.ErrorIs(t, v.ValidateResetPassword(ctx, "some-token", "12345"), usecase.ErrInvalidInput)
}
