package repository

import (
	"app/internal/domain/model"
	"context"
)

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成（email重複はDB制約で検知する）
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。見つからなければ nil, nil
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	//メールからユーザーを1件取得する。見つからなければ nil, nil
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	//パスワードハッシュだけを差し替える（リセット用）
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}
