package mail

import (
	"context"
	"fmt"
	"strings"
)

// 実際のメール送信クライアント（SendGridなど）を抽象化する
type EmailClient interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// パスワードリセットメールを組み立てて送る
type ResetMailer struct {
	client      EmailClient
	fromAddress string
	baseURL     string // リセットリンクのベースURL
}

func NewResetMailer(client EmailClient, fromAddress, baseURL string) *ResetMailer {
	return &ResetMailer{
		client:      client,
		fromAddress: fromAddress,
		baseURL:     strings.TrimRight(baseURL, "/"),
	}
}

func (m *ResetMailer) SendResetEmail(ctx context.Context, toEmail string, resetToken string) error {
	link := fmt.Sprintf("%s/auth/reset-password?token=%s", m.baseURL, resetToken)

	body := strings.Join([]string{
		"You requested a password reset. Open the link below to set a new password:",
		"",
		link,
		"",
		"If you didn't request this, please ignore this email.",
	}, "\n")

	return m.client.Send(ctx, m.fromAddress, toEmail, "Password Reset Request", body)
}
