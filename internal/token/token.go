package token

import (
	"errors"
	"strconv"
	"time"

	"app/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
)

var (
	// 署名不正・期限切れ・形式不正
	ErrInvalidToken = errors.New("invalid token")
)

// token用途。sessionとresetは相互に受け付けない
const (
	typeSession = "session"
	typeReset   = "reset"
)

const (
	SessionTTL = 30 * time.Minute
	ResetTTL   = 15 * time.Minute
)

// HS256のJWTを発行/検証する
type Service struct {
	secret []byte
	now    func() time.Time
}

func NewService(secret string) *Service {
	return &Service{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// テスト用に時計を差し替える
func NewServiceWithClock(secret string, now func() time.Time) *Service {
	return &Service{
		secret: []byte(secret),
		now:    now,
	}
}

// セッショントークンを発行
func (s *Service) IssueSessionToken(userID int64, role model.Role) (string, error) {
	now := s.now()

	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(userID, 10),
		"role": string(role),
		"typ":  typeSession,
		"iat":  now.Unix(),
		"exp":  now.Add(SessionTTL).Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.secret)
}

// リセットトークンを発行
func (s *Service) IssueResetToken(userID int64) (string, error) {
	now := s.now()

	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(userID, 10),
		"typ": typeReset,
		"iat": now.Unix(),
		"exp": now.Add(ResetTTL).Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.secret)
}

// セッショントークンを検証してユーザーIDとroleを返す
func (s *Service) VerifySessionToken(raw string) (int64, model.Role, error) {
	claims, err := s.parse(raw)
	if err != nil {
		return 0, "", ErrInvalidToken
	}

	//resetトークンは受け付けない
	if typ, _ := claims["typ"].(string); typ != typeSession {
		return 0, "", ErrInvalidToken
	}

	userID, err := parseSubject(claims["sub"])
	if err != nil || userID <= 0 {
		return 0, "", ErrInvalidToken
	}

	roleStr, ok := claims["role"].(string)
	if !ok || roleStr == "" {
		return 0, "", ErrInvalidToken
	}

	return userID, model.Role(roleStr), nil
}

// リセットトークンを検証してユーザーIDを返す
func (s *Service) VerifyResetToken(raw string) (int64, error) {
	claims, err := s.parse(raw)
	if err != nil {
		return 0, ErrInvalidToken
	}

	//sessionトークンは受け付けない
	if typ, _ := claims["typ"].(string); typ != typeReset {
		return 0, ErrInvalidToken
	}

	userID, err := parseSubject(claims["sub"])
	if err != nil || userID <= 0 {
		return 0, ErrInvalidToken
	}

	return userID, nil
}

func (s *Service) parse(raw string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// subをint64に変換する
func parseSubject(v interface{}) (int64, error) {
	switch t := v.(type) {
	case float64:
		return int64(t), nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, errors.New("invalid sub")
	}
}
