package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hitoshi/syncdesk/internal/model"
)

// meResponse はGET /meのレスポンスボディ。
type meResponse struct {
	ID       int64  `json:"id"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	SchoolID int64  `json:"school_id"`
}

// otpMessageResponse はPOST /auth/request-otpのレスポンスボディ。
type otpMessageResponse struct {
	Message string `json:"message"`
}

// verifyOTPResponse はPOST /auth/verify-otpのレスポンスボディ。
type verifyOTPResponse struct {
	AccessToken string `json:"access_token"`
}

// RequestOTP は電話番号宛のOTP送信を依頼する。
// POST /auth/request-otp
func (c *Client) RequestOTP(ctx context.Context, phone string) error {
	body := map[string]string{"phone": phone}
	var out otpMessageResponse
	return c.doJSON(ctx, http.MethodPost, "/auth/request-otp", "", body, &out)
}

// VerifyOTP は電話番号と認証コードをベアラートークンに交換する。
// POST /auth/verify-otp
func (c *Client) VerifyOTP(ctx context.Context, phone, code string) (string, error) {
	body := map[string]string{"phone": phone, "code": code}
	var out verifyOTPResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/verify-otp", "", body, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", model.NewRequestFailedError("認証コードの検証に失敗しました。")
	}
	return out.AccessToken, nil
}

// FetchMe はトークンを現在のユーザー識別情報に解決する。
// GET /me
// 失敗の種類（期限切れ・ネットワーク障害等）は区別せず、
// すべてErrSessionInvalidとして返す（フェイルクローズ）。
func (c *Client) FetchMe(ctx context.Context, token string) (*model.Session, error) {
	var out meResponse
	if err := c.doJSON(ctx, http.MethodGet, "/me", token, nil, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrSessionInvalid, err)
	}
	return &model.Session{
		UserID:   formatID(out.ID),
		Phone:    out.Phone,
		Role:     model.ParseRole(out.Role),
		SchoolID: formatID(out.SchoolID),
	}, nil
}
