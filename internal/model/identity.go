package model

import "strings"

// Identity 身份提供方的认证记录，与 Profile 区分
type Identity struct {
	ID       string            `json:"id"`
	Email    string            `json:"email"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// FullName returns the display name carried in the identity metadata, if any.
func (i Identity) FullName() string {
	return strings.TrimSpace(i.Metadata[MetadataFullName])
}

const MetadataFullName = "full_name"

const (
	LoginTypeMagicLink = "magiclink"
	LoginTypeEmail     = "email"
)

// LoginRequest 一次免密登录请求，邮件链接携带 TokenHash，邮件正文携带一次性验证码
type LoginRequest struct {
	TokenHash string            `json:"token_hash"`
	Email     string            `json:"email"`
	CodeHash  string            `json:"code_hash"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}
