package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"Clubhouse_Hub/internal/pkg"
)

// MembershipTags 会员标签白名单，按优先级排列
var MembershipTags = []string{
	"community-member",
	"clubhouse-member",
	"all-access-member",
	"rifugio-plus",
	"member",
}

// DefaultTier 仅凭历史订单通过时使用
const DefaultTier = "community"

// CustomerDirectory is the commerce customer lookup used for membership checks.
type CustomerDirectory interface {
	Configured() bool
	SearchCustomersByEmail(ctx context.Context, email string) ([]pkg.Customer, error)
}

type Verdict struct {
	IsValid        bool
	MembershipTier string
	Customer       *pkg.Customer
}

// Name returns the matched customer's full name, or "".
func (v Verdict) Name() string {
	if v.Customer == nil {
		return ""
	}
	return v.Customer.FullName()
}

type MembershipService struct {
	dir CustomerDirectory
}

func NewMembershipService(dir CustomerDirectory) *MembershipService {
	return &MembershipService{dir: dir}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Verify 未配置凭据时放行；查询失败一律拒绝
func (s *MembershipService) Verify(ctx context.Context, email string) Verdict {
	email = NormalizeEmail(email)
	if s.dir == nil || !s.dir.Configured() {
		slog.Warn("commerce credentials not configured, skipping membership verification", "email", email)
		pkg.MembershipVerifications.WithLabelValues("skipped").Inc()
		return Verdict{IsValid: true}
	}

	customers, err := s.dir.SearchCustomersByEmail(ctx, email)
	if err != nil {
		slog.Error("membership lookup failed", "email", email, "error", err)
		pkg.MembershipVerifications.WithLabelValues("error").Inc()
		return Verdict{IsValid: false}
	}
	if len(customers) == 0 {
		pkg.MembershipVerifications.WithLabelValues("rejected").Inc()
		return Verdict{IsValid: false}
	}

	customer := customers[0]
	verdict := evaluate(customer)
	if verdict.IsValid {
		pkg.MembershipVerifications.WithLabelValues("verified").Inc()
	} else {
		pkg.MembershipVerifications.WithLabelValues("rejected").Inc()
	}
	return verdict
}

func evaluate(customer pkg.Customer) Verdict {
	tags := customer.TagSet()
	var matched string
	for _, tag := range MembershipTags {
		if slices.Contains(tags, tag) {
			matched = tag
			break
		}
	}
	if matched == "" && customer.OrdersCount <= 0 {
		return Verdict{IsValid: false}
	}
	tier := matched
	if tier == "" {
		tier = DefaultTier
	}
	return Verdict{IsValid: true, MembershipTier: tier, Customer: &customer}
}
