package service

import (
	"context"
	"errors"
	"testing"

	"Clubhouse_Hub/internal/pkg"

	"github.com/stretchr/testify/assert"
)

type fakeDirectory struct {
	configured bool
	customers  []pkg.Customer
	err        error
	queries    []string
}

func (f *fakeDirectory) Configured() bool { return f.configured }

func (f *fakeDirectory) SearchCustomersByEmail(_ context.Context, email string) ([]pkg.Customer, error) {
	f.queries = append(f.queries, email)
	return f.customers, f.err
}

func TestMembershipService_Verify(t *testing.T) {
	tests := []struct {
		name      string
		dir       *fakeDirectory
		wantValid bool
		wantTier  string
		wantName  string
	}{
		{
			name:      "not configured fails open",
			dir:       &fakeDirectory{},
			wantValid: true,
		},
		{
			name: "no customers",
			dir:  &fakeDirectory{configured: true},
		},
		{
			name: "lookup error fails closed",
			dir:  &fakeDirectory{configured: true, err: errors.New("boom")},
		},
		{
			name: "tag match",
			dir: &fakeDirectory{configured: true, customers: []pkg.Customer{
				{FirstName: "Maya", LastName: "Chen", Tags: "newsletter, Clubhouse-Member"},
			}},
			wantValid: true,
			wantTier:  "clubhouse-member",
			wantName:  "Maya Chen",
		},
		{
			name: "first tag in priority order wins",
			dir: &fakeDirectory{configured: true, customers: []pkg.Customer{
				{Tags: "member, community-member", OrdersCount: 5},
			}},
			wantValid: true,
			wantTier:  "community-member",
		},
		{
			name: "orders without tag",
			dir: &fakeDirectory{configured: true, customers: []pkg.Customer{
				{FirstName: "Tom", OrdersCount: 1},
			}},
			wantValid: true,
			wantTier:  DefaultTier,
			wantName:  "Tom",
		},
		{
			name: "neither tag nor orders",
			dir: &fakeDirectory{configured: true, customers: []pkg.Customer{
				{Tags: "newsletter"},
			}},
		},
		{
			name: "only the first customer counts",
			dir: &fakeDirectory{configured: true, customers: []pkg.Customer{
				{Tags: "newsletter"},
				{Tags: "member"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewMembershipService(tt.dir).Verify(context.Background(), "  Maya@Example.com ")
			assert.Equal(t, tt.wantValid, v.IsValid)
			assert.Equal(t, tt.wantTier, v.MembershipTier)
			assert.Equal(t, tt.wantName, v.Name())
			if tt.dir.configured {
				assert.Equal(t, []string{"maya@example.com"}, tt.dir.queries)
			}
		})
	}
}

func TestMembershipService_NilDirectory(t *testing.T) {
	v := NewMembershipService(nil).Verify(context.Background(), "a@b.com")
	assert.True(t, v.IsValid)
	assert.Empty(t, v.MembershipTier)
}
