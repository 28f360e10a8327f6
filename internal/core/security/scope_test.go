package security

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logitrack/internal/core/apperror"
	appctx "logitrack/internal/core/context"
)

func ptr(v int64) *int64 { return &v }

func TestResolveBase(t *testing.T) {
	tests := []struct {
		name      string
		scope     AccessScope
		requested *int64
		want      *int64
		forbidden bool
	}{
		{
			name:      "admin keeps requested base",
			scope:     AccessScope{Role: RoleAdmin},
			requested: ptr(3),
			want:      ptr(3),
		},
		{
			name:  "admin without request sees all bases",
			scope: AccessScope{Role: RoleAdmin},
		},
		{
			name:      "commander is forced to home base",
			scope:     AccessScope{Role: RoleBaseCommander, HomeBaseID: ptr(2)},
			requested: ptr(3),
			want:      ptr(2),
		},
		{
			name:  "commander without request is forced to home base",
			scope: AccessScope{Role: RoleBaseCommander, HomeBaseID: ptr(2)},
			want:  ptr(2),
		},
		{
			name:      "commander without home base is rejected",
			scope:     AccessScope{Role: RoleBaseCommander},
			forbidden: true,
		},
		{
			name:  "officer without request sees all bases",
			scope: AccessScope{Role: RoleLogisticsOfficer, HomeBaseID: ptr(1)},
		},
		{
			name:      "officer may request own base",
			scope:     AccessScope{Role: RoleLogisticsOfficer, HomeBaseID: ptr(1)},
			requested: ptr(1),
			want:      ptr(1),
		},
		{
			name:      "officer cross-base request is rejected",
			scope:     AccessScope{Role: RoleLogisticsOfficer, HomeBaseID: ptr(1)},
			requested: ptr(4),
			forbidden: true,
		},
		{
			name:      "unknown role is rejected",
			scope:     AccessScope{Role: "quartermaster"},
			forbidden: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.scope.ResolveBase(tt.requested)
			if tt.forbidden {
				require.Error(t, err)
				assert.True(t, apperror.IsForbidden(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveBase_DoesNotAliasHomeBase(t *testing.T) {
	scope := AccessScope{Role: RoleBaseCommander, HomeBaseID: ptr(2)}

	got, err := scope.ResolveBase(nil)
	require.NoError(t, err)
	*got = 9

	assert.Equal(t, int64(2), *scope.HomeBaseID)
}

func TestCanWriteBase(t *testing.T) {
	commander := AccessScope{Role: RoleBaseCommander, HomeBaseID: ptr(1)}

	assert.NoError(t, commander.CanWriteBase(1))
	assert.True(t, apperror.IsForbidden(commander.CanWriteBase(2)))
	assert.NoError(t, commander.CanWriteEither(2, 1))
	assert.Error(t, commander.CanWriteEither(2, 3))

	officer := AccessScope{Role: RoleLogisticsOfficer}
	assert.NoError(t, officer.CanWriteBase(5))

	admin := AccessScope{Role: RoleAdmin}
	assert.NoError(t, admin.CanWriteBase(5))
}

func TestAuthorize(t *testing.T) {
	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID: "u-1",
		Role:   string(RoleLogisticsOfficer),
	})

	scope, err := Authorize(ctx, ActionPurchase)
	require.NoError(t, err)
	assert.Equal(t, "u-1", scope.UserID)

	_, err = Authorize(ctx, ActionExpenditure)
	assert.True(t, apperror.IsForbidden(err))

	_, err = Authorize(ctx, ActionCreateBase)
	assert.True(t, apperror.IsForbidden(err))
}

func TestGetScope_FallsBackToUserContext(t *testing.T) {
	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID: "cmdr",
		Role:   string(RoleBaseCommander),
		BaseID: ptr(2),
	})

	scope := GetScope(ctx)
	assert.Equal(t, RoleBaseCommander, scope.Role)
	assert.Equal(t, int64(2), *scope.HomeBaseID)

	explicit := &AccessScope{UserID: "x", Role: RoleAdmin}
	assert.Same(t, explicit, GetScope(WithScope(ctx, explicit)))
}
