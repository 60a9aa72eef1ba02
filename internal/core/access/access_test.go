package access

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/closerhq/agency-dashboard/internal/core/domain"
)

var (
	ceo    = domain.Principal{ID: "boss", Role: domain.RoleCEO, ClientID: "c1"}
	admin  = domain.Principal{ID: "a1", Role: domain.RoleAdmin, ClientID: "c1"}
	sales  = domain.Principal{ID: "u1", Role: domain.RoleSales, ClientID: "c1"}
	viewer = domain.Principal{ID: "v1", Role: domain.RoleClientUser, ClientID: "c1"}
	agency = domain.Principal{ID: "g1", Role: domain.RoleAgencyUser, ClientID: "c1"}
)

func TestCanAccessClient(t *testing.T) {
	for _, target := range []string{"c1", "c2", "", "anything"} {
		assert.True(t, CanAccessClient(ceo, target), "ceo must reach %q", target)
	}

	assert.True(t, CanAccessClient(admin, "c1"))
	assert.False(t, CanAccessClient(admin, "c2"))
	assert.True(t, CanAccessClient(sales, "c1"))
	assert.False(t, CanAccessClient(sales, "c2"))
	assert.False(t, CanAccessClient(viewer, "c1"))
	assert.False(t, CanAccessClient(agency, "c1"))
}

func TestEffectiveClientID(t *testing.T) {
	assert.Equal(t, "c2", EffectiveClientID(ceo, "c2"))
	assert.Equal(t, "", EffectiveClientID(ceo, ""))
	assert.Equal(t, "c1", EffectiveClientID(admin, "c2"))
	assert.Equal(t, "c1", EffectiveClientID(sales, ""))
}

func TestEffectiveUserID_SalesAlwaysPinned(t *testing.T) {
	for _, requested := range []string{"", "u2", "a1", "u1"} {
		assert.Equal(t, "u1", EffectiveUserID(sales, requested))
	}
	assert.Equal(t, "u2", EffectiveUserID(admin, "u2"))
	assert.Equal(t, "", EffectiveUserID(admin, ""))
	assert.Equal(t, "u9", EffectiveUserID(ceo, "u9"))
}

func TestScope(t *testing.T) {
	tests := []struct {
		name      string
		p         domain.Principal
		client    string
		user      string
		want      domain.Scope
		forbidden bool
	}{
		{name: "sales implicit", p: sales, want: domain.Scope{ClientID: "c1", UserID: "u1"}},
		{name: "sales own explicit", p: sales, client: "c1", user: "u1", want: domain.Scope{ClientID: "c1", UserID: "u1"}},
		{name: "sales cross tenant", p: sales, client: "c2", forbidden: true},
		{name: "sales other user", p: sales, user: "u2", forbidden: true},
		{name: "admin implicit", p: admin, want: domain.Scope{ClientID: "c1"}},
		{name: "admin picks user", p: admin, user: "u2", want: domain.Scope{ClientID: "c1", UserID: "u2"}},
		{name: "admin cross tenant", p: admin, client: "c2", forbidden: true},
		{name: "ceo all", p: ceo, want: domain.Scope{}},
		{name: "ceo other tenant", p: ceo, client: "c7", user: "x", want: domain.Scope{ClientID: "c7", UserID: "x"}},
		{name: "client user", p: viewer, forbidden: true},
		{name: "agency user", p: agency, forbidden: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Scope(tt.p, tt.client, tt.user)
			if tt.forbidden {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrAuthorization))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCovers(t *testing.T) {
	assert.True(t, Covers(domain.Scope{}, "c1", "u1"))
	assert.True(t, Covers(domain.Scope{ClientID: "c1"}, "c1", "u2"))
	assert.False(t, Covers(domain.Scope{ClientID: "c1"}, "c2", "u2"))
	assert.False(t, Covers(domain.Scope{ClientID: "c1", UserID: "u1"}, "c1", "u2"))
}
