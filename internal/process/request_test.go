package process

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestArgs(t *testing.T) {
	base := Request{Type: WatchTests}
	cases := []struct {
		name string
		req  Request
		want []string
	}{
		{"watch", Request{Type: WatchTests}, []string{"--watch"}},
		{"watch all", Request{Type: WatchAllTests}, []string{"--watchAll"}},
		{"all tests", Request{Type: AllTests}, nil},
		{"update snapshot drops watch flags", Request{Type: UpdateSnapshot, BaseRequest: &base}, []string{"-u"}},
		{"list test files", Request{Type: ListTestFiles}, []string{"--listTests"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.req.Args())
		})
	}
}

func TestRequestIsWatch(t *testing.T) {
	require.True(t, Request{Type: WatchTests}.IsWatch())
	require.True(t, Request{Type: WatchAllTests}.IsWatch())
	require.False(t, Request{Type: AllTests}.IsWatch())
	require.False(t, Request{Type: UpdateSnapshot}.IsWatch())
	require.False(t, Request{Type: ListTestFiles}.IsWatch())
}

func TestRequestStringMentionsBaseRequest(t *testing.T) {
	base := Request{Type: WatchTests}
	req := Request{Type: UpdateSnapshot, BaseRequest: &base}
	require.Equal(t, "update-snapshot (superseding watch-tests)", req.String())
	require.Equal(t, "watch-tests", base.String())
}
