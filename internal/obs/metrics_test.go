package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"/healthz", "/healthz"},
		{"/v1/accounts", "/v1/accounts"},
		{"/v1/accounts/", "/v1/accounts/"},
		{"/v1/accounts/01HZXCV8K2M4N6P8R0T2V4X6Z8", "/v1/accounts/:id"},
		{"/v1/accounts/01HZXCV8K2M4N6P8R0T2V4X6Z8/", "/v1/accounts/:id"},
		{"/v1/accounts/abc?limit=5", "/v1/accounts/:id"},
		{"/v1/accounts/abc/extra", "/v1/accounts/abc/extra"},
		{"/v1/auth/token", "/v1/auth/token"},
		{"", "/"},
	}
	for _, tc := range cases {
		if got := CanonicalPath(tc.in); got != tc.want {
			t.Fatalf("CanonicalPath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
