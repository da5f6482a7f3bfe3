package db

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestOpenRejectsBadURLs(t *testing.T) {
	cases := map[string]string{
		"empty":     "  ",
		"malformed": "postgres://%zz",
		// Nothing listens on port 1, so the ping fails fast.
		"unreachable": "postgres://user@127.0.0.1:1/places?sslmode=disable&connect_timeout=1",
	}

	for name, url := range cases {
		t.Run(name, func(t *testing.T) {
			conn, err := Open(context.Background(), url, Pool{PingTimeout: 2 * time.Second})
			if err == nil {
				conn.Close()
				t.Fatal("expected error")
			}
			if !strings.HasPrefix(err.Error(), "open postgres") {
				t.Errorf("err = %v", err)
			}
		})
	}
}

func TestPoolDefaults(t *testing.T) {
	p := Pool{MaxOpenConns: 4}.withDefaults()
	if p.MaxOpenConns != 4 || p.MaxIdleConns != 4 {
		t.Errorf("conns = %d/%d, want 4/4", p.MaxOpenConns, p.MaxIdleConns)
	}
	if p.ConnMaxLifetime != 30*time.Minute || p.PingTimeout != 5*time.Second {
		t.Errorf("durations = %v/%v", p.ConnMaxLifetime, p.PingTimeout)
	}
}
