package target

import (
	"strings"
	"testing"

	"github.com/ksyq12/certinstall/internal/errors"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Target
	}{
		{
			name: "local path",
			raw:  "/etc/ssl/example.crt",
			want: Target{Class: ClassLocal, Path: "/etc/ssl/example.crt"},
		},
		{
			name: "relative local path",
			raw:  "certs/example.crt",
			want: Target{Class: ClassLocal, Path: "certs/example.crt"},
		},
		{
			name: "ssh target",
			raw:  "ssh:host1:/etc/nginx/example.pem",
			want: Target{Class: ClassSSH, Host: "host1", Path: "/etc/nginx/example.pem"},
		},
		{
			name: "ssh target with user",
			raw:  "ssh:deploy@host1:/etc/nginx/example.pem",
			want: Target{Class: ClassSSH, Host: "deploy@host1", Path: "/etc/nginx/example.pem"},
		},
		{
			name: "docker target",
			raw:  "docker:web:/etc/ssl/example.pem",
			want: Target{Class: ClassDocker, Container: "web", Path: "/etc/ssl/example.pem"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.raw)
			if err != nil {
				t.Fatalf("Resolve(%q) failed: %v", tt.raw, err)
			}
			if got.Class != tt.want.Class {
				t.Errorf("class: expected %s, got %s", tt.want.Class, got.Class)
			}
			if got.Host != tt.want.Host {
				t.Errorf("host: expected %q, got %q", tt.want.Host, got.Host)
			}
			if got.Container != tt.want.Container {
				t.Errorf("container: expected %q, got %q", tt.want.Container, got.Container)
			}
			if got.Path != tt.want.Path {
				t.Errorf("path: expected %q, got %q", tt.want.Path, got.Path)
			}
			if got.Raw != tt.raw {
				t.Errorf("raw: expected %q, got %q", tt.raw, got.Raw)
			}
		})
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"unsupported scheme", "ftp:host:/path"},
		{"unknown scheme", "s3:bucket/key"},
		{"empty target", ""},
		{"ssh missing path", "ssh:host1"},
		{"ssh empty host", "ssh::/path"},
		{"docker missing path", "docker:web"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.raw)
			if err == nil {
				t.Fatalf("Resolve(%q) should fail", tt.raw)
			}
			var ierr *errors.InstallError
			if !errors.As(err, &ierr) {
				t.Fatalf("expected InstallError, got %T", err)
			}
			if ierr.Code != errors.ErrCodeConfig {
				t.Errorf("expected CONFIG error, got %s", ierr.Code)
			}
		})
	}
}

func TestRemote(t *testing.T) {
	local, _ := Resolve("/etc/ssl/a.crt")
	if local.Remote() {
		t.Error("local target should not be remote")
	}
	ssh, _ := Resolve("ssh:h:/p")
	if !ssh.Remote() {
		t.Error("ssh target should be remote")
	}
	docker, _ := Resolve("docker:c:/p")
	if !docker.Remote() {
		t.Error("docker target should be remote")
	}
}

func TestStagingPath(t *testing.T) {
	a := StagingPath("/work/example.com/.staging", "ssh:host1:/etc/nginx/example.pem")
	b := StagingPath("/work/example.com/.staging", "ssh:host1:/etc/nginx/example.pem")
	c := StagingPath("/work/example.com/.staging", "ssh:host2:/etc/nginx/example.pem")

	if a != b {
		t.Error("identical targets must reuse the same staging path")
	}
	if a == c {
		t.Error("different targets must stage to different paths")
	}
	if !strings.HasPrefix(a, "/work/example.com/.staging/") {
		t.Errorf("staging path should live under the staging dir: %s", a)
	}
}
