package install

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ksyq12/certinstall/internal/config"
	"github.com/ksyq12/certinstall/internal/errors"
	"github.com/ksyq12/certinstall/internal/executor"
	"github.com/ksyq12/certinstall/internal/target"
	"github.com/ksyq12/certinstall/internal/testutil"
	"github.com/ksyq12/certinstall/internal/transport"
)

// setupDomain creates a workdir with one configured domain whose source
// artifacts are already on disk, backdated so freshness decisions are
// unambiguous.
func setupDomain(t *testing.T, name, domainCfg string) (string, config.Layout) {
	t.Helper()
	workdir := t.TempDir()
	layout := config.DomainLayout(workdir, name)
	if err := os.MkdirAll(layout.Dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(layout.Dir, "certinstall.cfg"), []byte(domainCfg), 0o644); err != nil {
		t.Fatal(err)
	}

	testutil.WriteCertKeyPair(t, name, layout.CertPath, layout.KeyPath)
	testutil.WriteCert(t, "Example CA", layout.CAPath)

	old := time.Now().Add(-time.Hour)
	for _, p := range []string{layout.CertPath, layout.KeyPath, layout.CAPath} {
		if err := os.Chtimes(p, old, old); err != nil {
			t.Fatal(err)
		}
	}
	return workdir, layout
}

func newTestInstaller(workdir string, mock *executor.MockExecutor) *Installer {
	clock := func() time.Time { return time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC) }
	return NewWithExecutor(workdir, config.New(), mock, clock)
}

func TestInstallDomain(t *testing.T) {
	outDir := t.TempDir()
	pemOut := filepath.Join(outDir, "example.pem")
	cfg := fmt.Sprintf("DOMAIN_PEM_LOCATION=%s\nRELOAD_CMD=systemctl reload nginx\n", pemOut)
	workdir, layout := setupDomain(t, "example.com", cfg)

	mock := &executor.MockExecutor{}
	in := newTestInstaller(workdir, mock)

	res, err := in.Domain("example.com", Options{})
	if err != nil {
		t.Fatalf("Domain failed: %v", err)
	}
	if res.Built != 1 {
		t.Errorf("expected 1 built step, got %d", res.Built)
	}
	if !res.Reload {
		t.Error("reload should have run")
	}
	if len(mock.ShellCalls) != 1 || mock.ShellCalls[0] != "systemctl reload nginx" {
		t.Errorf("reload calls: %v", mock.ShellCalls)
	}

	// Content is the sources concatenated in recipe order: cert, CA, key.
	cert, _ := os.ReadFile(layout.CertPath)
	ca, _ := os.ReadFile(layout.CAPath)
	key, _ := os.ReadFile(layout.KeyPath)
	got, err := os.ReadFile(pemOut)
	if err != nil {
		t.Fatalf("pem not written: %v", err)
	}
	want := string(cert) + string(ca) + string(key)
	if string(got) != want {
		t.Error("pem content is not cert+CA+key in order")
	}

	info, _ := os.Stat(pemOut)
	if info.Mode().Perm() != 0o600 {
		t.Errorf("pem mode: %o", info.Mode().Perm())
	}

	t.Run("SecondRunIsNoop", func(t *testing.T) {
		mock.ShellCalls = nil
		res, err := in.Domain("example.com", Options{})
		if err != nil {
			t.Fatal(err)
		}
		if res.Built != 0 {
			t.Errorf("nothing changed, expected 0 built, got %d", res.Built)
		}
		if res.Reload || len(mock.ShellCalls) != 0 {
			t.Error("reload must not run when nothing was built")
		}
	})

	t.Run("ForceSuppressesReload", func(t *testing.T) {
		mock.ShellCalls = nil
		res, err := in.Domain("example.com", Options{Force: true})
		if err != nil {
			t.Fatal(err)
		}
		if res.Built == 0 {
			t.Error("force should rebuild")
		}
		if res.Reload || len(mock.ShellCalls) != 0 {
			t.Error("forced reinstall must not trigger the reload hook")
		}
	})
}

func TestInstallReloadFailure(t *testing.T) {
	pemOut := filepath.Join(t.TempDir(), "example.pem")
	cfg := fmt.Sprintf("DOMAIN_PEM_LOCATION=%s\nRELOAD_CMD=systemctl reload nginx\n", pemOut)
	workdir, _ := setupDomain(t, "example.com", cfg)

	mock := &executor.MockExecutor{
		ExecuteShellFunc: func(string) ([]byte, error) {
			return []byte("nginx.service not found"), fmt.Errorf("exit status 5")
		},
	}
	in := newTestInstaller(workdir, mock)

	res, err := in.Domain("example.com", Options{})
	if !errors.Is(err, errors.ErrReloadFailed) {
		t.Fatalf("expected reload error, got %v", err)
	}
	if !strings.Contains(err.Error(), "systemctl reload nginx") {
		t.Errorf("error should name the failed command: %v", err)
	}
	// The artifacts were installed; only the hook failed.
	if res.Built != 1 {
		t.Errorf("built count should survive reload failure, got %d", res.Built)
	}
	if _, statErr := os.Stat(pemOut); statErr != nil {
		t.Error("pem should remain installed after reload failure")
	}
}

func TestInstallDHGeneration(t *testing.T) {
	dhkeyOut := filepath.Join(t.TempDir(), "key.dh.pem")
	cfg := fmt.Sprintf("DOMAIN_DHKEY_LOCATION=%s\nDOMAIN_DHPARAM_LEN=2048\n", dhkeyOut)
	workdir, layout := setupDomain(t, "example.com", cfg)

	mock := &executor.MockExecutor{
		ExecuteFunc: func(name string, args ...string) ([]byte, error) {
			// openssl dhparam -out <tmp> <bits>
			if err := os.WriteFile(args[2], []byte("DH PARAMETERS\n"), 0o600); err != nil {
				return nil, err
			}
			return nil, nil
		},
	}
	in := newTestInstaller(workdir, mock)

	if _, err := in.Domain("example.com", Options{}); err != nil {
		t.Fatalf("Domain failed: %v", err)
	}

	if len(mock.Calls) != 1 {
		t.Fatalf("expected one openssl call, got %v", mock.Calls)
	}
	call := mock.Calls[0]
	if call.Name != "openssl" || call.Args[0] != "dhparam" || call.Args[len(call.Args)-1] != "2048" {
		t.Errorf("unexpected openssl invocation: %v", call)
	}

	// Parameters land in the domain directory and flow into the composite.
	if _, err := os.Stat(layout.DHPath); err != nil {
		t.Errorf("dh parameters not materialized: %v", err)
	}
	got, err := os.ReadFile(dhkeyOut)
	if err != nil {
		t.Fatalf("dhkey not written: %v", err)
	}
	key, _ := os.ReadFile(layout.KeyPath)
	if string(got) != string(key)+"DH PARAMETERS\n" {
		t.Error("dhkey content is not key+dh in order")
	}

	t.Run("ReuseSkipsRegeneration", func(t *testing.T) {
		cfgPath := filepath.Join(layout.Dir, "certinstall.cfg")
		reuse := fmt.Sprintf("DOMAIN_DHKEY_LOCATION=%s\nREUSE_DHPARAM=true\n", dhkeyOut)
		if err := os.WriteFile(cfgPath, []byte(reuse), 0o644); err != nil {
			t.Fatal(err)
		}
		mock.Calls = nil

		if _, err := in.Domain("example.com", Options{Force: true}); err != nil {
			t.Fatal(err)
		}
		if len(mock.Calls) != 0 {
			t.Errorf("reuse on: openssl must not run, got %v", mock.Calls)
		}
	})
}

func TestInstallRemoteDelivery(t *testing.T) {
	cfg := "DOMAIN_PEM_LOCATION=ssh:host1:/etc/nginx/example.pem\n"
	workdir, layout := setupDomain(t, "example.com", cfg)

	mockTr := transport.NewMockTransport(target.ClassSSH)
	transport.Register(mockTr)
	t.Cleanup(func() { transport.Register(transport.NewSSH()) })

	in := newTestInstaller(workdir, &executor.MockExecutor{})
	if _, err := in.Domain("example.com", Options{}); err != nil {
		t.Fatalf("Domain failed: %v", err)
	}

	if len(mockTr.Deliveries) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(mockTr.Deliveries))
	}
	d := mockTr.Deliveries[0]
	if d.Target.Host != "host1" || d.Target.Path != "/etc/nginx/example.pem" {
		t.Errorf("delivery target: %+v", d.Target)
	}
	if d.Mode != 0o600 {
		t.Errorf("delivery mode: %o", d.Mode)
	}
	if filepath.Dir(d.Src) != layout.StagingDir {
		t.Errorf("delivery should read from staging, got %s", d.Src)
	}
	// The staged copy survives for the next freshness check.
	if _, err := os.Stat(d.Src); err != nil {
		t.Errorf("staging file missing after delivery: %v", err)
	}
}

func TestInstallText(t *testing.T) {
	// A syntactically valid (if tiny) PKCS#3 block, so the key report can
	// parse what the fake openssl "generated".
	const fakeDH = "-----BEGIN DH PARAMETERS-----\nMAYCAQICAQI=\n-----END DH PARAMETERS-----\n"

	pemOut := filepath.Join(t.TempDir(), "example.pem")
	cfg := fmt.Sprintf("DOMAIN_PEM_LOCATION=%s\n", pemOut)
	workdir, layout := setupDomain(t, "example.com", cfg)

	mock := &executor.MockExecutor{
		ExecuteFunc: func(name string, args ...string) ([]byte, error) {
			if name == "openssl" {
				return nil, os.WriteFile(args[2], []byte(fakeDH), 0o600)
			}
			return nil, nil
		},
	}
	in := newTestInstaller(workdir, mock)

	if _, err := in.Domain("example.com", Options{WithText: true}); err != nil {
		t.Fatalf("Domain failed: %v", err)
	}

	certTxt, err := os.ReadFile(filepath.Join(layout.Dir, "example.com.cert.txt"))
	if err != nil {
		t.Fatalf("cert report not written: %v", err)
	}
	if !strings.Contains(string(certTxt), "example.com") {
		t.Error("cert report should mention the subject")
	}
	if !strings.HasPrefix(string(certTxt), "#") {
		t.Error("cert report should start with the generated header")
	}

	keyTxt, err := os.ReadFile(filepath.Join(layout.Dir, "example.com.key.txt"))
	if err != nil {
		t.Fatalf("key report not written: %v", err)
	}
	info, _ := os.Stat(filepath.Join(layout.Dir, "example.com.key.txt"))
	if info.Mode().Perm() != 0o600 {
		t.Errorf("key report mode: %o", info.Mode().Perm())
	}
	if len(keyTxt) == 0 {
		t.Error("key report is empty")
	}
}

func TestInstallAll(t *testing.T) {
	workdir := t.TempDir()
	outDir := t.TempDir()

	for _, name := range []string{"a.example.com", "b.example.com", "c.example.com"} {
		layout := config.DomainLayout(workdir, name)
		if err := os.MkdirAll(layout.Dir, 0o755); err != nil {
			t.Fatal(err)
		}
		cfg := fmt.Sprintf("DOMAIN_CHAIN_LOCATION=%s\n", filepath.Join(outDir, name+".chain.pem"))
		if err := os.WriteFile(filepath.Join(layout.Dir, "certinstall.cfg"), []byte(cfg), 0o644); err != nil {
			t.Fatal(err)
		}
		testutil.WriteCertKeyPair(t, name, layout.CertPath, layout.KeyPath)
		testutil.WriteCert(t, "Example CA", layout.CAPath)
	}
	// One domain is broken: its certificate is gone.
	if err := os.Remove(config.DomainLayout(workdir, "b.example.com").CertPath); err != nil {
		t.Fatal(err)
	}

	in := newTestInstaller(workdir, &executor.MockExecutor{})
	results, err := in.All(Options{})
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	// Results come back sorted by domain regardless of worker scheduling.
	for i, want := range []string{"a.example.com", "b.example.com", "c.example.com"} {
		if results[i].Domain != want {
			t.Errorf("result %d: expected %s, got %s", i, want, results[i].Domain)
		}
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("healthy domains should succeed: %v / %v", results[0].Err, results[2].Err)
	}
	if results[1].Err == nil {
		t.Error("broken domain should fail")
	}

	t.Run("NoDomains", func(t *testing.T) {
		in := newTestInstaller(t.TempDir(), &executor.MockExecutor{})
		if _, err := in.All(Options{}); err == nil {
			t.Error("empty working directory should fail")
		}
	})
}
