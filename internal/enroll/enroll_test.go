package enroll

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"attendkiosk/internal/kiosk/store/memory"
)

const roster = `1001,ann@example.com,Ann Example,2024
1002,ben@example.com,Ben Builder,2025
`

func TestRun_CreatesPeopleAndQRCodes(t *testing.T) {
	identity := memory.NewIdentityStore()
	e := New(identity, zap.NewNop())
	out := t.TempDir()

	res, err := e.Run(context.Background(), strings.NewReader(roster), out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Created != 2 || res.Duplicates != 0 || res.Skipped != 0 {
		t.Errorf("unexpected result: %+v", res)
	}

	ann, err := identity.LookupByEmail(context.Background(), "ann@example.com")
	if err != nil {
		t.Fatalf("lookup ann: %v", err)
	}
	if ann.Name != "Ann Example" || ann.EnrollmentYear != 2024 {
		t.Errorf("unexpected person: %+v", ann)
	}

	// QR layout: <out>/AnnExample/AnnExample.png + email.txt
	png := filepath.Join(out, "AnnExample", "AnnExample.png")
	if fi, err := os.Stat(png); err != nil || fi.Size() == 0 {
		t.Errorf("expected QR png at %s: %v", png, err)
	}
	email, err := os.ReadFile(filepath.Join(out, "AnnExample", "email.txt"))
	if err != nil {
		t.Fatalf("read email.txt: %v", err)
	}
	if string(email) != "ann@example.com" {
		t.Errorf("unexpected email.txt content: %q", email)
	}
}

func TestRun_RerunCountsDuplicates(t *testing.T) {
	identity := memory.NewIdentityStore()
	e := New(identity, zap.NewNop())
	out := t.TempDir()
	ctx := context.Background()

	if _, err := e.Run(ctx, strings.NewReader(roster), out); err != nil {
		t.Fatalf("first run: %v", err)
	}

	grown := roster + "1003,cara@example.com,Cara New,2026\n"
	res, err := e.Run(ctx, strings.NewReader(grown), out)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if res.Created != 1 || res.Duplicates != 2 {
		t.Errorf("expected 1 created / 2 duplicates, got %+v", res)
	}
}

func TestRun_SkipsMalformedRows(t *testing.T) {
	identity := memory.NewIdentityStore()
	e := New(identity, zap.NewNop())

	bad := "onlyonefield\n1001,ann@example.com,Ann Example\n1002,,No Email\n"
	res, err := e.Run(context.Background(), strings.NewReader(bad), "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Created != 1 {
		t.Errorf("expected 1 created, got %+v", res)
	}
	if res.Skipped != 2 {
		t.Errorf("expected 2 skipped, got %+v", res)
	}
}
