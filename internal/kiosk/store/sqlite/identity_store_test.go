package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"attendkiosk/internal/kiosk/store"
	sqlitestore "attendkiosk/internal/kiosk/store/sqlite"
	"attendkiosk/internal/kiosk/types"
)

func TestIdentityStore_CreateAndLookup(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	is := sqlitestore.NewIdentityStore(conn, w)
	ctx := context.Background()

	created, err := is.CreatePerson(ctx, types.Person{
		Email:          "ann@example.com",
		Name:           "Ann",
		EnrollmentYear: 2024,
	})
	if err != nil {
		t.Fatalf("CreatePerson: %v", err)
	}
	if created.ID == 0 {
		t.Error("expected a server-assigned id")
	}

	got, err := is.LookupByEmail(ctx, "ann@example.com")
	if err != nil {
		t.Fatalf("LookupByEmail: %v", err)
	}
	if got.ID != created.ID || got.Name != "Ann" || got.EnrollmentYear != 2024 {
		t.Errorf("unexpected person: %+v", got)
	}
}

func TestIdentityStore_LookupUnknown_NotFound(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	is := sqlitestore.NewIdentityStore(conn, w)

	_, err := is.LookupByEmail(context.Background(), "zz@bad.com")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestIdentityStore_LookupCaseInsensitive(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	is := sqlitestore.NewIdentityStore(conn, w)
	ctx := context.Background()

	if _, err := is.CreatePerson(ctx, types.Person{Email: "ann@example.com", Name: "Ann"}); err != nil {
		t.Fatalf("CreatePerson: %v", err)
	}

	got, err := is.LookupByEmail(ctx, "Ann@Example.COM")
	if err != nil {
		t.Fatalf("LookupByEmail: %v", err)
	}
	if got.Name != "Ann" {
		t.Errorf("expected Ann, got %+v", got)
	}
}

func TestIdentityStore_DuplicateEmail_Rejected(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	is := sqlitestore.NewIdentityStore(conn, w)
	ctx := context.Background()

	if _, err := is.CreatePerson(ctx, types.Person{Email: "ann@example.com", Name: "Ann"}); err != nil {
		t.Fatalf("first CreatePerson: %v", err)
	}

	_, err := is.CreatePerson(ctx, types.Person{Email: "ann@example.com", Name: "Other Ann"})
	if !errors.Is(err, store.ErrDuplicatePerson) {
		t.Errorf("expected ErrDuplicatePerson, got %v", err)
	}
}

func TestIdentityStore_ListPeople_Sorted(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	is := sqlitestore.NewIdentityStore(conn, w)
	ctx := context.Background()

	for _, p := range []types.Person{
		{Email: "cara@example.com", Name: "Cara"},
		{Email: "ann@example.com", Name: "Ann"},
		{Email: "ben@example.com", Name: "Ben"},
	} {
		if _, err := is.CreatePerson(ctx, p); err != nil {
			t.Fatalf("CreatePerson %s: %v", p.Email, err)
		}
	}

	people, err := is.ListPeople(ctx)
	if err != nil {
		t.Fatalf("ListPeople: %v", err)
	}
	if len(people) != 3 {
		t.Fatalf("expected 3 people, got %d", len(people))
	}
	if people[0].Name != "Ann" || people[1].Name != "Ben" || people[2].Name != "Cara" {
		t.Errorf("unexpected order: %v %v %v", people[0].Name, people[1].Name, people[2].Name)
	}
}
