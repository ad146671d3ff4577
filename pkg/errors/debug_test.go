package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestDumpCollectsChainAndCode(t *testing.T) {
	err := Wrap(CodeStore, fmt.Errorf("saving cart: %w", stdErrors.New("disk full")), "saving cart")

	d := Dump(err)
	if d.Code != CodeStore {
		t.Fatalf("expected store code, got %s", d.Code)
	}
	if len(d.Chain) != 3 {
		t.Fatalf("expected 3 chain entries, got %v", d.Chain)
	}
}

func TestDumpExtractsPostgresDetails(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key", TableName: "users"}
	d := Dump(Wrap(CodeConflict, pgErr, "email taken"))

	if d.PGCode != "23505" || d.PGConstraint != "users_email_key" || d.PGTable != "users" {
		t.Fatalf("unexpected pg fields %+v", d)
	}
	if d.MongoCode != 0 {
		t.Fatalf("unexpected mongo code %d", d.MongoCode)
	}
}

func TestDumpExtractsMongoWriteErrors(t *testing.T) {
	writeErr := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	d := Dump(fmt.Errorf("insert cart: %w", writeErr))

	if d.MongoCode != 11000 || d.MongoMessage != "E11000 duplicate key" {
		t.Fatalf("unexpected mongo fields %+v", d)
	}
}

func TestDumpNil(t *testing.T) {
	if d := Dump(nil); d.TopMessage != "" || d.Chain != nil {
		t.Fatalf("expected empty dump, got %+v", d)
	}
}
