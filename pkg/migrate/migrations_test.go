package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/calderagroup/procuremart-backend/pkg/migrate"
)

func TestMigrationDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migration validation failed: %v", err)
	}
}

func TestOrdersMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_orders.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"CREATE TABLE IF NOT EXISTS order_items",
		"REFERENCES orders(id) ON DELETE CASCADE",
		"CHECK (quantity >= 1)",
		"ux_orders_order_number",
		"DROP TABLE IF EXISTS orders",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOutboxMigrationGuardsOneShotEvents(t *testing.T) {
	content := readMigration(t, "*_create_outbox.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS outbox_events",
		"ux_outbox_events_event_aggregate",
		"WHERE event_type <> 'order_status_changed'",
		"CREATE TABLE IF NOT EXISTS outbox_dlqs",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestEnumMigrationCoversDomainTypes(t *testing.T) {
	content := readMigration(t, "*_create_extensions_and_enums.sql")

	for _, typ := range []string{
		"user_type",
		"order_status",
		"urgency",
		"payment_terms",
		"product_unit",
		"quote_status",
		"notification_type",
		"event_type_enum",
		"aggregate_type_enum",
		"outbox_dlq_error_reason_enum",
	} {
		if !strings.Contains(content, "CREATE TYPE "+typ+" AS ENUM") {
			t.Errorf("missing enum type %q", typ)
		}
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected exactly one migration matching %q, got %d", pattern, len(matches))
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
