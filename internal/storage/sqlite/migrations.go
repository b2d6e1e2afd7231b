package sqlite

import "database/sql"

// schema sets up the database on startup.
// Gifts are stored one row per gift; position keeps their order.
const schema = `
CREATE TABLE IF NOT EXISTS drafts (
    id TEXT PRIMARY KEY,
    donor_name TEXT NOT NULL,
    donor_address TEXT NOT NULL,
    donee_name TEXT NOT NULL,
    donee_address TEXT NOT NULL,
    contract_date TEXT NOT NULL,
    special_terms TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS gifts (
    draft_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    description TEXT NOT NULL,
    PRIMARY KEY (draft_id, position),
    FOREIGN KEY (draft_id) REFERENCES drafts(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_drafts_updated_at ON drafts(updated_at);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
