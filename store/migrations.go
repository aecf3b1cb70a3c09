package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create sessions",
		SQL: `
			CREATE TABLE sessions (
				id         TEXT PRIMARY KEY,
				title      TEXT NOT NULL DEFAULT '',
				phase      TEXT NOT NULL,
				rag_log_id TEXT NOT NULL DEFAULT '',
				snapshot   TEXT NOT NULL,
				saved_at   TEXT NOT NULL
			);

			CREATE INDEX idx_sessions_saved ON sessions (saved_at DESC);
		`,
	},
}
