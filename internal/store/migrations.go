package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS overrides (
	segment    TEXT NOT NULL,
	project    TEXT NOT NULL,
	stage      TEXT NOT NULL,
	kind       TEXT NOT NULL CHECK(kind IN ('planned', 'actual')),
	value      TEXT NOT NULL CHECK(length(value) = 10),
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (segment, project, stage, kind)
);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS override_history (
	id         TEXT PRIMARY KEY,
	segment    TEXT NOT NULL,
	project    TEXT NOT NULL,
	stage      TEXT NOT NULL,
	kind       TEXT NOT NULL,
	old_value  TEXT NOT NULL DEFAULT '',
	new_value  TEXT NOT NULL DEFAULT '',
	changed_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_override_history_key
	ON override_history(segment, project, stage, kind, changed_at);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
