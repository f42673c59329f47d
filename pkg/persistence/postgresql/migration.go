package postgresql

// migrations returns the numbered schema migrations for the rules and
// executions tables. Rule and execution bodies live in JSONB; the columns
// pulled out are the ones queried on.
func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE IF NOT EXISTS workflow_rules (
				id TEXT PRIMARY KEY,
				created_at TIMESTAMPTZ NOT NULL,
				data JSONB NOT NULL
			);

			CREATE TABLE IF NOT EXISTS automation_executions (
				id TEXT PRIMARY KEY,
				rule_id TEXT NOT NULL,
				executed_at TIMESTAMPTZ NOT NULL,
				data JSONB NOT NULL
			);

			CREATE INDEX IF NOT EXISTS idx_automation_executions_rule_id
				ON automation_executions (rule_id);

			CREATE INDEX IF NOT EXISTS idx_automation_executions_executed_at
				ON automation_executions (executed_at);
		`,
	}
}
