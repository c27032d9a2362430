package audit

// Schema contains SQL schema definitions for the audit store
const Schema = `
-- Corpus of raw messages paired with the content a prior table version stored
CREATE TABLE IF NOT EXISTS corpus_messages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    sender TEXT NOT NULL,
    subject TEXT,
    plain_text TEXT,
    markup_body TEXT,
    participants TEXT,
    stored_content TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- One row per comparison run of two pattern-table versions
CREATE TABLE IF NOT EXISTS audit_runs (
    id TEXT PRIMARY KEY,
    table_a TEXT NOT NULL,
    table_b TEXT NOT NULL,
    message_count INTEGER NOT NULL,
    flipped_to_empty INTEGER NOT NULL,
    mean_reduction_a REAL NOT NULL,
    mean_reduction_b REAL NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Per-message outcome of a comparison run
CREATE TABLE IF NOT EXISTS audit_results (
    run_id TEXT NOT NULL,
    message_id INTEGER NOT NULL,
    reduction_a REAL NOT NULL,
    reduction_b REAL NOT NULL,
    flipped_to_empty INTEGER NOT NULL,
    FOREIGN KEY (run_id) REFERENCES audit_runs(id) ON DELETE CASCADE,
    FOREIGN KEY (message_id) REFERENCES corpus_messages(id) ON DELETE CASCADE,
    UNIQUE(run_id, message_id)
);

CREATE INDEX IF NOT EXISTS idx_audit_results_run_id ON audit_results(run_id);
CREATE INDEX IF NOT EXISTS idx_corpus_messages_sender ON corpus_messages(sender);
`
