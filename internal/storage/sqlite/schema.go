// ABOUTME: SQLite database schema for local plant-care storage
// ABOUTME: Mirrors the hosted Postgres tables used by the core
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
CREATE TABLE IF NOT EXISTS ai_interactions (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    plant_id TEXT,
    interaction_type TEXT NOT NULL CHECK (interaction_type IN
        ('plant_identification', 'care_advice', 'disease_diagnosis', 'general_chat')),
    user_message TEXT NOT NULL,
    ai_response TEXT NOT NULL,
    confidence_score REAL CHECK (confidence_score IS NULL OR (confidence_score >= 0 AND confidence_score <= 1)),
    image_url TEXT,
    metadata TEXT,
    created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ai_interactions_user ON ai_interactions(user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_ai_interactions_plant ON ai_interactions(plant_id, created_at DESC);

CREATE TABLE IF NOT EXISTS achievements (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    achievement_type TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    icon TEXT NOT NULL DEFAULT '',
    color TEXT NOT NULL DEFAULT '',
    completed INTEGER NOT NULL DEFAULT 0,
    completed_at DATETIME,
    created_at DATETIME NOT NULL,
    UNIQUE (user_id, achievement_type)
);

CREATE TABLE IF NOT EXISTS plants (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    name TEXT NOT NULL,
    species TEXT NOT NULL DEFAULT '',
    sunlight INTEGER NOT NULL DEFAULT 0,
    level INTEGER NOT NULL DEFAULT 1,
    archived INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_plants_user ON plants(user_id, archived);

CREATE TABLE IF NOT EXISTS care_logs (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    plant_id TEXT NOT NULL REFERENCES plants(id) ON DELETE CASCADE,
    action TEXT NOT NULL,
    created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_care_logs_user ON care_logs(user_id, action);
`
