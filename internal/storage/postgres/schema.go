// ABOUTME: Bootstrap schema for a fresh Postgres database
// ABOUTME: The hosted schema is owned elsewhere; this is only applied on request
package postgres

// Schema creates the tables read and written by the core
const Schema = `
CREATE TABLE IF NOT EXISTS ai_interactions (
    id UUID PRIMARY KEY,
    user_id TEXT NOT NULL,
    plant_id TEXT,
    interaction_type TEXT NOT NULL CHECK (interaction_type IN
        ('plant_identification', 'care_advice', 'disease_diagnosis', 'general_chat')),
    user_message TEXT NOT NULL,
    ai_response TEXT NOT NULL,
    confidence_score DOUBLE PRECISION CHECK (confidence_score IS NULL OR confidence_score BETWEEN 0 AND 1),
    image_url TEXT,
    metadata JSONB,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_ai_interactions_user ON ai_interactions(user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_ai_interactions_plant ON ai_interactions(plant_id, created_at DESC);

CREATE TABLE IF NOT EXISTS achievements (
    id UUID PRIMARY KEY,
    user_id TEXT NOT NULL,
    achievement_type TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    icon TEXT NOT NULL DEFAULT '',
    color TEXT NOT NULL DEFAULT '',
    completed BOOLEAN NOT NULL DEFAULT false,
    completed_at TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (user_id, achievement_type)
);

CREATE TABLE IF NOT EXISTS plants (
    id UUID PRIMARY KEY,
    user_id TEXT NOT NULL,
    name TEXT NOT NULL,
    species TEXT NOT NULL DEFAULT '',
    sunlight INTEGER NOT NULL DEFAULT 0,
    level INTEGER NOT NULL DEFAULT 1,
    archived BOOLEAN NOT NULL DEFAULT false,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS care_logs (
    id UUID PRIMARY KEY,
    user_id TEXT NOT NULL,
    plant_id UUID NOT NULL REFERENCES plants(id) ON DELETE CASCADE,
    action TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_care_logs_user ON care_logs(user_id, action);
`
