package store

// Timestamps are stored as unix milliseconds so both drivers scan them
// into int64 without dialect-specific time handling.

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS questions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		subject_code TEXT NOT NULL,
		subject_name TEXT NOT NULL,
		topic_number INTEGER,
		topic_title TEXT NOT NULL,
		text TEXT NOT NULL,
		options TEXT NOT NULL,
		correct_answer TEXT NOT NULL,
		explanation TEXT NOT NULL DEFAULT '',
		failed_count INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_questions_subject_topic ON questions(subject_code, topic_number)`,
	`CREATE TABLE IF NOT EXISTS attempts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		subject_code TEXT NOT NULL,
		topic_number INTEGER,
		score INTEGER NOT NULL,
		answers TEXT NOT NULL,
		answered_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_attempts_user_answered ON attempts(user_id, answered_at DESC)`,
	`CREATE TABLE IF NOT EXISTS failed_questions (
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		question_id INTEGER NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
		PRIMARY KEY (user_id, question_id)
	)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS questions (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		subject_code TEXT NOT NULL,
		subject_name TEXT NOT NULL,
		topic_number INTEGER,
		topic_title TEXT NOT NULL,
		text TEXT NOT NULL,
		options TEXT NOT NULL,
		correct_answer TEXT NOT NULL,
		explanation TEXT NOT NULL DEFAULT '',
		failed_count INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_questions_subject_topic ON questions(subject_code, topic_number)`,
	`CREATE TABLE IF NOT EXISTS attempts (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		subject_code TEXT NOT NULL,
		topic_number INTEGER,
		score INTEGER NOT NULL,
		answers TEXT NOT NULL,
		answered_at BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_attempts_user_answered ON attempts(user_id, answered_at DESC)`,
	`CREATE TABLE IF NOT EXISTS failed_questions (
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		question_id BIGINT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
		PRIMARY KEY (user_id, question_id)
	)`,
}
