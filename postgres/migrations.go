package postgres

import "gorm.io/gorm"

// Migrations is every migration the checkpoint schema needs, in order.
var Migrations = []Migration{
	{
		Key: "20240301_create_api_credentials",
		Executor: func(db *gorm.DB) error {
			return db.Exec(`
				CREATE TABLE api_credentials (
					id SERIAL PRIMARY KEY,
					key text NOT NULL,
					owner text NOT NULL,
					disabled boolean NOT NULL DEFAULT false,
					created_at timestamptz NOT NULL DEFAULT now(),
					updated_at timestamptz NOT NULL DEFAULT now(),
					CONSTRAINT api_credentials_key UNIQUE (key)
				)
			`).Error
		},
	},
}
