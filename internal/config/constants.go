package config

const (
	// DefaultDatabasePath is the default path for the catalog database
	DefaultDatabasePath = "./mediatracker.db"

	// DefaultBackupDir is where scheduled CSV backups are written
	DefaultBackupDir = "./backups"
)
