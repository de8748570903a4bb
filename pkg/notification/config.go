package notification

// Config holds notification store configuration.
// The retention cap bounds how many notifications are kept per user;
// anything older than the N most recent is evicted on write.
type Config struct {
	Database     string `env:"NOTIFICATIONS_DB_NAME" envDefault:"notifyd"`  // Database is the MongoDB database name.
	Collection   string `env:"NOTIFICATIONS_COLLECTION" envDefault:"users"` // Collection holds one document per user.
	RetentionCap int    `env:"NOTIFICATIONS_RETENTION_CAP" envDefault:"3"`  // RetentionCap is the per-user log size bound.
}
