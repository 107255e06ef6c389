// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig covers framework-level settings (HTTP ports, TLS,
// logging, CORS). AppConfig is everything specific to CircleHub: the Mongo
// connection, the identity-service token key, and audit logging knobs.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// AuthTokenKey verifies bearer tokens minted by the identity service.
	// Must match the identity service's HS256 signing key.
	AuthTokenKey string

	// Audit logging settings: "all" (db+log), "db", "log", or "off".
	AuditLogGroup      string
	AuditLogMembership string
	AuditLogModeration string
}
