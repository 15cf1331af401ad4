// Package auth provides authentication and authorization for the library API.
//
// It supports two authentication modes:
//   - "none": No authentication required, all requests use a default user ID
//   - "local": Local user database with session cookies for browsers and
//     Bearer tokens for API clients
//
// # Configuration
//
// Set AUTH_MODE environment variable to select the mode:
//
//	AUTH_MODE=none   # Local development only
//	AUTH_MODE=local  # Default, requires registration and login
//
// For local mode, additional configuration:
//
//	AUTH_SESSION_SECRET=<hex-32-bytes>     # Auto-generated if empty
//	AUTH_SESSION_LIFETIME=24h              # Session duration
//	AUTH_TOKEN_EXPIRY=720h                 # API token expiry (30 days default)
//	AUTH_BCRYPT_COST=12                    # bcrypt cost factor
//	AUTH_SECURE_COOKIES=true               # HTTPS-only cookies
//
// The first registered account becomes the library admin; everyone after
// that is a regular member. Role checks happen server-side through
// Middleware.RequireRole.
package auth
