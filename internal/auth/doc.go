// Package auth provides registration, login and session management for
// lecturer accounts.
//
// Credentials live in the users table (bcrypt hashes); sessions are
// server-side records managed by alexedwards/scs with a SQLite store and
// referenced by an opaque cookie token. Login failures are deliberately
// indistinguishable between "no such user" and "wrong password".
//
// # Configuration
//
//	SECRET_KEY=<random string>   # required unless DEBUG=true
//	SESSION_LIFETIME=24h         # session duration
//	BCRYPT_COST=12               # bcrypt cost factor
//	SECURE_COOKIES=true          # HTTPS-only cookies
//
// # Usage
//
// Initialize in entrypoint:
//
//	svc := auth.NewService(userRepo, cfg.Auth)
//	sm, _ := auth.NewSessionManager(sqlDB, cfg.Auth)
//	router.Use(sm.SessionLoadSave())
//	router.Use(auth.NewMiddleware(svc, sm).Handler())
package auth
