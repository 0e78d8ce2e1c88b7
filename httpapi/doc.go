// Package httpapi is the thin wire boundary over the auth core: login,
// logout, and password-reset endpoints plus the single place where tagged
// engine errors become HTTP status codes and generic JSON bodies.
//
// Authentication failures are deliberately uninformative ("Invalid
// credentials", never which field was wrong) to avoid account enumeration.
// Validation and authorization failures are precise — they carry no
// account-existence signal.
package httpapi
