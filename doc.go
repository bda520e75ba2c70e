// Package auth implements credential based authentication and role based
// authorization for the club platform: registration, login, JWT issuance
// and validation, and an HTTP guard for protected routes.
//
// Identity model:
//   - Users are stored via Bun with a unique, normalized email. Emails are
//     lowercased and trimmed by the service before every write and lookup,
//     never by storage hooks.
//   - Roles are plain string tags on the user record. A user is created with
//     the baseline "user" role; routes declare the role set they require and
//     the guard checks membership on every request.
//
// Tokens:
//   - Tokens are self contained HS256 JWTs carrying the user id and an
//     expiration (default two hours). There is no server side session state;
//     the guard re-validates the signature and re-fetches the identity on
//     each protected request, so deactivated accounts are cut off even while
//     their tokens are still cryptographically valid. There is no revocation
//     list; exposure of a leaked token is bounded by the TTL.
package auth
