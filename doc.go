// Package auth provides the authentication core of the bookmarks API:
// password hashing, the identity store, HS256 token issuance and the
// request guard.
//
// Sign-up and sign-in:
//   - Auther.SignUp hashes the password (argon2id by default, bcrypt digests
//     still verify through MultiHasher) and performs one store write. The
//     store unique index is the only arbiter of concurrent sign-ups for the
//     same email; its violation surfaces as ErrDuplicateIdentity.
//   - Auther.SignIn never tells an unknown email apart from a wrong password,
//     both return ErrInvalidCredentials after the same amount of hashing work.
//
// Authorization:
//   - Guard.Authorize is a pure decision for one request. Public routes pass
//     without looking at the header, protected routes need a valid bearer
//     token whose subject still resolves to a stored identity.
//   - The middleware/jwtware package mounts the guard per route on fiber and
//     attaches the PublicUser to the request context, see FromContext.
//
// Activity sinks:
//   - ActivitySink is a light-weight audit emitter used by Auther for sign-up,
//     sign-in and profile events. Sinks run best-effort (errors are logged).
package auth
