// Package session persists the signed-in user's session record: the auth
// token, the user profile issued with it, and the independent
// biometric-unlock preference.
//
// Layout in the key-value store:
//
//	auth_token         JSON string
//	user_data          JSON object, at least {"studentId": "..."}
//	biometric_enabled  JSON bool
//	session_pending    JSON bool, present only while a non-atomic save is in flight
//
// Token and profile are one logical record. On stores that support atomic
// batches they are written and removed in one batch. Elsewhere Save first
// drops the session_pending marker, writes both keys concurrently and removes
// the marker last, so an interrupted save is visible to the next Load as
// Record.Partial.
package session
