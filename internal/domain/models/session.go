package models

// Session identifies the actor behind a ledger or import call. It is built per
// request and threaded explicitly into services; there is no global user state.
type Session struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// Anonymous is the fallback session when the caller did not identify itself.
func Anonymous() Session {
	return Session{UserID: "anonymous"}
}
