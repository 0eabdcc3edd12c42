package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

// SessionContextKey - ключ, по которому мы храним *session.Session в context
const SessionContextKey = contextKey("session")
