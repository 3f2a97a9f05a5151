package contextkeys

import "context"

type contextKey string

const (
	UserIDKey    contextKey = "UserID"
	UserRoleKey  contextKey = "UserRole"
	SessionIDKey contextKey = "SessionID"
)

// WithSession кладёт в контекст данные аутентифицированной сессии.
func WithSession(ctx context.Context, userID uint64, role string, sessionID string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	ctx = context.WithValue(ctx, UserRoleKey, role)
	return context.WithValue(ctx, SessionIDKey, sessionID)
}

func UserID(ctx context.Context) (uint64, bool) {
	id, ok := ctx.Value(UserIDKey).(uint64)
	return id, ok && id > 0
}

func UserRole(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(UserRoleKey).(string)
	return role, ok && role != ""
}

func SessionID(ctx context.Context) (string, bool) {
	sid, ok := ctx.Value(SessionIDKey).(string)
	return sid, ok && sid != ""
}
