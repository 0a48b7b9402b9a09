package requestdata

import (
	"context"
)

type ctxKey struct{}

var requestDataKey ctxKey

type RequestData struct {
	TokenString  string
	RefreshToken string
	UserID       uint
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if rd, ok := ctx.Value(requestDataKey).(*RequestData); ok {
		return rd
	}
	return nil
}

// UserID returns the authenticated user's id, or zero when the
// request carries no authenticated viewer.
func UserID(ctx context.Context) uint {
	if rd := GetRequestData(ctx); rd != nil {
		return rd.UserID
	}
	return 0
}
