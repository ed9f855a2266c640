package api

import (
	"context"

	"vrent/pkg/erp"
)

type ctxKey string

const ctxKeyStaff ctxKey = "staff"

func WithStaff(ctx context.Context, s *erp.Staff) context.Context {
	return context.WithValue(ctx, ctxKeyStaff, s)
}

func StaffFromContext(ctx context.Context) *erp.Staff {
	v := ctx.Value(ctxKeyStaff)
	if v == nil {
		return nil
	}
	s, _ := v.(*erp.Staff)
	return s
}
