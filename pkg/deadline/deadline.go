// deadline навешивает таймаут на контекст, не трогая уже заданный дедлайн.
package deadline

import (
	"context"
	"time"
)

// Ensure возвращает контекст с таймаутом d.
//
// Контракт:
//  1. d <= 0 — контекст возвращается без изменений;
//  2. дедлайн уже задан во входящем ctx — не модифицирует его;
//  3. иначе — context.WithTimeout(ctx, d).
//
// cancel всегда не nil и должен быть вызван.
func Ensure(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}

	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, d)
}
