package async

import "context"

// Resource is a scoped resource usable with [With]: Enter acquires it,
// Exit releases it unconditionally, and is told the cause (nil on
// success) so cleanup logic can distinguish normal completion from
// failure or cancellation.
type Resource interface {
	Enter(ctx context.Context) error
	Exit(ctx context.Context, cause error) error
}

// With runs factory scoped to resource, following the spec's enter /
// body / exit contract:
//  1. resource.Enter(ctx) — any error aborts before factory runs.
//  2. factory(ctx, resource) — its value or error is captured.
//  3. resource.Exit always runs, even if step 2 panicked, unwound via
//     cancellation, or ctx was already cancelled — Exit is given a
//     context derived from context.Background, deliberately unconnected
//     to ctx's cancellation, so a caller who cancelled step 2 does not
//     also cancel cleanup out from under it.
//
// If factory errors, that error is reported first (after Exit completes);
// an Exit error is never silently dropped, though — if both fail, the
// two are composed into an [AggregateError] so a caller inspecting the
// returned error via errors.Is/errors.As still sees both causes, not just
// whichever was returned.
func With[R Resource, T any](ctx context.Context, resource R, factory func(ctx context.Context, r R) (T, error)) (result T, err error) {
	if enterErr := resource.Enter(ctx); enterErr != nil {
		var zero T
		return zero, enterErr
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				err = &UserException{Panic: r, Recovered: true, Stack: captureStack(nil)}
			}
		}()
		result, err = factory(ctx, resource)
	}()

	exitErr := resource.Exit(context.Background(), err)
	switch {
	case err != nil && exitErr != nil:
		return result, &AggregateError{Errors: []error{err, exitErr}}
	case err == nil && exitErr != nil:
		var zero T
		return zero, exitErr
	default:
		return result, err
	}
}
