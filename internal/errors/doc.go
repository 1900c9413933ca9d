// Package errors provides structured errors for the pokebattle-api project.
//
// Errors carry a Code, a user-facing Message, an optional Cause and free-form
// metadata. The HTTP layer converts them with Code.HTTPStatus.
//
// # Basic Usage
//
//	err := errors.NotFound("pokemon not found").WithMeta("name", name)
//
//	if err := client.GetPokemon(ctx, name); err != nil {
//	    return errors.Wrap(err, "failed to fetch pokemon")
//	}
//
// Changing error semantics:
//
//	if errors.IsNotFound(err) {
//	    return errors.WrapWithCode(err, errors.CodeInvalidArgument, "One or both Pokemon not found")
//	}
//
// # Layer-Specific Guidelines
//
// Client layer:
//   - Upstream 404 becomes NotFound
//   - Transient upstream failures become Unavailable after retries
//
// Orchestrator layer:
//   - Validate inputs and return InvalidArgument errors
//   - Wrap client and repository errors with business context
//
// Handler layer:
//   - Convert errors to HTTP status codes
//   - Log internal errors for debugging
package errors
