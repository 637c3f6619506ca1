// Package server provides HTTP routing, middleware, and the JSON API over the lifecycle engines.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally and registers "METHOD /path/{param}" patterns,
// so the mux answers unknown methods with 405 and exposes path parameters through [http.Request.PathValue].
//
// # Handler Interface
//
// Handlers implement the [Handler] interface and return their [Route] list, which keeps route definitions
// next to the code serving them. A route may carry its own middleware, applied inside the router's stack;
// this is where the session and moderator gates live.
//
// # Gates
//
// [RequireSession] answers 401 when nobody is signed in. [RequireModerator] answers 401 without a session and
// 403 for any identity other than the moderator. The engines repeat these checks before every mutation,
// so a route registered without its gate still cannot perform a privileged transition.
//
// # Errors
//
// Engine errors are mapped by kind: validation 400, not authenticated 401, authorization 403,
// not found 404, duplicate 409, anything else 500. Error bodies are {"error": "...", "kind": "..."}.
package server
