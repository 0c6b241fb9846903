/*
The middleware package defines what a middleware is in checkpoint and a set of basic middlewares.

The available middlewares are:
- CORS
- InjectClientIP
- InjectSession
- LogRequest
- RateLimit
- ReportPanic
- RequestID

A router runs its middlewares before validating a request or applying checks.
A middleware that writes a response without calling the next http.Handler
ends handling of that request.

The service package assembles these into a default chain, equivalent to:

	vs := middleware.NewVisitors()
	adpts := []middleware.Adapter{
		middleware.InjectClientIP(),
		middleware.RateLimit(vs),
		middleware.RequestID(),
		middleware.LogRequest(log),
		middleware.InjectSession(sessionStore),
	}
*/
package middleware
