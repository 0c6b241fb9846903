/*
Package router routes HTTP requests to the endpoints a checkpoint service serves.

A [*Router] utilizes [mux.Router] for its implementation,
and so functions as thin wrapper around that package.

A [*Router] leverages a standardized data model - an [endpoint.Endpoint] -
when registering how requests should be routed.
An [*endpoint.Dispatcher] turns each Endpoint into the handler validating,
checking and finally serving a request.
Before a request gets to that handler, though,
the middlewares applied to every request and those added to the Endpoint are called
in the order they appear.
A middleware that responds without calling the next handler ends the request there.

It is often the case that many endpoints share identical checks,
e.g. a set of endpoints behind the same API key.
UseChecks applies checks to every endpoint a Router, often a Subrouter, handles afterwards,
before the checks of the Endpoint itself.

Requests matching no endpoint, by path or by method, receive 404.
*/
package router
