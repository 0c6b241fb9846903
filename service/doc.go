/*
Package service initializes and manages a checkpoint service with sane defaults.

The main entrypoint to package service is the [Service] type,
constructed with [New] from a [config.Config].

A [*Service] serves, besides the endpoints registered on it:
  - GET / answering "Server working!"
  - GET /metrics exposing Prometheus metrics

Every request passes through, in order:
CORS, IP address injection, rate limiting, request ids, request logging and session injection.

[*Service.Run] begins serving after running an initialization function;
[*Service.Close] stops serving before running a closing function.
Both report how that went as a [resp.StatusBody].

[*Service.Guide] runs the service until a signal [*Service.Guide] listens for arrives.
*/
package service
