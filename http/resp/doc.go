/*
The resp package provides a high-level API for responding to HTTP requests
with an easy way to configure the responses service-wide.

resp writes JSON bodies verbatim: what Data sets is what the client receives.
Failures the service itself answers share one shape:

	{"status":"Error","message":"..."}
*/
package resp
