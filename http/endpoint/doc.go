/*
Package endpoint describes HTTP endpoints as data and dispatches requests to them.

An Endpoint declares where its inputs live and what types they have,
the checks a request must pass and the handler serving it.
A Dispatcher turns an Endpoint into an http.Handler that, for every request:

  - parses the request into a req.Input
  - validates the Input against the Endpoint's Groups, responding 400 on failure
  - applies the Endpoint's checks in order, responding with the first rejection
  - calls the Endpoint's Handler, with the Input and check.Results on the request context

A handler reads what the Dispatcher stored with req.InputFromContext and check.ResultsFromContext.
*/
package endpoint
